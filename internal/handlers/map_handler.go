package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"placemap-service/internal/metrics"
	"placemap-service/internal/models"
	"placemap-service/internal/services"
)

const InvalidBodyError = "invalid request body"
const PartialResultHeader = "X-Partial-Result"

// MapHandler serves the map states computation.
type MapHandler struct {
	Service *services.MapService
	Metrics *metrics.Metrics
	Timeout time.Duration
}

// NewMapHandler creates a new MapHandler. A zero timeout disables the deadline.
func NewMapHandler(service *services.MapService, m *metrics.Metrics, timeout time.Duration) *MapHandler {
	return &MapHandler{Service: service, Metrics: m, Timeout: timeout}
}

// States handles POST /states to compute marker visibility and label orientation.
// @Summary Compute map marker states
// @Description Computes, per marker, the first zoom it is visible at and its label orientation per zoom. Records are returned in input order.
// @Tags map
// @Accept json
// @Produce json
// @Param request body models.MapStatesRequest true "Map parameters and markers"
// @Success 200 {array} models.VisibilityRecord "One record per input marker"
// @Failure 400 {object} map[string]interface{} "Malformed body or invalid input"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /states [post]
func (h *MapHandler) States(c *fiber.Ctx) error {
	logger := requestLogger(c)
	timings := metrics.NewPhaseTimings()

	var req models.MapStatesRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn().Err(err).Msg("Invalid states request body")
		h.Metrics.RecordStates("invalid", time.Since(timings.TotalStartTime), 0, 0)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidBodyError, "details": err.Error(),
		})
	}

	ctx := c.UserContext()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	result, err := h.Service.States(ctx, &req, timings)
	timings.Finalize()
	for k, v := range timings.GetHeaders() {
		c.Set(k, v)
	}
	elapsed := time.Since(timings.TotalStartTime)

	var invalid *services.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		logger.Warn().Err(err).Msg("Invalid states input")
		h.Metrics.RecordStates("invalid", elapsed, len(req.Input), 0)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": err.Error(),
			"details": fiber.Map{"index": invalid.Index, "field": invalid.Field},
		})
	case err != nil && (result == nil || !result.Partial):
		logger.Error().Err(err).Int("markers", len(req.Input)).Msg("Failed to compute map states")
		h.Metrics.RecordStates("error", elapsed, len(req.Input), 0)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	case err != nil:
		logger.Warn().Err(err).
			Int("markers", len(req.Input)).
			Int("zooms", len(result.Zooms)).
			Msg("Returning partial map states")
		c.Set(PartialResultHeader, "true")
		h.Metrics.RecordStates("partial", elapsed, len(req.Input), len(result.Zooms))
	default:
		logger.Info().
			Int("markers", len(req.Input)).
			Int("zooms", len(result.Zooms)).
			Float64("latency_ms", timings.TotalLatencyMs).
			Msg("Computed map states")
		h.Metrics.RecordStates("ok", elapsed, len(req.Input), len(result.Zooms))
	}

	c.Set("X-Candidate-Zooms", strconv.Itoa(len(result.Zooms)))
	return c.JSON(result.Records)
}
