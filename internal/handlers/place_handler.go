package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"placemap-service/internal/filters"
	"placemap-service/internal/metrics"
	"placemap-service/internal/models"
	"placemap-service/internal/services"
)

const DatabaseNotConfiguredError = "Database not configured"
const PlaceNotFoundError = "place not found"
const InvalidFidError = "invalid fid"

// AppliedFilterHeader carries the normalized filter of a place listing as a query string.
const AppliedFilterHeader = "X-Applied-Filter"

// PlaceHandler serves place queries.
type PlaceHandler struct {
	Service *services.PlaceService
	Metrics *metrics.Metrics
}

// NewPlaceHandler creates a new PlaceHandler with the given PlaceService.
func NewPlaceHandler(service *services.PlaceService, m *metrics.Metrics) *PlaceHandler {
	return &PlaceHandler{Service: service, Metrics: m}
}

// ListPlaces handles GET /places to query places.
// @Summary List places
// @Description Lists places ordered by confidence, optionally filtered by category, country, confidence and radius
// @Tags places
// @Produce json
// @Param limit query int false "Maximum number of places"
// @Param categories query string false "Comma separated categories"
// @Param countries query string false "Comma separated country codes"
// @Param confidenceMin query number false "Minimum confidence (0-1 or 0-100)"
// @Param confidenceMax query number false "Maximum confidence (0-1 or 0-100)"
// @Param latitude query number false "Center latitude"
// @Param longitude query number false "Center longitude"
// @Param radius query number false "Radius in kilometers"
// @Param format query string false "json or geojson"
// @Success 200 {array} models.Place "Matching places"
// @Header 200 {string} X-Applied-Filter "Normalized filter as a query string"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 503 {object} map[string]interface{} "Database not configured"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /places [get]
func (h *PlaceHandler) ListPlaces(c *fiber.Ctx) error {
	logger := requestLogger(c)
	start := time.Now()

	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		h.Metrics.RecordPlaces("list", "invalid", time.Since(start))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid query string", "details": err.Error(),
		})
	}

	values := filters.Extract(query, h.Service.PlaceParams())
	format, _ := values.String("format")
	if format != "json" && format != "geojson" {
		h.Metrics.RecordPlaces("list", "invalid", time.Since(start))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "unsupported format: " + format,
		})
	}

	filter := h.Service.NormalizeFilter(values)
	places, err := h.Service.ListPlaces(c.UserContext(), filter)
	if err != nil {
		return h.placeError(c, "list", start, err)
	}

	applied := h.Service.AppliedQuery(filter).Encode()
	logger.Info().Int("results", len(places)).Str("filter", applied).Msg("Listed places")
	h.Metrics.RecordPlaces("list", "ok", time.Since(start))
	c.Set(AppliedFilterHeader, applied)

	if format == "geojson" {
		return c.JSON(models.PlacesFeatureCollection(places), "application/geo+json")
	}
	return c.JSON(places)
}

// GetPlace handles GET /place to retrieve a single place.
// @Summary Get a place by fid
// @Description Get details of a single place by its ogc_fid
// @Tags places
// @Produce json
// @Param fid query int true "Place ogc_fid"
// @Success 200 {object} models.Place "Place found"
// @Failure 400 {object} map[string]interface{} "Invalid fid"
// @Failure 404 {object} map[string]interface{} "Place not found"
// @Failure 503 {object} map[string]interface{} "Database not configured"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /place [get]
func (h *PlaceHandler) GetPlace(c *fiber.Ctx) error {
	start := time.Now()

	fid, err := strconv.ParseInt(c.Query("fid"), 10, 64)
	if err != nil {
		h.Metrics.RecordPlaces("get", "invalid", time.Since(start))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": InvalidFidError,
		})
	}

	place, err := h.Service.GetPlace(c.UserContext(), fid)
	if err != nil {
		return h.placeError(c, "get", start, err)
	}

	h.Metrics.RecordPlaces("get", "ok", time.Since(start))
	return c.JSON(place)
}

func (h *PlaceHandler) placeError(c *fiber.Ctx, endpoint string, start time.Time, err error) error {
	switch {
	case errors.Is(err, services.ErrDatabaseNotConfigured):
		h.Metrics.RecordPlaces(endpoint, "unavailable", time.Since(start))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": true, "message": DatabaseNotConfiguredError,
		})
	case errors.Is(err, services.ErrPlaceNotFound):
		h.Metrics.RecordPlaces(endpoint, "not_found", time.Since(start))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": true, "message": PlaceNotFoundError,
		})
	default:
		requestLogger(c).Error().Err(err).Str("endpoint", endpoint).Msg("Place query failed")
		h.Metrics.RecordPlaces(endpoint, "error", time.Since(start))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": err.Error(),
		})
	}
}
