package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "placemap-service/docs"
	"placemap-service/internal/config"
	"placemap-service/internal/handlers"
	"placemap-service/internal/logging"
	"placemap-service/internal/metrics"
	"placemap-service/internal/repository"
	"placemap-service/internal/services"
)

// @title Placemap Service API
// @version 1.0
// @description Marker visibility and label orientation for clustered maps, plus place queries.
// @BasePath /api
func main() {
	cfg := InitConfig()
	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	mapService := services.NewMapService(services.MapServiceOptions{
		Workers:           cfg.ComputeWorkers,
		ParallelThreshold: cfg.ComputeParallelThreshold,
		Logger:            logger,
	})
	placeService := services.NewPlaceService(InitPlaceRepository(cfg, logger), cfg.PlacesMaxLimit, logger)

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(handlers.RequestLogger(logger))

	// Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	mh := handlers.NewMapHandler(mapService, m, cfg.ComputeTimeout)
	ph := handlers.NewPlaceHandler(placeService, m)

	api := app.Group("/api")
	api.Post("/states", mh.States)
	api.Get("/places", ph.ListPlaces)
	api.Get("/place", ph.GetPlace)

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Add Health check endpoint
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for _, r := range app.GetRoutes(true) {
		logger.Debug().Str("method", r.Method).Str("path", r.Path).Msg("Registered route")
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info().Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.AppPort).Msg("Server listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Config error")
	}
	return cfg
}

// InitPlaceRepository connects the places database when it is configured.
// A nil repository leaves the place endpoints reporting that no database is set up.
func InitPlaceRepository(cfg *config.Config, logger zerolog.Logger) repository.PlaceRepository {
	if !cfg.DatabaseConfigured() {
		logger.Warn().Msg("Database not configured, place endpoints disabled")
		return nil
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	return repository.NewPlaceRepository(db)
}
