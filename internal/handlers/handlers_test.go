package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"placemap-service/internal/metrics"
	"placemap-service/internal/models"
	"placemap-service/internal/repository"
	"placemap-service/internal/services"
)

type stubPlaceRepository struct {
	places []models.Place
}

func (s *stubPlaceRepository) ListPlaces(_ context.Context, filter models.PlaceFilter) ([]models.Place, error) {
	if filter.Limit < len(s.places) {
		return s.places[:filter.Limit], nil
	}
	return s.places, nil
}

func (s *stubPlaceRepository) GetPlace(_ context.Context, fid int64) (*models.Place, error) {
	for _, p := range s.places {
		if p.OgcFid == fid {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestApp(repo repository.PlaceRepository, timeout time.Duration) *fiber.App {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	mapService := services.NewMapService(services.MapServiceOptions{Logger: zerolog.Nop()})
	placeService := services.NewPlaceService(repo, 100, zerolog.Nop())

	app := fiber.New()
	app.Use(RequestLogger(zerolog.Nop()))

	mh := NewMapHandler(mapService, m, timeout)
	ph := NewPlaceHandler(placeService, m)
	api := app.Group("/api")
	api.Post("/states", mh.States)
	api.Get("/places", ph.ListPlaces)
	api.Get("/place", ph.GetPlace)
	return app
}

func postStates(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/states", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func TestStatesEndpoint(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	resp := postStates(t, app, `{
		"parameters": {"mapSize": 512, "zoomMin": 0, "zoomMax": 1, "zoomScale": 1},
		"input": [
			{"id": "a", "rank": 1, "lat": 0, "lng": 0, "width": 10, "height": 10, "margin": 0},
			{"id": "b", "rank": 2, "lat": 0, "lng": 1, "width": 10, "height": 10, "margin": 0}
		]
	}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	assert.NotEmpty(t, resp.Header.Get("X-Latency-Total-Ms"))
	assert.NotEmpty(t, resp.Header.Get("X-Latency-Assign-Ms"))
	assert.Equal(t, "2", resp.Header.Get("X-Candidate-Zooms"))
	assert.Empty(t, resp.Header.Get(PartialResultHeader))

	var records []models.VisibilityRecord
	decode(t, resp, &records)
	assert.Equal(t, []models.VisibilityRecord{
		{FirstVisibleZoom: 0, Orientations: []models.Orientation{{Zoom: 0, AngleIndex: 9}, {Zoom: 2, AngleIndex: 0}}},
		{FirstVisibleZoom: 2, Orientations: []models.Orientation{{Zoom: 2, AngleIndex: 6}}},
	}, records)
}

func TestStatesEndpointEmptyInput(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	resp := postStates(t, app, `{"parameters": {"mapSize": 512, "zoomMin": 0, "zoomMax": 4}, "input": []}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStatesEndpointRejectsMalformedBody(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	resp := postStates(t, app, `{"parameters": `)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, InvalidBodyError, body["message"])
}

func TestStatesEndpointRejectsInvalidInput(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	resp := postStates(t, app, `{"parameters": {"mapSize": 0, "zoomMin": 0, "zoomMax": 4}, "input": [{"lat": 0, "lng": 0}]}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
		Details struct {
			Index int    `json:"index"`
			Field string `json:"field"`
		} `json:"details"`
	}
	decode(t, resp, &body)
	assert.True(t, body.Error)
	assert.Equal(t, -1, body.Details.Index)
	assert.Equal(t, "mapSize", body.Details.Field)
}

func TestStatesEndpointKeepsRequestID(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/states", strings.NewReader(`{"parameters":{"mapSize":512},"input":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func TestPlacesEndpoints(t *testing.T) {
	repo := &stubPlaceRepository{places: []models.Place{
		{OgcFid: 1, NamesPrimary: "Corner Cafe", Latitude: 48.1, Longitude: 11.5, Confidence: 0.9},
		{OgcFid: 2, NamesPrimary: "Night Bar", Latitude: 48.2, Longitude: 11.6, Confidence: 0.7},
	}}
	app := newTestApp(repo, time.Minute)

	t.Run("list", func(t *testing.T) {
		resp := get(t, app, "/api/places?limit=1")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var places []models.Place
		decode(t, resp, &places)
		require.Len(t, places, 1)
		assert.Equal(t, "Corner Cafe", places[0].NamesPrimary)
		assert.Equal(t, "limit=1", resp.Header.Get(AppliedFilterHeader))
	})

	t.Run("limit above maximum", func(t *testing.T) {
		resp := get(t, app, "/api/places?limit=5000")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "limit=100", resp.Header.Get(AppliedFilterHeader))
	})

	t.Run("geojson", func(t *testing.T) {
		resp := get(t, app, "/api/places?format=geojson&latitude=48.1&longitude=11.5&radius=50")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/geo+json")
		assert.Equal(t, "latitude=48.1&limit=100&longitude=11.5&radius=50", resp.Header.Get(AppliedFilterHeader))

		var fc struct {
			Type     string `json:"type"`
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		}
		decode(t, resp, &fc)
		assert.Equal(t, "FeatureCollection", fc.Type)
		require.Len(t, fc.Features, 2)
		assert.Equal(t, 0.0, fc.Features[0].Properties["distanceMeters"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		resp := get(t, app, "/api/places?format=xml")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("single", func(t *testing.T) {
		resp := get(t, app, "/api/place?fid=2")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var place models.Place
		decode(t, resp, &place)
		assert.Equal(t, "Night Bar", place.NamesPrimary)
	})

	t.Run("missing", func(t *testing.T) {
		resp := get(t, app, "/api/place?fid=99")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid fid", func(t *testing.T) {
		resp := get(t, app, "/api/place?fid=abc")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestPlacesEndpointsWithoutDatabase(t *testing.T) {
	app := newTestApp(nil, time.Minute)

	for _, target := range []string{"/api/places", "/api/place?fid=1"} {
		resp := get(t, app, target)
		require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, target)

		var body map[string]any
		decode(t, resp, &body)
		assert.Equal(t, DatabaseNotConfiguredError, body["message"])
	}
}
