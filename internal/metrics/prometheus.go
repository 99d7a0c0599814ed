package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the service
type Metrics struct {
	statesRequests *prometheus.CounterVec
	statesLatency  prometheus.Histogram
	statesMarkers  prometheus.Histogram
	statesZooms    prometheus.Histogram
	placesRequests *prometheus.CounterVec
	placesLatency  *prometheus.HistogramVec
}

// NewMetrics creates the service metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statesRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "map_states_requests_total",
				Help: "Total number of map states computations by outcome",
			},
			[]string{"status"},
		),
		statesLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "map_states_latency_ms",
				Help:    "Latency of map states computations in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
		),
		statesMarkers: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "map_states_markers",
				Help:    "Number of markers per map states request",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		statesZooms: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "map_states_candidate_zooms",
				Help:    "Number of candidate zoom levels evaluated per request",
				Buckets: []float64{1, 2, 4, 8, 12, 16, 20, 24, 32},
			},
		),
		placesRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "places_requests_total",
				Help: "Total number of place queries by endpoint and outcome",
			},
			[]string{"endpoint", "status"},
		),
		placesLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "places_query_latency_ms",
				Help:    "Latency of place queries in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"endpoint"},
		),
	}
}

// RecordStates records one map states computation. A nil receiver is a no-op.
func (m *Metrics) RecordStates(status string, latency time.Duration, markers, zooms int) {
	if m == nil {
		return
	}
	m.statesRequests.WithLabelValues(status).Inc()
	m.statesLatency.Observe(float64(latency.Microseconds()) / 1000.0)
	m.statesMarkers.Observe(float64(markers))
	if zooms > 0 {
		m.statesZooms.Observe(float64(zooms))
	}
}

// RecordPlaces records one place query.
func (m *Metrics) RecordPlaces(endpoint, status string, latency time.Duration) {
	if m == nil {
		return
	}
	m.placesRequests.WithLabelValues(endpoint, status).Inc()
	m.placesLatency.WithLabelValues(endpoint).Observe(float64(latency.Microseconds()) / 1000.0)
}
