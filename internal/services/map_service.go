package services

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"placemap-service/internal/metrics"
	"placemap-service/internal/models"
	"placemap-service/internal/supercluster"
	"placemap-service/internal/utils"
)

const (
	// MaxZoomLevel bounds zoomMin and zoomMax of a request.
	MaxZoomLevel = 30

	clusterMinPoints = 2
	clusterNodeSize  = 64
)

// StatesResult is the outcome of a map states computation.
type StatesResult struct {
	Records []models.VisibilityRecord
	Zooms   []int
	// Partial is set when the computation stopped early and Records only
	// reflect the zooms completed before that.
	Partial bool
}

// MapServiceOptions configures a MapService.
type MapServiceOptions struct {
	Workers           int
	ParallelThreshold int
	Logger            zerolog.Logger
}

// MapService computes marker visibility and label orientation for a map.
// It holds no per-request state and is safe for concurrent use.
type MapService struct {
	assigner Assigner
	logger   zerolog.Logger
}

// NewMapService creates a new map service
func NewMapService(opts MapServiceOptions) *MapService {
	return &MapService{
		assigner: Assigner{Workers: opts.Workers, ParallelThreshold: opts.ParallelThreshold},
		logger:   opts.Logger.With().Str("component", "map_service").Logger(),
	}
}

// States computes one VisibilityRecord per marker of req, in input order.
// When ctx ends during the computation the records computed so far are
// returned with Partial set together with ctx.Err().
func (s *MapService) States(ctx context.Context, req *models.MapStatesRequest, timings *metrics.PhaseTimings) (*StatesResult, error) {
	if len(req.Input) == 0 {
		return &StatesResult{Records: []models.VisibilityRecord{}}, nil
	}
	if err := ValidateStatesRequest(req); err != nil {
		return nil, err
	}

	started := time.Now()
	p := req.Parameters
	n := len(req.Input)

	timings.Start("prepare")
	index := BuildIndex(req)
	timings.End("prepare")

	timings.Start("scan")
	zooms, err := ExpansionZooms(ctx, index, p.ZoomMin, p.ZoomMax)
	timings.End("scan")
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return &StatesResult{Records: models.NewVisibilityRecords(n), Zooms: zooms, Partial: true}, err
		}
		return nil, err
	}

	timings.Start("assign")
	records, err := s.assigner.Assign(ctx, index, zooms, n)
	timings.End("assign")
	if err != nil {
		if records != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return &StatesResult{Records: records, Zooms: zooms, Partial: true}, err
		}
		return nil, err
	}

	s.logger.Debug().
		Int("markers", n).
		Ints("zooms", zooms).
		Dur("duration", time.Since(started)).
		Msg("Computed map states")

	return &StatesResult{Records: records, Zooms: zooms}, nil
}

// ValidateStatesRequest checks the parameters and marker positions of a
// non-empty request.
func ValidateStatesRequest(req *models.MapStatesRequest) error {
	p := req.Parameters
	if !utils.IsFinite(p.MapSize) || p.MapSize <= 0 {
		return &InvalidInputError{Index: -1, Field: "mapSize", Value: p.MapSize}
	}
	if p.ZoomMin < 0 || p.ZoomMin > MaxZoomLevel {
		return &InvalidInputError{Index: -1, Field: "zoomMin", Value: float64(p.ZoomMin)}
	}
	if p.ZoomMax < 0 || p.ZoomMax > MaxZoomLevel {
		return &InvalidInputError{Index: -1, Field: "zoomMax", Value: float64(p.ZoomMax)}
	}
	if len(req.Input) > 0 && !utils.IsFinite(req.Input[0].Width) {
		return &InvalidInputError{Index: 0, Field: "width", Value: req.Input[0].Width}
	}

	for i, m := range req.Input {
		if !utils.IsFinite(m.Lat) {
			return &InvalidInputError{Index: i, Field: "lat", Value: m.Lat}
		}
		if !utils.IsFinite(m.Lng) {
			return &InvalidInputError{Index: i, Field: "lng", Value: m.Lng}
		}
	}
	return nil
}

// ClusterRadius returns the clustering radius of a request. Only the first
// marker's width is taken into account.
func ClusterRadius(req *models.MapStatesRequest) float64 {
	radius := req.Parameters.MapSize / 10
	if len(req.Input) > 0 {
		radius = math.Max(req.Input[0].Width, radius)
	}
	return radius
}

// BuildIndex loads the markers of req into a fresh clustering index. The
// marker's position in the input is its point index.
func BuildIndex(req *models.MapStatesRequest) *supercluster.Supercluster {
	p := req.Parameters
	index := supercluster.NewSupercluster(supercluster.Options{
		MinZoom:   p.ZoomMin,
		MaxZoom:   p.ZoomMax,
		MinPoints: clusterMinPoints,
		Radius:    ClusterRadius(req),
		Extent:    p.MapSize,
		NodeSize:  clusterNodeSize,
	})

	points := make([]supercluster.Point, len(req.Input))
	for i, m := range req.Input {
		points[i] = supercluster.Point{Index: i, Lng: m.Lng, Lat: m.Lat}
	}
	index.Load(points)
	return index
}
