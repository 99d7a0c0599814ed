package services

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"placemap-service/internal/filters"
	"placemap-service/internal/models"
	"placemap-service/internal/repository"
	"placemap-service/internal/utils"
)

// DefaultPlacesLimit caps place listings when no limit is configured.
const DefaultPlacesLimit = 10000

// PlaceService answers place queries. A nil repository means no database is
// configured.
type PlaceService struct {
	repo     repository.PlaceRepository
	maxLimit int
	logger   zerolog.Logger
}

// NewPlaceService creates a new place service
func NewPlaceService(repo repository.PlaceRepository, maxLimit int, logger zerolog.Logger) *PlaceService {
	if maxLimit <= 0 {
		maxLimit = DefaultPlacesLimit
	}
	return &PlaceService{
		repo:     repo,
		maxLimit: maxLimit,
		logger:   logger.With().Str("component", "place_service").Logger(),
	}
}

// PlaceParams returns the query parameters understood by ListPlaces.
// Limits above the configured maximum are dropped.
func (s *PlaceService) PlaceParams() map[string]filters.Definition {
	return map[string]filters.Definition{
		"limit":         {Kind: filters.Number, Max: filters.MaxOf(float64(s.maxLimit))},
		"format":        {Kind: filters.String, Default: "json"},
		"categories":    {Kind: filters.StringList},
		"countries":     {Kind: filters.StringList},
		"confidenceMin": {Kind: filters.Float},
		"confidenceMax": {Kind: filters.Float},
		"latitude":      {Kind: filters.Float},
		"longitude":     {Kind: filters.Float},
		"radius":        {Kind: filters.Float}, // kilometers
	}
}

// NormalizeFilter turns extracted query values into a PlaceFilter.
// Confidence bounds may be given on a 0..1 or 0..100 scale. A minimum of 0
// or a maximum of 100 is no bound at all. The radius filter applies only
// when latitude, longitude and a positive radius are all valid.
func (s *PlaceService) NormalizeFilter(values filters.Values) models.PlaceFilter {
	filter := models.PlaceFilter{Limit: s.maxLimit}

	if limit, ok := values.Int("limit"); ok && limit > 0 && limit < s.maxLimit {
		filter.Limit = limit
	}

	filter.Categories, _ = values.Strings("categories")
	filter.Countries, _ = values.Strings("countries")

	if v, ok := values.Float("confidenceMin"); ok && v > 0 {
		v = normalizeConfidence(v)
		filter.ConfidenceMin = &v
	}
	if v, ok := values.Float("confidenceMax"); ok && v < 100 {
		v = normalizeConfidence(v)
		filter.ConfidenceMax = &v
	}

	lat, okLat := values.Float("latitude")
	lon, okLon := values.Float("longitude")
	radiusKm, okRadius := values.Float("radius")
	if okLat && okLon && okRadius && utils.ValidLatLng(lat, lon) && radiusKm > 0 {
		filter.Center = &models.GeoPoint{Lat: lat, Lon: lon}
		filter.RadiusMeters = radiusKm * 1000
	}

	return filter
}

// AppliedQuery encodes filter as the query that reproduces it. Confidence
// bounds are on the 0..1 scale and the radius is in kilometers.
func (s *PlaceService) AppliedQuery(filter models.PlaceFilter) url.Values {
	values := filters.Values{
		"limit":      filter.Limit,
		"categories": filter.Categories,
		"countries":  filter.Countries,
	}
	if filter.ConfidenceMin != nil {
		values["confidenceMin"] = *filter.ConfidenceMin
	}
	if filter.ConfidenceMax != nil {
		values["confidenceMax"] = *filter.ConfidenceMax
	}
	if filter.HasRadius() {
		values["latitude"] = filter.Center.Lat
		values["longitude"] = filter.Center.Lon
		values["radius"] = filter.RadiusMeters / 1000
	}
	return filters.Encode(values)
}

func normalizeConfidence(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// ListPlaces returns the places matching filter. Radius queries carry the
// distance of each place to the center.
func (s *PlaceService) ListPlaces(ctx context.Context, filter models.PlaceFilter) ([]models.Place, error) {
	if s.repo == nil {
		return nil, ErrDatabaseNotConfigured
	}

	started := time.Now()
	places, err := s.repo.ListPlaces(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.HasRadius() {
		for i := range places {
			d := utils.HaversineDistance(filter.Center.Lat, filter.Center.Lon, places[i].Latitude, places[i].Longitude)
			places[i].DistanceMeters = &d
		}
	}

	s.logger.Debug().
		Int("results", len(places)).
		Int("limit", filter.Limit).
		Dur("duration", time.Since(started)).
		Msg("Listed places")
	return places, nil
}

// GetPlace returns a single place by its ogc_fid.
func (s *PlaceService) GetPlace(ctx context.Context, fid int64) (*models.Place, error) {
	if s.repo == nil {
		return nil, ErrDatabaseNotConfigured
	}

	place, err := s.repo.GetPlace(ctx, fid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrPlaceNotFound, "ogc_fid %d", fid)
	}
	if err != nil {
		return nil, err
	}
	return place, nil
}
