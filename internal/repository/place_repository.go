package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"placemap-service/internal/models"
)

// PlaceRepository defines read access to the places table
type PlaceRepository interface {
	ListPlaces(ctx context.Context, filter models.PlaceFilter) ([]models.Place, error)
	GetPlace(ctx context.Context, fid int64) (*models.Place, error)
}

// PlaceRepositoryImpl queries places from PostgreSQL/PostGIS.
type PlaceRepositoryImpl struct {
	db *gorm.DB
}

// NewPlaceRepository creates a new PlaceRepositoryImpl instance with the provided GORM database connection.
func NewPlaceRepository(db *gorm.DB) *PlaceRepositoryImpl {
	return &PlaceRepositoryImpl{db: db}
}

// ListPlaces returns places matching filter ordered by confidence.
func (r *PlaceRepositoryImpl) ListPlaces(ctx context.Context, filter models.PlaceFilter) ([]models.Place, error) {
	sql, args := placesQuery(filter)

	places := []models.Place{}
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&places).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query places")
	}
	return places, nil
}

// GetPlace returns the place with the given ogc_fid or gorm.ErrRecordNotFound.
func (r *PlaceRepositoryImpl) GetPlace(ctx context.Context, fid int64) (*models.Place, error) {
	sql, args := placeByFidQuery(fid)

	var place models.Place
	res := r.db.WithContext(ctx).Raw(sql, args...).Scan(&place)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "failed to query place %d", fid)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &place, nil
}
