package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPlacesFeatureCollection(t *testing.T) {
	brand := "Coffee Co"
	distance := 120.5
	places := []Place{
		{
			OgcFid:            7,
			ID:                "abc",
			NamesPrimary:      "Corner Cafe",
			CategoriesPrimary: "cafe",
			Confidence:        0.9,
			Websites:          datatypes.JSON(`["https://example.org"]`),
			BrandNamesPrimary: &brand,
			Latitude:          48.1,
			Longitude:         11.5,
			DistanceMeters:    &distance,
		},
	}

	data, err := json.Marshal(PlacesFeatureCollection(places))
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			ID       int64  `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, int64(7), f.ID)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{11.5, 48.1}, f.Geometry.Coordinates)
	assert.Equal(t, "Corner Cafe", f.Properties["names.primary"])
	assert.Equal(t, "Coffee Co", f.Properties["brand.names.primary"])
	assert.Equal(t, 120.5, f.Properties["distanceMeters"])
	assert.Equal(t, []any{"https://example.org"}, f.Properties["websites"])
	assert.Nil(t, f.Properties["phones"])
}

func TestPlaceFilterHasRadius(t *testing.T) {
	assert.False(t, PlaceFilter{}.HasRadius())
	assert.False(t, PlaceFilter{Center: &GeoPoint{}}.HasRadius())
	assert.True(t, PlaceFilter{Center: &GeoPoint{Lat: 1, Lon: 2}, RadiusMeters: 10}.HasRadius())
}

func TestNewVisibilityRecords(t *testing.T) {
	records := NewVisibilityRecords(3)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, -1, r.FirstVisibleZoom)
		assert.NotNil(t, r.Orientations)
	}

	data, err := json.Marshal(records[:1])
	require.NoError(t, err)
	assert.JSONEq(t, `[{"firstVisibleZoom":-1,"orientations":[]}]`, string(data))
}
