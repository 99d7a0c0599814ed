package models

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// Place is one row of the places table. Array and document columns are
// carried as raw JSON. JSON keys follow the dotted column names of the table.
type Place struct {
	OgcFid              int64          `json:"ogc_fid" gorm:"column:ogc_fid;primaryKey"`
	ID                  string         `json:"id" gorm:"column:id"`
	Version             int            `json:"version" gorm:"column:version"`
	Sources             datatypes.JSON `json:"sources" gorm:"column:sources"`
	NamesPrimary        string         `json:"names.primary" gorm:"column:names_primary"`
	CategoriesPrimary   string         `json:"categories.primary" gorm:"column:categories_primary"`
	CategoriesAlternate datatypes.JSON `json:"categories.alternate" gorm:"column:categories_alternate"`
	Confidence          float64        `json:"confidence" gorm:"column:confidence"`
	Websites            datatypes.JSON `json:"websites" gorm:"column:websites"`
	Socials             datatypes.JSON `json:"socials" gorm:"column:socials"`
	Emails              datatypes.JSON `json:"emails" gorm:"column:emails"`
	Phones              datatypes.JSON `json:"phones" gorm:"column:phones"`
	BrandNamesPrimary   *string        `json:"brand.names.primary" gorm:"column:brand_names_primary"`
	Addresses           datatypes.JSON `json:"addresses" gorm:"column:addresses"`
	Latitude            float64        `json:"latitude" gorm:"column:latitude"`
	Longitude           float64        `json:"longitude" gorm:"column:longitude"`

	// DistanceMeters is set for radius queries.
	DistanceMeters *float64 `json:"distanceMeters,omitempty" gorm:"-"`
}

// TableName returns the table name for gorm
func (Place) TableName() string {
	return "places"
}

// GeoPoint is a WGS84 position.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceFilter is a normalized places query.
type PlaceFilter struct {
	Limit         int
	Categories    []string
	Countries     []string
	ConfidenceMin *float64 // 0..1
	ConfidenceMax *float64 // 0..1
	Center        *GeoPoint
	RadiusMeters  float64
}

// HasRadius reports whether the filter restricts results to a circle.
func (f PlaceFilter) HasRadius() bool {
	return f.Center != nil && f.RadiusMeters > 0
}

// Feature converts the place to a GeoJSON point feature.
func (p Place) Feature() geom.GeoJSONFeature {
	point := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.Longitude, Y: p.Latitude},
		Type: geom.CoordinatesType(geom.DimXY),
	})

	props := map[string]interface{}{
		"id":                   p.ID,
		"version":              p.Version,
		"names.primary":        p.NamesPrimary,
		"categories.primary":   p.CategoriesPrimary,
		"confidence":           p.Confidence,
		"sources":              rawOrNull(p.Sources),
		"categories.alternate": rawOrNull(p.CategoriesAlternate),
		"websites":             rawOrNull(p.Websites),
		"socials":              rawOrNull(p.Socials),
		"emails":               rawOrNull(p.Emails),
		"phones":               rawOrNull(p.Phones),
		"addresses":            rawOrNull(p.Addresses),
	}
	if p.BrandNamesPrimary != nil {
		props["brand.names.primary"] = *p.BrandNamesPrimary
	}
	if p.DistanceMeters != nil {
		props["distanceMeters"] = *p.DistanceMeters
	}

	return geom.GeoJSONFeature{
		Geometry:   point.AsGeometry(),
		ID:         p.OgcFid,
		Properties: props,
	}
}

// PlacesFeatureCollection converts places to a GeoJSON feature collection.
func PlacesFeatureCollection(places []Place) geom.GeoJSONFeatureCollection {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(places))
	for _, p := range places {
		fc = append(fc, p.Feature())
	}
	return fc
}

func rawOrNull(v datatypes.JSON) json.RawMessage {
	if len(v) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(v)
}
