package repository

import (
	"strings"

	"placemap-service/internal/models"
	"placemap-service/internal/utils"
)

const normalizedConfidence = `(CASE WHEN confidence > 1 THEN confidence/100.0 ELSE confidence END)`

const placeColumns = `
        ogc_fid,
        id,
        version,
        to_jsonb(sources) AS sources,
        "names.primary" AS names_primary,
        "categories.primary" AS categories_primary,
        to_jsonb("categories.alternate") AS categories_alternate,
        ` + normalizedConfidence + `::double precision AS confidence,
        to_jsonb(websites) AS websites,
        to_jsonb(socials) AS socials,
        to_jsonb(emails) AS emails,
        to_jsonb(phones) AS phones,
        "brand.names.primary" AS brand_names_primary,
        to_jsonb(addresses) AS addresses,
        ST_Y(geometry::geometry) AS latitude,
        ST_X(geometry::geometry) AS longitude`

// placesQuery builds the SQL and arguments for a places listing. Slice
// arguments are expanded by gorm into parenthesized lists.
func placesQuery(filter models.PlaceFilter) (string, []any) {
	var where []string
	var args []any

	if len(filter.Categories) > 0 {
		where = append(where, `( "categories.primary" IN ? OR EXISTS (
            SELECT 1 FROM unnest("categories.alternate") AS alt(category)
            WHERE alt.category IN ?
        ) )`)
		args = append(args, filter.Categories, filter.Categories)
	}

	if len(filter.Countries) > 0 {
		where = append(where, `EXISTS (
            SELECT 1 FROM jsonb_array_elements(addresses) AS addr(item)
            WHERE (item->>'country') IN ?
        )`)
		args = append(args, filter.Countries)
	}

	if filter.ConfidenceMin != nil {
		where = append(where, normalizedConfidence+` >= ?`)
		args = append(args, *filter.ConfidenceMin)
	}
	if filter.ConfidenceMax != nil {
		where = append(where, normalizedConfidence+` <= ?`)
		args = append(args, *filter.ConfidenceMax)
	}

	if filter.HasRadius() {
		lat, lon := filter.Center.Lat, filter.Center.Lon
		minLat, maxLat, minLng, maxLng := utils.CalculateBoundingBox(lat, lon, filter.RadiusMeters)
		// The envelope cannot express circles wrapping the antimeridian.
		if minLng > -180 && maxLng < 180 {
			where = append(where, `geometry::geometry && ST_MakeEnvelope(?, ?, ?, ?, 4326)`)
			args = append(args, minLng, minLat, maxLng, maxLat)
		}
		where = append(where, `ST_DWithin(
            geometry::geography,
            ST_SetSRID(ST_MakePoint(?::double precision, ?::double precision), 4326)::geography,
            ?::double precision
        )`)
		args = append(args, lon, lat, filter.RadiusMeters)
	}

	var sql strings.Builder
	sql.WriteString("SELECT")
	sql.WriteString(placeColumns)
	sql.WriteString("\n    FROM public.places")
	if len(where) > 0 {
		sql.WriteString("\n    WHERE ")
		sql.WriteString(strings.Join(where, "\n    AND "))
	}
	sql.WriteString("\n    ORDER BY confidence DESC")
	if filter.Limit > 0 {
		sql.WriteString("\n    LIMIT ?")
		args = append(args, filter.Limit)
	}

	return sql.String(), args
}

// placeByFidQuery builds the SQL and arguments for a single place lookup.
func placeByFidQuery(fid int64) (string, []any) {
	return "SELECT" + placeColumns + `
    FROM public.places
    WHERE ogc_fid = ?
    LIMIT 1`, []any{fid}
}
