package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature converts a location into a GeoJSON Point feature ([Lon, Lat]).
// When h3Resolution is positive the containing H3 cell is added to the properties.
func Feature(l Location, h3Resolution int) (*geojson.Feature, error) {
	lat, lng, err := l.LatLng()
	if err != nil {
		return nil, err
	}

	props := map[string]interface{}{
		"geo_id": l.ID,
	}

	if h3Resolution > 0 {
		cell, err := H3Cell(l, h3Resolution)
		if err != nil {
			return nil, err
		}
		props["h3"] = cell
	}

	return &geojson.Feature{
		ID:         l.ID,
		Geometry:   geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326),
		Properties: props,
	}, nil
}
