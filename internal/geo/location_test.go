package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/h3-go/v4"
)

func TestLocationString(t *testing.T) {
	l := Location{ID: "35200001", Latitude: "43.70", Longitude: "-79.400"}
	assert.Equal(t, "35200001,43.70,-79.400", l.String())
}

func TestLocationLatLng(t *testing.T) {
	lat, lng, err := Location{ID: "a", Latitude: "43.6532", Longitude: "-79.3832"}.LatLng()
	require.NoError(t, err)
	assert.InDelta(t, 43.6532, lat, 1e-9)
	assert.InDelta(t, -79.3832, lng, 1e-9)

	_, _, err = Location{ID: "a", Latitude: "43.6532", Longitude: "west"}.LatLng()
	var ce *CoordinateError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "longitude", ce.Field)
	assert.Equal(t, "west", ce.Value)

	_, _, err = Location{ID: "a", Latitude: "", Longitude: "1"}.LatLng()
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "latitude", ce.Field)
}

func TestH3Cell(t *testing.T) {
	l := Location{ID: "a", Latitude: "43.6532", Longitude: "-79.3832"}

	cell, err := H3Cell(l, 8)
	require.NoError(t, err)

	want, err := h3.LatLngToCell(h3.NewLatLng(43.6532, -79.3832), 8)
	require.NoError(t, err)
	assert.Equal(t, want.String(), cell)
	assert.Equal(t, 8, want.Resolution())

	for _, res := range []int{0, -1, MaxH3Resolution + 1} {
		_, err := H3Cell(l, res)
		assert.Error(t, err, "resolution %d", res)
	}

	_, err = H3Cell(Location{ID: "a", Latitude: "north", Longitude: "1"}, 8)
	assert.Error(t, err)
}

func TestFeature(t *testing.T) {
	f, err := Feature(Location{ID: "001", Latitude: "43.7", Longitude: "-79.4"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "001", f.ID)
	assert.Equal(t, map[string]interface{}{"geo_id": "001"}, f.Properties)
	assert.Equal(t, []float64{-79.4, 43.7}, f.Geometry.FlatCoords())

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coordinates":[-79.4,43.7]`)

	f, err = Feature(Location{ID: "001", Latitude: "43.7", Longitude: "-79.4"}, 5)
	require.NoError(t, err)
	assert.Contains(t, f.Properties, "h3")
}
