// Package geo handles location rows and their geographic projections.
package geo

import (
	"fmt"
	"strconv"
)

// Header is the first line of every locations text file.
const Header = "id,latitude,longitude"

// Location is a single output row: a geographic identifier and its interior point.
// Coordinates are kept verbatim as they appeared in the source document.
type Location struct {
	ID        string `json:"id" yaml:"id"`
	Latitude  string `json:"latitude" yaml:"latitude"`
	Longitude string `json:"longitude" yaml:"longitude"`
}

// String renders the row as a comma joined line without quoting.
func (l Location) String() string {
	return l.ID + "," + l.Latitude + "," + l.Longitude
}

// CoordinateError is returned when a verbatim coordinate is not a decimal number.
type CoordinateError struct {
	Err   error
	Field string
	Value string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s %q is not a number: %v", e.Field, e.Value, e.Err)
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

// LatLng parses the verbatim coordinates into degrees.
func (l Location) LatLng() (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(l.Latitude, 64)
	if err != nil {
		return 0, 0, &CoordinateError{Field: "latitude", Value: l.Latitude, Err: err}
	}

	lng, err = strconv.ParseFloat(l.Longitude, 64)
	if err != nil {
		return 0, 0, &CoordinateError{Field: "longitude", Value: l.Longitude, Err: err}
	}

	return lat, lng, nil
}
