package geo

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// MaxH3Resolution is the finest H3 resolution accepted for location cells.
const MaxH3Resolution = 15

// H3Cell returns the H3 cell index containing the location's interior point.
func H3Cell(l Location, resolution int) (string, error) {
	if resolution < 1 || resolution > MaxH3Resolution {
		return "", fmt.Errorf("h3 resolution %d out of range 1..%d", resolution, MaxH3Resolution)
	}

	lat, lng, err := l.LatLng()
	if err != nil {
		return "", err
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), resolution)
	if err != nil {
		return "", fmt.Errorf("h3 cell at res %d: %w", resolution, err)
	}

	return cell.String(), nil
}
