// Package geo parses and formats positions on the campaign's flat sector
// plane. Coordinates are metres from the sector origin.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseXY parses a string in the format "x,y" or "x,y,z" into a sector
// position. A z component is accepted and dropped.
func ParseXY(coords string) (geom.XY, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 || len(coordsSplit) > 3 {
		return geom.XY{}, ErrInvalidCoordinates
	}
	vals := make([]float64, len(coordsSplit))
	for i, s := range coordsSplit {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return geom.XY{}, ErrInvalidCoordinates
		}
		vals[i] = v
	}
	return geom.XY{X: vals[0], Y: vals[1]}, nil
}

// FormatXY renders a position the way ParseXY reads it.
func FormatXY(p geom.XY) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}

// Point converts a sector position to a geom.Point.
func Point(p geom.XY) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: p})
}

// WKT renders a position as a WKT point, as it appears in logs.
func WKT(p geom.XY) string {
	return Point(p).AsText()
}

// Distance is the straight-line distance between two positions.
func Distance(a, b geom.XY) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
