package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/kenmiya/gurume/internal/model"
)

// Distance returns the haversine distance in meters between two coordinates.
func Distance(from, to model.Coordinate) float64 {
	// orb.Point is [lng, lat]
	return orbgeo.DistanceHaversine(
		orb.Point{from.Lng, from.Lat},
		orb.Point{to.Lng, to.Lat},
	)
}

// FormatDistance renders meters as "850m" below one kilometer and "1.8km"
// at or above it.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// DistanceText formats the distance between an optional origin and a shop
// coordinate. Returns "" when no origin is known.
func DistanceText(from *model.Coordinate, to model.Coordinate) string {
	if from == nil {
		return ""
	}
	return FormatDistance(Distance(*from, to))
}
