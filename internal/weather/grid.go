package weather

import "fmt"

// GridPattern is the shape of coordinate offsets sampled around a city center.
type GridPattern string

const (
	GridSingle GridPattern = "single"
	GridCross  GridPattern = "cross"
	GridSquare GridPattern = "square"
)

// ParseGridPattern validates a grid pattern name.
func ParseGridPattern(s string) (GridPattern, error) {
	switch g := GridPattern(s); g {
	case GridSingle, GridCross, GridSquare:
		return g, nil
	}
	return "", fmt.Errorf("unknown grid pattern %q", s)
}

// GridPoints expands center into the sampling grid. The center is always first.
func GridPoints(center GeoPoint, pattern GridPattern, offset float64) []GeoPoint {
	at := func(dLat, dLon float64) GeoPoint {
		return GeoPoint{
			Latitude:  center.Latitude + dLat,
			Longitude: center.Longitude + dLon,
			Altitude:  center.Altitude,
		}
	}

	switch pattern {
	case GridCross:
		return []GeoPoint{
			center,
			at(offset, 0),
			at(-offset, 0),
			at(0, offset),
			at(0, -offset),
		}
	case GridSquare:
		points := []GeoPoint{center}
		for _, dLat := range []float64{-offset, 0, offset} {
			for _, dLon := range []float64{-offset, 0, offset} {
				if dLat == 0 && dLon == 0 {
					continue
				}
				points = append(points, at(dLat, dLon))
			}
		}
		return points
	default:
		return []GeoPoint{center}
	}
}
