package geo

import (
	"math"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula
const EarthRadiusKm = 6371.0

// HaversineKm computes the great-circle distance between two coordinates
// in kilometers.
func HaversineKm(a, b shared.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// TravelMinutes converts a distance to driving time at the given average speed
func TravelMinutes(distanceKm, averageSpeedKmh float64) float64 {
	return distanceKm / averageSpeedKmh * 60
}

// Matrices holds the pairwise distance and travel time matrices for a node
// set. Distances are meters, times are minutes, both rounded to the nearest
// integer for the solver's integer dimensions. Matrices are symmetric with a
// zero diagonal.
type Matrices struct {
	Distance [][]int64 // meters
	Time     [][]int64 // minutes
	Size     int
}

// BuildMatrices computes the N×N distance and time matrices for the given
// points. Point order defines node indices.
func BuildMatrices(points []shared.Coordinate, averageSpeedKmh float64) (*Matrices, error) {
	if averageSpeedKmh <= 0 {
		return nil, shared.NewValidationError("average_speed_kmh", "must be positive")
	}

	n := len(points)
	m := &Matrices{
		Distance: make([][]int64, n),
		Time:     make([][]int64, n),
		Size:     n,
	}
	for i := range m.Distance {
		m.Distance[i] = make([]int64, n)
		m.Time[i] = make([]int64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := HaversineKm(points[i], points[j])
			meters := int64(math.Round(km * 1000))
			minutes := int64(math.Round(TravelMinutes(km, averageSpeedKmh)))

			m.Distance[i][j] = meters
			m.Distance[j][i] = meters
			m.Time[i][j] = minutes
			m.Time[j][i] = minutes
		}
	}

	return m, nil
}
