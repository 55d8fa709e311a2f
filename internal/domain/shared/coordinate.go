package shared

import "fmt"

// Coordinate represents an immutable WGS84 point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate creates a new coordinate with range validation
func NewCoordinate(latitude, longitude float64) (*Coordinate, error) {
	if latitude < -90 || latitude > 90 {
		return nil, NewValidationError("latitude", fmt.Sprintf("must be in [-90, 90], got %v", latitude))
	}
	if longitude < -180 || longitude > 180 {
		return nil, NewValidationError("longitude", fmt.Sprintf("must be in [-180, 180], got %v", longitude))
	}

	return &Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

func (c *Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%.6f, %.6f)", c.Latitude, c.Longitude)
}
