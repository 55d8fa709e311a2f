package depot

import (
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// Depot is the single origin and terminus of every route in a plan. Its
// operating window defines the planning horizon.
type Depot struct {
	ID       string
	Name     string
	Location shared.Coordinate

	// Operating window in minutes of day; routes must start and finish
	// inside it.
	OpenMinute  int
	CloseMinute int
}

// NewDepot creates a depot with validation. A zero close minute defaults the
// operating window to the whole day.
func NewDepot(id, name string, location shared.Coordinate, openMinute, closeMinute int) (*Depot, error) {
	if id == "" {
		return nil, shared.NewValidationError("depot_id", "cannot be empty")
	}
	if closeMinute == 0 {
		openMinute = 0
		closeMinute = shared.MinutesPerDay - 1
	}
	if openMinute < 0 || openMinute >= shared.MinutesPerDay {
		return nil, shared.NewValidationError("open_minute", fmt.Sprintf("out of day range: %d", openMinute))
	}
	if closeMinute <= openMinute || closeMinute >= shared.MinutesPerDay {
		return nil, shared.NewValidationError("close_minute", fmt.Sprintf("must be after open %d and within the day, got %d", openMinute, closeMinute))
	}

	return &Depot{
		ID:          id,
		Name:        name,
		Location:    location,
		OpenMinute:  openMinute,
		CloseMinute: closeMinute,
	}, nil
}

func (d *Depot) String() string {
	return fmt.Sprintf("Depot(%s %s)", d.ID, d.Name)
}
