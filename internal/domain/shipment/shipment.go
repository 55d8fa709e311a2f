package shipment

import (
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// SLATier determines how hard a shipment's constraints are
type SLATier string

const (
	// SLAStrict makes the time window and temperature ceiling hard
	// constraints; the shipment may never be dropped at a penalty.
	SLAStrict SLATier = "STRICT"

	// SLAStandard allows the solver to drop or delay the shipment at a
	// priority-scaled penalty.
	SLAStandard SLATier = "STANDARD"
)

// IsHardConstraint reports whether this tier forbids penalty-based drops
func (t SLATier) IsHardConstraint() bool {
	return t == SLAStrict
}

// Status is the shipment lifecycle state
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAssigned  Status = "ASSIGNED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// TimeWindow is one delivery interval in minutes of day, inclusive on both
// ends. A shipment carries one or two disjoint windows.
type TimeWindow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// NewTimeWindow validates a single interval
func NewTimeWindow(startMinute, endMinute int) (TimeWindow, error) {
	if startMinute < 0 || startMinute >= shared.MinutesPerDay {
		return TimeWindow{}, shared.NewValidationError("time_window", fmt.Sprintf("start %d out of day range", startMinute))
	}
	if endMinute <= startMinute || endMinute >= shared.MinutesPerDay {
		return TimeWindow{}, shared.NewValidationError("time_window", fmt.Sprintf("end %d must be after start %d and within the day", endMinute, startMinute))
	}
	return TimeWindow{StartMinute: startMinute, EndMinute: endMinute}, nil
}

// Contains reports whether an arrival minute falls inside the window
func (w TimeWindow) Contains(minute int) bool {
	return minute >= w.StartMinute && minute <= w.EndMinute
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s-%s", shared.FormatMinuteOfDay(w.StartMinute), shared.FormatMinuteOfDay(w.EndMinute))
}

// Shipment is one cold-chain delivery order. The planner snapshots PENDING
// shipments at job start; the entity is immutable during a solve.
type Shipment struct {
	ID          string
	OrderNumber string

	Location shared.Coordinate
	Address  string

	WeightKg float64
	VolumeM3 float64

	// Windows holds one or two disjoint delivery intervals; delivery must
	// start inside one of them.
	Windows []TimeWindow

	ServiceMinutes int

	// TempCeiling is the maximum allowed cargo temperature on arrival
	TempCeiling float64
	// TempFloor is the optional minimum; nil when the cargo has none
	TempFloor *float64

	SLA      SLATier
	Priority int // 0-100, higher resists dropping

	Status        Status
	RouteID       string
	RouteSequence int
}

// NewShipment creates a shipment with full validation of windows, demand,
// and priority range.
func NewShipment(id string, location shared.Coordinate, weightKg, volumeM3 float64, windows []TimeWindow, serviceMinutes int, tempCeiling float64, sla SLATier, priority int) (*Shipment, error) {
	if id == "" {
		return nil, shared.NewValidationError("shipment_id", "cannot be empty")
	}
	if weightKg <= 0 {
		return nil, shared.NewValidationError("weight_kg", fmt.Sprintf("must be positive, got %v", weightKg))
	}
	if volumeM3 < 0 {
		return nil, shared.NewValidationError("volume_m3", fmt.Sprintf("cannot be negative, got %v", volumeM3))
	}
	if serviceMinutes < 0 {
		return nil, shared.NewValidationError("service_minutes", fmt.Sprintf("cannot be negative, got %d", serviceMinutes))
	}
	if priority < 0 || priority > 100 {
		return nil, shared.NewValidationError("priority", fmt.Sprintf("must be in [0, 100], got %d", priority))
	}
	if err := validateWindows(windows); err != nil {
		return nil, err
	}
	if sla != SLAStrict && sla != SLAStandard {
		return nil, shared.NewValidationError("sla_tier", fmt.Sprintf("unknown tier %q", sla))
	}

	return &Shipment{
		ID:             id,
		Location:       location,
		WeightKg:       weightKg,
		VolumeM3:       volumeM3,
		Windows:        windows,
		ServiceMinutes: serviceMinutes,
		TempCeiling:    tempCeiling,
		SLA:            sla,
		Priority:       priority,
		Status:         StatusPending,
	}, nil
}

func validateWindows(windows []TimeWindow) error {
	if len(windows) == 0 || len(windows) > 2 {
		return shared.NewValidationError("time_windows", fmt.Sprintf("need 1 or 2 windows, got %d", len(windows)))
	}
	for _, w := range windows {
		if _, err := NewTimeWindow(w.StartMinute, w.EndMinute); err != nil {
			return err
		}
	}
	if len(windows) == 2 {
		a, b := windows[0], windows[1]
		if a.StartMinute > b.StartMinute {
			a, b = b, a
		}
		if b.StartMinute <= a.EndMinute {
			return shared.NewValidationError("time_windows", "windows must be disjoint")
		}
	}
	return nil
}

// WindowContaining returns the index of the window holding the given
// arrival minute, or -1 when the arrival misses every window.
func (s *Shipment) WindowContaining(minute int) int {
	for i, w := range s.Windows {
		if w.Contains(minute) {
			return i
		}
	}
	return -1
}

// LatestWindowEnd returns the last reachable minute across all windows
func (s *Shipment) LatestWindowEnd() int {
	latest := 0
	for _, w := range s.Windows {
		if w.EndMinute > latest {
			latest = w.EndMinute
		}
	}
	return latest
}

// EarliestWindowStart returns the first minute any window opens
func (s *Shipment) EarliestWindowStart() int {
	earliest := s.Windows[0].StartMinute
	for _, w := range s.Windows[1:] {
		if w.StartMinute < earliest {
			earliest = w.StartMinute
		}
	}
	return earliest
}

// WithinTempBounds reports whether an arrival temperature respects the
// ceiling and the optional floor.
func (s *Shipment) WithinTempBounds(arrivalTemp float64) bool {
	if arrivalTemp > s.TempCeiling {
		return false
	}
	if s.TempFloor != nil && arrivalTemp < *s.TempFloor {
		return false
	}
	return true
}

// Assign records the planned route placement and moves the shipment to
// ASSIGNED. Only PENDING shipments can be assigned.
func (s *Shipment) Assign(routeID string, sequence int) error {
	if s.Status != StatusPending {
		return shared.NewDomainError(fmt.Sprintf("cannot assign shipment %s in status %s", s.ID, s.Status))
	}
	s.Status = StatusAssigned
	s.RouteID = routeID
	s.RouteSequence = sequence
	return nil
}

func (s *Shipment) String() string {
	return fmt.Sprintf("Shipment(%s %s)", s.ID, s.SLA)
}
