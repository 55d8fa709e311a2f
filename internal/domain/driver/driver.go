package driver

import (
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// Driver carries the labor-hour accumulators used by the optional labor
// dimension. Accumulated minutes are denormalized onto the driver row so the
// model builder can compute per-vehicle bounds without scanning logs.
type Driver struct {
	ID        string
	Name      string
	VehicleID string

	AccumulatedWeeklyMinutes int
	AccumulatedDailyMinutes  int
}

// RemainingMinutes returns the tighter of the daily and weekly remaining
// budgets. A non-positive result means the driver is out of hours.
func (d *Driver) RemainingMinutes(dailyLimit, weeklyLimit int) int {
	remainingDaily := dailyLimit - d.AccumulatedDailyMinutes
	remainingWeekly := weeklyLimit - d.AccumulatedWeeklyMinutes
	if remainingDaily < remainingWeekly {
		return remainingDaily
	}
	return remainingWeekly
}

func (d *Driver) String() string {
	return fmt.Sprintf("Driver(%s %s)", d.ID, d.Name)
}

// LaborLog records the planned labor minutes a route books against a driver
type LaborLog struct {
	ID             string
	DriverID       string
	RouteID        string
	PlanDate       time.Time
	DriveMinutes   int
	ServiceMinutes int
}

// TotalMinutes is the full labor booking for the route
func (l *LaborLog) TotalMinutes() int {
	return l.DriveMinutes + l.ServiceMinutes
}

// NewLaborLog validates a labor booking
func NewLaborLog(id, driverID, routeID string, planDate time.Time, driveMinutes, serviceMinutes int) (*LaborLog, error) {
	if driverID == "" {
		return nil, shared.NewValidationError("driver_id", "cannot be empty")
	}
	if driveMinutes < 0 || serviceMinutes < 0 {
		return nil, shared.NewValidationError("labor_minutes", "cannot be negative")
	}
	return &LaborLog{
		ID:             id,
		DriverID:       driverID,
		RouteID:        routeID,
		PlanDate:       planDate,
		DriveMinutes:   driveMinutes,
		ServiceMinutes: serviceMinutes,
	}, nil
}
