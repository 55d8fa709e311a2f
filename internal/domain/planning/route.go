package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// RouteStatus represents the operational state of a planned route
type RouteStatus string

const (
	// RouteStatusPlanning is the transient state while the solver builds
	RouteStatusPlanning RouteStatus = "PLANNING"

	// RouteStatusScheduled is what a committed plan writes
	RouteStatusScheduled RouteStatus = "SCHEDULED"

	// RouteStatusInProgress means the driver departed
	RouteStatusInProgress RouteStatus = "IN_PROGRESS"

	// RouteStatusCompleted means all stops were served
	RouteStatusCompleted RouteStatus = "COMPLETED"

	// RouteStatusAborted means the route was called off
	RouteStatusAborted RouteStatus = "ABORTED"
)

// Stop is one delivery on a route, with the schedule and temperature
// predictions the solver committed to.
type Stop struct {
	Sequence   int    `json:"sequence"`
	ShipmentID string `json:"shipment_id"`

	Location shared.Coordinate `json:"location"`
	Address  string            `json:"address,omitempty"`

	// Minutes after midnight, in plan-date local time
	ArrivalMinute   int `json:"arrival_minute"`
	DepartureMinute int `json:"departure_minute"`

	// Which of the shipment's delivery windows the arrival satisfies
	WindowIndex int `json:"window_index"`

	// Minutes between arrival and the window's close
	SlackMinutes int `json:"slack_minutes"`

	// Minutes spent waiting for the window to open
	WaitMinutes int `json:"wait_minutes"`

	PredictedArrivalTemp   float64 `json:"predicted_arrival_temp"`
	TransitTempRise        float64 `json:"transit_temp_rise"`
	ServiceTempRise        float64 `json:"service_temp_rise"`
	CoolingApplied         float64 `json:"cooling_applied"`
	PredictedDepartureTemp float64 `json:"predicted_departure_temp"`
	TempFeasible           bool    `json:"temp_feasible"`
}

// Route is a single vehicle's delivery tour for a plan date
type Route struct {
	ID        string
	Code      string
	JobID     string
	VehicleID string
	DriverID  string
	DepotID   string
	PlanDate  time.Time
	Status    RouteStatus

	Stops []Stop

	DepartureMinute int
	ReturnMinute    int

	TotalDistanceKm      float64
	TotalDriveMinutes    int
	TotalServiceMinutes  int
	TotalWaitMinutes     int
	TotalDurationMinutes int

	TotalLoadKg   float64
	TotalVolumeM3 float64

	MaxPredictedTemp   float64
	FinalPredictedTemp float64

	// IsFeasible is false when the route carries STANDARD-tier
	// temperature breaches the plan tolerated.
	IsFeasible bool

	TotalCost int64

	// Version guards concurrent status updates
	Version int
}

// RouteCode builds the dispatcher-facing identifier for a route
// Format: R-{YYYYMMDD}-{plate}-{first 8 of job id}
func RouteCode(planDate time.Time, licensePlate, jobID string) string {
	plate := strings.ReplaceAll(strings.ToUpper(licensePlate), " ", "")
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("R-%s-%s-%s", planDate.Format("20060102"), plate, short)
}

// NewRoute creates a scheduled route for a committed plan
func NewRoute(id, jobID, vehicleID, driverID, depotID string, planDate time.Time, licensePlate string) (*Route, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "route id is required")
	}
	if jobID == "" {
		return nil, shared.NewValidationError("job_id", "job id is required")
	}
	if vehicleID == "" {
		return nil, shared.NewValidationError("vehicle_id", "vehicle id is required")
	}

	return &Route{
		ID:         id,
		Code:       RouteCode(planDate, licensePlate, jobID),
		JobID:      jobID,
		VehicleID:  vehicleID,
		DriverID:   driverID,
		DepotID:    depotID,
		PlanDate:   planDate,
		Status:     RouteStatusScheduled,
		Stops:      nil,
		IsFeasible: true,
		Version:    1,
	}, nil
}

// Start marks the route as departed
func (r *Route) Start() error {
	if r.Status != RouteStatusScheduled {
		return shared.NewPreconditionFailureError("route_scheduled",
			fmt.Sprintf("cannot start route in %s state", r.Status))
	}
	r.Status = RouteStatusInProgress
	return nil
}

// Complete marks the route as fully served
func (r *Route) Complete() error {
	if r.Status != RouteStatusInProgress {
		return shared.NewPreconditionFailureError("route_in_progress",
			fmt.Sprintf("cannot complete route in %s state", r.Status))
	}
	r.Status = RouteStatusCompleted
	return nil
}

// Abort calls the route off before or during execution
func (r *Route) Abort() error {
	if r.Status != RouteStatusScheduled && r.Status != RouteStatusInProgress {
		return shared.NewPreconditionFailureError("route_active",
			fmt.Sprintf("cannot abort route in %s state", r.Status))
	}
	r.Status = RouteStatusAborted
	return nil
}

// StopCount returns the number of deliveries on the route
func (r *Route) StopCount() int {
	return len(r.Stops)
}

// ShipmentIDs returns the shipments served, in visit order
func (r *Route) ShipmentIDs() []string {
	ids := make([]string, 0, len(r.Stops))
	for _, stop := range r.Stops {
		ids = append(ids, stop.ShipmentID)
	}
	return ids
}

// String provides human-readable representation
func (r *Route) String() string {
	return fmt.Sprintf("Route[%s, vehicle=%s, stops=%d, %.1fkm, status=%s]",
		r.Code, r.VehicleID, len(r.Stops), r.TotalDistanceKm, r.Status)
}
