package planning

import (
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/geo"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// Node is one location in the routing model. Index 0 is always the depot;
// every other node is a shipment delivery.
type Node struct {
	Index      int
	ShipmentID string
	Location   shared.Coordinate

	// Demands in solver units (grams and liters, to keep them integral)
	DemandGrams  int64
	DemandLiters int64

	ServiceMinutes int

	// Delivery windows in minutes after midnight, disjoint, at most two
	Windows []shipment.TimeWindow

	TempCeiling float64
	TempFloor   *float64

	SLA      shipment.SLATier
	Priority int

	// Mandatory nodes may never be dropped; dropping one fails the plan
	Mandatory bool

	// DropPenalty is the cost of leaving a non-mandatory node unserved
	DropPenalty int64
}

// VehicleSpec is one vehicle's solver-facing parameters
type VehicleSpec struct {
	Index        int
	VehicleID    string
	DriverID     string
	LicensePlate string

	CapacityGrams  int64
	CapacityLiters int64

	// FixedCost is charged once when the vehicle serves any stop
	FixedCost int64

	// MaxRouteMinutes is the hard tour bound set by the depot horizon
	MaxRouteMinutes int

	// LaborBoundMinutes is the driver's remaining labor budget. It is a
	// soft bound: exceeding it is priced, not forbidden. Nil when the
	// labor dimension is off.
	LaborBoundMinutes *int

	// Profile carries the thermodynamic coefficients
	Profile *fleet.Vehicle
}

// CanServe reports whether the vehicle can hold a node's cargo cold enough.
// A reefer that cannot cool below the node's ceiling would breach it on
// every arrival, so the pair is excluded up front.
func (v *VehicleSpec) CanServe(node *Node) bool {
	return v.Profile.MinTempCapability <= node.TempCeiling
}

// CostModel groups the solver's cost constants
type CostModel struct {
	// DistanceCostPerKm converts route kilometers into the monetary
	// figure reported on plan summaries. The search itself charges raw
	// meters as the arc cost.
	DistanceCostPerKm int64

	// TempViolationPenalty is charged per degree of STANDARD-tier overshoot
	TempViolationPenalty int64

	// InfeasibleCost marks a route carrying a STRICT-tier breach
	InfeasibleCost int64

	// LateDeliveryPenalty prices arrivals past a window close when
	// windows are softened. Delivery windows are enforced hard here, so
	// the weight is carried but not charged.
	LateDeliveryPenalty int64

	// GlobalSpanCoefficient weights route-duration spread in the objective
	GlobalSpanCoefficient int64

	// LaborPenaltyBase scales the soft labor-bound overage charge. It is
	// raised above the vehicle fixed cost so overtime never looks cheaper
	// than dispatching another vehicle.
	LaborPenaltyBase int64
}

// RoutingModel is the complete solver input for one planning run.
// It is immutable once built; the solver only reads it.
type RoutingModel struct {
	Nodes    []Node
	Vehicles []VehicleSpec
	Matrices *geo.Matrices

	DepartureMinute int
	HorizonMinutes  int

	AmbientTemp      float64
	InitialCargoTemp float64

	Strategy  Strategy
	TimeLimit time.Duration
	Costs     CostModel
}

// NodeCount returns the number of nodes including the depot
func (m *RoutingModel) NodeCount() int {
	return len(m.Nodes)
}

// ShipmentNodeCount returns the number of delivery nodes
func (m *RoutingModel) ShipmentNodeCount() int {
	if len(m.Nodes) == 0 {
		return 0
	}
	return len(m.Nodes) - 1
}

// IsDepot reports whether a node index is the depot
func (m *RoutingModel) IsDepot(index int) bool {
	return index == 0
}

// DistanceMeters returns the arc distance between two nodes
func (m *RoutingModel) DistanceMeters(from, to int) int64 {
	return m.Matrices.Distance[from][to]
}

// TravelMinutes returns the arc travel time between two nodes
func (m *RoutingModel) TravelMinutes(from, to int) int64 {
	return m.Matrices.Time[from][to]
}

// Visit is one serviced node on a solved route with its schedule.
// ArrivalMinute is the in-window service start; any wait for the window
// to open happens before it, so DepartureMinute - ArrivalMinute always
// equals the node's service duration.
type Visit struct {
	Node            int
	ArrivalMinute   int
	DepartureMinute int

	// WaitMinutes is idle time spent before the window opened
	WaitMinutes int

	// SlackMinutes is how far before the window's close the arrival lands
	SlackMinutes int

	// WindowIndex is which of the node's windows the arrival satisfies
	WindowIndex int
}

// VehicleRoute is one vehicle's solved tour, depot departures implied
type VehicleRoute struct {
	VehicleIndex int
	Visits       []Visit

	DistanceMeters int64
	DriveMinutes   int
	ServiceMinutes int
	WaitMinutes    int
	ReturnMinute   int

	Cost int64
}

// Empty reports whether the vehicle stayed at the depot
func (r *VehicleRoute) Empty() bool {
	return len(r.Visits) == 0
}

// Solver status values reported on the assignment
const (
	SolverStatusSuccess    = "SUCCESS"
	SolverStatusNoSolution = "NO_SOLUTION"
	SolverStatusCancelled  = "CANCELLED"
)

// Assignment is the solver's output: per-vehicle tours plus the nodes it
// chose to drop.
type Assignment struct {
	Routes       []VehicleRoute
	DroppedNodes []int

	SolverStatus string
	SolveSeconds float64
	TotalCost    int64
}

// UsedVehicles counts vehicles with at least one visit
func (a *Assignment) UsedVehicles() int {
	used := 0
	for _, r := range a.Routes {
		if !r.Empty() {
			used++
		}
	}
	return used
}

// AssignedNodes counts serviced delivery nodes
func (a *Assignment) AssignedNodes() int {
	total := 0
	for _, r := range a.Routes {
		total += len(r.Visits)
	}
	return total
}

// TotalDistanceMeters sums distance over all tours
func (a *Assignment) TotalDistanceMeters() int64 {
	var total int64
	for _, r := range a.Routes {
		total += r.DistanceMeters
	}
	return total
}
