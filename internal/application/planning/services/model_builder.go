package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/geo"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// ModelBuilder turns a snapshot into the solver's routing model.
// Shipments no vehicle could ever serve are screened out here and
// reported unassigned, so the search never wastes time on them.
type ModelBuilder struct {
	settings Settings
}

// NewModelBuilder creates a model builder
func NewModelBuilder(settings Settings) *ModelBuilder {
	return &ModelBuilder{settings: settings}
}

// BuildResult pairs the model with the shipments screened out before the
// solve. Screened shipments keep their diagnostics; the model's nodes
// cover only the survivors.
type BuildResult struct {
	Model    *planning.RoutingModel
	Screened []planning.UnassignedShipment
}

// Build assembles the routing model from a snapshot and request.
// Vehicles and shipments are ordered by ascending id so equal-cost
// solves are reproducible.
func (b *ModelBuilder) Build(snapshot *Snapshot, request planning.PlanRequest) (*BuildResult, error) {
	if request.AverageSpeedKmh <= 0 {
		return nil, shared.NewValidationError("average_speed_kmh", "average speed must be positive")
	}

	vehicles := make([]*fleet.Vehicle, len(snapshot.Vehicles))
	copy(vehicles, snapshot.Vehicles)
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })

	shipments := make([]*shipment.Shipment, len(snapshot.Shipments))
	copy(shipments, snapshot.Shipments)
	sort.Slice(shipments, func(i, j int) bool { return shipments[i].ID < shipments[j].ID })

	departureMinute := request.DepartureMinute
	if snapshot.Depot.OpenMinute > departureMinute {
		departureMinute = snapshot.Depot.OpenMinute
	}
	horizonMinutes := snapshot.Depot.CloseMinute

	screened := make([]planning.UnassignedShipment, 0)
	survivors := make([]*shipment.Shipment, 0, len(shipments))
	for _, s := range shipments {
		reasons := b.screen(s, vehicles, snapshot.Depot.Location, departureMinute, request.AverageSpeedKmh)
		if len(reasons) == 0 {
			survivors = append(survivors, s)
			continue
		}
		screened = append(screened, planning.UnassignedShipment{
			ShipmentID:    s.ID,
			OrderNumber:   s.OrderNumber,
			SLA:           string(s.SLA),
			LikelyReasons: reasons,
		})
	}

	points := make([]shared.Coordinate, 0, len(survivors)+1)
	points = append(points, snapshot.Depot.Location)
	for _, s := range survivors {
		points = append(points, s.Location)
	}

	matrices, err := geo.BuildMatrices(points, request.AverageSpeedKmh)
	if err != nil {
		return nil, err
	}

	nodes := b.buildNodes(survivors)
	specs := b.buildVehicleSpecs(vehicles, snapshot.Drivers, matrices, request.Strategy, departureMinute, horizonMinutes)

	laborPenaltyBase := b.settings.VehicleFixedCost
	if floor := maxArcMeters(matrices) * 10; floor > laborPenaltyBase {
		laborPenaltyBase = floor
	}

	model := &planning.RoutingModel{
		Nodes:            nodes,
		Vehicles:         specs,
		Matrices:         matrices,
		DepartureMinute:  departureMinute,
		HorizonMinutes:   horizonMinutes,
		AmbientTemp:      request.AmbientTemp,
		InitialCargoTemp: request.InitialCargoTemp,
		Strategy:         request.Strategy,
		TimeLimit:        time.Duration(request.TimeLimitSeconds) * time.Second,
		Costs: planning.CostModel{
			DistanceCostPerKm:     b.settings.DistanceCostPerKm,
			TempViolationPenalty:  b.settings.TempViolationPenalty,
			InfeasibleCost:        b.settings.InfeasibleCost,
			LateDeliveryPenalty:   b.settings.LateDeliveryPenalty,
			GlobalSpanCoefficient: b.settings.GlobalSpanCoefficient,
			LaborPenaltyBase:      laborPenaltyBase,
		},
	}

	return &BuildResult{Model: model, Screened: screened}, nil
}

// buildNodes maps surviving shipments onto nodes 1..n (depot is node 0).
// Weight goes to grams and volume to liters so demands stay integral.
func (b *ModelBuilder) buildNodes(survivors []*shipment.Shipment) []planning.Node {
	nodes := make([]planning.Node, 0, len(survivors)+1)
	nodes = append(nodes, planning.Node{Index: 0})

	for i, s := range survivors {
		nodes = append(nodes, planning.Node{
			Index:          i + 1,
			ShipmentID:     s.ID,
			Location:       s.Location,
			DemandGrams:    int64(math.Round(s.WeightKg * 1000)),
			DemandLiters:   int64(math.Round(s.VolumeM3 * 1000)),
			ServiceMinutes: s.ServiceMinutes,
			Windows:        s.Windows,
			TempCeiling:    s.TempCeiling,
			TempFloor:      s.TempFloor,
			SLA:            s.SLA,
			Priority:       s.Priority,
			Mandatory:      s.SLA.IsHardConstraint(),
			DropPenalty:    b.dropPenalty(s),
		})
	}

	return nodes
}

// dropPenalty prices leaving a shipment unserved. STRICT shipments get
// the infeasible cost so a drop always dominates any routing saving;
// STANDARD penalties grow with priority so more important shipments
// resist being dropped.
func (b *ModelBuilder) dropPenalty(s *shipment.Shipment) int64 {
	if s.SLA.IsHardConstraint() {
		return b.settings.InfeasibleCost
	}
	base := b.settings.VehicleFixedCost * 3
	return base * int64(s.Priority+1) / 100
}

// buildVehicleSpecs derives per-vehicle capacities, fixed costs and labor
// bounds. Under MINIMIZE_VEHICLES the fixed cost is raised above the
// longest arc's cost so using one fewer vehicle always beats any detour;
// under MINIMIZE_DISTANCE it is zero. Labor budgets become soft bounds
// the solver prices rather than hard caps, so a tight roster still
// yields a plan instead of no solution.
func (b *ModelBuilder) buildVehicleSpecs(
	vehicles []*fleet.Vehicle,
	drivers map[string]*driver.Driver,
	matrices *geo.Matrices,
	strategy planning.Strategy,
	departureMinute, horizonMinutes int,
) []planning.VehicleSpec {
	fixedCost := int64(0)
	if strategy == planning.StrategyMinimizeVehicles {
		fixedCost = b.settings.VehicleFixedCost
		if floor := maxArcMeters(matrices) * 10; floor > fixedCost {
			fixedCost = floor
		}
	}

	specs := make([]planning.VehicleSpec, 0, len(vehicles))
	for i, v := range vehicles {
		spec := planning.VehicleSpec{
			Index:           i,
			VehicleID:       v.ID,
			LicensePlate:    v.LicensePlate,
			CapacityGrams:   int64(math.Round(v.MaxWeightKg * 1000)),
			CapacityLiters:  int64(math.Round(v.MaxVolumeM3 * 1000)),
			FixedCost:       fixedCost,
			MaxRouteMinutes: horizonMinutes - departureMinute,
			Profile:         v,
		}

		if d, ok := drivers[v.ID]; ok {
			spec.DriverID = d.ID
			if b.settings.LaborDimensionEnabled {
				remaining := d.RemainingMinutes(b.settings.DailyLaborLimitMinutes, b.settings.WeeklyLaborLimitMinutes)
				if remaining < 0 {
					remaining = 0
				}
				spec.LaborBoundMinutes = &remaining
			}
		} else if b.settings.LaborDimensionEnabled {
			bound := b.settings.DailyLaborLimitMinutes
			spec.LaborBoundMinutes = &bound
		}

		specs = append(specs, spec)
	}

	return specs
}

// screen checks whether any vehicle could ever serve the shipment.
// Returns diagnostics when none can; an empty slice admits the shipment
// into the model.
func (b *ModelBuilder) screen(
	s *shipment.Shipment,
	vehicles []*fleet.Vehicle,
	depotLocation shared.Coordinate,
	departureMinute int,
	speedKmh float64,
) []planning.UnassignedReason {
	reasons := make([]planning.UnassignedReason, 0, 2)

	minCapability := math.Inf(1)
	maxGrams, maxLiters := int64(0), int64(0)
	for _, v := range vehicles {
		if v.MinTempCapability < minCapability {
			minCapability = v.MinTempCapability
		}
		grams := int64(math.Round(v.MaxWeightKg * 1000))
		liters := int64(math.Round(v.MaxVolumeM3 * 1000))
		if grams > maxGrams {
			maxGrams = grams
		}
		if liters > maxLiters {
			maxLiters = liters
		}
	}

	if minCapability > s.TempCeiling {
		reasons = append(reasons, planning.UnassignedReason{
			Type:            planning.ReasonTemperature,
			Message:         "no vehicle can cool to the required ceiling",
			Parameter:       "temp_ceiling_c",
			CurrentValue:    fmt.Sprintf("%.1f", s.TempCeiling),
			ConstraintValue: fmt.Sprintf("%.1f", minCapability),
		})
	}

	if int64(math.Round(s.WeightKg*1000)) > maxGrams {
		reasons = append(reasons, planning.UnassignedReason{
			Type:            planning.ReasonCapacityOrRouting,
			Message:         "weight exceeds every vehicle's capacity",
			Parameter:       "weight_kg",
			CurrentValue:    fmt.Sprintf("%.1f", s.WeightKg),
			ConstraintValue: fmt.Sprintf("%.1f", float64(maxGrams)/1000),
		})
	}
	if int64(math.Round(s.VolumeM3*1000)) > maxLiters {
		reasons = append(reasons, planning.UnassignedReason{
			Type:            planning.ReasonCapacityOrRouting,
			Message:         "volume exceeds every vehicle's capacity",
			Parameter:       "volume_m3",
			CurrentValue:    fmt.Sprintf("%.2f", s.VolumeM3),
			ConstraintValue: fmt.Sprintf("%.2f", float64(maxLiters)/1000),
		})
	}

	travel := geo.TravelMinutes(geo.HaversineKm(depotLocation, s.Location), speedKmh)
	earliestArrival := departureMinute + int(math.Round(travel))
	if earliestArrival > s.LatestWindowEnd() {
		reasons = append(reasons, planning.UnassignedReason{
			Type:            planning.ReasonTimeWindow,
			Message:         "every delivery window closes before the earliest possible arrival",
			Parameter:       "delivery_windows",
			CurrentValue:    shared.FormatMinuteOfDay(earliestArrival),
			ConstraintValue: shared.FormatMinuteOfDay(s.LatestWindowEnd()),
		})
	}

	if len(reasons) > 0 && s.SLA.IsHardConstraint() {
		reasons = append(reasons, planning.UnassignedReason{
			Type:    planning.ReasonStrictSLA,
			Message: "strict SLA shipment cannot be served by the current fleet",
		})
	}

	return reasons
}

func maxArcMeters(matrices *geo.Matrices) int64 {
	var max int64
	for i := range matrices.Distance {
		for j := range matrices.Distance[i] {
			if matrices.Distance[i][j] > max {
				max = matrices.Distance[i][j]
			}
		}
	}
	return max
}
