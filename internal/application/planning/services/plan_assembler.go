package services

import (
	"fmt"
	"math"

	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/internal/domain/thermo"
	"github.com/andrescamacho/coldroute-go/pkg/utils"
)

// AssembledPlan is everything a completed solve commits: routes with
// their thermal predictions, shipment status updates, labor logs, the
// full unassigned list, and the job's result summary.
type AssembledPlan struct {
	Routes     []*planning.Route
	Shipments  []*shipment.Shipment
	LaborLogs  []*driver.LaborLog
	Unassigned []planning.UnassignedShipment
	Summary    map[string]interface{}
}

// PlanAssembler turns a solver assignment back into domain entities.
// The tracker's verdict here is authoritative: any STRICT-tier breach it
// finds fails the whole plan, whatever the search estimated.
type PlanAssembler struct {
	settings Settings
	tracker  *thermo.Tracker
}

// NewPlanAssembler creates a plan assembler
func NewPlanAssembler(settings Settings) *PlanAssembler {
	return &PlanAssembler{
		settings: settings,
		tracker:  thermo.NewTracker(),
	}
}

// Assemble builds the committable plan for a job.
// Returns InfeasibleError when a STRICT shipment was dropped by the
// search or its authoritative arrival temperature breaches the ceiling.
func (a *PlanAssembler) Assemble(
	job *planning.PlanJob,
	snapshot *Snapshot,
	model *planning.RoutingModel,
	assignment *planning.Assignment,
	screened []planning.UnassignedShipment,
) (*AssembledPlan, error) {
	shipmentsByID := make(map[string]*shipment.Shipment, len(snapshot.Shipments))
	for _, s := range snapshot.Shipments {
		shipmentsByID[s.ID] = s
	}

	if err := a.checkDroppedMandatory(model, assignment); err != nil {
		return nil, err
	}

	plan := &AssembledPlan{
		Routes:     make([]*planning.Route, 0, assignment.UsedVehicles()),
		Shipments:  make([]*shipment.Shipment, 0, assignment.AssignedNodes()),
		LaborLogs:  make([]*driver.LaborLog, 0),
		Unassigned: append([]planning.UnassignedShipment{}, screened...),
	}

	for _, vr := range assignment.Routes {
		if vr.Empty() {
			continue
		}

		route, assigned, err := a.buildRoute(job, snapshot, model, &vr, shipmentsByID)
		if err != nil {
			return nil, err
		}

		plan.Routes = append(plan.Routes, route)
		plan.Shipments = append(plan.Shipments, assigned...)

		if a.settings.LaborDimensionEnabled && route.DriverID != "" {
			log, err := driver.NewLaborLog(utils.GenerateID(), route.DriverID, route.ID,
				job.PlanDate(), route.TotalDriveMinutes, route.TotalServiceMinutes)
			if err != nil {
				return nil, err
			}
			plan.LaborLogs = append(plan.LaborLogs, log)
		}
	}

	for _, nodeIdx := range assignment.DroppedNodes {
		node := &model.Nodes[nodeIdx]
		s := shipmentsByID[node.ShipmentID]
		plan.Unassigned = append(plan.Unassigned, planning.UnassignedShipment{
			ShipmentID:    node.ShipmentID,
			OrderNumber:   orderNumberOf(s),
			SLA:           string(node.SLA),
			LikelyReasons: a.classifyDrop(model, nodeIdx),
		})
	}

	plan.Summary = a.buildSummary(plan, assignment)
	return plan, nil
}

// classifyDrop names the likely dominant cause for a shipment the search
// left out. When even a direct drive from the depot breaches the ceiling
// on every vehicle, the cause is thermal; everything else lost out on
// capacity or routing grounds.
func (a *PlanAssembler) classifyDrop(model *planning.RoutingModel, nodeIdx int) []planning.UnassignedReason {
	node := &model.Nodes[nodeIdx]

	bestArrival := math.Inf(1)
	for i := range model.Vehicles {
		leg := thermo.Leg{
			TravelMinutes:  float64(model.TravelMinutes(0, nodeIdx)),
			ServiceMinutes: float64(node.ServiceMinutes),
			TempCeiling:    node.TempCeiling,
			TempFloor:      node.TempFloor,
		}
		profile := a.tracker.TrackRoute(model.Vehicles[i].Profile, model.InitialCargoTemp, model.AmbientTemp, []thermo.Leg{leg})
		if arr := profile.Stops[0].ArrivalTemp; arr < bestArrival {
			bestArrival = arr
		}
	}

	if len(model.Vehicles) > 0 && bestArrival > node.TempCeiling {
		return []planning.UnassignedReason{{
			Type:            planning.ReasonTemperature,
			Message:         "predicted arrival temperature breaches the ceiling on every vehicle",
			Parameter:       "temp_ceiling_c",
			CurrentValue:    fmt.Sprintf("%.1f", bestArrival),
			ConstraintValue: fmt.Sprintf("%.1f", node.TempCeiling),
		}}
	}

	return []planning.UnassignedReason{{
		Type:    planning.ReasonCapacityOrRouting,
		Message: "dropped by the search: serving it costs more than its drop penalty",
	}}
}

// checkDroppedMandatory fails the plan when the search dropped a node it
// was never allowed to drop.
func (a *PlanAssembler) checkDroppedMandatory(model *planning.RoutingModel, assignment *planning.Assignment) error {
	for _, nodeIdx := range assignment.DroppedNodes {
		node := &model.Nodes[nodeIdx]
		if node.Mandatory {
			return shared.NewInfeasibleError(fmt.Sprintf(
				"strict shipment %s could not be placed on any route", node.ShipmentID))
		}
	}
	return nil
}

// buildRoute materializes one vehicle's tour, re-running the tracker for
// the authoritative temperature profile.
func (a *PlanAssembler) buildRoute(
	job *planning.PlanJob,
	snapshot *Snapshot,
	model *planning.RoutingModel,
	vr *planning.VehicleRoute,
	shipmentsByID map[string]*shipment.Shipment,
) (*planning.Route, []*shipment.Shipment, error) {
	spec := &model.Vehicles[vr.VehicleIndex]

	route, err := planning.NewRoute(utils.GenerateID(), job.ID(), spec.VehicleID, spec.DriverID,
		snapshot.Depot.ID, job.PlanDate(), spec.LicensePlate)
	if err != nil {
		return nil, nil, err
	}

	legs := make([]thermo.Leg, 0, len(vr.Visits))
	prev := 0
	for _, visit := range vr.Visits {
		node := &model.Nodes[visit.Node]
		legs = append(legs, thermo.Leg{
			TravelMinutes:  float64(model.TravelMinutes(prev, visit.Node)),
			ServiceMinutes: float64(node.ServiceMinutes),
			TempCeiling:    node.TempCeiling,
			TempFloor:      node.TempFloor,
		})
		prev = visit.Node
	}
	profile := a.tracker.TrackRoute(spec.Profile, model.InitialCargoTemp, model.AmbientTemp, legs)

	assigned := make([]*shipment.Shipment, 0, len(vr.Visits))
	for i, visit := range vr.Visits {
		node := &model.Nodes[visit.Node]
		stopTemp := profile.Stops[i]

		if !stopTemp.Feasible {
			if node.SLA.IsHardConstraint() {
				return nil, nil, shared.NewInfeasibleError(fmt.Sprintf(
					"strict shipment %s arrives at %.1f°C, above its %.1f°C ceiling",
					node.ShipmentID, stopTemp.ArrivalTemp, node.TempCeiling))
			}
			route.IsFeasible = false
		}

		s := shipmentsByID[node.ShipmentID]
		sequence := i + 1
		if err := s.Assign(route.ID, sequence); err != nil {
			return nil, nil, err
		}
		assigned = append(assigned, s)

		route.Stops = append(route.Stops, planning.Stop{
			Sequence:               sequence,
			ShipmentID:             node.ShipmentID,
			Location:               node.Location,
			Address:                s.Address,
			ArrivalMinute:          visit.ArrivalMinute,
			DepartureMinute:        visit.DepartureMinute,
			WindowIndex:            visit.WindowIndex,
			SlackMinutes:           visit.SlackMinutes,
			WaitMinutes:            visit.WaitMinutes,
			PredictedArrivalTemp:   stopTemp.ArrivalTemp,
			TransitTempRise:        stopTemp.TransitRise,
			ServiceTempRise:        stopTemp.ServiceRise,
			CoolingApplied:         stopTemp.CoolingApplied,
			PredictedDepartureTemp: stopTemp.DepartureTemp,
			TempFeasible:           stopTemp.Feasible,
		})

		route.TotalLoadKg += s.WeightKg
		route.TotalVolumeM3 += s.VolumeM3
	}

	route.DepartureMinute = model.DepartureMinute
	route.ReturnMinute = vr.ReturnMinute
	route.TotalDistanceKm = roundKm(vr.DistanceMeters)
	route.TotalDriveMinutes = vr.DriveMinutes
	route.TotalServiceMinutes = vr.ServiceMinutes
	route.TotalWaitMinutes = vr.WaitMinutes
	route.TotalDurationMinutes = vr.ReturnMinute - model.DepartureMinute
	route.MaxPredictedTemp = profile.MaxArrivalTemp()
	route.FinalPredictedTemp = profile.FinalTemp()
	route.TotalCost = vr.Cost

	return route, assigned, nil
}

func (a *PlanAssembler) buildSummary(plan *AssembledPlan, assignment *planning.Assignment) map[string]interface{} {
	totalDuration := 0
	for _, r := range plan.Routes {
		totalDuration += r.TotalDurationMinutes
	}

	totalKm := roundKm(assignment.TotalDistanceMeters())

	return map[string]interface{}{
		"routes_created":          len(plan.Routes),
		"shipments_assigned":      len(plan.Shipments),
		"shipments_unassigned":    len(plan.Unassigned),
		"total_distance_km":       totalKm,
		"total_duration_minutes":  totalDuration,
		"total_cost":              assignment.TotalCost,
		"estimated_distance_cost": int64(math.Round(totalKm * float64(a.settings.DistanceCostPerKm))),
		"solver_status":           assignment.SolverStatus,
		"solver_time_seconds":     math.Round(assignment.SolveSeconds*100) / 100,
	}
}

func roundKm(meters int64) float64 {
	return math.Round(float64(meters)/10) / 100
}

func orderNumberOf(s *shipment.Shipment) string {
	if s == nil {
		return ""
	}
	return s.OrderNumber
}
