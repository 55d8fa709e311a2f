package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// assemblerFixture builds a solvable two-shipment model around the Madrid
// depot so tests only vary the assignment fed back in.
type assemblerFixture struct {
	job      *planning.PlanJob
	snapshot *services.Snapshot
	model    *planning.RoutingModel
	screened []planning.UnassignedShipment
}

func newAssemblerFixture(t *testing.T, tiers ...shipment.SLATier) *assemblerFixture {
	t.Helper()

	slaFor := func(i int) shipment.SLATier {
		if i < len(tiers) {
			return tiers[i]
		}
		return shipment.SLAStandard
	}

	snapshot := buildTestSnapshot(t,
		[]*fleet.Vehicle{buildTestVehicle(t, "VH-1")},
		[]*shipment.Shipment{
			buildTestShipment(t, "SH-1", mustCoordinate(t, 40.42, -3.70), 150, slaFor(0), 50),
			buildTestShipment(t, "SH-2", mustCoordinate(t, 40.43, -3.71), 200, slaFor(1), 60),
		},
	)
	snapshot.Drivers["VH-1"] = &driver.Driver{ID: "DRV-1", VehicleID: "VH-1"}

	request := baseRequest()
	job := planning.NewPlanJob("job-1", request, nil)

	builder := services.NewModelBuilder(testSettings())
	result, err := builder.Build(snapshot, request)
	require.NoError(t, err)
	require.Empty(t, result.Screened)

	return &assemblerFixture{
		job:      job,
		snapshot: snapshot,
		model:    result.Model,
		screened: result.Screened,
	}
}

func twoStopAssignment() *planning.Assignment {
	return &planning.Assignment{
		Routes: []planning.VehicleRoute{{
			VehicleIndex: 0,
			Visits: []planning.Visit{
				{Node: 1, ArrivalMinute: 480, DepartureMinute: 490, WaitMinutes: 115, SlackMinutes: 720},
				{Node: 2, ArrivalMinute: 495, DepartureMinute: 505, WaitMinutes: 0, SlackMinutes: 705},
			},
			DistanceMeters: 12345,
			DriveMinutes:   40,
			ServiceMinutes: 20,
			WaitMinutes:    115,
			ReturnMinute:   520,
			Cost:           98765,
		}},
		SolverStatus: planning.SolverStatusSuccess,
		SolveSeconds: 1.234,
		TotalCost:    98765,
	}
}

func TestPlanAssembler_CommitsRoutes(t *testing.T) {
	// Arrange
	fixture := newAssemblerFixture(t)
	assembler := services.NewPlanAssembler(testSettings())

	// Act
	plan, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, twoStopAssignment(), fixture.screened)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan.Routes, 1)

	route := plan.Routes[0]
	assert.NotEmpty(t, route.ID)
	assert.Equal(t, "R-20250701-1234ABC-job-1", route.Code)
	assert.Equal(t, planning.RouteStatusScheduled, route.Status)
	assert.Equal(t, "VH-1", route.VehicleID)
	assert.Equal(t, "DRV-1", route.DriverID)
	assert.Equal(t, 12.35, route.TotalDistanceKm)
	assert.Equal(t, 40, route.TotalDriveMinutes)
	assert.Equal(t, 115, route.TotalWaitMinutes)
	assert.Equal(t, 360, route.DepartureMinute)
	assert.Equal(t, 520, route.ReturnMinute)
	assert.Equal(t, 160, route.TotalDurationMinutes)
	assert.Equal(t, 350.0, route.TotalLoadKg)
	assert.True(t, route.IsFeasible)

	// Stops carry the schedule and the tracker's predictions in order
	require.Len(t, route.Stops, 2)
	assert.Equal(t, 1, route.Stops[0].Sequence)
	assert.Equal(t, "SH-1", route.Stops[0].ShipmentID)
	assert.Equal(t, 480, route.Stops[0].ArrivalMinute)
	assert.Equal(t, 115, route.Stops[0].WaitMinutes)
	assert.True(t, route.Stops[0].TempFeasible)
	assert.Equal(t, "SH-2", route.Stops[1].ShipmentID)

	// Shipments moved to ASSIGNED with their placement
	require.Len(t, plan.Shipments, 2)
	assert.Equal(t, shipment.StatusAssigned, plan.Shipments[0].Status)
	assert.Equal(t, route.ID, plan.Shipments[0].RouteID)
	assert.Equal(t, 1, plan.Shipments[0].RouteSequence)
	assert.Equal(t, 2, plan.Shipments[1].RouteSequence)

	// Driver gets a labor booking for the tour
	require.Len(t, plan.LaborLogs, 1)
	assert.Equal(t, "DRV-1", plan.LaborLogs[0].DriverID)
	assert.Equal(t, route.ID, plan.LaborLogs[0].RouteID)
	assert.Equal(t, 60, plan.LaborLogs[0].TotalMinutes())

	assert.Empty(t, plan.Unassigned)
}

func TestPlanAssembler_Summary(t *testing.T) {
	// Arrange
	fixture := newAssemblerFixture(t)
	assembler := services.NewPlanAssembler(testSettings())

	// Act
	plan, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, twoStopAssignment(), fixture.screened)

	// Assert
	require.NoError(t, err)
	summary := plan.Summary
	assert.Equal(t, 1, summary["routes_created"])
	assert.Equal(t, 2, summary["shipments_assigned"])
	assert.Equal(t, 0, summary["shipments_unassigned"])
	assert.Equal(t, 12.35, summary["total_distance_km"])
	assert.Equal(t, 160, summary["total_duration_minutes"])
	assert.Equal(t, int64(98765), summary["total_cost"])
	assert.Equal(t, int64(124), summary["estimated_distance_cost"])
	assert.Equal(t, planning.SolverStatusSuccess, summary["solver_status"])
	assert.Equal(t, 1.23, summary["solver_time_seconds"])
}

func TestPlanAssembler_DroppedStandardBecomesUnassigned(t *testing.T) {
	// Arrange - the search served SH-1 and dropped SH-2
	fixture := newAssemblerFixture(t)
	assembler := services.NewPlanAssembler(testSettings())
	assignment := &planning.Assignment{
		Routes: []planning.VehicleRoute{{
			VehicleIndex: 0,
			Visits: []planning.Visit{
				{Node: 1, ArrivalMinute: 370, DepartureMinute: 380},
			},
			DistanceMeters: 5000,
			DriveMinutes:   15,
			ServiceMinutes: 10,
			ReturnMinute:   420,
		}},
		DroppedNodes: []int{2},
		SolverStatus: planning.SolverStatusSuccess,
	}

	// Pre-screened shipments ride along into the unassigned list
	screened := []planning.UnassignedShipment{{
		ShipmentID: "SH-SCREENED",
		SLA:        string(shipment.SLAStandard),
	}}

	// Act
	plan, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, assignment, screened)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan.Unassigned, 2)
	assert.Equal(t, "SH-SCREENED", plan.Unassigned[0].ShipmentID)
	assert.Equal(t, "SH-2", plan.Unassigned[1].ShipmentID)
	require.NotEmpty(t, plan.Unassigned[1].LikelyReasons)
	assert.Equal(t, planning.ReasonCapacityOrRouting, plan.Unassigned[1].LikelyReasons[0].Type)

	assert.Equal(t, 2, plan.Summary["shipments_unassigned"])

	// The dropped shipment stays PENDING
	assert.Equal(t, shipment.StatusPending, fixture.snapshot.Shipments[1].Status)
}

func TestPlanAssembler_DroppedByHeatGetsTemperatureDiagnostic(t *testing.T) {
	// Arrange - a basic box with no active cooling cannot keep a distant
	// frozen-goods stop under its 0 degree ceiling on a 40 degree day
	vehicle, err := fleet.NewVehicle("VH-1", "1234 ABC", 1200, 14, fleet.InsulationBasic, fleet.DoorSwing)
	require.NoError(t, err)
	vehicle.MinTempCapability = -20
	vehicle.CoolingRate = 0

	window, err := shipment.NewTimeWindow(480, 1200)
	require.NoError(t, err)
	far, err := shipment.NewShipment("SH-FAR", mustCoordinate(t, 40.8215, -3.7038), 150, 0.5,
		[]shipment.TimeWindow{window}, 10, 0, shipment.SLAStandard, 50)
	require.NoError(t, err)

	snapshot := buildTestSnapshot(t, []*fleet.Vehicle{vehicle}, []*shipment.Shipment{far})
	request := baseRequest()
	request.AmbientTemp = 40
	request.InitialCargoTemp = -5

	builder := services.NewModelBuilder(testSettings())
	result, err := builder.Build(snapshot, request)
	require.NoError(t, err)
	require.Empty(t, result.Screened)

	job := planning.NewPlanJob("job-1", request, nil)
	assignment := &planning.Assignment{
		Routes:       []planning.VehicleRoute{{VehicleIndex: 0}},
		DroppedNodes: []int{1},
		SolverStatus: planning.SolverStatusSuccess,
	}

	// Act
	plan, err := services.NewPlanAssembler(testSettings()).Assemble(job, snapshot, result.Model, assignment, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan.Unassigned, 1)
	reasons := plan.Unassigned[0].LikelyReasons
	require.Len(t, reasons, 1)
	assert.Equal(t, planning.ReasonTemperature, reasons[0].Type)
	assert.Equal(t, "temp_ceiling_c", reasons[0].Parameter)
	assert.Equal(t, "0.0", reasons[0].ConstraintValue)
}

func TestPlanAssembler_DroppedMandatoryFails(t *testing.T) {
	// Arrange - SH-2 is strict, the search dropped it anyway
	fixture := newAssemblerFixture(t, shipment.SLAStandard, shipment.SLAStrict)
	assembler := services.NewPlanAssembler(testSettings())
	assignment := &planning.Assignment{
		Routes:       []planning.VehicleRoute{},
		DroppedNodes: []int{2},
		SolverStatus: planning.SolverStatusSuccess,
	}

	// Act
	_, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, assignment, nil)

	// Assert
	var infeasibleErr *shared.InfeasibleError
	require.ErrorAs(t, err, &infeasibleErr)
	assert.Contains(t, err.Error(), "SH-2")
}

func TestPlanAssembler_StrictThermalBreachFailsPlan(t *testing.T) {
	// Arrange - cargo loaded above the ceiling; short hops cannot cool
	// two degrees, so the strict stop must breach.
	fixture := newAssemblerFixtureWithCargoTemp(t, 6.0, shipment.SLAStrict)
	assembler := services.NewPlanAssembler(testSettings())

	// Act
	_, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, twoStopAssignment(), fixture.screened)

	// Assert
	var infeasibleErr *shared.InfeasibleError
	require.ErrorAs(t, err, &infeasibleErr)
	assert.Contains(t, err.Error(), "SH-1")
}

func TestPlanAssembler_StandardThermalBreachMarksRouteInfeasible(t *testing.T) {
	// Arrange - same breach on a standard-tier stop commits with a flag
	fixture := newAssemblerFixtureWithCargoTemp(t, 6.0, shipment.SLAStandard)
	assembler := services.NewPlanAssembler(testSettings())

	// Act
	plan, err := assembler.Assemble(fixture.job, fixture.snapshot, fixture.model, twoStopAssignment(), fixture.screened)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan.Routes, 1)
	assert.False(t, plan.Routes[0].IsFeasible)
	assert.False(t, plan.Routes[0].Stops[0].TempFeasible)
	assert.Equal(t, shipment.StatusAssigned, plan.Shipments[0].Status)
}

// newAssemblerFixtureWithCargoTemp loads the cargo warmer than the 4.0
// ceiling shared by the fixture shipments.
func newAssemblerFixtureWithCargoTemp(t *testing.T, initialTemp float64, firstTier shipment.SLATier) *assemblerFixture {
	t.Helper()

	snapshot := buildTestSnapshot(t,
		[]*fleet.Vehicle{buildTestVehicle(t, "VH-1")},
		[]*shipment.Shipment{
			buildTestShipment(t, "SH-1", mustCoordinate(t, 40.42, -3.70), 150, firstTier, 50),
			buildTestShipment(t, "SH-2", mustCoordinate(t, 40.43, -3.71), 200, shipment.SLAStandard, 60),
		},
	)

	request := baseRequest()
	request.InitialCargoTemp = initialTemp
	job := planning.NewPlanJob("job-1", request, nil)

	builder := services.NewModelBuilder(testSettings())
	result, err := builder.Build(snapshot, request)
	require.NoError(t, err)
	require.Empty(t, result.Screened)

	return &assemblerFixture{
		job:      job,
		snapshot: snapshot,
		model:    result.Model,
		screened: result.Screened,
	}
}
