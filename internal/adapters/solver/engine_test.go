package solver_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/solver"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/geo"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// Test geometry uses 60 km/h so travel minutes equal kilometers. One
// hundredth of a degree of latitude is roughly 1.1 km.
const testSpeedKmh = 60.0

func coordAt(lat, lon float64) shared.Coordinate {
	c, err := shared.NewCoordinate(lat, lon)
	if err != nil {
		panic(err)
	}
	return *c
}

func testReefer(id string, capKg float64) *fleet.Vehicle {
	v, err := fleet.NewVehicle(id, "TST-"+id, capKg, 20, fleet.InsulationPremium, fleet.DoorRoll)
	if err != nil {
		panic(err)
	}
	v.HasStripCurtains = true
	v.MinTempCapability = -20
	return v
}

func deliveryNode(index int, weightKg float64, windows []shipment.TimeWindow, sla shipment.SLATier) planning.Node {
	penalty := int64(10000000)
	if sla == shipment.SLAStandard {
		// 3x fixed cost scaled by the default priority of 50
		penalty = 50000 * 3 * 51 / 100
	}
	return planning.Node{
		Index:          index,
		ShipmentID:     fmt.Sprintf("shp-%d", index),
		DemandGrams:    int64(weightKg * 1000),
		DemandLiters:   500,
		ServiceMinutes: 10,
		Windows:        windows,
		TempCeiling:    4,
		SLA:            sla,
		Priority:       50,
		Mandatory:      sla.IsHardConstraint(),
		DropPenalty:    penalty,
	}
}

func allDay() []shipment.TimeWindow {
	return []shipment.TimeWindow{{StartMinute: 360, EndMinute: 1020}}
}

// newTestModel wires nodes and vehicles over a haversine matrix built
// from the points. points[0] is the depot and points[i] is node i's
// location; departure is 06:00 with a 12 hour tour bound.
func newTestModel(t *testing.T, vehicles []*fleet.Vehicle, nodes []planning.Node, points []shared.Coordinate, strategy planning.Strategy) *planning.RoutingModel {
	t.Helper()
	require.Equal(t, len(nodes)+1, len(points), "one point per node plus the depot")

	matrices, err := geo.BuildMatrices(points, testSpeedKmh)
	require.NoError(t, err)

	fixedCost := int64(0)
	if strategy == planning.StrategyMinimizeVehicles {
		fixedCost = 50000
		for i := range matrices.Distance {
			for j := range matrices.Distance[i] {
				if floor := matrices.Distance[i][j] * 10; floor > fixedCost {
					fixedCost = floor
				}
			}
		}
	}

	specs := make([]planning.VehicleSpec, len(vehicles))
	for i, v := range vehicles {
		specs[i] = planning.VehicleSpec{
			Index:           i,
			VehicleID:       v.ID,
			LicensePlate:    v.LicensePlate,
			CapacityGrams:   int64(v.MaxWeightKg * 1000),
			CapacityLiters:  int64(v.MaxVolumeM3 * 1000),
			FixedCost:       fixedCost,
			MaxRouteMinutes: 720,
			Profile:         v,
		}
	}

	all := make([]planning.Node, 0, len(nodes)+1)
	all = append(all, planning.Node{Index: 0, Location: points[0]})
	for i, n := range nodes {
		n.Index = i + 1
		n.Location = points[i+1]
		all = append(all, n)
	}

	return &planning.RoutingModel{
		Nodes:            all,
		Vehicles:         specs,
		Matrices:         matrices,
		DepartureMinute:  360,
		HorizonMinutes:   1080,
		AmbientTemp:      30,
		InitialCargoTemp: -5,
		Strategy:         strategy,
		TimeLimit:        5 * time.Second,
		Costs: planning.CostModel{
			DistanceCostPerKm:     10,
			TempViolationPenalty:  100000,
			InfeasibleCost:        10000000,
			LateDeliveryPenalty:   1000,
			GlobalSpanCoefficient: 10,
			LaborPenaltyBase:      50000,
		},
	}
}

// routeNodes flattens an assignment into per-vehicle node sequences
func routeNodes(assignment *planning.Assignment) map[int][]int {
	out := make(map[int][]int)
	for _, r := range assignment.Routes {
		if r.Empty() {
			continue
		}
		seq := make([]int, 0, len(r.Visits))
		for _, v := range r.Visits {
			seq = append(seq, v.Node)
		}
		out[r.VehicleIndex] = seq
	}
	return out
}

// assertSchedulesValid checks window containment and time propagation on
// every visit of every route.
func assertSchedulesValid(t *testing.T, model *planning.RoutingModel, assignment *planning.Assignment) {
	t.Helper()
	for _, r := range assignment.Routes {
		prev := 0
		prevDeparture := model.DepartureMinute
		for _, v := range r.Visits {
			node := model.Nodes[v.Node]
			reached := prevDeparture + int(model.TravelMinutes(prev, v.Node))
			assert.Equal(t, reached+v.WaitMinutes, v.ArrivalMinute)

			window := node.Windows[v.WindowIndex]
			assert.GreaterOrEqual(t, v.ArrivalMinute, window.StartMinute)
			assert.LessOrEqual(t, v.ArrivalMinute+node.ServiceMinutes, window.EndMinute)
			assert.Equal(t, v.ArrivalMinute+node.ServiceMinutes, v.DepartureMinute)

			prev = v.Node
			prevDeparture = v.DepartureMinute
		}
		if !r.Empty() {
			assert.Equal(t, prevDeparture+int(model.TravelMinutes(prev, 0)), r.ReturnMinute)
			assert.LessOrEqual(t, r.ReturnMinute, model.DepartureMinute+720)
		}
	}
}

func TestNativeSolverEngine_AssignsAllShipmentsOnOneVehicle(t *testing.T) {
	// Arrange
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
		coordAt(40.44, -3.70),
		coordAt(40.46, -3.70),
	}
	nodes := []planning.Node{
		deliveryNode(1, 100, allDay(), shipment.SLAStandard),
		deliveryNode(2, 100, allDay(), shipment.SLAStandard),
		deliveryNode(3, 100, allDay(), shipment.SLAStandard),
	}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.SolverStatusSuccess, assignment.SolverStatus)
	assert.Empty(t, assignment.DroppedNodes)
	assert.Equal(t, 3, assignment.AssignedNodes())
	assert.Equal(t, 1, assignment.UsedVehicles())
	assertSchedulesValid(t, model, assignment)
}

func TestNativeSolverEngine_PrefersFewerVehicles(t *testing.T) {
	// Arrange - both vehicles could serve, one suffices
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.41, -3.70),
		coordAt(40.42, -3.70),
		coordAt(40.43, -3.70),
	}
	nodes := []planning.Node{
		deliveryNode(1, 100, allDay(), shipment.SLAStandard),
		deliveryNode(2, 100, allDay(), shipment.SLAStandard),
		deliveryNode(3, 100, allDay(), shipment.SLAStandard),
	}
	vehicles := []*fleet.Vehicle{testReefer("v1", 1000), testReefer("v2", 1000)}
	model := newTestModel(t, vehicles, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, assignment.DroppedNodes)
	assert.Equal(t, 1, assignment.UsedVehicles())
}

func TestNativeSolverEngine_SplitsRoutesWhenCapacityBinds(t *testing.T) {
	// Arrange - two 800kg pallets cannot share a 1000kg box
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
		coordAt(40.44, -3.70),
	}
	nodes := []planning.Node{
		deliveryNode(1, 800, allDay(), shipment.SLAStandard),
		deliveryNode(2, 800, allDay(), shipment.SLAStandard),
	}
	vehicles := []*fleet.Vehicle{testReefer("v1", 1000), testReefer("v2", 1000)}
	model := newTestModel(t, vehicles, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, assignment.DroppedNodes)
	assert.Equal(t, 2, assignment.UsedVehicles())
	assertSchedulesValid(t, model, assignment)
}

func TestNativeSolverEngine_DropsStandardShipmentWithClosedWindows(t *testing.T) {
	// Arrange - node 2's only window closes before the 06:00 departure
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
		coordAt(40.44, -3.70),
	}
	nodes := []planning.Node{
		deliveryNode(1, 100, allDay(), shipment.SLAStandard),
		deliveryNode(2, 100, []shipment.TimeWindow{{StartMinute: 100, EndMinute: 120}}, shipment.SLAStandard),
	}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.SolverStatusSuccess, assignment.SolverStatus)
	assert.Equal(t, []int{2}, assignment.DroppedNodes)
	assert.Equal(t, 1, assignment.AssignedNodes())
}

func TestNativeSolverEngine_KeepsStrictShipmentWhenCapacityAllowsOnlyOne(t *testing.T) {
	// Arrange - one box, two 800kg pallets, only the STRICT one must ride
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
		coordAt(40.44, -3.70),
	}
	nodes := []planning.Node{
		deliveryNode(1, 800, allDay(), shipment.SLAStandard),
		deliveryNode(2, 800, allDay(), shipment.SLAStrict),
	}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{1}, assignment.DroppedNodes)
	routes := routeNodes(assignment)
	require.Len(t, routes, 1)
	for _, seq := range routes {
		assert.Equal(t, []int{2}, seq)
	}
}

func TestNativeSolverEngine_WaitsForSecondWindowWhenDeliveryFitsNeither(t *testing.T) {
	// Arrange - the first window is too short for the 10 minute service,
	// so the vehicle waits for the second one to open
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.45, -3.70),
	}
	windows := []shipment.TimeWindow{
		{StartMinute: 360, EndMinute: 368},
		{StartMinute: 480, EndMinute: 540},
	}
	nodes := []planning.Node{deliveryNode(1, 100, windows, shipment.SLAStandard)}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	require.Equal(t, 1, assignment.AssignedNodes())

	reached := model.DepartureMinute + int(model.TravelMinutes(0, 1))
	var visit planning.Visit
	for _, r := range assignment.Routes {
		if !r.Empty() {
			visit = r.Visits[0]
		}
	}
	assert.Equal(t, 1, visit.WindowIndex)
	assert.Equal(t, 480, visit.ArrivalMinute)
	assert.Equal(t, 480-reached, visit.WaitMinutes)
	assert.Equal(t, 490, visit.DepartureMinute)
}

func TestNativeSolverEngine_AvoidsReeferThatWouldBreachCeiling(t *testing.T) {
	// Arrange - 90 minutes of driving heats the basic box past the 0°C
	// ceiling while the premium reefer keeps cooling
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(41.21, -3.70), // ~90 km north
	}
	node := deliveryNode(1, 100, allDay(), shipment.SLAStrict)
	node.TempCeiling = 0

	leaky := testReefer("v-basic", 1000)
	leaky.Insulation = fleet.InsulationBasic
	leaky.HasStripCurtains = false
	leaky.CoolingRate = 0

	model := newTestModel(t, []*fleet.Vehicle{leaky, testReefer("v-premium", 1000)},
		[]planning.Node{node}, points, planning.StrategyMinimizeDistance)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, assignment.DroppedNodes)
	routes := routeNodes(assignment)
	require.Len(t, routes, 1)
	_, servedByPremium := routes[1]
	assert.True(t, servedByPremium, "expected the premium reefer to take the stop")
}

func TestNativeSolverEngine_LaborBoundIsSoft(t *testing.T) {
	// Arrange - an exhausted driver costs overtime but can still be used
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.49, -3.70), // ~10 km
	}
	nodes := []planning.Node{deliveryNode(1, 100, allDay(), shipment.SLAStandard)}

	exhausted := 10
	rested := 600

	t.Run("prefers the rested driver", func(t *testing.T) {
		vehicles := []*fleet.Vehicle{testReefer("v-tired", 1000), testReefer("v-rested", 1000)}
		model := newTestModel(t, vehicles, nodes, points, planning.StrategyMinimizeDistance)
		model.Vehicles[0].LaborBoundMinutes = &exhausted
		model.Vehicles[1].LaborBoundMinutes = &rested
		engine := solver.NewNativeSolverEngine(nil)

		// Act
		assignment, err := engine.Solve(context.Background(), model)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, assignment.DroppedNodes)
		routes := routeNodes(assignment)
		_, servedByRested := routes[1]
		assert.True(t, servedByRested, "expected the rested driver to take the stop")
	})

	t.Run("still serves when every driver is over budget", func(t *testing.T) {
		model := newTestModel(t, []*fleet.Vehicle{testReefer("v-tired", 1000)}, nodes, points, planning.StrategyMinimizeDistance)
		model.Vehicles[0].LaborBoundMinutes = &exhausted
		engine := solver.NewNativeSolverEngine(nil)

		// Act
		assignment, err := engine.Solve(context.Background(), model)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, assignment.DroppedNodes)
		assert.Equal(t, 1, assignment.AssignedNodes())
	})
}

func TestNativeSolverEngine_EmptyModelSucceeds(t *testing.T) {
	// Arrange
	points := []shared.Coordinate{coordAt(40.40, -3.70)}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nil, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.SolverStatusSuccess, assignment.SolverStatus)
	assert.Equal(t, 0, assignment.AssignedNodes())
	assert.Empty(t, assignment.DroppedNodes)
}

func TestNativeSolverEngine_ZeroTimeLimitReportsTimeout(t *testing.T) {
	// Arrange
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
	}
	nodes := []planning.Node{deliveryNode(1, 100, allDay(), shipment.SLAStandard)}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	model.TimeLimit = 0
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	assignment, err := engine.Solve(context.Background(), model)

	// Assert
	require.Error(t, err)
	assert.Nil(t, assignment)
	var timeoutErr *shared.SolverTimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
}

func TestNativeSolverEngine_CancelledContextStopsSearch(t *testing.T) {
	// Arrange
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.70),
	}
	nodes := []planning.Node{deliveryNode(1, 100, allDay(), shipment.SLAStandard)}
	model := newTestModel(t, []*fleet.Vehicle{testReefer("v1", 1000)}, nodes, points, planning.StrategyMinimizeVehicles)
	engine := solver.NewNativeSolverEngine(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	assignment, err := engine.Solve(ctx, model)

	// Assert
	require.Error(t, err)
	assert.Nil(t, assignment)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNativeSolverEngine_DeterministicAcrossRuns(t *testing.T) {
	// Arrange
	points := []shared.Coordinate{
		coordAt(40.40, -3.70),
		coordAt(40.42, -3.72),
		coordAt(40.44, -3.68),
		coordAt(40.46, -3.71),
		coordAt(40.48, -3.69),
	}
	nodes := []planning.Node{
		deliveryNode(1, 300, allDay(), shipment.SLAStandard),
		deliveryNode(2, 300, allDay(), shipment.SLAStrict),
		deliveryNode(3, 300, allDay(), shipment.SLAStandard),
		deliveryNode(4, 300, allDay(), shipment.SLAStandard),
	}
	vehicles := []*fleet.Vehicle{testReefer("v1", 1000), testReefer("v2", 1000)}
	engine := solver.NewNativeSolverEngine(nil)

	// Act
	first, err := engine.Solve(context.Background(), newTestModel(t, vehicles, nodes, points, planning.StrategyMinimizeVehicles))
	require.NoError(t, err)
	second, err := engine.Solve(context.Background(), newTestModel(t, vehicles, nodes, points, planning.StrategyMinimizeVehicles))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, routeNodes(first), routeNodes(second))
	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.DroppedNodes, second.DroppedNodes)
}
