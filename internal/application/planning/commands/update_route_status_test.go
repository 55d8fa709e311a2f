package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

type routeStatusFixture struct {
	handler      *commands.UpdateRouteStatusHandler
	routeRepo    planning.RouteRepository
	shipmentRepo shipment.ShipmentRepository
}

// newRouteStatusFixture commits one SCHEDULED route with two assigned
// shipments, the way a finished plan job would.
func newRouteStatusFixture(t *testing.T) *routeStatusFixture {
	t.Helper()

	db := helpers.NewTestDB(t)
	routeRepo := persistence.NewGormRouteRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)

	job := planning.NewPlanJob("job-1", planning.PlanRequest{PlanDate: testPlanDate, AverageSpeedKmh: 30}, nil)
	require.NoError(t, job.SetSnapshot([]string{"VH-1"}, []string{"SH-1", "SH-2"}))
	require.NoError(t, job.Start())
	require.NoError(t, job.Complete())

	route, err := planning.NewRoute("route-1", "job-1", "VH-1", "DRV-1", "DEPOT-1", testPlanDate, "1234 ABC")
	require.NoError(t, err)
	route.DepartureMinute = 480
	route.ReturnMinute = 560
	route.Stops = []planning.Stop{
		{Sequence: 1, ShipmentID: "SH-1", Location: shared.Coordinate{Latitude: 40.43, Longitude: -3.70}, ArrivalMinute: 500, DepartureMinute: 510, TempFeasible: true},
		{Sequence: 2, ShipmentID: "SH-2", Location: shared.Coordinate{Latitude: 40.44, Longitude: -3.71}, ArrivalMinute: 520, DepartureMinute: 530, TempFeasible: true},
	}

	sh1 := helpers.CreateTestShipment("SH-1", 40.43, -3.70)
	require.NoError(t, sh1.Assign("route-1", 1))
	sh2 := helpers.CreateTestShipment("SH-2", 40.44, -3.71)
	require.NoError(t, sh2.Assign("route-1", 2))

	plan := &planning.Plan{
		Job:       job,
		Routes:    []*planning.Route{route},
		Shipments: []*shipment.Shipment{sh1, sh2},
	}
	require.NoError(t, persistence.NewGormPlanRepository(db).CommitPlan(context.Background(), plan))

	return &routeStatusFixture{
		handler:      commands.NewUpdateRouteStatusHandler(routeRepo, shipmentRepo),
		routeRepo:    routeRepo,
		shipmentRepo: shipmentRepo,
	}
}

func (f *routeStatusFixture) update(t *testing.T, status string, version int) (*commands.UpdateRouteStatusResponse, error) {
	t.Helper()
	response, err := f.handler.Handle(context.Background(), &commands.UpdateRouteStatusCommand{
		RouteID:         "route-1",
		Status:          status,
		ExpectedVersion: version,
	})
	if err != nil {
		return nil, err
	}
	return response.(*commands.UpdateRouteStatusResponse), nil
}

func (f *routeStatusFixture) shipmentStatus(t *testing.T, id string) shipment.Status {
	t.Helper()
	s, err := f.shipmentRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return s.Status
}

func TestUpdateRouteStatusHandler_StartsRouteAndShipments(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)

	// Act
	resp, err := fixture.update(t, "IN_PROGRESS", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.RouteStatusInProgress, resp.Route.Status)
	assert.Equal(t, 2, resp.Route.Version)

	stored, err := fixture.routeRepo.FindByID(context.Background(), "route-1")
	require.NoError(t, err)
	assert.Equal(t, planning.RouteStatusInProgress, stored.Status)
	assert.Equal(t, 2, stored.Version)

	assert.Equal(t, shipment.StatusInTransit, fixture.shipmentStatus(t, "SH-1"))
	assert.Equal(t, shipment.StatusInTransit, fixture.shipmentStatus(t, "SH-2"))
}

func TestUpdateRouteStatusHandler_CompletesRouteAndDeliversShipments(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)
	_, err := fixture.update(t, "IN_PROGRESS", 1)
	require.NoError(t, err)

	// Act - version advanced with the first transition
	resp, err := fixture.update(t, "COMPLETED", 2)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.RouteStatusCompleted, resp.Route.Status)
	assert.Equal(t, shipment.StatusDelivered, fixture.shipmentStatus(t, "SH-1"))
	assert.Equal(t, shipment.StatusDelivered, fixture.shipmentStatus(t, "SH-2"))
}

func TestUpdateRouteStatusHandler_AbortsScheduledRoute(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)

	// Act
	resp, err := fixture.update(t, "ABORTED", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.RouteStatusAborted, resp.Route.Status)
	assert.Equal(t, shipment.StatusFailed, fixture.shipmentStatus(t, "SH-1"))
	assert.Equal(t, shipment.StatusFailed, fixture.shipmentStatus(t, "SH-2"))
}

func TestUpdateRouteStatusHandler_StaleVersionConflicts(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)

	// Act
	_, err := fixture.update(t, "IN_PROGRESS", 7)

	// Assert - nothing moved
	var conflictErr *shared.ConflictError
	require.ErrorAs(t, err, &conflictErr)

	stored, findErr := fixture.routeRepo.FindByID(context.Background(), "route-1")
	require.NoError(t, findErr)
	assert.Equal(t, planning.RouteStatusScheduled, stored.Status)
	assert.Equal(t, shipment.StatusAssigned, fixture.shipmentStatus(t, "SH-1"))
}

func TestUpdateRouteStatusHandler_RejectsUnknownStatus(t *testing.T) {
	// SCHEDULED and PLANNING are real route states, but not ones a
	// dispatcher can move a route into.
	statuses := []string{"SCHEDULED", "PLANNING", "DONE", ""}

	for _, status := range statuses {
		t.Run(status, func(t *testing.T) {
			// Arrange
			fixture := newRouteStatusFixture(t)

			// Act
			_, err := fixture.update(t, status, 1)

			// Assert
			var validationErr *shared.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestUpdateRouteStatusHandler_RejectsIllegalTransition(t *testing.T) {
	// Arrange - a SCHEDULED route cannot complete without starting
	fixture := newRouteStatusFixture(t)

	// Act
	_, err := fixture.update(t, "COMPLETED", 1)

	// Assert
	var preconditionErr *shared.PreconditionFailureError
	require.ErrorAs(t, err, &preconditionErr)
	assert.Equal(t, shipment.StatusAssigned, fixture.shipmentStatus(t, "SH-1"))
}

func TestUpdateRouteStatusHandler_UnknownRoute(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)

	// Act
	_, err := fixture.handler.Handle(context.Background(), &commands.UpdateRouteStatusCommand{
		RouteID:         "missing",
		Status:          "IN_PROGRESS",
		ExpectedVersion: 1,
	})

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateRouteStatusHandler_RequiresRouteID(t *testing.T) {
	// Arrange
	fixture := newRouteStatusFixture(t)

	// Act
	_, err := fixture.handler.Handle(context.Background(), &commands.UpdateRouteStatusCommand{
		Status:          "IN_PROGRESS",
		ExpectedVersion: 1,
	})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
