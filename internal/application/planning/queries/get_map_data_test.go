package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func TestGetMapDataHandler_BuildsRouteLayers(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	fixture.seedPlan(t)
	handler := queries.NewGetMapDataHandler(fixture.routeRepo, fixture.depotRepo, fixture.shipmentRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.GetMapDataQuery{PlanDate: testPlanDate})

	// Assert - depot framing comes from the route
	require.NoError(t, err)
	resp := response.(*queries.GetMapDataResponse)
	assert.Equal(t, "DEPOT-1", resp.DepotID)
	assert.InDelta(t, helpers.TestDepotLat, resp.DepotLocation.Latitude, 1e-9)
	assert.InDelta(t, helpers.TestDepotLon, resp.DepotLocation.Longitude, 1e-9)

	require.Len(t, resp.Routes, 1)
	route := resp.Routes[0]
	assert.Equal(t, "route-1", route.RouteID)
	assert.Equal(t, "VH-1", route.VehicleID)
	assert.Equal(t, "SCHEDULED", route.Status)
	assert.Equal(t, "#e6194b", route.Color)

	require.Len(t, route.Stops, 2)
	first := route.Stops[0]
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, "SH-1", first.ShipmentID)
	assert.Equal(t, "09:00", first.ArrivalTime)
	assert.Equal(t, "09:10", first.DepartureTime)
	assert.InDelta(t, 4.0, first.TempCeiling, 1e-9)
	assert.True(t, first.Feasible)
	assert.Equal(t, "09:30", route.Stops[1].ArrivalTime)
}

func TestGetMapDataHandler_EmptyDayFallsBackToDefaultDepot(t *testing.T) {
	// Arrange - depot only, no routes committed
	fixture := newQueriesFixture(t)
	ctx := context.Background()
	require.NoError(t, fixture.depotRepo.Save(ctx, helpers.CreateTestDepot("DEPOT-1")))
	require.NoError(t, fixture.depotRepo.MarkDefault(ctx, "DEPOT-1"))
	handler := queries.NewGetMapDataHandler(fixture.routeRepo, fixture.depotRepo, fixture.shipmentRepo)

	// Act
	response, err := handler.Handle(ctx, &queries.GetMapDataQuery{PlanDate: testPlanDate})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.GetMapDataResponse)
	assert.Equal(t, "DEPOT-1", resp.DepotID)
	assert.Empty(t, resp.Routes)
}

func TestGetMapDataHandler_RequiresPlanDate(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewGetMapDataHandler(fixture.routeRepo, fixture.depotRepo, fixture.shipmentRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetMapDataQuery{})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
