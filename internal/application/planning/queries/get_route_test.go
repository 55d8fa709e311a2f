package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestGetRouteHandler_ReturnsRouteWithStops(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	fixture.seedPlan(t)
	handler := queries.NewGetRouteHandler(fixture.routeRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.GetRouteQuery{RouteID: "route-1"})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.GetRouteResponse)
	assert.Equal(t, "route-1", resp.Route.ID)
	assert.Equal(t, "R-20250701-1234ABC-job-1", resp.Route.Code)
	require.Len(t, resp.Route.Stops, 2)
	assert.Equal(t, "SH-1", resp.Route.Stops[0].ShipmentID)
	assert.Equal(t, "SH-2", resp.Route.Stops[1].ShipmentID)
}

func TestGetRouteHandler_UnknownRoute(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewGetRouteHandler(fixture.routeRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetRouteQuery{RouteID: "missing"})

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetRouteHandler_RequiresRouteID(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewGetRouteHandler(fixture.routeRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetRouteQuery{})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
