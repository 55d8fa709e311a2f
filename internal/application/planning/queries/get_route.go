package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GetRouteQuery represents a query for one route with its stops
type GetRouteQuery struct {
	RouteID string // Required
}

// GetRouteResponse carries the route
type GetRouteResponse struct {
	Route *planning.Route
}

// GetRouteHandler handles the GetRoute query
type GetRouteHandler struct {
	routeRepo planning.RouteRepository
}

// NewGetRouteHandler creates a new GetRouteHandler
func NewGetRouteHandler(routeRepo planning.RouteRepository) *GetRouteHandler {
	return &GetRouteHandler{routeRepo: routeRepo}
}

// Handle executes the GetRoute query
func (h *GetRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetRouteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRouteQuery")
	}

	if query.RouteID == "" {
		return nil, shared.NewValidationError("route_id", "route id is required")
	}

	route, err := h.routeRepo.FindByID(ctx, query.RouteID)
	if err != nil {
		return nil, err
	}

	return &GetRouteResponse{Route: route}, nil
}
