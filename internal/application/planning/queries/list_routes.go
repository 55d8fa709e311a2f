package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// ListRoutesQuery represents a query for a plan date's routes
type ListRoutesQuery struct {
	PlanDate time.Time // Required unless JobID is set
	JobID    string    // Optional: one job's routes instead
}

// ListRoutesResponse carries the routes with their stops
type ListRoutesResponse struct {
	Routes []*planning.Route
}

// ListRoutesHandler handles the ListRoutes query
type ListRoutesHandler struct {
	routeRepo planning.RouteRepository
}

// NewListRoutesHandler creates a new ListRoutesHandler
func NewListRoutesHandler(routeRepo planning.RouteRepository) *ListRoutesHandler {
	return &ListRoutesHandler{routeRepo: routeRepo}
}

// Handle executes the ListRoutes query
func (h *ListRoutesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListRoutesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRoutesQuery")
	}

	if query.JobID != "" {
		routes, err := h.routeRepo.FindByJobID(ctx, query.JobID)
		if err != nil {
			return nil, err
		}
		return &ListRoutesResponse{Routes: routes}, nil
	}

	if query.PlanDate.IsZero() {
		return nil, shared.NewValidationError("plan_date", "plan date or job id is required")
	}

	routes, err := h.routeRepo.FindByPlanDate(ctx, query.PlanDate)
	if err != nil {
		return nil, err
	}

	return &ListRoutesResponse{Routes: routes}, nil
}
