package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GetJobStatusQuery represents a query for one job's full record
type GetJobStatusQuery struct {
	JobID string // Required
}

// GetJobStatusResponse carries the job and the ids of any routes it
// committed
type GetJobStatusResponse struct {
	Job      *planning.PlanJob
	RouteIDs []string
}

// GetJobStatusHandler handles the GetJobStatus query
type GetJobStatusHandler struct {
	jobRepo   planning.PlanJobRepository
	routeRepo planning.RouteRepository
}

// NewGetJobStatusHandler creates a new GetJobStatusHandler
func NewGetJobStatusHandler(jobRepo planning.PlanJobRepository, routeRepo planning.RouteRepository) *GetJobStatusHandler {
	return &GetJobStatusHandler{
		jobRepo:   jobRepo,
		routeRepo: routeRepo,
	}
}

// Handle executes the GetJobStatus query
func (h *GetJobStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetJobStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetJobStatusQuery")
	}

	if query.JobID == "" {
		return nil, shared.NewValidationError("job_id", "job id is required")
	}

	job, err := h.jobRepo.FindByID(ctx, query.JobID)
	if err != nil {
		return nil, err
	}

	routeIDs := make([]string, 0)
	if job.Status() == planning.JobStatusCompleted {
		routes, err := h.routeRepo.FindByJobID(ctx, job.ID())
		if err != nil {
			return nil, err
		}
		for _, r := range routes {
			routeIDs = append(routeIDs, r.ID)
		}
	}

	return &GetJobStatusResponse{
		Job:      job,
		RouteIDs: routeIDs,
	}, nil
}
