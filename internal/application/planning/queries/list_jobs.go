package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

const defaultJobListLimit = 50

// ListJobsQuery represents a query for recent jobs
type ListJobsQuery struct {
	Status   string    // Optional: filter by job status
	PlanDate time.Time // Optional: filter by the date the jobs planned for
	Limit    int       // Optional: defaults to 50
}

// ListJobsResponse carries the jobs, newest first
type ListJobsResponse struct {
	Jobs []*planning.PlanJob
}

// ListJobsHandler handles the ListJobs query
type ListJobsHandler struct {
	jobRepo planning.PlanJobRepository
}

// NewListJobsHandler creates a new ListJobsHandler
func NewListJobsHandler(jobRepo planning.PlanJobRepository) *ListJobsHandler {
	return &ListJobsHandler{jobRepo: jobRepo}
}

// Handle executes the ListJobs query
func (h *ListJobsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListJobsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListJobsQuery")
	}

	status := planning.JobStatus("")
	switch planning.JobStatus(query.Status) {
	case "", planning.JobStatusPending, planning.JobStatusRunning,
		planning.JobStatusCompleted, planning.JobStatusFailed, planning.JobStatusCancelled:
		status = planning.JobStatus(query.Status)
	default:
		return nil, shared.NewValidationError("status",
			fmt.Sprintf("unknown job status %q", query.Status))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultJobListLimit
	}

	jobs, err := h.jobRepo.List(ctx, status, query.PlanDate, limit)
	if err != nil {
		return nil, err
	}

	return &ListJobsResponse{Jobs: jobs}, nil
}
