package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

const defaultJobLogLimit = 100

// GetJobLogsQuery represents a query for a job's execution log
type GetJobLogsQuery struct {
	JobID string // Required
	Limit int    // Optional: defaults to 100 most recent lines
}

// GetJobLogsResponse carries the persisted log entries, oldest first
type GetJobLogsResponse struct {
	Entries []planning.JobLogEntry
}

// GetJobLogsHandler handles the GetJobLogs query
type GetJobLogsHandler struct {
	jobRepo planning.PlanJobRepository
	logRepo planning.JobLogRepository
}

// NewGetJobLogsHandler creates a new GetJobLogsHandler
func NewGetJobLogsHandler(jobRepo planning.PlanJobRepository, logRepo planning.JobLogRepository) *GetJobLogsHandler {
	return &GetJobLogsHandler{
		jobRepo: jobRepo,
		logRepo: logRepo,
	}
}

// Handle executes the GetJobLogs query
func (h *GetJobLogsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetJobLogsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetJobLogsQuery")
	}

	if query.JobID == "" {
		return nil, shared.NewValidationError("job_id", "job id is required")
	}

	// Resolve the job first so an unknown id is NotFound, not empty logs
	if _, err := h.jobRepo.FindByID(ctx, query.JobID); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultJobLogLimit
	}

	entries, err := h.logRepo.FindByJobID(ctx, query.JobID, limit)
	if err != nil {
		return nil, err
	}

	return &GetJobLogsResponse{Entries: entries}, nil
}
