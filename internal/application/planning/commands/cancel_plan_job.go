package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// CancelPlanJobCommand represents a request to cancel a job
type CancelPlanJobCommand struct {
	JobID string // Required
}

// CancelPlanJobResponse reports the job's state after cancellation
type CancelPlanJobResponse struct {
	JobID  string
	Status planning.JobStatus
}

// CancelPlanJobHandler cancels queued or running jobs.
// Running jobs are interrupted through their runner, which persists the
// terminal state itself; queued jobs are cancelled directly in the
// repository and skipped when a worker later picks them up.
type CancelPlanJobHandler struct {
	jobRepo    planning.PlanJobRepository
	dispatcher services.JobDispatcher
}

// NewCancelPlanJobHandler creates a new CancelPlanJobHandler
func NewCancelPlanJobHandler(jobRepo planning.PlanJobRepository, dispatcher services.JobDispatcher) *CancelPlanJobHandler {
	return &CancelPlanJobHandler{
		jobRepo:    jobRepo,
		dispatcher: dispatcher,
	}
}

// Handle executes the CancelPlanJob command
func (h *CancelPlanJobHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelPlanJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelPlanJobCommand")
	}

	if cmd.JobID == "" {
		return nil, shared.NewValidationError("job_id", "job id is required")
	}

	job, err := h.jobRepo.FindByID(ctx, cmd.JobID)
	if err != nil {
		return nil, err
	}

	if job.IsFinished() {
		return nil, shared.NewPreconditionFailureError("job_active",
			fmt.Sprintf("job %s is already %s", job.ID(), job.Status()))
	}

	if h.dispatcher.CancelRunning(cmd.JobID) {
		// The runner persisted the terminal state; reload for the response
		job, err = h.jobRepo.FindByID(ctx, cmd.JobID)
		if err != nil {
			return nil, err
		}
	} else {
		if err := job.Cancel(); err != nil {
			return nil, err
		}
		if err := h.jobRepo.Save(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to persist cancellation: %w", err)
		}
	}

	return &CancelPlanJobResponse{
		JobID:  job.ID(),
		Status: job.Status(),
	}, nil
}
