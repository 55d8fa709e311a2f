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
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

type cancelJobFixture struct {
	handler    *commands.CancelPlanJobHandler
	dispatcher *helpers.MockJobDispatcher
	jobRepo    planning.PlanJobRepository
}

func newCancelJobFixture(t *testing.T) *cancelJobFixture {
	t.Helper()

	db := helpers.NewTestDB(t)
	jobRepo := persistence.NewGormPlanJobRepository(db, nil)
	dispatcher := helpers.NewMockJobDispatcher()

	return &cancelJobFixture{
		handler:    commands.NewCancelPlanJobHandler(jobRepo, dispatcher),
		dispatcher: dispatcher,
		jobRepo:    jobRepo,
	}
}

func (f *cancelJobFixture) saveJob(t *testing.T, id string, mutate func(*planning.PlanJob)) *planning.PlanJob {
	t.Helper()
	job := planning.NewPlanJob(id, planning.PlanRequest{PlanDate: testPlanDate, AverageSpeedKmh: 30}, nil)
	if mutate != nil {
		mutate(job)
	}
	require.NoError(t, f.jobRepo.Save(context.Background(), job))
	return job
}

func TestCancelPlanJobHandler_CancelsQueuedJob(t *testing.T) {
	// Arrange - PENDING job, no live runner
	fixture := newCancelJobFixture(t)
	fixture.saveJob(t, "job-1", nil)

	// Act
	response, err := fixture.handler.Handle(context.Background(), &commands.CancelPlanJobCommand{JobID: "job-1"})

	// Assert
	require.NoError(t, err)
	resp := response.(*commands.CancelPlanJobResponse)
	assert.Equal(t, planning.JobStatusCancelled, resp.Status)

	stored, err := fixture.jobRepo.FindByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, planning.JobStatusCancelled, stored.Status())
	assert.Equal(t, []string{"job-1"}, fixture.dispatcher.GetCancelCalls())
}

func TestCancelPlanJobHandler_InterruptsRunningJob(t *testing.T) {
	// Arrange - RUNNING job whose runner persists the terminal state
	fixture := newCancelJobFixture(t)
	fixture.saveJob(t, "job-1", func(job *planning.PlanJob) {
		require.NoError(t, job.Start())
	})

	fixture.dispatcher.SetCancelRunningFunc(func(jobID string) bool {
		job, err := fixture.jobRepo.FindByID(context.Background(), jobID)
		require.NoError(t, err)
		require.NoError(t, job.Cancel())
		require.NoError(t, fixture.jobRepo.Save(context.Background(), job))
		return true
	})

	// Act
	response, err := fixture.handler.Handle(context.Background(), &commands.CancelPlanJobCommand{JobID: "job-1"})

	// Assert - the response reflects what the runner persisted
	require.NoError(t, err)
	resp := response.(*commands.CancelPlanJobResponse)
	assert.Equal(t, planning.JobStatusCancelled, resp.Status)
}

func TestCancelPlanJobHandler_RejectsFinishedJob(t *testing.T) {
	// Arrange
	fixture := newCancelJobFixture(t)
	fixture.saveJob(t, "job-1", func(job *planning.PlanJob) {
		require.NoError(t, job.Start())
		require.NoError(t, job.Complete())
	})

	// Act
	_, err := fixture.handler.Handle(context.Background(), &commands.CancelPlanJobCommand{JobID: "job-1"})

	// Assert
	var preconditionErr *shared.PreconditionFailureError
	require.ErrorAs(t, err, &preconditionErr)
}

func TestCancelPlanJobHandler_UnknownJob(t *testing.T) {
	// Arrange
	fixture := newCancelJobFixture(t)

	// Act
	_, err := fixture.handler.Handle(context.Background(), &commands.CancelPlanJobCommand{JobID: "missing"})

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCancelPlanJobHandler_RequiresJobID(t *testing.T) {
	// Arrange
	fixture := newCancelJobFixture(t)

	// Act
	_, err := fixture.handler.Handle(context.Background(), &commands.CancelPlanJobCommand{})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
