package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// seedJob saves a job created at the clock's current instant
func seedJob(t *testing.T, fixture *queriesFixture, id string, planDate time.Time, clock *shared.MockClock, mutate func(*planning.PlanJob)) {
	t.Helper()
	job := planning.NewPlanJob(id, planning.PlanRequest{PlanDate: planDate, AverageSpeedKmh: 30}, clock)
	if mutate != nil {
		mutate(job)
	}
	require.NoError(t, fixture.jobRepo.Save(context.Background(), job))
}

func TestListJobsHandler_NewestFirst(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))
	seedJob(t, fixture, "job-a", testPlanDate, clock, nil)
	clock.Advance(time.Minute)
	seedJob(t, fixture, "job-b", testPlanDate, clock, nil)
	handler := queries.NewListJobsHandler(fixture.jobRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.ListJobsQuery{})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.ListJobsResponse)
	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, "job-b", resp.Jobs[0].ID())
	assert.Equal(t, "job-a", resp.Jobs[1].ID())
}

func TestListJobsHandler_FiltersByStatus(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))
	seedJob(t, fixture, "job-pending", testPlanDate, clock, nil)
	clock.Advance(time.Minute)
	seedJob(t, fixture, "job-done", testPlanDate, clock, func(job *planning.PlanJob) {
		require.NoError(t, job.Start())
		require.NoError(t, job.Complete())
	})
	handler := queries.NewListJobsHandler(fixture.jobRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.ListJobsQuery{Status: "COMPLETED"})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.ListJobsResponse)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-done", resp.Jobs[0].ID())
}

func TestListJobsHandler_FiltersByPlanDate(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))
	otherDate := testPlanDate.AddDate(0, 0, 1)
	seedJob(t, fixture, "job-today", testPlanDate, clock, nil)
	clock.Advance(time.Minute)
	seedJob(t, fixture, "job-tomorrow", otherDate, clock, nil)
	handler := queries.NewListJobsHandler(fixture.jobRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.ListJobsQuery{PlanDate: otherDate})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.ListJobsResponse)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-tomorrow", resp.Jobs[0].ID())
}

func TestListJobsHandler_AppliesLimit(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))
	for _, id := range []string{"job-1", "job-2", "job-3"} {
		seedJob(t, fixture, id, testPlanDate, clock, nil)
		clock.Advance(time.Minute)
	}
	handler := queries.NewListJobsHandler(fixture.jobRepo)

	// Act
	response, err := handler.Handle(context.Background(), &queries.ListJobsQuery{Limit: 2})

	// Assert - the two newest
	require.NoError(t, err)
	resp := response.(*queries.ListJobsResponse)
	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, "job-3", resp.Jobs[0].ID())
	assert.Equal(t, "job-2", resp.Jobs[1].ID())
}

func TestListJobsHandler_RejectsUnknownStatus(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewListJobsHandler(fixture.jobRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.ListJobsQuery{Status: "WAITING"})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
