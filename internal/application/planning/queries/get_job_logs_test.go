package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestGetJobLogsHandler_ReturnsEntriesOldestFirst(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	ctx := context.Background()
	job := planning.NewPlanJob("job-1", planning.PlanRequest{PlanDate: testPlanDate, AverageSpeedKmh: 30}, nil)
	require.NoError(t, fixture.jobRepo.Save(ctx, job))

	require.NoError(t, fixture.logRepo.Append(ctx, "job-1", "INFO", "loading snapshot"))
	require.NoError(t, fixture.logRepo.Append(ctx, "job-1", "INFO", "solver started"))
	require.NoError(t, fixture.logRepo.Append(ctx, "job-1", "WARN", "2 shipments screened out"))
	handler := queries.NewGetJobLogsHandler(fixture.jobRepo, fixture.logRepo)

	// Act
	response, err := handler.Handle(ctx, &queries.GetJobLogsQuery{JobID: "job-1"})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.GetJobLogsResponse)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "loading snapshot", resp.Entries[0].Message)
	assert.Equal(t, "solver started", resp.Entries[1].Message)
	assert.Equal(t, "WARN", resp.Entries[2].Level)
}

func TestGetJobLogsHandler_AppliesLimit(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	ctx := context.Background()
	job := planning.NewPlanJob("job-1", planning.PlanRequest{PlanDate: testPlanDate, AverageSpeedKmh: 30}, nil)
	require.NoError(t, fixture.jobRepo.Save(ctx, job))
	require.NoError(t, fixture.logRepo.Append(ctx, "job-1", "INFO", "first"))
	require.NoError(t, fixture.logRepo.Append(ctx, "job-1", "INFO", "second"))
	handler := queries.NewGetJobLogsHandler(fixture.jobRepo, fixture.logRepo)

	// Act
	response, err := handler.Handle(ctx, &queries.GetJobLogsQuery{JobID: "job-1", Limit: 1})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.GetJobLogsResponse)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "first", resp.Entries[0].Message)
}

func TestGetJobLogsHandler_UnknownJob(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewGetJobLogsHandler(fixture.jobRepo, fixture.logRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetJobLogsQuery{JobID: "missing"})

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetJobLogsHandler_RequiresJobID(t *testing.T) {
	// Arrange
	fixture := newQueriesFixture(t)
	handler := queries.NewGetJobLogsHandler(fixture.jobRepo, fixture.logRepo)

	// Act
	_, err := handler.Handle(context.Background(), &queries.GetJobLogsQuery{})

	// Assert
	var validationErr *shared.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
