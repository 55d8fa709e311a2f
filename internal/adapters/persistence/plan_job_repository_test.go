package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

func testPlanRequest(planDate time.Time) planning.PlanRequest {
	return planning.PlanRequest{
		PlanDate:         planDate,
		DepotID:          "depot-1",
		Strategy:         planning.StrategyMinimizeVehicles,
		TimeLimitSeconds: 300,
		DepartureMinute:  360,
		AmbientTemp:      30,
		InitialCargoTemp: -5,
		AverageSpeedKmh:  30,
	}
}

func TestPlanJobRepository_SaveAndFindRoundtrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := persistence.NewGormPlanJobRepository(db, clock)

	planDate := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	job := planning.NewPlanJob("job-1", testPlanRequest(planDate), clock)
	require.NoError(t, job.SetSnapshot([]string{"veh-1", "veh-2"}, []string{"shp-1"}))

	// Act
	err := repo.Save(context.Background(), job)
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "job-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "job-1", found.ID())
	assert.Equal(t, planning.JobStatusPending, found.Status())
	assert.Equal(t, []string{"veh-1", "veh-2"}, found.VehicleIDs())
	assert.Equal(t, []string{"shp-1"}, found.ShipmentIDs())
	assert.Equal(t, "depot-1", found.Request().DepotID)
	assert.Equal(t, 300, found.Request().TimeLimitSeconds)
	assert.True(t, found.PlanDate().Equal(planDate))
	assert.WithinDuration(t, job.CreatedAt(), found.CreatedAt(), time.Second)
}

func TestPlanJobRepository_PersistsCompletedState(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := persistence.NewGormPlanJobRepository(db, clock)

	job := planning.NewPlanJob("job-1", testPlanRequest(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)), clock)
	require.NoError(t, job.Start())
	clock.Advance(42 * time.Second)
	require.NoError(t, job.SetProgress(40))
	require.NoError(t, job.RecordSummary(map[string]interface{}{
		"routes_created":     2,
		"shipments_assigned": 5,
	}))
	require.NoError(t, job.Complete())

	// Act
	require.NoError(t, repo.Save(context.Background(), job))
	found, err := repo.FindByID(context.Background(), "job-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.JobStatusCompleted, found.Status())
	assert.Equal(t, 100, found.Progress())
	assert.EqualValues(t, 2, found.ResultSummary()["routes_created"])
	assert.EqualValues(t, 5, found.ResultSummary()["shipments_assigned"])
	require.NotNil(t, found.StartedAt())
	require.NotNil(t, found.FinishedAt())
}

func TestPlanJobRepository_PersistsFailureAndDiagnostics(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := persistence.NewGormPlanJobRepository(db, clock)

	job := planning.NewPlanJob("job-1", testPlanRequest(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)), clock)
	require.NoError(t, job.Start())
	job.RecordUnassigned([]planning.UnassignedShipment{
		{
			ShipmentID: "shp-9",
			SLA:        "STRICT",
			LikelyReasons: []planning.UnassignedReason{
				{Type: planning.ReasonTimeWindow, Message: "window unreachable"},
			},
		},
	})
	require.NoError(t, job.Fail(shared.NewInfeasibleError("strict shipment dropped")))

	// Act
	require.NoError(t, repo.Save(context.Background(), job))
	found, err := repo.FindByID(context.Background(), "job-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, planning.JobStatusFailed, found.Status())
	assert.Equal(t, planning.FailureInfeasible, found.FailureKind())
	require.NotNil(t, found.LastError())
	assert.Contains(t, found.LastError().Error(), "strict shipment dropped")
	require.Len(t, found.Unassigned(), 1)
	assert.Equal(t, "shp-9", found.Unassigned()[0].ShipmentID)
	assert.Equal(t, planning.ReasonTimeWindow, found.Unassigned()[0].LikelyReasons[0].Type)
}

func TestPlanJobRepository_ListNewestFirstWithFilters(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := persistence.NewGormPlanJobRepository(db, clock)
	planDate := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	var noDate time.Time

	oldest := planning.NewPlanJob("job-a", testPlanRequest(planDate), clock)
	clock.Advance(time.Minute)
	middle := planning.NewPlanJob("job-b", testPlanRequest(planDate), clock)
	require.NoError(t, middle.Start())
	clock.Advance(time.Minute)
	newest := planning.NewPlanJob("job-c", testPlanRequest(planDate.AddDate(0, 0, 1)), clock)

	require.NoError(t, repo.Save(context.Background(), oldest))
	require.NoError(t, repo.Save(context.Background(), middle))
	require.NoError(t, repo.Save(context.Background(), newest))

	// Act
	all, err := repo.List(context.Background(), "", noDate, 10)
	require.NoError(t, err)
	running, err := repo.List(context.Background(), planning.JobStatusRunning, noDate, 10)
	require.NoError(t, err)
	onDate, err := repo.List(context.Background(), "", planDate, 10)
	require.NoError(t, err)
	limited, err := repo.List(context.Background(), "", noDate, 2)
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, "job-c", all[0].ID())
	assert.Equal(t, "job-b", all[1].ID())
	assert.Equal(t, "job-a", all[2].ID())

	require.Len(t, running, 1)
	assert.Equal(t, "job-b", running[0].ID())

	require.Len(t, onDate, 2)
	assert.Equal(t, "job-b", onDate[0].ID())
	assert.Equal(t, "job-a", onDate[1].ID())

	assert.Len(t, limited, 2)
}

func TestPlanJobRepository_FindByIDReturnsNotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormPlanJobRepository(db, nil)

	// Act
	_, err := repo.FindByID(context.Background(), "missing")

	// Assert
	var notFound *shared.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
