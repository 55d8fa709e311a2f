package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

// poolFixture wires a worker pool over a real database with a mock
// solver engine, seeded with one vehicle and one shipment.
type poolFixture struct {
	db      *gorm.DB
	engine  *helpers.MockSolverEngine
	jobRepo planning.PlanJobRepository
	pool    *services.WorkerPool
}

func newPoolFixture(t *testing.T, strict bool) *poolFixture {
	t.Helper()

	db := helpers.NewTestDB(t)
	ctx := context.Background()

	depotRepo := persistence.NewGormDepotRepository(db)
	vehicleRepo := persistence.NewGormVehicleRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	driverRepo := persistence.NewGormDriverRepository(db)
	jobRepo := persistence.NewGormPlanJobRepository(db, nil)
	planRepo := persistence.NewGormPlanRepository(db)
	logRepo := persistence.NewGormJobLogRepository(db, nil)

	require.NoError(t, depotRepo.Save(ctx, helpers.CreateTestDepot("DEPOT-1")))
	require.NoError(t, vehicleRepo.Save(ctx, helpers.CreateTestVehicle("VH-1", "1234 ABC")))
	s := helpers.CreateTestShipment("SH-1", 40.43, -3.69)
	if strict {
		s.SLA = shipment.SLAStrict
	}
	require.NoError(t, shipmentRepo.Save(ctx, s))

	settings := testSettings()
	settings.WorkerCount = 1
	settings.QueueSize = 4
	settings.ProgressInterval = 0 // sampler off, tests drive state directly

	loader := services.NewSnapshotLoader(vehicleRepo, shipmentRepo, depotRepo, driverRepo)
	builder := services.NewModelBuilder(settings)
	assembler := services.NewPlanAssembler(settings)
	engine := helpers.NewMockSolverEngine()

	pool := services.NewWorkerPool(loader, builder, assembler, engine,
		jobRepo, planRepo, logRepo, settings, nil)

	return &poolFixture{
		db:      db,
		engine:  engine,
		jobRepo: jobRepo,
		pool:    pool,
	}
}

func (f *poolFixture) acceptJob(t *testing.T, id string) *planning.PlanJob {
	t.Helper()
	request := baseRequest()
	request.DepotID = "DEPOT-1"
	job := planning.NewPlanJob(id, request, nil)
	require.NoError(t, job.SetSnapshot([]string{"VH-1"}, []string{"SH-1"}))
	require.NoError(t, f.jobRepo.Save(context.Background(), job))
	return job
}

func (f *poolFixture) jobStatus(t *testing.T, id string) planning.JobStatus {
	t.Helper()
	job, err := f.jobRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return job.Status()
}

func TestWorkerPool_RunsJobToCompletion(t *testing.T) {
	// Arrange
	fixture := newPoolFixture(t, false)
	fixture.engine.SetSolveFunc(func(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error) {
		return helpers.SingleRouteAssignment(model, 560, 15), nil
	})
	fixture.pool.Start()
	defer fixture.pool.Shutdown()

	job := fixture.acceptJob(t, "job-1")

	// Act
	require.NoError(t, fixture.pool.Dispatch(context.Background(), job))

	// Assert
	require.Eventually(t, func() bool {
		return fixture.jobStatus(t, "job-1") == planning.JobStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	completed, err := fixture.jobRepo.FindByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 100, completed.Progress())
	assert.EqualValues(t, 1, completed.ResultSummary()["routes_created"])

	routeRepo := persistence.NewGormRouteRepository(fixture.db)
	routes, err := routeRepo.FindByJobID(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, planning.RouteStatusScheduled, routes[0].Status)
	assert.Equal(t, []string{"SH-1"}, routes[0].ShipmentIDs())

	shipmentRepo := persistence.NewGormShipmentRepository(fixture.db)
	committed, err := shipmentRepo.FindByID(context.Background(), "SH-1")
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusAssigned, committed.Status)
	assert.Equal(t, routes[0].ID, committed.RouteID)
}

func TestWorkerPool_InfeasibleSolveFailsJob(t *testing.T) {
	// Arrange - strict shipment, default engine drops every node
	fixture := newPoolFixture(t, true)
	fixture.pool.Start()
	defer fixture.pool.Shutdown()

	job := fixture.acceptJob(t, "job-1")

	// Act
	require.NoError(t, fixture.pool.Dispatch(context.Background(), job))

	// Assert
	require.Eventually(t, func() bool {
		return fixture.jobStatus(t, "job-1") == planning.JobStatusFailed
	}, 5*time.Second, 20*time.Millisecond)

	failed, err := fixture.jobRepo.FindByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, planning.FailureInfeasible, failed.FailureKind())
	require.NotNil(t, failed.LastError())
	assert.Contains(t, failed.LastError().Error(), "SH-1")
}

func TestWorkerPool_CancelRunningInterruptsSolve(t *testing.T) {
	// Arrange - the solve blocks until cancelled
	fixture := newPoolFixture(t, false)
	fixture.engine.BlockUntilCancelled()
	fixture.pool.Start()
	defer fixture.pool.Shutdown()

	job := fixture.acceptJob(t, "job-1")
	require.NoError(t, fixture.pool.Dispatch(context.Background(), job))

	require.Eventually(t, func() bool {
		return len(fixture.pool.ActiveJobs()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Act
	interrupted := fixture.pool.CancelRunning("job-1")

	// Assert
	assert.True(t, interrupted)
	require.Eventually(t, func() bool {
		return fixture.jobStatus(t, "job-1") == planning.JobStatusCancelled
	}, 5*time.Second, 20*time.Millisecond)

	assert.False(t, fixture.pool.CancelRunning("job-1"), "runner should be gone")
}

func TestWorkerPool_CancelRunningUnknownJob(t *testing.T) {
	// Arrange
	fixture := newPoolFixture(t, false)

	// Act / Assert - no runner, nothing to interrupt
	assert.False(t, fixture.pool.CancelRunning("missing"))
}

func TestWorkerPool_SkipsJobsCancelledWhileQueued(t *testing.T) {
	// Arrange - first queued job is cancelled before a worker picks it up
	fixture := newPoolFixture(t, false)
	fixture.engine.SetSolveFunc(func(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error) {
		return helpers.SingleRouteAssignment(model, 560, 15), nil
	})

	cancelled := fixture.acceptJob(t, "job-cancelled")
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, fixture.jobRepo.Save(context.Background(), cancelled))

	live := fixture.acceptJob(t, "job-live")

	require.NoError(t, fixture.pool.Dispatch(context.Background(), cancelled))
	require.NoError(t, fixture.pool.Dispatch(context.Background(), live))

	// Act
	fixture.pool.Start()
	defer fixture.pool.Shutdown()

	// Assert - the live job completes, the cancelled one was never solved
	require.Eventually(t, func() bool {
		return fixture.jobStatus(t, "job-live") == planning.JobStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, planning.JobStatusCancelled, fixture.jobStatus(t, "job-cancelled"))
	assert.Equal(t, 1, fixture.engine.GetSolveCount())
}

func TestWorkerPool_DispatchRejectsWhenQueueFull(t *testing.T) {
	// Arrange - pool not started, so nothing drains the queue
	fixture := newPoolFixture(t, false)

	for i := 0; i < 4; i++ {
		job := planning.NewPlanJob("job-queued", baseRequest(), nil)
		require.NoError(t, fixture.pool.Dispatch(context.Background(), job))
	}

	// Act
	overflow := planning.NewPlanJob("job-overflow", baseRequest(), nil)
	err := fixture.pool.Dispatch(context.Background(), overflow)

	// Assert
	var preconditionErr *shared.PreconditionFailureError
	require.ErrorAs(t, err, &preconditionErr)
	assert.Equal(t, 4, fixture.pool.QueueDepth())
}
