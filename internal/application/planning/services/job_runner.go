package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/adapters/metrics"
	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// JobRunner executes one planning job in a background goroutine.
// Manages the job's lifecycle from RUNNING through its terminal state,
// including the single retry on internal errors.
type JobRunner struct {
	job       *planning.PlanJob
	loader    *SnapshotLoader
	builder   *ModelBuilder
	assembler *PlanAssembler
	engine    planning.SolverEngine
	sampler   *ProgressSampler
	jobRepo   planning.PlanJobRepository
	planRepo  planning.PlanRepository
	logRepo   planning.JobLogRepository
	clock     shared.Clock

	// Execution control
	ctx        context.Context
	cancelFunc context.CancelFunc
	done       chan struct{}
	mu         sync.RWMutex

	// In-memory log cache for quick access (logs also persisted to DB)
	logs []LogEntry
}

// LogEntry represents a single log message from a job
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// NewJobRunner creates a runner for one job
func NewJobRunner(
	job *planning.PlanJob,
	loader *SnapshotLoader,
	builder *ModelBuilder,
	assembler *PlanAssembler,
	engine planning.SolverEngine,
	sampler *ProgressSampler,
	jobRepo planning.PlanJobRepository,
	planRepo planning.PlanRepository,
	logRepo planning.JobLogRepository,
	clock shared.Clock,
) *JobRunner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &JobRunner{
		job:        job,
		loader:     loader,
		builder:    builder,
		assembler:  assembler,
		engine:     engine,
		sampler:    sampler,
		jobRepo:    jobRepo,
		planRepo:   planRepo,
		logRepo:    logRepo,
		clock:      clock,
		ctx:        ctx,
		cancelFunc: cancel,
		done:       make(chan struct{}),
		logs:       make([]LogEntry, 0),
	}
}

// Job returns the underlying job entity
func (r *JobRunner) Job() *planning.PlanJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.job
}

// Done is closed when the runner's goroutine has finished
func (r *JobRunner) Done() <-chan struct{} {
	return r.done
}

// Start begins job execution
func (r *JobRunner) Start() error {
	r.mu.Lock()
	if err := r.job.Start(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.log(common.LogLevelInfo, "Job started", nil)
	r.persistJob()

	go r.execute()

	return nil
}

// Cancel interrupts the running solve and waits for the goroutine to
// wind down.
func (r *JobRunner) Cancel() {
	r.log(common.LogLevelInfo, "Cancellation requested", nil)
	r.cancelFunc()

	select {
	case <-r.done:
		r.log(common.LogLevelInfo, "Job cancelled", nil)
	case <-time.After(10 * time.Second):
		r.log(common.LogLevelWarning, "Job did not stop within timeout", nil)
	}
}

// execute runs the planning pipeline with a single retry on internal
// errors. Cancellation always wins over retry.
func (r *JobRunner) execute() {
	defer close(r.done)

	ctx := common.WithLogger(r.ctx, r)

	err := r.runPipeline(ctx)
	if err == nil {
		return
	}
	if r.ctx.Err() != nil {
		r.markCancelled()
		return
	}

	var internalErr *shared.InternalError
	if errors.As(err, &internalErr) {
		r.log(common.LogLevelWarning, fmt.Sprintf("Retrying after internal error: %v", err), nil)
		err = r.runPipeline(ctx)
		if err == nil {
			return
		}
		if r.ctx.Err() != nil {
			r.markCancelled()
			return
		}
	}

	r.markFailed(err)
}

// runPipeline is one full pass: reload the snapshot, build the model,
// solve, assemble, and commit. Completion is committed atomically with
// the plan.
func (r *JobRunner) runPipeline(ctx context.Context) error {
	request := r.job.Request()

	snapshot, err := r.loader.LoadByIDs(ctx, request, r.job.VehicleIDs(), r.job.ShipmentIDs())
	if err != nil {
		return err
	}

	result, err := r.builder.Build(snapshot, request)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.job.RecordUnassigned(result.Screened)
	r.mu.Unlock()

	r.log(common.LogLevelInfo, "Model built", map[string]interface{}{
		"nodes":    result.Model.ShipmentNodeCount(),
		"vehicles": len(result.Model.Vehicles),
		"screened": len(result.Screened),
	})

	samplerCtx, stopSampler := context.WithCancel(ctx)
	go r.sampler.Run(samplerCtx, r.job, result.Model.TimeLimit)

	solveStart := time.Now()
	assignment, err := r.engine.Solve(ctx, result.Model)
	stopSampler()
	if err != nil {
		// Record failed solve metrics
		metrics.RecordSolveOutcome(request.Strategy, "ERROR", time.Since(solveStart).Seconds())
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Record solve outcome metrics
	metrics.RecordSolveOutcome(request.Strategy, assignment.SolverStatus, assignment.SolveSeconds)

	r.log(common.LogLevelInfo, "Solve finished", map[string]interface{}{
		"status":       assignment.SolverStatus,
		"vehicles":     assignment.UsedVehicles(),
		"dropped":      len(assignment.DroppedNodes),
		"solve_second": assignment.SolveSeconds,
	})

	plan, err := r.assembler.Assemble(r.job, snapshot, result.Model, assignment, result.Screened)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if err := r.job.RecordSummary(plan.Summary); err != nil {
		r.mu.Unlock()
		return err
	}
	r.job.RecordUnassigned(plan.Unassigned)
	if err := r.job.Complete(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	commitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := r.planRepo.CommitPlan(commitCtx, &planning.Plan{
		Job:       r.job,
		Routes:    plan.Routes,
		Shipments: plan.Shipments,
		LaborLogs: plan.LaborLogs,
	}); err != nil {
		return shared.NewInternalError("committing plan", err)
	}

	// Record committed plan metrics
	metrics.RecordPlanCommitted(len(plan.Routes), len(plan.Shipments), len(plan.Unassigned))
	metrics.RecordJobCompletion(r.job)

	r.log(common.LogLevelInfo, "Job completed", map[string]interface{}{
		"routes":     len(plan.Routes),
		"assigned":   len(plan.Shipments),
		"unassigned": len(plan.Unassigned),
		"runtime":    r.job.RuntimeDuration().String(),
	})

	return nil
}

func (r *JobRunner) markFailed(err error) {
	r.log(common.LogLevelError, err.Error(), nil)

	r.mu.Lock()
	if failErr := r.job.Fail(err); failErr != nil {
		r.log(common.LogLevelError, fmt.Sprintf("Failed to mark job failed: %v", failErr), nil)
	}
	r.mu.Unlock()

	// Record job failure metrics
	metrics.RecordJobCompletion(r.job)

	r.persistJob()
}

func (r *JobRunner) markCancelled() {
	r.mu.Lock()
	if err := r.job.Cancel(); err != nil {
		r.log(common.LogLevelError, fmt.Sprintf("Failed to mark job cancelled: %v", err), nil)
	}
	r.mu.Unlock()

	// Record job cancellation metrics
	metrics.RecordJobCompletion(r.job)

	r.persistJob()
}

// persistJob writes the job's current state outside the caller's context
// so a cancelled solve still records its terminal state.
func (r *JobRunner) persistJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.jobRepo.Save(ctx, r.job); err != nil {
		r.log(common.LogLevelError, fmt.Sprintf("Failed to persist job state: %v", err), nil)
	}
}

// Logging

// Log implements common.JobLogger so pipeline stages can log through the
// context.
func (r *JobRunner) Log(level, message string, metadata map[string]interface{}) {
	r.log(level, message, metadata)
}

func (r *JobRunner) log(level, message string, metadata map[string]interface{}) {
	r.mu.Lock()
	entry := LogEntry{
		Timestamp: r.clock.Now(),
		Level:     level,
		Message:   message,
		Metadata:  metadata,
	}
	r.logs = append(r.logs, entry)
	r.mu.Unlock()

	fmt.Printf("[%s] [%s] %s: %s\n",
		entry.Timestamp.Format(time.RFC3339),
		r.job.ID(),
		level,
		message,
	)

	// Persist to database (async to avoid blocking the solve)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.logRepo.Append(ctx, r.job.ID(), level, message); err != nil {
			fmt.Printf("[%s] [%s] ERROR: Failed to persist log to DB: %v\n",
				time.Now().Format(time.RFC3339),
				r.job.ID(),
				err,
			)
		}
	}()
}

// GetLogs returns the runner's in-memory log cache
func (r *JobRunner) GetLogs(limit *int, level *string) []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]LogEntry, 0)
	for _, entry := range r.logs {
		if level != nil && entry.Level != *level {
			continue
		}
		filtered = append(filtered, entry)
	}

	if limit != nil && *limit < len(filtered) {
		start := len(filtered) - *limit
		return filtered[start:]
	}

	return filtered
}
