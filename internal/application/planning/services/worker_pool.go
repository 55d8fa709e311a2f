package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// JobDispatcher hands accepted jobs to the execution side
type JobDispatcher interface {
	// Dispatch queues a PENDING job for execution
	Dispatch(ctx context.Context, job *planning.PlanJob) error

	// CancelRunning interrupts a job's active runner, reporting whether
	// one existed. Queued jobs have no runner; callers cancel those
	// through the repository.
	CancelRunning(jobID string) bool
}

// WorkerPool runs planning jobs on a fixed set of goroutines with a
// bounded queue. One goroutine per running job plus its progress
// sampler; everything else waits in the queue as PENDING.
type WorkerPool struct {
	loader    *SnapshotLoader
	builder   *ModelBuilder
	assembler *PlanAssembler
	engine    planning.SolverEngine
	jobRepo   planning.PlanJobRepository
	planRepo  planning.PlanRepository
	logRepo   planning.JobLogRepository
	settings  Settings
	clock     shared.Clock

	queue chan string

	runners   map[string]*JobRunner
	runnersMu sync.RWMutex

	shutdownCtx context.Context
	shutdown    context.CancelFunc
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool; Start launches the workers
func NewWorkerPool(
	loader *SnapshotLoader,
	builder *ModelBuilder,
	assembler *PlanAssembler,
	engine planning.SolverEngine,
	jobRepo planning.PlanJobRepository,
	planRepo planning.PlanRepository,
	logRepo planning.JobLogRepository,
	settings Settings,
	clock shared.Clock,
) *WorkerPool {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	queueSize := settings.QueueSize
	if queueSize <= 0 {
		queueSize = 32
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		loader:      loader,
		builder:     builder,
		assembler:   assembler,
		engine:      engine,
		jobRepo:     jobRepo,
		planRepo:    planRepo,
		logRepo:     logRepo,
		settings:    settings,
		clock:       clock,
		queue:       make(chan string, queueSize),
		runners:     make(map[string]*JobRunner),
		shutdownCtx: ctx,
		shutdown:    cancel,
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start() {
	workers := p.settings.WorkerCount
	if workers <= 0 {
		workers = 2
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Printf("Worker pool started with %d workers (queue %d)", workers, cap(p.queue))
}

// Dispatch queues a job for execution without blocking the request
func (p *WorkerPool) Dispatch(ctx context.Context, job *planning.PlanJob) error {
	select {
	case p.queue <- job.ID():
		return nil
	default:
		return shared.NewPreconditionFailureError("queue_capacity",
			fmt.Sprintf("planning queue is full (%d jobs waiting)", cap(p.queue)))
	}
}

// CancelRunning interrupts an active runner if the job has one
func (p *WorkerPool) CancelRunning(jobID string) bool {
	p.runnersMu.RLock()
	runner, ok := p.runners[jobID]
	p.runnersMu.RUnlock()

	if !ok {
		return false
	}

	runner.Cancel()
	return true
}

// ActiveJobs returns the ids of jobs with live runners
func (p *WorkerPool) ActiveJobs() []string {
	p.runnersMu.RLock()
	defer p.runnersMu.RUnlock()

	ids := make([]string, 0, len(p.runners))
	for id := range p.runners {
		ids = append(ids, id)
	}
	return ids
}

// QueueDepth returns the number of accepted jobs waiting for a worker
func (p *WorkerPool) QueueDepth() int {
	return len(p.queue)
}

// Shutdown cancels active runners and waits for the workers to drain
func (p *WorkerPool) Shutdown() {
	log.Println("Worker pool shutting down...")
	p.shutdown()

	p.runnersMu.RLock()
	active := make([]*JobRunner, 0, len(p.runners))
	for _, runner := range p.runners {
		active = append(active, runner)
	}
	p.runnersMu.RUnlock()

	for _, runner := range active {
		runner.Cancel()
	}

	p.wg.Wait()
	log.Println("Worker pool stopped")
}

// worker consumes queued job ids until shutdown
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdownCtx.Done():
			return
		case jobID := <-p.queue:
			p.runJob(id, jobID)
		}
	}
}

// runJob loads the queued job fresh and drives it to a terminal state.
// Jobs cancelled while queued are skipped; the database is the source
// of truth, the queue only carries ids.
func (p *WorkerPool) runJob(workerID int, jobID string) {
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	job, err := p.jobRepo.FindByID(loadCtx, jobID)
	cancel()
	if err != nil {
		log.Printf("Worker %d: failed to load job %s: %v", workerID, jobID, err)
		return
	}

	if job.Status() != planning.JobStatusPending {
		log.Printf("Worker %d: skipping job %s in %s state", workerID, jobID, job.Status())
		return
	}

	sampler := NewProgressSampler(p.jobRepo, p.clock, p.settings.ProgressInterval)
	runner := NewJobRunner(job, p.loader, p.builder, p.assembler, p.engine,
		sampler, p.jobRepo, p.planRepo, p.logRepo, p.clock)

	p.runnersMu.Lock()
	p.runners[jobID] = runner
	p.runnersMu.Unlock()

	defer func() {
		p.runnersMu.Lock()
		delete(p.runners, jobID)
		p.runnersMu.Unlock()
	}()

	if err := runner.Start(); err != nil {
		log.Printf("Worker %d: failed to start job %s: %v", workerID, jobID, err)
		return
	}

	select {
	case <-runner.Done():
	case <-p.shutdownCtx.Done():
		runner.Cancel()
	}
}
