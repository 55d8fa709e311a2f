package services

import (
	"context"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// ProgressSampler periodically estimates how far along a running solve
// is. The estimate is time-based (elapsed over the solver's budget) and
// capped at 95 so only a committed plan reads 100.
type ProgressSampler struct {
	jobRepo  planning.PlanJobRepository
	clock    shared.Clock
	interval time.Duration
}

// NewProgressSampler creates a progress sampler
func NewProgressSampler(jobRepo planning.PlanJobRepository, clock shared.Clock, interval time.Duration) *ProgressSampler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ProgressSampler{
		jobRepo:  jobRepo,
		clock:    clock,
		interval: interval,
	}
}

// Run samples until ctx is cancelled. Blocks; callers run it in its own
// goroutine alongside the solve.
func (p *ProgressSampler) Run(ctx context.Context, job *planning.PlanJob, timeLimit time.Duration) {
	if p.interval <= 0 || timeLimit <= 0 {
		return
	}

	started := p.clock.Now()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := p.clock.Now().Sub(started)
			progress := int(float64(elapsed) / float64(timeLimit) * 95)
			if progress > 95 {
				progress = 95
			}
			if err := job.SetProgress(progress); err != nil {
				return
			}

			persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = p.jobRepo.Save(persistCtx, job)
			cancel()
		}
	}
}
