package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

type planJobContext struct {
	job       *planning.PlanJob
	clock     *shared.MockClock
	cancelErr error
}

func (pc *planJobContext) reset() {
	pc.job = nil
	pc.clock = shared.NewMockClock(time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC))
	pc.cancelErr = nil
}

// Given steps

func (pc *planJobContext) aPlanningJobForDate(dateStr string) error {
	planDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid plan date: %w", err)
	}

	pc.job = planning.NewPlanJob("job-bdd-1", planning.PlanRequest{
		PlanDate:        planDate,
		AverageSpeedKmh: 30,
	}, pc.clock)
	return nil
}

// When steps

func (pc *planJobContext) theJobIsStarted() error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	return pc.job.Start()
}

func (pc *planJobContext) theJobCompletesWithRoutesCreated(routes int) error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	if err := pc.job.RecordSummary(map[string]interface{}{"routes_created": routes}); err != nil {
		return err
	}
	return pc.job.Complete()
}

func (pc *planJobContext) theJobIsCancelled() error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	pc.cancelErr = pc.job.Cancel()
	return nil
}

func (pc *planJobContext) theSampledProgressIs(progress int) error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	return pc.job.SetProgress(progress)
}

func (pc *planJobContext) theJobFailsWith(message string) error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	return pc.job.Fail(shared.NewInfeasibleError(message))
}

// Then steps

func (pc *planJobContext) theJobStatusShouldBe(expected string) error {
	if pc.job == nil {
		return fmt.Errorf("no job available")
	}
	if string(pc.job.Status()) != expected {
		return fmt.Errorf("expected job status %s, got %s", expected, pc.job.Status())
	}
	return nil
}

func (pc *planJobContext) theJobProgressShouldBe(expected int) error {
	if pc.job.Progress() != expected {
		return fmt.Errorf("expected progress %d, got %d", expected, pc.job.Progress())
	}
	return nil
}

func (pc *planJobContext) theJobShouldBeFinished() error {
	if !pc.job.IsFinished() {
		return fmt.Errorf("expected job to be finished, but it is %s", pc.job.Status())
	}
	return nil
}

func (pc *planJobContext) theJobShouldNotBeFinished() error {
	if pc.job.IsFinished() {
		return fmt.Errorf("expected job not to be finished, but it is %s", pc.job.Status())
	}
	return nil
}

func (pc *planJobContext) theCancellationShouldBeRejected() error {
	if pc.cancelErr == nil {
		return fmt.Errorf("expected cancellation to be rejected, but it succeeded")
	}
	return nil
}

func (pc *planJobContext) theJobErrorShouldContain(fragment string) error {
	lastErr := pc.job.LastError()
	if lastErr == nil {
		return fmt.Errorf("expected a job error containing '%s', but there is none", fragment)
	}
	if !strings.Contains(lastErr.Error(), fragment) {
		return fmt.Errorf("expected error containing '%s', got '%v'", fragment, lastErr)
	}
	return nil
}

func InitializePlanJobScenario(ctx *godog.ScenarioContext) {
	pc := &planJobContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a planning job for date "([^"]*)"$`, pc.aPlanningJobForDate)

	// When steps
	ctx.Step(`^the job is started$`, pc.theJobIsStarted)
	ctx.Step(`^the job completes with (\d+) routes created$`, pc.theJobCompletesWithRoutesCreated)
	ctx.Step(`^the job is cancelled$`, pc.theJobIsCancelled)
	ctx.Step(`^the sampled progress is (\d+)$`, pc.theSampledProgressIs)
	ctx.Step(`^the job fails with "([^"]*)"$`, pc.theJobFailsWith)

	// Then steps
	ctx.Step(`^the job status should be "([^"]*)"$`, pc.theJobStatusShouldBe)
	ctx.Step(`^the job progress should be (\d+)$`, pc.theJobProgressShouldBe)
	ctx.Step(`^the job should be finished$`, pc.theJobShouldBeFinished)
	ctx.Step(`^the job should not be finished$`, pc.theJobShouldNotBeFinished)
	ctx.Step(`^the cancellation should be rejected$`, pc.theCancellationShouldBeRejected)
	ctx.Step(`^the job error should contain "([^"]*)"$`, pc.theJobErrorShouldContain)
}
