package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

type routeLifecycleContext struct {
	route         *planning.Route
	transitionErr error
}

func (rc *routeLifecycleContext) reset() {
	rc.route = nil
	rc.transitionErr = nil
}

// Given steps

func (rc *routeLifecycleContext) aScheduledRouteForPlanDate(dateStr string) error {
	planDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid plan date: %w", err)
	}

	route, err := planning.NewRoute("route-bdd-1", "job-1", "VH-1", "DRV-1", "DEPOT-1", planDate, "1234 ABC")
	if err != nil {
		return err
	}
	rc.route = route
	return nil
}

// When steps record the transition outcome so rejection scenarios can
// assert on it; the last transition wins.

func (rc *routeLifecycleContext) theRouteIsStarted() error {
	if rc.route == nil {
		return fmt.Errorf("no route available")
	}
	rc.transitionErr = rc.route.Start()
	return nil
}

func (rc *routeLifecycleContext) theRouteIsCompleted() error {
	if rc.route == nil {
		return fmt.Errorf("no route available")
	}
	rc.transitionErr = rc.route.Complete()
	return nil
}

func (rc *routeLifecycleContext) theRouteIsAborted() error {
	if rc.route == nil {
		return fmt.Errorf("no route available")
	}
	rc.transitionErr = rc.route.Abort()
	return nil
}

// Then steps

func (rc *routeLifecycleContext) theRouteStatusShouldBe(expected string) error {
	if rc.route == nil {
		return fmt.Errorf("no route available")
	}
	if string(rc.route.Status) != expected {
		return fmt.Errorf("expected route status %s, got %s", expected, rc.route.Status)
	}
	return nil
}

func (rc *routeLifecycleContext) theTransitionShouldBeRejected() error {
	if rc.transitionErr == nil {
		return fmt.Errorf("expected the transition to be rejected, but it succeeded")
	}
	return nil
}

func (rc *routeLifecycleContext) theRouteCodeShouldBe(expected string) error {
	if rc.route.Code != expected {
		return fmt.Errorf("expected route code %s, got %s", expected, rc.route.Code)
	}
	return nil
}

func InitializeRouteLifecycleScenario(ctx *godog.ScenarioContext) {
	rc := &routeLifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a scheduled route for plan date "([^"]*)"$`, rc.aScheduledRouteForPlanDate)

	// When steps
	ctx.Step(`^the route is started$`, rc.theRouteIsStarted)
	ctx.Step(`^the route is completed$`, rc.theRouteIsCompleted)
	ctx.Step(`^the route is aborted$`, rc.theRouteIsAborted)

	// Then steps
	ctx.Step(`^the route status should be "([^"]*)"$`, rc.theRouteStatusShouldBe)
	ctx.Step(`^the transition should be rejected$`, rc.theTransitionShouldBeRejected)
	ctx.Step(`^the route code should be "([^"]*)"$`, rc.theRouteCodeShouldBe)
}
