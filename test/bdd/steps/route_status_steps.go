package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

type routeStatusContext struct {
	routeRepo    *persistence.GormRouteRepository
	shipmentRepo *persistence.GormShipmentRepository
	planRepo     *persistence.GormPlanRepository
	handler      *commands.UpdateRouteStatusHandler

	updateErr error
}

func (rc *routeStatusContext) reset() error {
	rc.updateErr = nil

	if err := helpers.TruncateAllTables(); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	db := helpers.SharedTestDB
	rc.routeRepo = persistence.NewGormRouteRepository(db)
	rc.shipmentRepo = persistence.NewGormShipmentRepository(db)
	rc.planRepo = persistence.NewGormPlanRepository(db)
	rc.handler = commands.NewUpdateRouteStatusHandler(rc.routeRepo, rc.shipmentRepo)

	return nil
}

// Given steps

func (rc *routeStatusContext) aCommittedRouteWithShipments(routeID, firstShipment, secondShipment string) error {
	planDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	job := planning.NewPlanJob("job-1", planning.PlanRequest{PlanDate: planDate, AverageSpeedKmh: 30}, nil)
	if err := job.SetSnapshot([]string{"VH-1"}, []string{firstShipment, secondShipment}); err != nil {
		return err
	}
	if err := job.Start(); err != nil {
		return err
	}
	if err := job.Complete(); err != nil {
		return err
	}

	route, err := planning.NewRoute(routeID, "job-1", "VH-1", "DRV-1", "DEPOT-1", planDate, "1234 ABC")
	if err != nil {
		return err
	}
	route.DepartureMinute = 480
	route.ReturnMinute = 560
	route.Stops = []planning.Stop{
		{Sequence: 1, ShipmentID: firstShipment, Location: shared.Coordinate{Latitude: 40.43, Longitude: -3.70}, ArrivalMinute: 500, DepartureMinute: 510, TempFeasible: true},
		{Sequence: 2, ShipmentID: secondShipment, Location: shared.Coordinate{Latitude: 40.44, Longitude: -3.71}, ArrivalMinute: 520, DepartureMinute: 530, TempFeasible: true},
	}

	sh1 := helpers.CreateTestShipment(firstShipment, 40.43, -3.70)
	if err := sh1.Assign(routeID, 1); err != nil {
		return err
	}
	sh2 := helpers.CreateTestShipment(secondShipment, 40.44, -3.71)
	if err := sh2.Assign(routeID, 2); err != nil {
		return err
	}

	return rc.planRepo.CommitPlan(context.Background(), &planning.Plan{
		Job:       job,
		Routes:    []*planning.Route{route},
		Shipments: []*shipment.Shipment{sh1, sh2},
	})
}

// When steps

func (rc *routeStatusContext) iUpdateRouteToAtVersion(routeID, status string, version int) error {
	_, rc.updateErr = rc.handler.Handle(context.Background(), &commands.UpdateRouteStatusCommand{
		RouteID:         routeID,
		Status:          status,
		ExpectedVersion: version,
	})
	return nil
}

// Then steps

func (rc *routeStatusContext) theUpdateShouldSucceed() error {
	if rc.updateErr != nil {
		return fmt.Errorf("expected the update to succeed, got error: %v", rc.updateErr)
	}
	return nil
}

func (rc *routeStatusContext) theUpdateShouldFailWithAVersionConflict() error {
	if rc.updateErr == nil {
		return fmt.Errorf("expected a version conflict, but the update succeeded")
	}
	var conflictErr *shared.ConflictError
	if !errors.As(rc.updateErr, &conflictErr) {
		return fmt.Errorf("expected a conflict error, got %v", rc.updateErr)
	}
	return nil
}

func (rc *routeStatusContext) theStoredRouteStatusShouldBe(expected string) error {
	route, err := rc.findCommittedRoute()
	if err != nil {
		return err
	}
	if string(route.Status) != expected {
		return fmt.Errorf("expected stored route status %s, got %s", expected, route.Status)
	}
	return nil
}

func (rc *routeStatusContext) theStoredRouteVersionShouldBe(expected int) error {
	route, err := rc.findCommittedRoute()
	if err != nil {
		return err
	}
	if route.Version != expected {
		return fmt.Errorf("expected stored route version %d, got %d", expected, route.Version)
	}
	return nil
}

func (rc *routeStatusContext) shipmentShouldBe(shipmentID, expected string) error {
	sh, err := rc.shipmentRepo.FindByID(context.Background(), shipmentID)
	if err != nil {
		return fmt.Errorf("failed to load shipment: %w", err)
	}
	if string(sh.Status) != expected {
		return fmt.Errorf("expected shipment %s status %s, got %s", shipmentID, expected, sh.Status)
	}
	return nil
}

func (rc *routeStatusContext) findCommittedRoute() (*planning.Route, error) {
	routes, err := rc.routeRepo.FindByJobID(context.Background(), "job-1")
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	if len(routes) != 1 {
		return nil, fmt.Errorf("expected one committed route, got %d", len(routes))
	}
	return routes[0], nil
}

func InitializeRouteStatusScenario(ctx *godog.ScenarioContext) {
	rc := &routeStatusContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, rc.reset()
	})

	// Given steps
	ctx.Step(`^a committed route "([^"]*)" with shipments "([^"]*)" and "([^"]*)"$`, rc.aCommittedRouteWithShipments)

	// When steps
	ctx.Step(`^I update route "([^"]*)" to "([^"]*)" at version (\d+)$`, rc.iUpdateRouteToAtVersion)

	// Then steps
	ctx.Step(`^the update should succeed$`, rc.theUpdateShouldSucceed)
	ctx.Step(`^the update should fail with a version conflict$`, rc.theUpdateShouldFailWithAVersionConflict)
	ctx.Step(`^the stored route status should be "([^"]*)"$`, rc.theStoredRouteStatusShouldBe)
	ctx.Step(`^the stored route version should be (\d+)$`, rc.theStoredRouteVersionShouldBe)
	ctx.Step(`^shipment "([^"]*)" should be "([^"]*)"$`, rc.shipmentShouldBe)
}
