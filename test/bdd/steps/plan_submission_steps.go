package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/adapters/solver"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/test/helpers"
)

// planSubmissionContext drives the full pipeline: real repositories on
// the shared database, the native solver, and a worker pool of one.
type planSubmissionContext struct {
	vehicleRepo  *persistence.GormVehicleRepository
	shipmentRepo *persistence.GormShipmentRepository
	depotRepo    *persistence.GormDepotRepository
	driverRepo   *persistence.GormDriverRepository
	jobRepo      *persistence.GormPlanJobRepository
	routeRepo    *persistence.GormRouteRepository

	pool          *services.WorkerPool
	poolStarted   bool
	submitHandler *commands.RequestPlanHandler
	cancelHandler *commands.CancelPlanJobHandler

	jobID     string
	response  *commands.RequestPlanResponse
	submitErr error
}

func (pc *planSubmissionContext) reset() error {
	if pc.pool != nil && pc.poolStarted {
		pc.pool.Shutdown()
	}
	pc.poolStarted = false
	pc.jobID = ""
	pc.response = nil
	pc.submitErr = nil

	if err := helpers.TruncateAllTables(); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	db := helpers.SharedTestDB
	clock := shared.NewRealClock()

	pc.vehicleRepo = persistence.NewGormVehicleRepository(db)
	pc.shipmentRepo = persistence.NewGormShipmentRepository(db)
	pc.depotRepo = persistence.NewGormDepotRepository(db)
	pc.driverRepo = persistence.NewGormDriverRepository(db)
	pc.jobRepo = persistence.NewGormPlanJobRepository(db, clock)
	pc.routeRepo = persistence.NewGormRouteRepository(db)

	planRepo := persistence.NewGormPlanRepository(db)
	logRepo := persistence.NewGormJobLogRepository(db, clock)

	settings := services.Settings{
		VehicleFixedCost:        50000,
		DistanceCostPerKm:       10,
		TempViolationPenalty:    100000,
		LateDeliveryPenalty:     2000,
		InfeasibleCost:          10000000,
		GlobalSpanCoefficient:   100,
		DefaultTimeLimitSeconds: 2,
		MaxTimeLimitSeconds:     30,
		DefaultDepartureMinute:  360,
		DefaultAmbientTemp:      22,
		InitialCargoTemp:        2,
		DefaultSpeedKmh:         30,
		LaborDimensionEnabled:   true,
		DailyLaborLimitMinutes:  540,
		WeeklyLaborLimitMinutes: 2400,
		ProgressInterval:        100 * time.Millisecond,
		WorkerCount:             1,
		QueueSize:               8,
	}

	loader := services.NewSnapshotLoader(pc.vehicleRepo, pc.shipmentRepo, pc.depotRepo, pc.driverRepo)
	builder := services.NewModelBuilder(settings)
	assembler := services.NewPlanAssembler(settings)
	engine := solver.NewNativeSolverEngine(clock)

	pc.pool = services.NewWorkerPool(loader, builder, assembler, engine,
		pc.jobRepo, planRepo, logRepo, settings, clock)

	pc.submitHandler = commands.NewRequestPlanHandler(loader, pc.pool, pc.jobRepo, pc.depotRepo, settings, clock)
	pc.cancelHandler = commands.NewCancelPlanJobHandler(pc.jobRepo, pc.pool)

	return nil
}

// Given steps

func (pc *planSubmissionContext) aDepotExists(depotID string) error {
	return pc.depotRepo.Save(context.Background(), helpers.CreateTestDepot(depotID))
}

func (pc *planSubmissionContext) anAvailableVehicleWithPlate(vehicleID, plate string) error {
	return pc.vehicleRepo.Save(context.Background(), helpers.CreateTestVehicle(vehicleID, plate))
}

func (pc *planSubmissionContext) aDriverAssignedToVehicle(driverID, vehicleID string) error {
	return pc.driverRepo.Save(context.Background(), helpers.CreateTestDriver(driverID, vehicleID))
}

func (pc *planSubmissionContext) aPendingShipmentAtCoordinates(shipmentID string, lat, lon float64) error {
	return pc.shipmentRepo.Save(context.Background(), helpers.CreateTestShipment(shipmentID, lat, lon))
}

func (pc *planSubmissionContext) thePlanningWorkersAreRunning() error {
	pc.pool.Start()
	pc.poolStarted = true
	return nil
}

// When steps

func (pc *planSubmissionContext) iSubmitAPlanRequestForUsingDepot(dateStr, depotID string) error {
	planDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid plan date: %w", err)
	}

	response, err := pc.submitHandler.Handle(context.Background(), &commands.RequestPlanCommand{
		PlanDate:         planDate,
		DepotID:          depotID,
		TimeLimitSeconds: 1,
	})

	pc.submitErr = err
	if err == nil {
		pc.response = response.(*commands.RequestPlanResponse)
		pc.jobID = pc.response.JobID
	}
	return nil
}

func (pc *planSubmissionContext) theJobFinishes() error {
	if pc.jobID == "" {
		return fmt.Errorf("no job was accepted")
	}

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		job, err := pc.jobRepo.FindByID(context.Background(), pc.jobID)
		if err != nil {
			return fmt.Errorf("failed to poll job: %w", err)
		}
		if job.IsFinished() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("job %s did not finish in time", pc.jobID)
}

func (pc *planSubmissionContext) iCancelTheJob() error {
	if pc.jobID == "" {
		return fmt.Errorf("no job was accepted")
	}

	_, err := pc.cancelHandler.Handle(context.Background(), &commands.CancelPlanJobCommand{
		JobID: pc.jobID,
	})
	return err
}

// Then steps

func (pc *planSubmissionContext) theRequestShouldBeAcceptedWith(vehicles, shipments int) error {
	if pc.submitErr != nil {
		return fmt.Errorf("expected the request to be accepted, got error: %v", pc.submitErr)
	}
	if pc.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if pc.response.VehicleCount != vehicles {
		return fmt.Errorf("expected %d vehicles in the snapshot, got %d", vehicles, pc.response.VehicleCount)
	}
	if pc.response.ShipmentCount != shipments {
		return fmt.Errorf("expected %d shipments in the snapshot, got %d", shipments, pc.response.ShipmentCount)
	}
	return nil
}

func (pc *planSubmissionContext) theRequestShouldBeRejectedWith(fragment string) error {
	if pc.submitErr == nil {
		return fmt.Errorf("expected the request to be rejected with '%s', but it was accepted", fragment)
	}
	if !strings.Contains(pc.submitErr.Error(), fragment) {
		return fmt.Errorf("expected error containing '%s', got '%v'", fragment, pc.submitErr)
	}
	return nil
}

func (pc *planSubmissionContext) theStoredJobStatusShouldBe(expected string) error {
	job, err := pc.jobRepo.FindByID(context.Background(), pc.jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if string(job.Status()) != expected {
		return fmt.Errorf("expected stored job status %s, got %s", expected, job.Status())
	}
	return nil
}

func (pc *planSubmissionContext) routesShouldBeCommittedForTheJob(count int) error {
	routes, err := pc.routeRepo.FindByJobID(context.Background(), pc.jobID)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}
	if len(routes) != count {
		return fmt.Errorf("expected %d committed routes, got %d", count, len(routes))
	}
	return nil
}

func (pc *planSubmissionContext) everyStopShouldRespectItsShipmentTimeWindow() error {
	routes, err := pc.routeRepo.FindByJobID(context.Background(), pc.jobID)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}

	for _, route := range routes {
		for _, stop := range route.Stops {
			sh, err := pc.shipmentRepo.FindByID(context.Background(), stop.ShipmentID)
			if err != nil {
				return fmt.Errorf("failed to load shipment %s: %w", stop.ShipmentID, err)
			}

			// Early arrivals wait with the doors closed; the recorded
			// arrival is the in-window start of service.
			inWindow := false
			for _, window := range sh.Windows {
				if window.Contains(stop.ArrivalMinute) {
					inWindow = true
					break
				}
			}
			if !inWindow {
				return fmt.Errorf("stop %d on route %s starts service at minute %d outside every window of shipment %s",
					stop.Sequence, route.ID, stop.ArrivalMinute, sh.ID)
			}
		}
	}
	return nil
}

func (pc *planSubmissionContext) shipmentShouldBeAssignedToARoute(shipmentID string) error {
	sh, err := pc.shipmentRepo.FindByID(context.Background(), shipmentID)
	if err != nil {
		return fmt.Errorf("failed to load shipment: %w", err)
	}
	if sh.Status != shipment.StatusAssigned {
		return fmt.Errorf("expected shipment %s to be ASSIGNED, got %s", shipmentID, sh.Status)
	}
	if sh.RouteID == "" {
		return fmt.Errorf("expected shipment %s to reference its route", shipmentID)
	}
	return nil
}

func InitializePlanSubmissionScenario(ctx *godog.ScenarioContext) {
	pc := &planSubmissionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if pc.pool != nil && pc.poolStarted {
			pc.pool.Shutdown()
			pc.poolStarted = false
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a depot "([^"]*)" exists$`, pc.aDepotExists)
	ctx.Step(`^an available vehicle "([^"]*)" with plate "([^"]*)"$`, pc.anAvailableVehicleWithPlate)
	ctx.Step(`^a driver "([^"]*)" assigned to vehicle "([^"]*)"$`, pc.aDriverAssignedToVehicle)
	ctx.Step(`^a pending shipment "([^"]*)" at coordinates (-?[0-9.]+), (-?[0-9.]+)$`, pc.aPendingShipmentAtCoordinates)
	ctx.Step(`^the planning workers are running$`, pc.thePlanningWorkersAreRunning)

	// When steps
	ctx.Step(`^I submit a plan request for "([^"]*)" using depot "([^"]*)"$`, pc.iSubmitAPlanRequestForUsingDepot)
	ctx.Step(`^the job finishes$`, pc.theJobFinishes)
	ctx.Step(`^I cancel the job$`, pc.iCancelTheJob)

	// Then steps
	ctx.Step(`^the request should be accepted with (\d+) vehicles and (\d+) shipments$`, pc.theRequestShouldBeAcceptedWith)
	ctx.Step(`^the request should be rejected with "([^"]*)"$`, pc.theRequestShouldBeRejectedWith)
	ctx.Step(`^the stored job status should be "([^"]*)"$`, pc.theStoredJobStatusShouldBe)
	ctx.Step(`^(\d+) routes should be committed for the job$`, pc.routesShouldBeCommittedForTheJob)
	ctx.Step(`^every stop should respect its shipment time window$`, pc.everyStopShouldRespectItsShipmentTimeWindow)
	ctx.Step(`^shipment "([^"]*)" should be assigned to a route$`, pc.shipmentShouldBeAssignedToARoute)
}
