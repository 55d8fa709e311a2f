package setup

import (
	"reflect"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	planningCommands "github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	planningQueries "github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	jobRepo      planning.PlanJobRepository
	routeRepo    planning.RouteRepository
	logRepo      planning.JobLogRepository
	vehicleRepo  fleet.VehicleRepository
	shipmentRepo shipment.ShipmentRepository
	depotRepo    depot.DepotRepository
	loader       *services.SnapshotLoader
	dispatcher   services.JobDispatcher
	settings     services.Settings
	clock        shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	jobRepo planning.PlanJobRepository,
	routeRepo planning.RouteRepository,
	logRepo planning.JobLogRepository,
	vehicleRepo fleet.VehicleRepository,
	shipmentRepo shipment.ShipmentRepository,
	depotRepo depot.DepotRepository,
	loader *services.SnapshotLoader,
	dispatcher services.JobDispatcher,
	settings services.Settings,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		jobRepo:      jobRepo,
		routeRepo:    routeRepo,
		logRepo:      logRepo,
		vehicleRepo:  vehicleRepo,
		shipmentRepo: shipmentRepo,
		depotRepo:    depotRepo,
		loader:       loader,
		dispatcher:   dispatcher,
		settings:     settings,
		clock:        clock,
	}
}

// RegisterPlanningCommandHandlers registers all planning command handlers with the mediator
//
// This method registers:
//   - RequestPlanCommand → RequestPlanHandler (accept + queue a planning run)
//   - CancelPlanJobCommand → CancelPlanJobHandler (cancel queued or running jobs)
//   - UpdateRouteStatusCommand → UpdateRouteStatusHandler (dispatch tooling transitions)
func (r *HandlerRegistry) RegisterPlanningCommandHandlers(m common.Mediator) error {
	requestPlanHandler := planningCommands.NewRequestPlanHandler(
		r.loader, r.dispatcher, r.jobRepo, r.depotRepo, r.settings, r.clock)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.RequestPlanCommand{}),
		requestPlanHandler,
	); err != nil {
		return err
	}

	cancelHandler := planningCommands.NewCancelPlanJobHandler(r.jobRepo, r.dispatcher)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.CancelPlanJobCommand{}),
		cancelHandler,
	); err != nil {
		return err
	}

	updateRouteHandler := planningCommands.NewUpdateRouteStatusHandler(r.routeRepo, r.shipmentRepo)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.UpdateRouteStatusCommand{}),
		updateRouteHandler,
	); err != nil {
		return err
	}

	return nil
}

// RegisterPlanningQueryHandlers registers all planning query handlers with the mediator
//
// This method registers:
//   - GetJobStatusQuery → GetJobStatusHandler
//   - ListJobsQuery → ListJobsHandler
//   - GetJobLogsQuery → GetJobLogsHandler
//   - GetViolationsQuery → GetViolationsHandler
//   - ListRoutesQuery → ListRoutesHandler
//   - GetRouteQuery → GetRouteHandler
//   - GetMapDataQuery → GetMapDataHandler
//   - GetTemperatureAnalysisQuery → GetTemperatureAnalysisHandler
func (r *HandlerRegistry) RegisterPlanningQueryHandlers(m common.Mediator) error {
	statusHandler := planningQueries.NewGetJobStatusHandler(r.jobRepo, r.routeRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetJobStatusQuery{}),
		statusHandler,
	); err != nil {
		return err
	}

	listJobsHandler := planningQueries.NewListJobsHandler(r.jobRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.ListJobsQuery{}),
		listJobsHandler,
	); err != nil {
		return err
	}

	logsHandler := planningQueries.NewGetJobLogsHandler(r.jobRepo, r.logRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetJobLogsQuery{}),
		logsHandler,
	); err != nil {
		return err
	}

	violationsHandler := planningQueries.NewGetViolationsHandler(r.jobRepo, r.routeRepo, r.shipmentRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetViolationsQuery{}),
		violationsHandler,
	); err != nil {
		return err
	}

	listRoutesHandler := planningQueries.NewListRoutesHandler(r.routeRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.ListRoutesQuery{}),
		listRoutesHandler,
	); err != nil {
		return err
	}

	getRouteHandler := planningQueries.NewGetRouteHandler(r.routeRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetRouteQuery{}),
		getRouteHandler,
	); err != nil {
		return err
	}

	mapDataHandler := planningQueries.NewGetMapDataHandler(r.routeRepo, r.depotRepo, r.shipmentRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetMapDataQuery{}),
		mapDataHandler,
	); err != nil {
		return err
	}

	analysisHandler := planningQueries.NewGetTemperatureAnalysisHandler(
		r.routeRepo, r.jobRepo, r.vehicleRepo, r.shipmentRepo)
	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetTemperatureAnalysisQuery{}),
		analysisHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a new mediator with all planning handlers registered
//
// This is a convenience method for wiring; use it when you need a fully
// configured mediator for the daemon or tests.
func (r *HandlerRegistry) CreateConfiguredMediator() (common.Mediator, error) {
	m := common.NewMediator()

	if err := r.RegisterPlanningCommandHandlers(m); err != nil {
		return nil, err
	}

	if err := r.RegisterPlanningQueryHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
