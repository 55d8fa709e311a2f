package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/pkg/utils"
)

// RequestPlanCommand represents a request to start a planning run.
// Optional fields fall back to configured defaults.
type RequestPlanCommand struct {
	PlanDate    time.Time // Required: the date the routes are for
	DepotID     string    // Optional: depot reference; default depot when empty
	DepotLat    *float64  // Optional: ad-hoc depot latitude (paired with DepotLon)
	DepotLon    *float64  // Optional: ad-hoc depot longitude
	VehicleIDs  []string  // Optional: restrict the fleet; all AVAILABLE when empty
	ShipmentIDs []string  // Optional: restrict shipments; all PENDING when empty

	Strategy         string   // Optional: MINIMIZE_VEHICLES (default) or MINIMIZE_DISTANCE
	TimeLimitSeconds int      // Optional: solver budget; default/max from config
	DepartureTime    string   // Optional: HH:MM; default 06:00
	AmbientTemp      *float64 // Optional: °C
	InitialCargoTemp *float64 // Optional: °C
	AverageSpeedKmh  *float64 // Optional: km/h
}

// RequestPlanResponse is returned immediately; the solve runs async
type RequestPlanResponse struct {
	JobID         string
	Status        planning.JobStatus
	VehicleCount  int
	ShipmentCount int
}

// RequestPlanHandler validates the request, snapshots the world, and
// queues the job.
type RequestPlanHandler struct {
	loader     *services.SnapshotLoader
	dispatcher services.JobDispatcher
	jobRepo    planning.PlanJobRepository
	depotRepo  depot.DepotRepository
	settings   services.Settings
	clock      shared.Clock
}

// NewRequestPlanHandler creates a new RequestPlanHandler
func NewRequestPlanHandler(
	loader *services.SnapshotLoader,
	dispatcher services.JobDispatcher,
	jobRepo planning.PlanJobRepository,
	depotRepo depot.DepotRepository,
	settings services.Settings,
	clock shared.Clock,
) *RequestPlanHandler {
	return &RequestPlanHandler{
		loader:     loader,
		dispatcher: dispatcher,
		jobRepo:    jobRepo,
		depotRepo:  depotRepo,
		settings:   settings,
		clock:      clock,
	}
}

// Handle executes the RequestPlan command
func (h *RequestPlanHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RequestPlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RequestPlanCommand")
	}

	planRequest, err := h.buildPlanRequest(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Resolve the snapshot now so precondition failures surface
	// synchronously and the job pins exactly what it will plan over
	snapshot, err := h.loader.LoadForRequest(ctx, planRequest)
	if err != nil {
		return nil, err
	}
	if planRequest.DepotID == "" {
		planRequest.DepotID = snapshot.Depot.ID
	}

	job := planning.NewPlanJob(utils.GenerateID(), planRequest, h.clock)
	if err := job.SetSnapshot(snapshot.VehicleIDs(), snapshot.ShipmentIDs()); err != nil {
		return nil, err
	}

	if err := h.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	if err := h.dispatcher.Dispatch(ctx, job); err != nil {
		if failErr := job.Fail(err); failErr == nil {
			_ = h.jobRepo.Save(ctx, job)
		}
		return nil, err
	}

	return &RequestPlanResponse{
		JobID:         job.ID(),
		Status:        job.Status(),
		VehicleCount:  len(job.VehicleIDs()),
		ShipmentCount: len(job.ShipmentIDs()),
	}, nil
}

// buildPlanRequest applies defaults and validates the command's fields.
// An inline depot coordinate is materialized as a depot record so every
// downstream consumer resolves the depot by id.
func (h *RequestPlanHandler) buildPlanRequest(ctx context.Context, cmd *RequestPlanCommand) (planning.PlanRequest, error) {
	var empty planning.PlanRequest

	if cmd.PlanDate.IsZero() {
		return empty, shared.NewValidationError("plan_date", "plan date is required")
	}

	strategy := planning.StrategyMinimizeVehicles
	switch cmd.Strategy {
	case "", string(planning.StrategyMinimizeVehicles):
	case string(planning.StrategyMinimizeDistance):
		strategy = planning.StrategyMinimizeDistance
	default:
		return empty, shared.NewValidationError("strategy",
			fmt.Sprintf("unknown strategy %q", cmd.Strategy))
	}

	timeLimit := cmd.TimeLimitSeconds
	if timeLimit == 0 {
		timeLimit = h.settings.DefaultTimeLimitSeconds
	}
	if timeLimit < 0 {
		return empty, shared.NewValidationError("time_limit_seconds", "time limit must be positive")
	}
	if timeLimit > h.settings.MaxTimeLimitSeconds {
		return empty, shared.NewValidationError("time_limit_seconds",
			fmt.Sprintf("time limit %ds exceeds the maximum %ds", timeLimit, h.settings.MaxTimeLimitSeconds))
	}

	departureMinute := h.settings.DefaultDepartureMinute
	if cmd.DepartureTime != "" {
		minute, err := shared.ParseMinuteOfDay(cmd.DepartureTime)
		if err != nil {
			return empty, err
		}
		departureMinute = minute
	}

	depotID := cmd.DepotID
	if cmd.DepotLat != nil || cmd.DepotLon != nil {
		if cmd.DepotLat == nil || cmd.DepotLon == nil {
			return empty, shared.NewValidationError("depot", "depot latitude and longitude must both be set")
		}
		if depotID != "" {
			return empty, shared.NewValidationError("depot", "provide a depot id or a coordinate, not both")
		}
		coord, err := shared.NewCoordinate(*cmd.DepotLat, *cmd.DepotLon)
		if err != nil {
			return empty, err
		}
		adhoc, err := depot.NewDepot(utils.GenerateID(), "Ad-hoc depot", *coord, 0, 0)
		if err != nil {
			return empty, err
		}
		if err := h.depotRepo.Save(ctx, adhoc); err != nil {
			return empty, fmt.Errorf("failed to persist ad-hoc depot: %w", err)
		}
		depotID = adhoc.ID
	}

	ambient := h.settings.DefaultAmbientTemp
	if cmd.AmbientTemp != nil {
		ambient = *cmd.AmbientTemp
	}

	initialCargo := h.settings.InitialCargoTemp
	if cmd.InitialCargoTemp != nil {
		initialCargo = *cmd.InitialCargoTemp
	}

	speed := h.settings.DefaultSpeedKmh
	if cmd.AverageSpeedKmh != nil {
		speed = *cmd.AverageSpeedKmh
	}
	if speed <= 0 {
		return empty, shared.NewValidationError("average_speed_kmh", "average speed must be positive")
	}

	return planning.PlanRequest{
		PlanDate:         cmd.PlanDate,
		DepotID:          depotID,
		VehicleIDs:       cmd.VehicleIDs,
		ShipmentIDs:      cmd.ShipmentIDs,
		Strategy:         strategy,
		TimeLimitSeconds: timeLimit,
		DepartureMinute:  departureMinute,
		AmbientTemp:      ambient,
		InitialCargoTemp: initialCargo,
		AverageSpeedKmh:  speed,
	}, nil
}
