package services

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// Snapshot is the frozen view of the world a planning run works against.
// The solver never touches repositories; everything it needs is here.
type Snapshot struct {
	Depot     *depot.Depot
	Vehicles  []*fleet.Vehicle
	Drivers   map[string]*driver.Driver
	Shipments []*shipment.Shipment
}

// VehicleIDs returns the snapshot's vehicle ids in order
func (s *Snapshot) VehicleIDs() []string {
	ids := make([]string, 0, len(s.Vehicles))
	for _, v := range s.Vehicles {
		ids = append(ids, v.ID)
	}
	return ids
}

// ShipmentIDs returns the snapshot's shipment ids in order
func (s *Snapshot) ShipmentIDs() []string {
	ids := make([]string, 0, len(s.Shipments))
	for _, sh := range s.Shipments {
		ids = append(ids, sh.ID)
	}
	return ids
}

// SnapshotLoader resolves a plan request into a consistent snapshot
type SnapshotLoader struct {
	vehicleRepo  fleet.VehicleRepository
	shipmentRepo shipment.ShipmentRepository
	depotRepo    depot.DepotRepository
	driverRepo   driver.DriverRepository
}

// NewSnapshotLoader creates a snapshot loader
func NewSnapshotLoader(
	vehicleRepo fleet.VehicleRepository,
	shipmentRepo shipment.ShipmentRepository,
	depotRepo depot.DepotRepository,
	driverRepo driver.DriverRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		vehicleRepo:  vehicleRepo,
		shipmentRepo: shipmentRepo,
		depotRepo:    depotRepo,
		driverRepo:   driverRepo,
	}
}

// LoadForRequest resolves the request's vehicle and shipment selection.
// Empty selections mean "all available" / "all pending". Used when the
// job is accepted, so the ids can be pinned on the job.
func (l *SnapshotLoader) LoadForRequest(ctx context.Context, request planning.PlanRequest) (*Snapshot, error) {
	dep, err := l.loadDepot(ctx, request)
	if err != nil {
		return nil, err
	}

	vehicles, err := l.loadVehicles(ctx, request.VehicleIDs)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, shared.NewPreconditionFailureError("available_vehicles",
			"no available vehicles to plan with")
	}

	shipments, err := l.loadShipments(ctx, request.ShipmentIDs)
	if err != nil {
		return nil, err
	}
	if len(shipments) == 0 {
		return nil, shared.NewPreconditionFailureError("pending_shipments",
			"no pending shipments to plan")
	}

	drivers, err := l.driverRepo.FindByVehicleIDs(ctx, vehicleIDsOf(vehicles))
	if err != nil {
		return nil, fmt.Errorf("loading drivers: %w", err)
	}

	return &Snapshot{
		Depot:     dep,
		Vehicles:  vehicles,
		Drivers:   drivers,
		Shipments: shipments,
	}, nil
}

// LoadByIDs reloads the exact entities a job pinned at request time.
// The worker uses this so a retry or delayed start still plans over the
// same fleet and shipments.
func (l *SnapshotLoader) LoadByIDs(ctx context.Context, request planning.PlanRequest, vehicleIDs, shipmentIDs []string) (*Snapshot, error) {
	dep, err := l.loadDepot(ctx, request)
	if err != nil {
		return nil, err
	}

	vehicles, err := l.vehicleRepo.FindByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, fmt.Errorf("reloading vehicles: %w", err)
	}

	shipments, err := l.shipmentRepo.FindByIDs(ctx, shipmentIDs)
	if err != nil {
		return nil, fmt.Errorf("reloading shipments: %w", err)
	}

	drivers, err := l.driverRepo.FindByVehicleIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, fmt.Errorf("loading drivers: %w", err)
	}

	return &Snapshot{
		Depot:     dep,
		Vehicles:  vehicles,
		Drivers:   drivers,
		Shipments: shipments,
	}, nil
}

// loadDepot resolves the depot by id, or falls back to the default
func (l *SnapshotLoader) loadDepot(ctx context.Context, request planning.PlanRequest) (*depot.Depot, error) {
	if request.DepotID != "" {
		return l.depotRepo.FindByID(ctx, request.DepotID)
	}
	return l.depotRepo.FindDefault(ctx)
}

func (l *SnapshotLoader) loadVehicles(ctx context.Context, vehicleIDs []string) ([]*fleet.Vehicle, error) {
	if len(vehicleIDs) == 0 {
		return l.vehicleRepo.FindAvailable(ctx)
	}

	vehicles, err := l.vehicleRepo.FindByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if !v.IsAvailable() {
			return nil, shared.NewPreconditionFailureError("vehicle_available",
				fmt.Sprintf("vehicle %s is %s, not AVAILABLE", v.ID, v.Status))
		}
	}
	return vehicles, nil
}

func (l *SnapshotLoader) loadShipments(ctx context.Context, shipmentIDs []string) ([]*shipment.Shipment, error) {
	if len(shipmentIDs) == 0 {
		return l.shipmentRepo.FindPending(ctx)
	}

	shipments, err := l.shipmentRepo.FindByIDs(ctx, shipmentIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range shipments {
		if s.Status != shipment.StatusPending {
			return nil, shared.NewPreconditionFailureError("shipment_pending",
				fmt.Sprintf("shipment %s is %s, not PENDING", s.ID, s.Status))
		}
	}
	return shipments, nil
}

func vehicleIDsOf(vehicles []*fleet.Vehicle) []string {
	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}
	return ids
}
