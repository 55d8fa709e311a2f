package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormVehicleRepository implements fleet.VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GORM vehicle repository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by id
func (r *GormVehicleRepository) FindByID(ctx context.Context, id string) (*fleet.Vehicle, error) {
	var model VehicleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("vehicle", id)
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", result.Error)
	}

	return vehicleFromModel(&model), nil
}

// FindAvailable returns all AVAILABLE vehicles ordered by id, so snapshots
// and solver vehicle indexes are stable across runs.
func (r *GormVehicleRepository) FindAvailable(ctx context.Context) ([]*fleet.Vehicle, error) {
	var models []VehicleModel
	result := r.db.WithContext(ctx).
		Where("status = ?", string(fleet.VehicleAvailable)).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list available vehicles: %w", result.Error)
	}

	vehicles := make([]*fleet.Vehicle, len(models))
	for i := range models {
		vehicles[i] = vehicleFromModel(&models[i])
	}
	return vehicles, nil
}

// FindByIDs reloads a pinned vehicle snapshot, ordered by id
func (r *GormVehicleRepository) FindByIDs(ctx context.Context, ids []string) ([]*fleet.Vehicle, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []VehicleModel
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find vehicles by ids: %w", result.Error)
	}

	vehicles := make([]*fleet.Vehicle, len(models))
	for i := range models {
		vehicles[i] = vehicleFromModel(&models[i])
	}
	return vehicles, nil
}

// Save persists a vehicle (upsert)
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *fleet.Vehicle) error {
	result := r.db.WithContext(ctx).Save(vehicleToModel(vehicle))
	if result.Error != nil {
		return fmt.Errorf("failed to save vehicle: %w", result.Error)
	}
	return nil
}

// vehicleFromModel converts a database row to the domain entity
func vehicleFromModel(model *VehicleModel) *fleet.Vehicle {
	return &fleet.Vehicle{
		ID:                model.ID,
		LicensePlate:      model.LicensePlate,
		MaxWeightKg:       model.MaxWeightKg,
		MaxVolumeM3:       model.MaxVolumeM3,
		Insulation:        fleet.InsulationGrade(model.Insulation),
		Door:              fleet.DoorType(model.DoorType),
		HasStripCurtains:  model.HasStripCurtains,
		CoolingRate:       model.CoolingRate,
		MinTempCapability: model.MinTempCapability,
		Status:            fleet.VehicleStatus(model.Status),
		DriverID:          model.DriverID,
	}
}

// vehicleToModel converts the domain entity to a database row
func vehicleToModel(vehicle *fleet.Vehicle) *VehicleModel {
	return &VehicleModel{
		ID:                vehicle.ID,
		LicensePlate:      vehicle.LicensePlate,
		MaxWeightKg:       vehicle.MaxWeightKg,
		MaxVolumeM3:       vehicle.MaxVolumeM3,
		Insulation:        string(vehicle.Insulation),
		DoorType:          string(vehicle.Door),
		HasStripCurtains:  vehicle.HasStripCurtains,
		CoolingRate:       vehicle.CoolingRate,
		MinTempCapability: vehicle.MinTempCapability,
		Status:            string(vehicle.Status),
		DriverID:          vehicle.DriverID,
	}
}
