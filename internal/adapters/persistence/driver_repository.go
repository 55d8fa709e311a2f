package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormDriverRepository implements driver.DriverRepository using GORM
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GORM driver repository
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// FindByID retrieves a driver by id
func (r *GormDriverRepository) FindByID(ctx context.Context, id string) (*driver.Driver, error) {
	var model DriverModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("driver", id)
		}
		return nil, fmt.Errorf("failed to find driver: %w", result.Error)
	}

	return driverFromModel(&model), nil
}

// FindByVehicleIDs returns drivers keyed by their assigned vehicle.
// Vehicles with no driver simply have no entry; when two rows claim the
// same vehicle the later id wins, which keeps the result deterministic.
func (r *GormDriverRepository) FindByVehicleIDs(ctx context.Context, vehicleIDs []string) (map[string]*driver.Driver, error) {
	if len(vehicleIDs) == 0 {
		return map[string]*driver.Driver{}, nil
	}

	var models []DriverModel
	result := r.db.WithContext(ctx).
		Where("vehicle_id IN ?", vehicleIDs).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find drivers by vehicles: %w", result.Error)
	}

	drivers := make(map[string]*driver.Driver, len(models))
	for i := range models {
		drivers[models[i].VehicleID] = driverFromModel(&models[i])
	}
	return drivers, nil
}

// Save persists a driver (upsert)
func (r *GormDriverRepository) Save(ctx context.Context, d *driver.Driver) error {
	result := r.db.WithContext(ctx).Save(driverToModel(d))
	if result.Error != nil {
		return fmt.Errorf("failed to save driver: %w", result.Error)
	}
	return nil
}

// driverFromModel converts a database row to the domain entity
func driverFromModel(model *DriverModel) *driver.Driver {
	return &driver.Driver{
		ID:                       model.ID,
		Name:                     model.Name,
		VehicleID:                model.VehicleID,
		AccumulatedWeeklyMinutes: model.AccumulatedWeeklyMinutes,
		AccumulatedDailyMinutes:  model.AccumulatedDailyMinutes,
	}
}

// driverToModel converts the domain entity to a database row
func driverToModel(d *driver.Driver) *DriverModel {
	return &DriverModel{
		ID:                       d.ID,
		Name:                     d.Name,
		VehicleID:                d.VehicleID,
		AccumulatedWeeklyMinutes: d.AccumulatedWeeklyMinutes,
		AccumulatedDailyMinutes:  d.AccumulatedDailyMinutes,
	}
}
