package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
)

// isoDateLayout is the storage format for plan dates. Dates are kept as
// strings so SQLite and PostgreSQL compare them identically.
const isoDateLayout = "2006-01-02"

// GormLaborLogRepository implements driver.LaborLogRepository using GORM
type GormLaborLogRepository struct {
	db *gorm.DB
}

// NewGormLaborLogRepository creates a new GORM labor log repository
func NewGormLaborLogRepository(db *gorm.DB) *GormLaborLogRepository {
	return &GormLaborLogRepository{db: db}
}

// SaveAll persists a batch of labor bookings
func (r *GormLaborLogRepository) SaveAll(ctx context.Context, logs []*driver.LaborLog) error {
	if len(logs) == 0 {
		return nil
	}

	models := make([]LaborLogModel, len(logs))
	for i, l := range logs {
		models[i] = *laborLogToModel(l)
	}

	result := r.db.WithContext(ctx).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save labor logs: %w", result.Error)
	}
	return nil
}

// FindByRouteID returns the labor bookings recorded for a route
func (r *GormLaborLogRepository) FindByRouteID(ctx context.Context, routeID string) ([]*driver.LaborLog, error) {
	var models []LaborLogModel
	result := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find labor logs: %w", result.Error)
	}

	logs := make([]*driver.LaborLog, len(models))
	for i := range models {
		l, err := laborLogFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		logs[i] = l
	}
	return logs, nil
}

// laborLogFromModel converts a database row to the domain entity
func laborLogFromModel(model *LaborLogModel) (*driver.LaborLog, error) {
	planDate, err := time.Parse(isoDateLayout, model.PlanDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan date of labor log %s: %w", model.ID, err)
	}

	return &driver.LaborLog{
		ID:             model.ID,
		DriverID:       model.DriverID,
		RouteID:        model.RouteID,
		PlanDate:       planDate,
		DriveMinutes:   model.DriveMinutes,
		ServiceMinutes: model.ServiceMinutes,
	}, nil
}

// laborLogToModel converts the domain entity to a database row
func laborLogToModel(l *driver.LaborLog) *LaborLogModel {
	return &LaborLogModel{
		ID:             l.ID,
		DriverID:       l.DriverID,
		RouteID:        l.RouteID,
		PlanDate:       l.PlanDate.Format(isoDateLayout),
		DriveMinutes:   l.DriveMinutes,
		ServiceMinutes: l.ServiceMinutes,
	}
}
