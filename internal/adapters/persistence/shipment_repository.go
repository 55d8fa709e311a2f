package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// GormShipmentRepository implements shipment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GORM shipment repository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID retrieves a shipment by id
func (r *GormShipmentRepository) FindByID(ctx context.Context, id string) (*shipment.Shipment, error) {
	var model ShipmentModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("shipment", id)
		}
		return nil, fmt.Errorf("failed to find shipment: %w", result.Error)
	}

	return shipmentFromModel(&model)
}

// FindPending returns all PENDING shipments ordered by id, so snapshots and
// solver node indexes are stable across runs.
func (r *GormShipmentRepository) FindPending(ctx context.Context) ([]*shipment.Shipment, error) {
	var models []ShipmentModel
	result := r.db.WithContext(ctx).
		Where("status = ?", string(shipment.StatusPending)).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list pending shipments: %w", result.Error)
	}

	return shipmentsFromModels(models)
}

// FindByIDs reloads a pinned shipment snapshot, ordered by id
func (r *GormShipmentRepository) FindByIDs(ctx context.Context, ids []string) ([]*shipment.Shipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []ShipmentModel
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find shipments by ids: %w", result.Error)
	}

	return shipmentsFromModels(models)
}

// Save persists a shipment (upsert)
func (r *GormShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	model, err := shipmentToModel(s)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save shipment: %w", result.Error)
	}
	return nil
}

func shipmentsFromModels(models []ShipmentModel) ([]*shipment.Shipment, error) {
	shipments := make([]*shipment.Shipment, len(models))
	for i := range models {
		s, err := shipmentFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert shipment %s: %w", models[i].ID, err)
		}
		shipments[i] = s
	}
	return shipments, nil
}

// shipmentFromModel converts a database row to the domain entity
func shipmentFromModel(model *ShipmentModel) (*shipment.Shipment, error) {
	var windows []shipment.TimeWindow
	if err := json.Unmarshal([]byte(model.WindowsJSON), &windows); err != nil {
		return nil, fmt.Errorf("failed to parse windows for shipment %s: %w", model.ID, err)
	}

	return &shipment.Shipment{
		ID:          model.ID,
		OrderNumber: model.OrderNumber,
		Location: shared.Coordinate{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		Address:        model.Address,
		WeightKg:       model.WeightKg,
		VolumeM3:       model.VolumeM3,
		Windows:        windows,
		ServiceMinutes: model.ServiceMinutes,
		TempCeiling:    model.TempCeiling,
		TempFloor:      model.TempFloor,
		SLA:            shipment.SLATier(model.SLA),
		Priority:       model.Priority,
		Status:         shipment.Status(model.Status),
		RouteID:        model.RouteID,
		RouteSequence:  model.RouteSequence,
	}, nil
}

// shipmentToModel converts the domain entity to a database row
func shipmentToModel(s *shipment.Shipment) (*ShipmentModel, error) {
	windowsJSON, err := json.Marshal(s.Windows)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize windows for shipment %s: %w", s.ID, err)
	}

	return &ShipmentModel{
		ID:             s.ID,
		OrderNumber:    s.OrderNumber,
		Latitude:       s.Location.Latitude,
		Longitude:      s.Location.Longitude,
		Address:        s.Address,
		WeightKg:       s.WeightKg,
		VolumeM3:       s.VolumeM3,
		WindowsJSON:    string(windowsJSON),
		ServiceMinutes: s.ServiceMinutes,
		TempCeiling:    s.TempCeiling,
		TempFloor:      s.TempFloor,
		SLA:            string(s.SLA),
		Priority:       s.Priority,
		Status:         string(s.Status),
		RouteID:        s.RouteID,
		RouteSequence:  s.RouteSequence,
	}, nil
}
