package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormDepotRepository implements depot.DepotRepository using GORM
type GormDepotRepository struct {
	db *gorm.DB
}

// NewGormDepotRepository creates a new GORM depot repository
func NewGormDepotRepository(db *gorm.DB) *GormDepotRepository {
	return &GormDepotRepository{db: db}
}

// FindByID retrieves a depot by id
func (r *GormDepotRepository) FindByID(ctx context.Context, id string) (*depot.Depot, error) {
	var model DepotModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("depot", id)
		}
		return nil, fmt.Errorf("failed to find depot: %w", result.Error)
	}

	return depotFromModel(&model), nil
}

// FindDefault retrieves the depot marked as default. When several rows carry
// the flag the lowest id wins, so the answer is deterministic.
func (r *GormDepotRepository) FindDefault(ctx context.Context) (*depot.Depot, error) {
	var model DepotModel
	result := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("id ASC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("depot", "default")
		}
		return nil, fmt.Errorf("failed to find default depot: %w", result.Error)
	}

	return depotFromModel(&model), nil
}

// Save persists a depot (upsert). The default flag is owned by MarkDefault
// and omitted here, so re-saving a depot never silently drops it.
func (r *GormDepotRepository) Save(ctx context.Context, d *depot.Depot) error {
	result := r.db.WithContext(ctx).Omit("is_default").Save(depotToModel(d))
	if result.Error != nil {
		return fmt.Errorf("failed to save depot: %w", result.Error)
	}
	return nil
}

// MarkDefault flags one depot as the default and clears the flag everywhere
// else, inside a single transaction.
func (r *GormDepotRepository) MarkDefault(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DepotModel{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("failed to clear default depots: %w", err)
		}

		result := tx.Model(&DepotModel{}).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return fmt.Errorf("failed to mark default depot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("depot", id)
		}
		return nil
	})
}

// depotFromModel converts a database row to the domain entity
func depotFromModel(model *DepotModel) *depot.Depot {
	return &depot.Depot{
		ID:   model.ID,
		Name: model.Name,
		Location: shared.Coordinate{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		OpenMinute:  model.OpenMinute,
		CloseMinute: model.CloseMinute,
	}
}

// depotToModel converts the domain entity to a database row
func depotToModel(d *depot.Depot) *DepotModel {
	return &DepotModel{
		ID:          d.ID,
		Name:        d.Name,
		Latitude:    d.Location.Latitude,
		Longitude:   d.Location.Longitude,
		OpenMinute:  d.OpenMinute,
		CloseMinute: d.CloseMinute,
	}
}
