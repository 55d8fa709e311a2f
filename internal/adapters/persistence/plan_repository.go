package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// GormPlanRepository implements planning.PlanRepository using GORM. A plan
// commit is the only multi-table write in the system, so it is the one
// place a transaction spans repositories.
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GORM plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// CommitPlan writes the completed job, its routes with their stops, the
// assigned shipments, and the labor bookings in one transaction. Either the
// whole plan lands or none of it does.
func (r *GormPlanRepository) CommitPlan(ctx context.Context, plan *planning.Plan) error {
	jobModel, err := planJobToModel(plan.Job)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(jobModel).Error; err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}

		for _, route := range plan.Routes {
			if err := tx.Create(routeToModel(route)).Error; err != nil {
				return fmt.Errorf("failed to insert route %s: %w", route.Code, err)
			}
			for _, stop := range route.Stops {
				if err := tx.Create(stopToModel(route.ID, stop)).Error; err != nil {
					return fmt.Errorf("failed to insert stop %d of route %s: %w",
						stop.Sequence, route.Code, err)
				}
			}
		}

		for _, s := range plan.Shipments {
			model, err := shipmentToModel(s)
			if err != nil {
				return err
			}
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("failed to update shipment %s: %w", s.ID, err)
			}
		}

		if len(plan.LaborLogs) > 0 {
			models := make([]LaborLogModel, len(plan.LaborLogs))
			for i, l := range plan.LaborLogs {
				models[i] = *laborLogToModel(l)
			}
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("failed to insert labor logs: %w", err)
			}
		}

		return nil
	})
}
