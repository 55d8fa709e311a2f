package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormJobLogRepository implements planning.JobLogRepository using GORM
type GormJobLogRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormJobLogRepository creates a new GORM job log repository.
// If clock is nil, uses RealClock (production behavior).
func NewGormJobLogRepository(db *gorm.DB, clock shared.Clock) *GormJobLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormJobLogRepository{db: db, clock: clock}
}

// Append persists one log line for a job
func (r *GormJobLogRepository) Append(ctx context.Context, jobID, level, message string) error {
	entry := &JobLogModel{
		JobID:     jobID,
		Level:     level,
		Message:   message,
		CreatedAt: r.clock.Now(),
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append job log: %w", err)
	}
	return nil
}

// FindByJobID returns a job's log entries oldest first. A non-positive
// limit returns the whole log.
func (r *GormJobLogRepository) FindByJobID(ctx context.Context, jobID string, limit int) ([]planning.JobLogEntry, error) {
	query := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []JobLogModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load job logs: %w", err)
	}

	entries := make([]planning.JobLogEntry, len(models))
	for i, model := range models {
		entries[i] = planning.JobLogEntry{
			ID:        model.ID,
			JobID:     model.JobID,
			Level:     model.Level,
			Message:   model.Message,
			CreatedAt: model.CreatedAt,
		}
	}
	return entries, nil
}
