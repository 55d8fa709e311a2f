package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// GormPlanJobRepository implements planning.PlanJobRepository using GORM
type GormPlanJobRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormPlanJobRepository creates a new GORM plan job repository.
// If clock is nil, uses RealClock (production behavior).
func NewGormPlanJobRepository(db *gorm.DB, clock shared.Clock) *GormPlanJobRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormPlanJobRepository{db: db, clock: clock}
}

// Save persists the job's full state (upsert)
func (r *GormPlanJobRepository) Save(ctx context.Context, job *planning.PlanJob) error {
	model, err := planJobToModel(job)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save plan job: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a job by id
func (r *GormPlanJobRepository) FindByID(ctx context.Context, id string) (*planning.PlanJob, error) {
	var model PlanJobModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("plan_job", id)
		}
		return nil, fmt.Errorf("failed to find plan job: %w", result.Error)
	}

	return r.planJobFromModel(&model)
}

// List returns jobs newest first, narrowed by status and plan date when
// set. A non-positive limit returns everything.
func (r *GormPlanJobRepository) List(ctx context.Context, status planning.JobStatus, planDate time.Time, limit int) ([]*planning.PlanJob, error) {
	query := r.db.WithContext(ctx).Model(&PlanJobModel{})

	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if !planDate.IsZero() {
		query = query.Where("plan_date = ?", planDate.Format(isoDateLayout))
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []PlanJobModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list plan jobs: %w", err)
	}

	jobs := make([]*planning.PlanJob, len(models))
	for i := range models {
		job, err := r.planJobFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert plan job %s: %w", models[i].ID, err)
		}
		jobs[i] = job
	}
	return jobs, nil
}

// planJobToModel flattens the job aggregate into a row
func planJobToModel(job *planning.PlanJob) (*PlanJobModel, error) {
	requestJSON, err := json.Marshal(job.Request())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request of job %s: %w", job.ID(), err)
	}

	var vehicleIDs string
	if len(job.VehicleIDs()) > 0 {
		data, err := json.Marshal(job.VehicleIDs())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize vehicle ids of job %s: %w", job.ID(), err)
		}
		vehicleIDs = string(data)
	}

	var shipmentIDs string
	if len(job.ShipmentIDs()) > 0 {
		data, err := json.Marshal(job.ShipmentIDs())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize shipment ids of job %s: %w", job.ID(), err)
		}
		shipmentIDs = string(data)
	}

	var summary string
	if len(job.ResultSummary()) > 0 {
		data, err := json.Marshal(job.ResultSummary())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize summary of job %s: %w", job.ID(), err)
		}
		summary = string(data)
	}

	var unassigned string
	if len(job.Unassigned()) > 0 {
		data, err := json.Marshal(job.Unassigned())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize diagnostics of job %s: %w", job.ID(), err)
		}
		unassigned = string(data)
	}

	lastError := ""
	if job.LastError() != nil {
		lastError = job.LastError().Error()
	}

	return &PlanJobModel{
		ID:            job.ID(),
		PlanDate:      job.PlanDate().Format(isoDateLayout),
		Status:        string(job.Status()),
		Progress:      job.Progress(),
		RequestJSON:   string(requestJSON),
		VehicleIDs:    vehicleIDs,
		ShipmentIDs:   shipmentIDs,
		ResultSummary: summary,
		Unassigned:    unassigned,
		FailureKind:   string(job.FailureKind()),
		LastError:     lastError,
		CreatedAt:     job.CreatedAt(),
		UpdatedAt:     job.UpdatedAt(),
		StartedAt:     job.StartedAt(),
		FinishedAt:    job.FinishedAt(),
	}, nil
}

// planJobFromModel rebuilds the job aggregate from a row
func (r *GormPlanJobRepository) planJobFromModel(model *PlanJobModel) (*planning.PlanJob, error) {
	var request planning.PlanRequest
	if err := json.Unmarshal([]byte(model.RequestJSON), &request); err != nil {
		return nil, fmt.Errorf("failed to parse request of job %s: %w", model.ID, err)
	}

	var vehicleIDs []string
	if err := unmarshalIfSet(model.VehicleIDs, &vehicleIDs); err != nil {
		return nil, fmt.Errorf("failed to parse vehicle ids of job %s: %w", model.ID, err)
	}
	var shipmentIDs []string
	if err := unmarshalIfSet(model.ShipmentIDs, &shipmentIDs); err != nil {
		return nil, fmt.Errorf("failed to parse shipment ids of job %s: %w", model.ID, err)
	}
	var summary map[string]interface{}
	if err := unmarshalIfSet(model.ResultSummary, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary of job %s: %w", model.ID, err)
	}
	var unassigned []planning.UnassignedShipment
	if err := unmarshalIfSet(model.Unassigned, &unassigned); err != nil {
		return nil, fmt.Errorf("failed to parse diagnostics of job %s: %w", model.ID, err)
	}

	var lastError error
	if model.LastError != "" {
		lastError = errors.New(model.LastError)
	}

	job := planning.NewPlanJob(model.ID, request, r.clock)
	job.RecoverFromPersistence(
		planning.JobStatus(model.Status),
		model.Progress,
		vehicleIDs, shipmentIDs,
		summary,
		unassigned,
		planning.FailureKind(model.FailureKind),
		lastError,
		model.CreatedAt, model.UpdatedAt,
		model.StartedAt, model.FinishedAt,
	)
	return job, nil
}

// unmarshalIfSet parses a JSON column, leaving the target zero when empty
func unmarshalIfSet(data string, target interface{}) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), target)
}
