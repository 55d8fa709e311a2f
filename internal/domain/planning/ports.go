package planning

import (
	"context"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/driver"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// PlanJobRepository persists planning jobs
type PlanJobRepository interface {
	// Save inserts or updates a job
	Save(ctx context.Context, job *PlanJob) error

	// FindByID loads a job, returning NotFoundError when absent
	FindByID(ctx context.Context, id string) (*PlanJob, error)

	// List returns jobs newest first. A non-empty status and a non-zero
	// plan date each narrow the result.
	List(ctx context.Context, status JobStatus, planDate time.Time, limit int) ([]*PlanJob, error)
}

// RouteRepository reads and updates committed routes
type RouteRepository interface {
	// FindByID loads a route with its stops
	FindByID(ctx context.Context, id string) (*Route, error)

	// FindByJobID returns the routes a job committed
	FindByJobID(ctx context.Context, jobID string) ([]*Route, error)

	// FindByPlanDate returns all routes scheduled for a date
	FindByPlanDate(ctx context.Context, planDate time.Time) ([]*Route, error)

	// Update persists a status change, failing with ConflictError when the
	// stored version no longer matches the route's.
	Update(ctx context.Context, route *Route) error
}

// Plan is the unit a completed job commits: everything below is written in
// one transaction or not at all.
type Plan struct {
	Job       *PlanJob
	Routes    []*Route
	Shipments []*shipment.Shipment
	LaborLogs []*driver.LaborLog
}

// PlanRepository commits completed plans atomically
type PlanRepository interface {
	CommitPlan(ctx context.Context, plan *Plan) error
}

// JobLogEntry is one line of a job's persisted execution log
type JobLogEntry struct {
	ID        uint
	JobID     string
	Level     string
	Message   string
	CreatedAt time.Time
}

// JobLogRepository persists job execution logs
type JobLogRepository interface {
	Append(ctx context.Context, jobID, level, message string) error
	FindByJobID(ctx context.Context, jobID string, limit int) ([]JobLogEntry, error)
}

// SolverEngine turns a routing model into an assignment. Implementations
// must honor ctx cancellation and the model's time limit, returning the
// best assignment found so far when either fires.
type SolverEngine interface {
	Solve(ctx context.Context, model *RoutingModel) (*Assignment, error)
}
