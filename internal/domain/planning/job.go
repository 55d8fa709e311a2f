package planning

import (
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// JobStatus represents the lifecycle state of a planning job
type JobStatus string

const (
	// JobStatusPending indicates the job is queued but not started
	JobStatusPending JobStatus = "PENDING"

	// JobStatusRunning indicates the solver is actively working the job
	JobStatusRunning JobStatus = "RUNNING"

	// JobStatusCompleted indicates the job finished and its plan was committed
	JobStatusCompleted JobStatus = "COMPLETED"

	// JobStatusFailed indicates the job encountered an error
	JobStatusFailed JobStatus = "FAILED"

	// JobStatusCancelled indicates the job was cancelled by the user
	JobStatusCancelled JobStatus = "CANCELLED"
)

// Strategy selects the solver's objective ordering
type Strategy string

const (
	// StrategyMinimizeVehicles prefers fewer routes over shorter routes
	StrategyMinimizeVehicles Strategy = "MINIMIZE_VEHICLES"

	// StrategyMinimizeDistance prefers shorter routes regardless of fleet size
	StrategyMinimizeDistance Strategy = "MINIMIZE_DISTANCE"
)

// PlanRequest carries the caller's parameters for a planning run.
// Empty VehicleIDs or ShipmentIDs means "everything eligible"; the
// snapshot captured on the job records what that resolved to.
// Ad-hoc depot coordinates are materialized into a depot record before
// the request is built, so DepotID is always resolvable.
type PlanRequest struct {
	PlanDate         time.Time
	DepotID          string
	VehicleIDs       []string
	ShipmentIDs      []string
	Strategy         Strategy
	TimeLimitSeconds int
	DepartureMinute  int
	AmbientTemp      float64
	InitialCargoTemp float64
	AverageSpeedKmh  float64
}

// PlanJob represents one asynchronous planning run. Jobs are the unit of
// solver orchestration: each runs in its own goroutine inside the worker
// pool and can be requested, monitored, and cancelled independently.
//
// Lifecycle Integration:
// - Uses LifecycleStateMachine for core state management and timestamps
// - Adds the CANCELLED terminal state on top of the machine's FAILED
// - Adds job-specific features (snapshot, progress, result summary)
type PlanJob struct {
	id      string
	request PlanRequest

	// Core lifecycle managed by state machine
	lifecycle *shared.LifecycleStateMachine

	// Cancellation is FAILED at the lifecycle level with this flag set,
	// so status reads surface CANCELLED instead of FAILED.
	cancelled bool

	// Fleet and shipment snapshot captured when the job was accepted
	vehicleIDs  []string
	shipmentIDs []string

	// Progress percentage, monotone, capped below 100 until completion
	progress int

	// Result summary published on completion (JSON-serializable)
	resultSummary map[string]interface{}

	// Diagnostics for shipments the plan could not place
	unassigned []UnassignedShipment

	failureKind FailureKind

	// Time provider for testability (delegated to lifecycle)
	clock shared.Clock
}

const (
	// maxProgressWhileRunning caps the sampled progress so that only a
	// committed plan ever reports 100.
	maxProgressWhileRunning = 95
)

// NewPlanJob creates a new planning job in PENDING state
// If clock is nil, uses RealClock (production behavior)
func NewPlanJob(id string, request PlanRequest, clock shared.Clock) *PlanJob {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &PlanJob{
		id:            id,
		request:       request,
		lifecycle:     shared.NewLifecycleStateMachine(clock),
		cancelled:     false,
		vehicleIDs:    nil,
		shipmentIDs:   nil,
		progress:      0,
		resultSummary: nil,
		unassigned:    nil,
		clock:         clock,
	}
}

// Getters

func (j *PlanJob) ID() string                            { return j.id }
func (j *PlanJob) Request() PlanRequest                  { return j.request }
func (j *PlanJob) PlanDate() time.Time                   { return j.request.PlanDate }
func (j *PlanJob) VehicleIDs() []string                  { return j.vehicleIDs }
func (j *PlanJob) ShipmentIDs() []string                 { return j.shipmentIDs }
func (j *PlanJob) Progress() int                         { return j.progress }
func (j *PlanJob) ResultSummary() map[string]interface{} { return j.resultSummary }
func (j *PlanJob) Unassigned() []UnassignedShipment      { return j.unassigned }
func (j *PlanJob) FailureKind() FailureKind              { return j.failureKind }

// Lifecycle timestamp accessors (delegate to lifecycle machine)

func (j *PlanJob) CreatedAt() time.Time   { return j.lifecycle.CreatedAt() }
func (j *PlanJob) UpdatedAt() time.Time   { return j.lifecycle.UpdatedAt() }
func (j *PlanJob) StartedAt() *time.Time  { return j.lifecycle.StartedAt() }
func (j *PlanJob) FinishedAt() *time.Time { return j.lifecycle.FinishedAt() }
func (j *PlanJob) LastError() error       { return j.lifecycle.LastError() }

// Status returns the current job status
// Maps LifecycleStatus to JobStatus with the CANCELLED extension
func (j *PlanJob) Status() JobStatus {
	if j.cancelled {
		return JobStatusCancelled
	}

	switch j.lifecycle.Status() {
	case shared.LifecycleStatusPending:
		return JobStatusPending
	case shared.LifecycleStatusRunning:
		return JobStatusRunning
	case shared.LifecycleStatusCompleted:
		return JobStatusCompleted
	case shared.LifecycleStatusFailed:
		return JobStatusFailed
	default:
		return JobStatusPending // Safe default
	}
}

// State transition methods

// SetSnapshot records the vehicles and shipments the job will plan over.
// Only valid before the job starts; the worker reloads by these IDs so a
// run never mixes entities from two points in time.
func (j *PlanJob) SetSnapshot(vehicleIDs, shipmentIDs []string) error {
	if j.Status() != JobStatusPending {
		return fmt.Errorf("cannot set snapshot on job in %s state", j.Status())
	}

	j.vehicleIDs = vehicleIDs
	j.shipmentIDs = shipmentIDs
	j.lifecycle.UpdateTimestamp()
	return nil
}

// Start transitions the job to RUNNING state
// Delegates to lifecycle state machine
func (j *PlanJob) Start() error {
	if j.Status() != JobStatusPending {
		return fmt.Errorf("cannot start job in %s state", j.Status())
	}

	return j.lifecycle.Start()
}

// Complete transitions the job to COMPLETED state and pins progress to 100
func (j *PlanJob) Complete() error {
	if j.Status() != JobStatusRunning {
		return fmt.Errorf("cannot complete job in %s state", j.Status())
	}

	if err := j.lifecycle.Complete(); err != nil {
		return err
	}
	j.progress = 100
	return nil
}

// Fail transitions the job to FAILED state with error
// A PENDING job can fail too, for precondition rejections before any work ran
func (j *PlanJob) Fail(err error) error {
	status := j.Status()
	if status != JobStatusPending && status != JobStatusRunning {
		return fmt.Errorf("cannot fail job in %s state", status)
	}

	j.failureKind = ClassifyFailure(err)
	return j.lifecycle.Fail(err)
}

// Cancel transitions the job to CANCELLED state
// Valid from PENDING (never picked up) and RUNNING (solver interrupted)
func (j *PlanJob) Cancel() error {
	status := j.Status()
	if status != JobStatusPending && status != JobStatusRunning {
		return fmt.Errorf("cannot cancel job in %s state", status)
	}

	err := shared.NewCancelledError(j.id)
	if lifecycleErr := j.lifecycle.Fail(err); lifecycleErr != nil {
		return lifecycleErr
	}
	j.cancelled = true
	j.failureKind = FailureCancelled
	return nil
}

// SetProgress updates the sampled progress percentage
// Progress is monotone and stays below 100 until Complete pins it there
func (j *PlanJob) SetProgress(progress int) error {
	if j.Status() != JobStatusRunning {
		return fmt.Errorf("cannot set progress on job in %s state", j.Status())
	}

	if progress > maxProgressWhileRunning {
		progress = maxProgressWhileRunning
	}
	if progress <= j.progress {
		return nil
	}

	j.progress = progress
	j.lifecycle.UpdateTimestamp()
	return nil
}

// RecordSummary attaches the solver's result summary to the job
func (j *PlanJob) RecordSummary(summary map[string]interface{}) error {
	if j.Status() != JobStatusRunning {
		return fmt.Errorf("cannot record summary on job in %s state", j.Status())
	}

	j.resultSummary = summary
	j.lifecycle.UpdateTimestamp()
	return nil
}

// RecordUnassigned attaches diagnostics for shipments the plan dropped
func (j *PlanJob) RecordUnassigned(unassigned []UnassignedShipment) {
	j.unassigned = unassigned
	j.lifecycle.UpdateTimestamp()
}

// State queries

// IsRunning returns true if the solver is currently working this job
func (j *PlanJob) IsRunning() bool {
	return j.Status() == JobStatusRunning
}

// IsFinished returns true if the job reached a terminal state
func (j *PlanJob) IsFinished() bool {
	status := j.Status()
	return status == JobStatusCompleted ||
		status == JobStatusFailed ||
		status == JobStatusCancelled
}

// Runtime calculation

// RuntimeDuration calculates how long the job has been running
// Delegates to lifecycle state machine
func (j *PlanJob) RuntimeDuration() time.Duration {
	return j.lifecycle.RuntimeDuration()
}

// RecoverFromPersistence rebuilds in-memory state from stored values
// Used by repositories when loading jobs from the database
func (j *PlanJob) RecoverFromPersistence(
	status JobStatus,
	progress int,
	vehicleIDs, shipmentIDs []string,
	resultSummary map[string]interface{},
	unassigned []UnassignedShipment,
	failureKind FailureKind,
	lastError error,
	createdAt, updatedAt time.Time,
	startedAt, finishedAt *time.Time,
) {
	lifecycleStatus := shared.LifecycleStatusPending
	switch status {
	case JobStatusRunning:
		lifecycleStatus = shared.LifecycleStatusRunning
	case JobStatusCompleted:
		lifecycleStatus = shared.LifecycleStatusCompleted
	case JobStatusFailed:
		lifecycleStatus = shared.LifecycleStatusFailed
	case JobStatusCancelled:
		lifecycleStatus = shared.LifecycleStatusFailed
		j.cancelled = true
	}

	j.progress = progress
	j.vehicleIDs = vehicleIDs
	j.shipmentIDs = shipmentIDs
	j.resultSummary = resultSummary
	j.unassigned = unassigned
	j.failureKind = failureKind
	j.lifecycle.RecoverFromPersistence(lifecycleStatus, createdAt, updatedAt, startedAt, finishedAt, lastError)
}

// String provides human-readable representation
func (j *PlanJob) String() string {
	return fmt.Sprintf("PlanJob[%s, date=%s, status=%s, progress=%d%%, vehicles=%d, shipments=%d]",
		j.id, j.request.PlanDate.Format("2006-01-02"), j.Status(), j.progress,
		len(j.vehicleIDs), len(j.shipmentIDs))
}
