package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus is the lifecycle state of a long-running piece of work.
type LifecycleStatus string

const (
	LifecycleStatusPending   LifecycleStatus = "PENDING"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
)

// LifecycleStateMachine owns the PENDING/RUNNING/COMPLETED/FAILED
// progression and its timestamps. Aggregates embed it by composition;
// the plan job builds its richer status on top.
//
// Transitions are monotone: there is no path out of COMPLETED or FAILED.
type LifecycleStateMachine struct {
	status     LifecycleStatus
	createdAt  time.Time
	updatedAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	lastError  error
	clock      Clock
}

// NewLifecycleStateMachine starts in PENDING. A nil clock means system time.
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	now := clock.Now()
	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() time.Time    { return sm.createdAt }
func (sm *LifecycleStateMachine) UpdatedAt() time.Time    { return sm.updatedAt }

// StartedAt is nil until Start succeeds.
func (sm *LifecycleStateMachine) StartedAt() *time.Time { return sm.startedAt }

// FinishedAt is nil until a terminal transition.
func (sm *LifecycleStateMachine) FinishedAt() *time.Time { return sm.finishedAt }

// LastError returns the error recorded by Fail, nil otherwise.
func (sm *LifecycleStateMachine) LastError() error { return sm.lastError }

// Start moves PENDING work to RUNNING.
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	sm.updatedAt = now
	return nil
}

// Complete moves RUNNING work to COMPLETED.
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusCompleted
	sm.finishedAt = &now
	sm.updatedAt = now
	return nil
}

// Fail records err and moves to FAILED. Allowed from PENDING as well as
// RUNNING so queue-time rejections land in the same terminal state.
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.status == LifecycleStatusCompleted || sm.status == LifecycleStatusFailed {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.finishedAt = &now
	sm.updatedAt = now
	return nil
}

func (sm *LifecycleStateMachine) IsPending() bool { return sm.status == LifecycleStatusPending }
func (sm *LifecycleStateMachine) IsRunning() bool { return sm.status == LifecycleStatusRunning }

// IsFinished reports whether the machine reached a terminal state.
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted || sm.status == LifecycleStatusFailed
}

// RuntimeDuration is the wall time between Start and the terminal
// transition, or until now while still running. Zero before Start.
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.finishedAt != nil {
		end = *sm.finishedAt
	}
	return end.Sub(*sm.startedAt)
}

// UpdateTimestamp bumps updatedAt for mutations that do not change the
// lifecycle state, progress updates for one.
func (sm *LifecycleStateMachine) UpdateTimestamp() {
	sm.updatedAt = sm.clock.Now()
}

// RecoverFromPersistence overwrites the machine with stored values.
// Only repository rehydration may call this.
func (sm *LifecycleStateMachine) RecoverFromPersistence(
	status LifecycleStatus,
	createdAt, updatedAt time.Time,
	startedAt, finishedAt *time.Time,
	lastError error,
) {
	sm.status = status
	sm.createdAt = createdAt
	sm.updatedAt = updatedAt
	sm.startedAt = startedAt
	sm.finishedAt = finishedAt
	sm.lastError = lastError
}
