package shared_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestLifecycleStateMachine_HappyPath(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC))
	sm := shared.NewLifecycleStateMachine(clock)

	// Assert - initial state
	assert.Equal(t, shared.LifecycleStatusPending, sm.Status())
	assert.True(t, sm.IsPending())
	assert.Nil(t, sm.StartedAt())
	assert.Nil(t, sm.FinishedAt())

	// Act - Start
	clock.Advance(5 * time.Second)
	err := sm.Start()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusRunning, sm.Status())
	assert.True(t, sm.IsRunning())
	require.NotNil(t, sm.StartedAt())
	assert.Equal(t, clock.Now(), *sm.StartedAt())

	// Act - Complete
	clock.Advance(30 * time.Second)
	err = sm.Complete()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusCompleted, sm.Status())
	assert.True(t, sm.IsFinished())
	require.NotNil(t, sm.FinishedAt())
	assert.Equal(t, 30*time.Second, sm.RuntimeDuration())
}

func TestLifecycleStateMachine_CannotStartTwice(t *testing.T) {
	// Arrange
	sm := shared.NewLifecycleStateMachine(shared.NewMockClock(time.Time{}))
	require.NoError(t, sm.Start())

	// Act
	err := sm.Start()

	// Assert
	assert.Error(t, err)
	assert.Equal(t, shared.LifecycleStatusRunning, sm.Status())
}

func TestLifecycleStateMachine_CannotCompleteBeforeStart(t *testing.T) {
	// Arrange
	sm := shared.NewLifecycleStateMachine(shared.NewMockClock(time.Time{}))

	// Act
	err := sm.Complete()

	// Assert
	assert.Error(t, err)
	assert.Equal(t, shared.LifecycleStatusPending, sm.Status())
}

func TestLifecycleStateMachine_FailFromPending(t *testing.T) {
	// A precondition rejection fails the entity before any work ran
	sm := shared.NewLifecycleStateMachine(shared.NewMockClock(time.Time{}))

	// Act
	cause := errors.New("no vehicles available")
	err := sm.Fail(cause)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusFailed, sm.Status())
	assert.Equal(t, cause, sm.LastError())
	assert.NotNil(t, sm.FinishedAt())
}

func TestLifecycleStateMachine_TerminalStatesAreFinal(t *testing.T) {
	// Arrange
	sm := shared.NewLifecycleStateMachine(shared.NewMockClock(time.Time{}))
	require.NoError(t, sm.Start())
	require.NoError(t, sm.Complete())

	// Act / Assert - no path out of COMPLETED
	assert.Error(t, sm.Start())
	assert.Error(t, sm.Complete())
	assert.Error(t, sm.Fail(errors.New("late failure")))
	assert.Equal(t, shared.LifecycleStatusCompleted, sm.Status())
}

func TestLifecycleStateMachine_RuntimeDurationWhileRunning(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC))
	sm := shared.NewLifecycleStateMachine(clock)
	require.NoError(t, sm.Start())

	// Act
	clock.Advance(90 * time.Second)

	// Assert - still running, measured against the live clock
	assert.Equal(t, 90*time.Second, sm.RuntimeDuration())
}

func TestLifecycleStateMachine_RecoverFromPersistence(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC))
	sm := shared.NewLifecycleStateMachine(clock)

	created := time.Date(2025, 6, 30, 22, 0, 0, 0, time.UTC)
	started := created.Add(1 * time.Minute)
	finished := created.Add(3 * time.Minute)
	cause := errors.New("solver exploded")

	// Act
	sm.RecoverFromPersistence(shared.LifecycleStatusFailed, created, finished, &started, &finished, cause)

	// Assert
	assert.Equal(t, shared.LifecycleStatusFailed, sm.Status())
	assert.Equal(t, created, sm.CreatedAt())
	assert.Equal(t, cause, sm.LastError())
	assert.Equal(t, 2*time.Minute, sm.RuntimeDuration())
}
