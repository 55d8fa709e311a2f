package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// MockJobDispatcher is a test double for the JobDispatcher port
type MockJobDispatcher struct {
	mu                sync.RWMutex
	dispatchFunc      func(ctx context.Context, job *planning.PlanJob) error
	cancelRunningFunc func(jobID string) bool
	dispatched        []*planning.PlanJob // Track dispatched jobs for verification
	cancelCalls       []string            // Track CancelRunning calls
}

// NewMockJobDispatcher creates a new mock job dispatcher
func NewMockJobDispatcher() *MockJobDispatcher {
	return &MockJobDispatcher{
		dispatched:  make([]*planning.PlanJob, 0),
		cancelCalls: make([]string, 0),
	}
}

// Dispatch executes the configured mock function
func (m *MockJobDispatcher) Dispatch(ctx context.Context, job *planning.PlanJob) error {
	m.mu.Lock()
	m.dispatched = append(m.dispatched, job)
	dispatchFunc := m.dispatchFunc
	m.mu.Unlock()

	if dispatchFunc != nil {
		return dispatchFunc(ctx, job)
	}

	// Default: accepted
	return nil
}

// CancelRunning executes the configured mock function
func (m *MockJobDispatcher) CancelRunning(jobID string) bool {
	m.mu.Lock()
	m.cancelCalls = append(m.cancelCalls, jobID)
	cancelFunc := m.cancelRunningFunc
	m.mu.Unlock()

	if cancelFunc != nil {
		return cancelFunc(jobID)
	}

	// Default: no live runner
	return false
}

// SetDispatchFunc sets the function to call when Dispatch is invoked
func (m *MockJobDispatcher) SetDispatchFunc(f func(ctx context.Context, job *planning.PlanJob) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFunc = f
}

// SetCancelRunningFunc sets the function to call when CancelRunning is invoked
func (m *MockJobDispatcher) SetCancelRunningFunc(f func(jobID string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelRunningFunc = f
}

// GetDispatched returns the jobs passed to Dispatch
func (m *MockJobDispatcher) GetDispatched() []*planning.PlanJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*planning.PlanJob{}, m.dispatched...)
}

// GetDispatchCount returns the number of times Dispatch was called
func (m *MockJobDispatcher) GetDispatchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dispatched)
}

// GetCancelCalls returns the job ids passed to CancelRunning
func (m *MockJobDispatcher) GetCancelCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.cancelCalls...)
}
