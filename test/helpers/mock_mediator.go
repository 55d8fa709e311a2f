package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
)

// MockMediator is a test double for the Mediator interface.
// Adapter tests script the response with SetSendFunc and assert on the
// recorded requests; handlers under test never reach the real bus.
type MockMediator struct {
	mu       sync.RWMutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	requests []common.Request
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		requests: []common.Request{},
	}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	fn := m.sendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	return nil, fmt.Errorf("no send function configured for request type %T", request)
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetRequests returns the requests sent so far
func (m *MockMediator) GetRequests() []common.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]common.Request{}, m.requests...)
}

// GetRequestCount returns how many requests were sent
func (m *MockMediator) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil when none were sent
func (m *MockMediator) LastRequest() common.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// ClearRequests clears the recorded requests
func (m *MockMediator) ClearRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = []common.Request{}
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// Ensure MockMediator implements the common.Mediator interface
var _ common.Mediator = (*MockMediator)(nil)
