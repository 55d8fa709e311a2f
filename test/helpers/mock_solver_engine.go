package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// MockSolverEngine is a test double for the SolverEngine port
type MockSolverEngine struct {
	mu        sync.RWMutex
	solveFunc func(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error)
	models    []*planning.RoutingModel // Track solved models for verification

	// When set, Solve blocks until the context is cancelled before
	// returning, simulating a long-running search.
	blockUntilCancelled bool
}

// NewMockSolverEngine creates a new mock solver engine
func NewMockSolverEngine() *MockSolverEngine {
	return &MockSolverEngine{
		models: make([]*planning.RoutingModel, 0),
	}
}

// Solve executes the configured mock function
func (m *MockSolverEngine) Solve(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error) {
	m.mu.Lock()
	m.models = append(m.models, model)
	blocking := m.blockUntilCancelled
	solveFunc := m.solveFunc
	m.mu.Unlock()

	if blocking {
		<-ctx.Done()
		return &planning.Assignment{SolverStatus: planning.SolverStatusCancelled}, ctx.Err()
	}

	if solveFunc != nil {
		return solveFunc(ctx, model)
	}

	// Default: every vehicle stays at the depot, every node dropped
	dropped := make([]int, 0, model.ShipmentNodeCount())
	for i := 1; i < model.NodeCount(); i++ {
		dropped = append(dropped, i)
	}
	return &planning.Assignment{
		Routes:       make([]planning.VehicleRoute, len(model.Vehicles)),
		DroppedNodes: dropped,
		SolverStatus: planning.SolverStatusSuccess,
	}, nil
}

// SetSolveFunc sets the function to call when Solve is invoked
func (m *MockSolverEngine) SetSolveFunc(f func(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solveFunc = f
}

// BlockUntilCancelled makes Solve wait for context cancellation
func (m *MockSolverEngine) BlockUntilCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockUntilCancelled = true
}

// GetSolvedModels returns the models passed to Solve
func (m *MockSolverEngine) GetSolvedModels() []*planning.RoutingModel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*planning.RoutingModel{}, m.models...)
}

// GetSolveCount returns the number of times Solve was called
func (m *MockSolverEngine) GetSolveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.models)
}

// SingleRouteAssignment builds an assignment serving every node with the
// first vehicle in model order, spacing arrivals inside the given window.
func SingleRouteAssignment(model *planning.RoutingModel, firstArrival, serviceGap int) *planning.Assignment {
	visits := make([]planning.Visit, 0, model.ShipmentNodeCount())
	arrival := firstArrival
	var distance int64
	prev := 0

	for i := 1; i < model.NodeCount(); i++ {
		node := model.Nodes[i]
		visits = append(visits, planning.Visit{
			Node:            i,
			ArrivalMinute:   arrival,
			DepartureMinute: arrival + node.ServiceMinutes,
		})
		distance += model.DistanceMeters(prev, i)
		arrival += node.ServiceMinutes + serviceGap
		prev = i
	}
	distance += model.DistanceMeters(prev, 0)

	routes := make([]planning.VehicleRoute, len(model.Vehicles))
	routes[0] = planning.VehicleRoute{
		VehicleIndex:   0,
		Visits:         visits,
		DistanceMeters: distance,
		DriveMinutes:   len(visits) * serviceGap,
		ServiceMinutes: totalServiceMinutes(model),
		ReturnMinute:   arrival,
		Cost:           distance,
	}
	for i := 1; i < len(routes); i++ {
		routes[i] = planning.VehicleRoute{VehicleIndex: i}
	}

	return &planning.Assignment{
		Routes:       routes,
		SolverStatus: planning.SolverStatusSuccess,
		SolveSeconds: 0.05,
		TotalCost:    distance,
	}
}

func totalServiceMinutes(model *planning.RoutingModel) int {
	total := 0
	for i := 1; i < model.NodeCount(); i++ {
		total += model.Nodes[i].ServiceMinutes
	}
	return total
}
