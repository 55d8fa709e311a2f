package solver

import (
	"context"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// NativeSolverEngine implements planning.SolverEngine with a two-phase
// search: parallel cheapest insertion constructs the first solution,
// then guided local search improves it for the remaining time budget.
//
// The engine is deterministic for a given model and an ample budget:
// every scan walks nodes, vehicles and positions in ascending order and
// ties resolve to the first candidate found.
type NativeSolverEngine struct {
	clock shared.Clock
}

// NewNativeSolverEngine creates the engine; a nil clock means system time
func NewNativeSolverEngine(clock shared.Clock) *NativeSolverEngine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &NativeSolverEngine{clock: clock}
}

// searchBudget bundles the wall-clock deadline with the caller's context
// so every search loop polls a single place.
type searchBudget struct {
	ctx      context.Context
	clock    shared.Clock
	deadline time.Time
}

func (b *searchBudget) expired() bool {
	if b.ctx.Err() != nil {
		return true
	}
	return !b.clock.Now().Before(b.deadline)
}

// Solve runs the search. The model's time limit and the context both cap
// the run; whichever fires first stops the search and the best solution
// found so far comes back with a CANCELLED status for context stops. A
// budget that dies before the very first solution exists is the one case
// with nothing to return, reported as a solver timeout.
func (s *NativeSolverEngine) Solve(ctx context.Context, model *planning.RoutingModel) (*planning.Assignment, error) {
	start := s.clock.Now()
	deadline := start.Add(model.TimeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	budget := &searchBudget{ctx: ctx, clock: s.clock, deadline: deadline}

	e := newEvaluator(model)

	if model.ShipmentNodeCount() == 0 {
		return s.assemble(model, newSolution(model), planning.SolverStatusSuccess, start), nil
	}

	log := common.LoggerFromContext(ctx)

	first, complete := buildFirstSolution(e, budget)
	if !complete {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, shared.NewSolverTimeoutError(int(model.TimeLimit.Seconds()))
	}
	firstCost := first.totalCost(model)
	log.Log(common.LogLevelInfo, "Initial solution constructed", map[string]interface{}{
		"cost":    firstCost,
		"dropped": len(first.droppedNodes(model)),
	})

	best := newGuidedLocalSearch(e).run(first, budget)
	bestCost := best.totalCost(model)
	log.Log(common.LogLevelInfo, "Local search finished", map[string]interface{}{
		"cost":        bestCost,
		"improvement": firstCost - bestCost,
		"dropped":     len(best.droppedNodes(model)),
	})

	status := planning.SolverStatusSuccess
	if ctx.Err() != nil {
		status = planning.SolverStatusCancelled
	}
	return s.assemble(model, best, status, start), nil
}

// assemble converts the winning solution into the engine's output form.
// Every vehicle appears, empty tours included, so route indexes line up
// with the model's vehicle specs.
func (s *NativeSolverEngine) assemble(model *planning.RoutingModel, sol *solution, status string, start time.Time) *planning.Assignment {
	routes := make([]planning.VehicleRoute, 0, len(sol.routes))
	for v := range sol.routes {
		ev := sol.evals[v]
		routes = append(routes, planning.VehicleRoute{
			VehicleIndex:   v,
			Visits:         ev.visits,
			DistanceMeters: ev.distanceMeters,
			DriveMinutes:   ev.driveMinutes,
			ServiceMinutes: ev.serviceMinutes,
			WaitMinutes:    ev.waitMinutes,
			ReturnMinute:   ev.returnMinute,
			Cost:           ev.cost,
		})
	}

	return &planning.Assignment{
		Routes:       routes,
		DroppedNodes: sol.droppedNodes(model),
		SolverStatus: status,
		SolveSeconds: s.clock.Now().Sub(start).Seconds(),
		TotalCost:    sol.totalCost(model),
	}
}
