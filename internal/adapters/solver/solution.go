package solver

import (
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// solution is one complete assignment during the search: a node sequence
// per vehicle with its evaluation, plus a membership index recording
// which vehicle serves each node (-1 while dropped).
type solution struct {
	routes  [][]int
	evals   []*routeEval
	onRoute []int
}

func newSolution(model *planning.RoutingModel) *solution {
	sol := &solution{
		routes:  make([][]int, len(model.Vehicles)),
		evals:   make([]*routeEval, len(model.Vehicles)),
		onRoute: make([]int, model.NodeCount()),
	}
	for v := range sol.routes {
		sol.routes[v] = []int{}
		sol.evals[v] = emptyEval(model)
	}
	for n := range sol.onRoute {
		sol.onRoute[n] = -1
	}
	return sol
}

// clone copies the solution. Evaluations are immutable and shared.
func (s *solution) clone() *solution {
	c := &solution{
		routes:  make([][]int, len(s.routes)),
		evals:   make([]*routeEval, len(s.evals)),
		onRoute: make([]int, len(s.onRoute)),
	}
	for v := range s.routes {
		c.routes[v] = append([]int(nil), s.routes[v]...)
	}
	copy(c.evals, s.evals)
	copy(c.onRoute, s.onRoute)
	return c
}

// setRoute installs a new sequence and evaluation for one vehicle and
// refreshes the membership index for the nodes that moved.
func (s *solution) setRoute(vehicle int, seq []int, eval *routeEval) {
	for _, n := range s.routes[vehicle] {
		if s.onRoute[n] == vehicle {
			s.onRoute[n] = -1
		}
	}
	s.routes[vehicle] = seq
	s.evals[vehicle] = eval
	for _, n := range seq {
		s.onRoute[n] = vehicle
	}
}

// totalCost is the true objective: every tour's cost plus the drop
// penalty of every unserved node.
func (s *solution) totalCost(model *planning.RoutingModel) int64 {
	var total int64
	for _, ev := range s.evals {
		total += ev.cost
	}
	for n := 1; n < model.NodeCount(); n++ {
		if s.onRoute[n] < 0 {
			total += model.Nodes[n].DropPenalty
		}
	}
	return total
}

// usedVehicles counts vehicles that left the depot
func (s *solution) usedVehicles() int {
	used := 0
	for _, seq := range s.routes {
		if len(seq) > 0 {
			used++
		}
	}
	return used
}

// maxRouteDuration returns the longest tour in minutes
func (s *solution) maxRouteDuration(model *planning.RoutingModel) int {
	max := 0
	for v, seq := range s.routes {
		if len(seq) == 0 {
			continue
		}
		if d := s.evals[v].returnMinute - model.DepartureMinute; d > max {
			max = d
		}
	}
	return max
}

// droppedNodes lists unserved nodes in ascending order
func (s *solution) droppedNodes(model *planning.RoutingModel) []int {
	dropped := make([]int, 0)
	for n := 1; n < model.NodeCount(); n++ {
		if s.onRoute[n] < 0 {
			dropped = append(dropped, n)
		}
	}
	return dropped
}

// better reports whether a beats b under the full ordering: lower cost,
// then fewer vehicles, then smaller maximum route duration. Vehicle-id
// order settles anything still tied because every scan walks vehicles
// ascending.
func better(model *planning.RoutingModel, a, b *solution) bool {
	ca, cb := a.totalCost(model), b.totalCost(model)
	if ca != cb {
		return ca < cb
	}
	ua, ub := a.usedVehicles(), b.usedVehicles()
	if ua != ub {
		return ua < ub
	}
	return a.maxRouteDuration(model) < b.maxRouteDuration(model)
}
