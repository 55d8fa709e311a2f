package solver

import (
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// arc identifies one directed leg between two nodes, depot included
type arc struct {
	from, to int
}

const (
	// plateauRounds stops the search after this many penalize-descend
	// cycles without a new best solution.
	plateauRounds = 30

	// lambdaDivisor sets the arc-penalty weight relative to the first
	// local optimum's average arc length.
	lambdaDivisor = 10
)

// guidedLocalSearch improves a first solution until the budget runs out
// or improvement plateaus. Each descent runs on an augmented objective
// that charges arcs picked up at earlier local optima, steering later
// descents away from them; the best solution is kept and compared on the
// true cost throughout.
type guidedLocalSearch struct {
	e       *evaluator
	model   *planning.RoutingModel
	penalty map[arc]int64
	lambda  int64
}

func newGuidedLocalSearch(e *evaluator) *guidedLocalSearch {
	return &guidedLocalSearch{
		e:       e,
		model:   e.model,
		penalty: make(map[arc]int64),
	}
}

// run alternates descents with arc penalization, returning the best
// true-cost solution seen.
func (g *guidedLocalSearch) run(first *solution, budget *searchBudget) *solution {
	current := first
	best := first.clone()
	stale := 0

	for !budget.expired() {
		g.descend(current, budget)

		if better(g.model, current, best) {
			best = current.clone()
			stale = 0
		} else {
			stale++
			if stale >= plateauRounds {
				break
			}
		}

		if budget.expired() {
			break
		}
		g.penalize(current)
	}

	return best
}

// descend applies first-improvement moves until no operator finds one.
// Reinsertion runs first so capacity freed by other moves flows back to
// dropped shipments as soon as possible.
func (g *guidedLocalSearch) descend(sol *solution, budget *searchBudget) {
	for !budget.expired() {
		if g.tryReinsert(sol, budget) ||
			g.tryRelocate(sol, budget) ||
			g.trySwap(sol, budget) ||
			g.tryTwoOpt(sol, budget) ||
			g.tryEject(sol, budget) {
			continue
		}
		return
	}
}

// augmented is the penalized cost of one tour
func (g *guidedLocalSearch) augmented(seq []int, ev *routeEval) int64 {
	cost := ev.cost
	if g.lambda == 0 || len(seq) == 0 {
		return cost
	}
	prev := 0
	for _, n := range seq {
		cost += g.lambda * g.penalty[arc{prev, n}]
		prev = n
	}
	cost += g.lambda * g.penalty[arc{prev, 0}]
	return cost
}

// tryReinsert brings a dropped node back whenever serving it beats its
// drop penalty under the augmented objective.
func (g *guidedLocalSearch) tryReinsert(sol *solution, budget *searchBudget) bool {
	for n := 1; n < g.model.NodeCount(); n++ {
		if sol.onRoute[n] >= 0 {
			continue
		}
		if budget.expired() {
			return false
		}
		penalty := g.model.Nodes[n].DropPenalty
		for v := range sol.routes {
			seq, base := sol.routes[v], sol.evals[v]
			for pos := 0; pos <= len(seq); pos++ {
				cand := insertAt(seq, n, pos)
				ev, ok := g.e.evaluate(&g.model.Vehicles[v], cand)
				if !ok {
					continue
				}
				if g.augmented(cand, ev)-g.augmented(seq, base)-penalty < 0 {
					sol.setRoute(v, cand, ev)
					return true
				}
			}
		}
	}
	return false
}

// tryRelocate moves one node to an improving position on any route, its
// own included.
func (g *guidedLocalSearch) tryRelocate(sol *solution, budget *searchBudget) bool {
	for a := range sol.routes {
		if budget.expired() {
			return false
		}
		for i := 0; i < len(sol.routes[a]); i++ {
			node := sol.routes[a][i]
			reducedSeq := removeAt(sol.routes[a], i)
			reducedEval, ok := g.e.evaluate(&g.model.Vehicles[a], reducedSeq)
			if !ok {
				continue
			}
			removalGain := g.augmented(reducedSeq, reducedEval) - g.augmented(sol.routes[a], sol.evals[a])

			for b := range sol.routes {
				baseSeq, baseEval := sol.routes[b], sol.evals[b]
				if b == a {
					baseSeq, baseEval = reducedSeq, reducedEval
				}
				for pos := 0; pos <= len(baseSeq); pos++ {
					if b == a && pos == i {
						// Recreates the original order
						continue
					}
					cand := insertAt(baseSeq, node, pos)
					ev, ok := g.e.evaluate(&g.model.Vehicles[b], cand)
					if !ok {
						continue
					}
					var delta int64
					if b == a {
						delta = g.augmented(cand, ev) - g.augmented(sol.routes[a], sol.evals[a])
					} else {
						delta = removalGain + g.augmented(cand, ev) - g.augmented(baseSeq, baseEval)
					}
					if delta < 0 {
						if b == a {
							sol.setRoute(a, cand, ev)
						} else {
							sol.setRoute(a, reducedSeq, reducedEval)
							sol.setRoute(b, cand, ev)
						}
						return true
					}
				}
			}
		}
	}
	return false
}

// trySwap exchanges one node between two routes when the pair of new
// tours beats the pair of old ones.
func (g *guidedLocalSearch) trySwap(sol *solution, budget *searchBudget) bool {
	for a := 0; a < len(sol.routes); a++ {
		if budget.expired() {
			return false
		}
		for b := a + 1; b < len(sol.routes); b++ {
			for i := 0; i < len(sol.routes[a]); i++ {
				for j := 0; j < len(sol.routes[b]); j++ {
					seqA := append([]int(nil), sol.routes[a]...)
					seqB := append([]int(nil), sol.routes[b]...)
					seqA[i], seqB[j] = seqB[j], seqA[i]

					evA, ok := g.e.evaluate(&g.model.Vehicles[a], seqA)
					if !ok {
						continue
					}
					evB, ok := g.e.evaluate(&g.model.Vehicles[b], seqB)
					if !ok {
						continue
					}
					delta := g.augmented(seqA, evA) - g.augmented(sol.routes[a], sol.evals[a]) +
						g.augmented(seqB, evB) - g.augmented(sol.routes[b], sol.evals[b])
					if delta < 0 {
						sol.setRoute(a, seqA, evA)
						sol.setRoute(b, seqB, evB)
						return true
					}
				}
			}
		}
	}
	return false
}

// tryTwoOpt reverses a segment within one route
func (g *guidedLocalSearch) tryTwoOpt(sol *solution, budget *searchBudget) bool {
	for a := range sol.routes {
		if budget.expired() {
			return false
		}
		seq := sol.routes[a]
		for i := 0; i < len(seq)-1; i++ {
			for j := i + 1; j < len(seq); j++ {
				cand := reverseSegment(seq, i, j)
				ev, ok := g.e.evaluate(&g.model.Vehicles[a], cand)
				if !ok {
					continue
				}
				if g.augmented(cand, ev)-g.augmented(seq, sol.evals[a]) < 0 {
					sol.setRoute(a, cand, ev)
					return true
				}
			}
		}
	}
	return false
}

// tryEject drops a STANDARD node whose removal saves more than its drop
// penalty. Mandatory nodes are never ejected.
func (g *guidedLocalSearch) tryEject(sol *solution, budget *searchBudget) bool {
	for a := range sol.routes {
		if budget.expired() {
			return false
		}
		for i := 0; i < len(sol.routes[a]); i++ {
			node := sol.routes[a][i]
			if g.model.Nodes[node].Mandatory {
				continue
			}
			cand := removeAt(sol.routes[a], i)
			ev, ok := g.e.evaluate(&g.model.Vehicles[a], cand)
			if !ok {
				continue
			}
			delta := g.augmented(cand, ev) - g.augmented(sol.routes[a], sol.evals[a]) + g.model.Nodes[node].DropPenalty
			if delta < 0 {
				sol.setRoute(a, cand, ev)
				return true
			}
		}
	}
	return false
}

// penalize charges the local optimum's most useful arcs, where utility
// is arc length over one plus its current penalty. The comparison cross
// multiplies to stay exact in integers, and every arc tied at the
// maximum gains one penalty unit. Lambda is fixed from the first local
// optimum's average arc length.
func (g *guidedLocalSearch) penalize(sol *solution) {
	type feature struct {
		a      arc
		length int64
	}

	features := make([]feature, 0, g.model.NodeCount()+len(sol.routes))
	var totalLength int64
	for _, seq := range sol.routes {
		if len(seq) == 0 {
			continue
		}
		prev := 0
		for _, n := range seq {
			l := g.model.DistanceMeters(prev, n)
			features = append(features, feature{arc{prev, n}, l})
			totalLength += l
			prev = n
		}
		l := g.model.DistanceMeters(prev, 0)
		features = append(features, feature{arc{prev, 0}, l})
		totalLength += l
	}
	if len(features) == 0 {
		return
	}

	if g.lambda == 0 {
		g.lambda = totalLength / int64(lambdaDivisor*len(features))
		if g.lambda < 1 {
			g.lambda = 1
		}
	}

	bestIdx := []int{0}
	for idx := 1; idx < len(features); idx++ {
		f, b := features[idx], features[bestIdx[0]]
		lhs := f.length * (1 + g.penalty[b.a])
		rhs := b.length * (1 + g.penalty[f.a])
		switch {
		case lhs > rhs:
			bestIdx = append(bestIdx[:0], idx)
		case lhs == rhs:
			bestIdx = append(bestIdx, idx)
		}
	}
	for _, idx := range bestIdx {
		g.penalty[features[idx].a]++
	}
}

// reverseSegment copies seq with positions i through j reversed
func reverseSegment(seq []int, i, j int) []int {
	out := append([]int(nil), seq...)
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
