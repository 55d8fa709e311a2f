package solver

// insertionOption is the cheapest feasible placement of one node on one
// vehicle's current sequence. The evaluation is kept so committing the
// option never re-prices it.
type insertionOption struct {
	position int
	delta    int64
	eval     *routeEval
	ok       bool
}

// buildFirstSolution runs parallel cheapest insertion: every route grows
// at once, and each step commits one node at its cheapest feasible
// position across all vehicles. Steps are ordered by the largest net
// saving over dropping (drop penalty minus the cheapest delta), so
// mandatory nodes and high-priority cargo are placed before optional
// shipments can crowd them out. Growing routes in parallel avoids the
// premature drops a route-by-route construction causes when the first
// vehicles fill up on far-flung stops.
//
// A node whose cheapest placement costs more than its drop penalty stays
// unrouted; local search may still pick it up later once route shapes
// change. The second return is false when the budget expired before the
// construction finished.
func buildFirstSolution(e *evaluator, budget *searchBudget) (*solution, bool) {
	model := e.model
	sol := newSolution(model)

	unrouted := make([]int, 0, model.ShipmentNodeCount())
	for n := 1; n < model.NodeCount(); n++ {
		unrouted = append(unrouted, n)
	}

	// options[n][v] caches node n's best placement on vehicle v. Only the
	// column of the vehicle that changed is recomputed after each commit.
	options := make([][]insertionOption, model.NodeCount())
	for _, n := range unrouted {
		if budget.expired() {
			return sol, false
		}
		options[n] = make([]insertionOption, len(model.Vehicles))
		for v := range model.Vehicles {
			options[n][v] = bestInsertion(e, sol, v, n)
		}
	}

	for len(unrouted) > 0 {
		if budget.expired() {
			return sol, false
		}

		bestNode, bestVehicle := -1, -1
		var bestNet int64
		for _, n := range unrouted {
			penalty := model.Nodes[n].DropPenalty
			for v := range model.Vehicles {
				opt := options[n][v]
				if !opt.ok || opt.delta >= penalty {
					continue
				}
				if net := penalty - opt.delta; bestNode < 0 || net > bestNet {
					bestNode, bestVehicle, bestNet = n, v, net
				}
			}
		}
		if bestNode < 0 {
			// Nothing left worth inserting anywhere
			break
		}

		opt := options[bestNode][bestVehicle]
		sol.setRoute(bestVehicle, insertAt(sol.routes[bestVehicle], bestNode, opt.position), opt.eval)

		unrouted = removeNode(unrouted, bestNode)
		options[bestNode] = nil
		for _, n := range unrouted {
			options[n][bestVehicle] = bestInsertion(e, sol, bestVehicle, n)
		}
	}

	return sol, true
}

// bestInsertion scans every position of one vehicle's sequence for the
// cheapest feasible placement of a node.
func bestInsertion(e *evaluator, sol *solution, vehicle, node int) insertionOption {
	base := sol.evals[vehicle].cost
	seq := sol.routes[vehicle]

	best := insertionOption{}
	for pos := 0; pos <= len(seq); pos++ {
		cand, ok := e.evaluate(&e.model.Vehicles[vehicle], insertAt(seq, node, pos))
		if !ok {
			continue
		}
		delta := cand.cost - base
		if !best.ok || delta < best.delta {
			best = insertionOption{position: pos, delta: delta, eval: cand, ok: true}
		}
	}
	return best
}

// insertAt returns a copy of seq with node inserted at pos
func insertAt(seq []int, node, pos int) []int {
	out := make([]int, 0, len(seq)+1)
	out = append(out, seq[:pos]...)
	out = append(out, node)
	out = append(out, seq[pos:]...)
	return out
}

// removeAt returns a copy of seq without the element at pos
func removeAt(seq []int, pos int) []int {
	out := make([]int, 0, len(seq)-1)
	out = append(out, seq[:pos]...)
	out = append(out, seq[pos+1:]...)
	return out
}

// removeNode filters one node out of an unrouted list
func removeNode(nodes []int, node int) []int {
	out := nodes[:0]
	for _, n := range nodes {
		if n != node {
			out = append(out, n)
		}
	}
	return out
}
