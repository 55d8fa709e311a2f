package solver

import (
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/thermo"
)

// evaluator schedules and prices one vehicle's tour over a candidate node
// sequence. It is the single source of truth for feasibility and cost in
// the search: insertion and local search only propose sequences, they
// never duplicate the rules.
type evaluator struct {
	model   *planning.RoutingModel
	tracker *thermo.Tracker
}

func newEvaluator(model *planning.RoutingModel) *evaluator {
	return &evaluator{model: model, tracker: thermo.NewTracker()}
}

// routeEval is the scheduled, priced outcome for one candidate sequence.
// Instances are immutable once returned and safe to share between
// solution copies.
type routeEval struct {
	visits         []planning.Visit
	distanceMeters int64
	driveMinutes   int
	serviceMinutes int
	waitMinutes    int
	returnMinute   int

	// cost is the tour's full objective share: fixed cost, arc cost in
	// meters, span pressure and every soft penalty. Comparable across
	// candidates on the same model.
	cost int64
}

// emptyEval is the priced outcome of a vehicle staying at the depot
func emptyEval(model *planning.RoutingModel) *routeEval {
	return &routeEval{returnMinute: model.DepartureMinute}
}

// evaluate schedules seq on the vehicle and prices it. The second return
// is false when the sequence breaks a hard constraint: capacity overflow,
// a shipment the vehicle cannot cool for, a delivery that fits no window,
// or a depot return past the tour bound.
func (e *evaluator) evaluate(vehicle *planning.VehicleSpec, seq []int) (*routeEval, bool) {
	if len(seq) == 0 {
		return emptyEval(e.model), true
	}

	// Capacity and compatibility first: cheapest checks, most common
	// rejections.
	var grams, liters int64
	for _, n := range seq {
		node := &e.model.Nodes[n]
		if !vehicle.CanServe(node) {
			return nil, false
		}
		grams += node.DemandGrams
		liters += node.DemandLiters
	}
	if grams > vehicle.CapacityGrams || liters > vehicle.CapacityLiters {
		return nil, false
	}

	ev := &routeEval{visits: make([]planning.Visit, 0, len(seq))}

	t := e.model.DepartureMinute
	prev := 0
	for _, n := range seq {
		node := &e.model.Nodes[n]
		travel := int(e.model.TravelMinutes(prev, n))
		arrival := t + travel

		windowIdx, serviceStart := chooseWindow(node, arrival)
		if windowIdx < 0 {
			return nil, false
		}
		window := node.Windows[windowIdx]
		departure := serviceStart + node.ServiceMinutes

		ev.visits = append(ev.visits, planning.Visit{
			Node:            n,
			ArrivalMinute:   serviceStart,
			DepartureMinute: departure,
			WaitMinutes:     serviceStart - arrival,
			SlackMinutes:    window.EndMinute - serviceStart,
			WindowIndex:     windowIdx,
		})

		ev.distanceMeters += e.model.DistanceMeters(prev, n)
		ev.driveMinutes += travel
		ev.serviceMinutes += node.ServiceMinutes
		ev.waitMinutes += serviceStart - arrival

		t = departure
		prev = n
	}

	back := int(e.model.TravelMinutes(prev, 0))
	ev.distanceMeters += e.model.DistanceMeters(prev, 0)
	ev.driveMinutes += back
	ev.returnMinute = t + back

	if ev.returnMinute > e.model.DepartureMinute+vehicle.MaxRouteMinutes {
		return nil, false
	}

	ev.cost = e.price(vehicle, seq, ev)
	return ev, true
}

// chooseWindow returns the index of the earliest window the delivery fits
// in entirely, plus the minute service would begin there. Waiting for a
// window to open is allowed; a delivery that fits no window returns -1.
func chooseWindow(node *planning.Node, arrival int) (int, int) {
	for i, w := range node.Windows {
		start := arrival
		if w.StartMinute > start {
			start = w.StartMinute
		}
		if start+node.ServiceMinutes <= w.EndMinute {
			return i, start
		}
	}
	return -1, 0
}

// price sums the tour's objective share. STRICT temperature breaches are
// priced at the infeasible cost rather than rejected, so the search
// steers hard away from them but can still hand back its best attempt
// for the assembler's final verdict.
func (e *evaluator) price(vehicle *planning.VehicleSpec, seq []int, ev *routeEval) int64 {
	cost := vehicle.FixedCost
	cost += ev.distanceMeters
	cost += e.model.Costs.GlobalSpanCoefficient * int64(ev.returnMinute-e.model.DepartureMinute)
	cost += e.laborPenalty(vehicle, ev)
	cost += e.temperaturePenalty(vehicle, seq)
	return cost
}

// laborPenalty prices minutes booked past the driver's remaining budget.
// The per-hour charge exceeds a vehicle fixed cost, so overtime never
// beats dispatching another vehicle, yet a tight roster still yields a
// plan instead of no solution.
func (e *evaluator) laborPenalty(vehicle *planning.VehicleSpec, ev *routeEval) int64 {
	if vehicle.LaborBoundMinutes == nil {
		return 0
	}
	overage := ev.driveMinutes + ev.serviceMinutes - *vehicle.LaborBoundMinutes
	if overage <= 0 {
		return 0
	}
	overageHours := int64((overage + 59) / 60)
	return e.model.Costs.LaborPenaltyBase * overageHours
}

// temperaturePenalty walks the thermal profile of the sequence and prices
// predicted ceiling breaches: STRICT stops at the infeasible cost,
// STANDARD stops proportional to the overshoot.
func (e *evaluator) temperaturePenalty(vehicle *planning.VehicleSpec, seq []int) int64 {
	profile := e.tracker.TrackRoute(vehicle.Profile, e.model.InitialCargoTemp, e.model.AmbientTemp, e.buildLegs(seq))

	var penalty int64
	for i, stop := range profile.Stops {
		if stop.Feasible {
			continue
		}
		node := &e.model.Nodes[seq[i]]
		if node.Mandatory {
			penalty += e.model.Costs.InfeasibleCost
		} else {
			penalty += int64(stop.ViolationAmount * float64(e.model.Costs.TempViolationPenalty))
		}
	}
	return penalty
}

// buildLegs converts a sequence into tracker legs: the drive into each
// stop plus the door-open service at it. Waiting happens with the doors
// closed and does not enter the thermal model.
func (e *evaluator) buildLegs(seq []int) []thermo.Leg {
	legs := make([]thermo.Leg, 0, len(seq))
	prev := 0
	for _, n := range seq {
		node := &e.model.Nodes[n]
		legs = append(legs, thermo.Leg{
			TravelMinutes:  float64(e.model.TravelMinutes(prev, n)),
			ServiceMinutes: float64(node.ServiceMinutes),
			TempCeiling:    node.TempCeiling,
			TempFloor:      node.TempFloor,
		})
		prev = n
	}
	return legs
}
