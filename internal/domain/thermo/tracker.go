package thermo

import (
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
)

// Leg is one segment of a candidate route as seen by the tracker: the drive
// into a stop followed by the service at it, plus the stop's temperature
// bounds. Times are minutes; the vehicle model converts to hours internally.
type Leg struct {
	TravelMinutes  float64
	ServiceMinutes float64
	TempCeiling    float64
	TempFloor      *float64
}

// StopTemperature is the tracker's prediction for one stop
type StopTemperature struct {
	TransitRise    float64
	CoolingApplied float64
	ArrivalTemp    float64
	ServiceRise    float64
	DepartureTemp  float64

	Feasible bool
	// ViolationAmount is the overshoot past the ceiling (or undershoot past
	// the floor), zero when feasible.
	ViolationAmount float64
}

// RouteProfile is the full thermal prediction for a route
type RouteProfile struct {
	InitialTemp float64
	Stops       []StopTemperature
}

// IsFeasible is the conjunction of per-stop feasibility
func (p *RouteProfile) IsFeasible() bool {
	for _, s := range p.Stops {
		if !s.Feasible {
			return false
		}
	}
	return true
}

// MaxArrivalTemp returns the hottest arrival over the route, or the initial
// temperature for an empty route.
func (p *RouteProfile) MaxArrivalTemp() float64 {
	max := p.InitialTemp
	for _, s := range p.Stops {
		if s.ArrivalTemp > max {
			max = s.ArrivalTemp
		}
	}
	return max
}

// FinalTemp returns the cargo temperature after the last service, or the
// initial temperature for an empty route.
func (p *RouteProfile) FinalTemp() float64 {
	if len(p.Stops) == 0 {
		return p.InitialTemp
	}
	return p.Stops[len(p.Stops)-1].DepartureTemp
}

// TotalViolation sums the per-stop violation amounts
func (p *RouteProfile) TotalViolation() float64 {
	total := 0.0
	for _, s := range p.Stops {
		total += s.ViolationAmount
	}
	return total
}

// Tracker predicts cargo temperature along a route using the vehicle's
// thermodynamic profile. It is pure: no state, no side effects, the same
// inputs always produce the same profile.
//
// The recurrence per stop, all times converted to hours by the vehicle:
//
//	transit rise  = t_drive × (T_ambient − T_current) × K
//	cooling       = t_drive × R            (R ≤ 0)
//	arrival temp  = T_current + transit rise + cooling
//	service rise  = t_svc × C × (1 − 0.5 × curtain)
//	departure     = arrival temp + service rise
//
// A stop is feasible when its arrival temperature is at or below the
// shipment's ceiling and, when a floor is set, at or above it.
type Tracker struct{}

// NewTracker creates a tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// TrackRoute walks the legs in order and returns the per-stop profile
func (t *Tracker) TrackRoute(vehicle *fleet.Vehicle, initialTemp, ambientTemp float64, legs []Leg) *RouteProfile {
	profile := &RouteProfile{
		InitialTemp: initialTemp,
		Stops:       make([]StopTemperature, 0, len(legs)),
	}

	currentTemp := initialTemp
	for _, leg := range legs {
		transitRise := vehicle.TransitTempRise(leg.TravelMinutes, ambientTemp, currentTemp)
		cooling := vehicle.CoolingEffect(leg.TravelMinutes)
		arrivalTemp := currentTemp + transitRise + cooling

		serviceRise := vehicle.DoorTempRise(leg.ServiceMinutes)
		departureTemp := arrivalTemp + serviceRise

		feasible := arrivalTemp <= leg.TempCeiling
		violation := 0.0
		if arrivalTemp > leg.TempCeiling {
			violation = arrivalTemp - leg.TempCeiling
		}
		if leg.TempFloor != nil && arrivalTemp < *leg.TempFloor {
			feasible = false
			if undershoot := *leg.TempFloor - arrivalTemp; undershoot > violation {
				violation = undershoot
			}
		}

		profile.Stops = append(profile.Stops, StopTemperature{
			TransitRise:     transitRise,
			CoolingApplied:  cooling,
			ArrivalTemp:     arrivalTemp,
			ServiceRise:     serviceRise,
			DepartureTemp:   departureTemp,
			Feasible:        feasible,
			ViolationAmount: violation,
		})

		currentTemp = departureTemp
	}

	return profile
}
