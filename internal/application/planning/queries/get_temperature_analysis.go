package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/fleet"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
	"github.com/andrescamacho/coldroute-go/internal/domain/thermo"
)

// GetTemperatureAnalysisQuery represents a query for a route's full
// thermal profile
type GetTemperatureAnalysisQuery struct {
	RouteID string // Required
}

// StopAnalysis is the tracker's verdict for one stop plus its headroom
// to the shipment's ceiling
type StopAnalysis struct {
	Sequence       int     `json:"sequence"`
	ShipmentID     string  `json:"shipment_id"`
	ArrivalTime    string  `json:"arrival_time"`
	TransitRise    float64 `json:"transit_rise"`
	CoolingApplied float64 `json:"cooling_applied"`
	ArrivalTemp    float64 `json:"arrival_temp"`
	ServiceRise    float64 `json:"service_rise"`
	DepartureTemp  float64 `json:"departure_temp"`
	TempCeiling    float64 `json:"temp_ceiling"`
	Headroom       float64 `json:"headroom"`
	Feasible       bool    `json:"feasible"`
}

// GetTemperatureAnalysisResponse is the route-level thermal report
type GetTemperatureAnalysisResponse struct {
	RouteID     string
	RouteCode   string
	VehicleID   string
	InitialTemp float64
	MaxTemp     float64
	FinalTemp   float64
	Feasible    bool
	Stops       []StopAnalysis
}

// GetTemperatureAnalysisHandler re-runs the tracker over a stored route.
// Leg times are reconstructed from the committed schedule, so the
// analysis reflects exactly what was planned.
type GetTemperatureAnalysisHandler struct {
	routeRepo    planning.RouteRepository
	jobRepo      planning.PlanJobRepository
	vehicleRepo  fleet.VehicleRepository
	shipmentRepo shipment.ShipmentRepository
	tracker      *thermo.Tracker
}

// NewGetTemperatureAnalysisHandler creates a new GetTemperatureAnalysisHandler
func NewGetTemperatureAnalysisHandler(
	routeRepo planning.RouteRepository,
	jobRepo planning.PlanJobRepository,
	vehicleRepo fleet.VehicleRepository,
	shipmentRepo shipment.ShipmentRepository,
) *GetTemperatureAnalysisHandler {
	return &GetTemperatureAnalysisHandler{
		routeRepo:    routeRepo,
		jobRepo:      jobRepo,
		vehicleRepo:  vehicleRepo,
		shipmentRepo: shipmentRepo,
		tracker:      thermo.NewTracker(),
	}
}

// Handle executes the GetTemperatureAnalysis query
func (h *GetTemperatureAnalysisHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetTemperatureAnalysisQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTemperatureAnalysisQuery")
	}

	if query.RouteID == "" {
		return nil, shared.NewValidationError("route_id", "route id is required")
	}

	route, err := h.routeRepo.FindByID(ctx, query.RouteID)
	if err != nil {
		return nil, err
	}

	job, err := h.jobRepo.FindByID(ctx, route.JobID)
	if err != nil {
		return nil, err
	}

	vehicle, err := h.vehicleRepo.FindByID(ctx, route.VehicleID)
	if err != nil {
		return nil, err
	}

	shipments, err := h.shipmentRepo.FindByIDs(ctx, route.ShipmentIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*shipment.Shipment, len(shipments))
	for _, s := range shipments {
		byID[s.ID] = s
	}

	planRequest := job.Request()
	legs, err := h.rebuildLegs(route, byID)
	if err != nil {
		return nil, err
	}
	profile := h.tracker.TrackRoute(vehicle, planRequest.InitialCargoTemp, planRequest.AmbientTemp, legs)

	stops := make([]StopAnalysis, 0, len(route.Stops))
	for i, stop := range route.Stops {
		s := byID[stop.ShipmentID]
		temp := profile.Stops[i]
		stops = append(stops, StopAnalysis{
			Sequence:       stop.Sequence,
			ShipmentID:     stop.ShipmentID,
			ArrivalTime:    shared.FormatMinuteOfDay(stop.ArrivalMinute),
			TransitRise:    temp.TransitRise,
			CoolingApplied: temp.CoolingApplied,
			ArrivalTemp:    temp.ArrivalTemp,
			ServiceRise:    temp.ServiceRise,
			DepartureTemp:  temp.DepartureTemp,
			TempCeiling:    s.TempCeiling,
			Headroom:       s.TempCeiling - temp.ArrivalTemp,
			Feasible:       temp.Feasible,
		})
	}

	return &GetTemperatureAnalysisResponse{
		RouteID:     route.ID,
		RouteCode:   route.Code,
		VehicleID:   route.VehicleID,
		InitialTemp: profile.InitialTemp,
		MaxTemp:     profile.MaxArrivalTemp(),
		FinalTemp:   profile.FinalTemp(),
		Feasible:    profile.IsFeasible(),
		Stops:       stops,
	}, nil
}

// rebuildLegs derives drive times from the committed schedule: the gap
// between the previous departure and this arrival covers driving plus
// any wait for the window, and only the driving share heats the cargo.
func (h *GetTemperatureAnalysisHandler) rebuildLegs(route *planning.Route, byID map[string]*shipment.Shipment) ([]thermo.Leg, error) {
	legs := make([]thermo.Leg, 0, len(route.Stops))
	prevDeparture := route.DepartureMinute

	for _, stop := range route.Stops {
		s, ok := byID[stop.ShipmentID]
		if !ok {
			return nil, shared.NewNotFoundError("shipment", stop.ShipmentID)
		}

		travel := stop.ArrivalMinute - prevDeparture - stop.WaitMinutes
		if travel < 0 {
			travel = 0
		}
		legs = append(legs, thermo.Leg{
			TravelMinutes:  float64(travel),
			ServiceMinutes: float64(s.ServiceMinutes),
			TempCeiling:    s.TempCeiling,
			TempFloor:      s.TempFloor,
		})
		prevDeparture = stop.DepartureMinute
	}

	return legs, nil
}
