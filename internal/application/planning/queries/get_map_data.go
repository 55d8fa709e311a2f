package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/depot"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// routeColors is the palette map layers cycle through, one color per
// route in commit order
var routeColors = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#008080", "#9a6324",
}

// GetMapDataQuery represents a query for map-ready route data
type GetMapDataQuery struct {
	PlanDate time.Time // Required
	JobID    string    // Optional: restrict to one job's routes
}

// MapStop is one marker on the map
type MapStop struct {
	Sequence      int     `json:"sequence"`
	ShipmentID    string  `json:"shipment_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Address       string  `json:"address,omitempty"`
	ArrivalTime   string  `json:"arrival_time"`
	DepartureTime string  `json:"departure_time"`
	PredictedTemp float64 `json:"predicted_temp"`
	TempCeiling   float64 `json:"temp_ceiling"`
	Feasible      bool    `json:"feasible"`
}

// MapRoute is one polyline on the map with its ordered stops
type MapRoute struct {
	RouteID   string    `json:"route_id"`
	Code      string    `json:"code"`
	VehicleID string    `json:"vehicle_id"`
	Status    string    `json:"status"`
	Color     string    `json:"color"`
	Stops     []MapStop `json:"stops"`
}

// GetMapDataResponse carries the depot and the plan date's routes
type GetMapDataResponse struct {
	DepotID       string
	DepotName     string
	DepotLocation shared.Coordinate
	Routes        []MapRoute
}

// GetMapDataHandler handles the GetMapData query
type GetMapDataHandler struct {
	routeRepo    planning.RouteRepository
	depotRepo    depot.DepotRepository
	shipmentRepo shipment.ShipmentRepository
}

// NewGetMapDataHandler creates a new GetMapDataHandler
func NewGetMapDataHandler(
	routeRepo planning.RouteRepository,
	depotRepo depot.DepotRepository,
	shipmentRepo shipment.ShipmentRepository,
) *GetMapDataHandler {
	return &GetMapDataHandler{
		routeRepo:    routeRepo,
		depotRepo:    depotRepo,
		shipmentRepo: shipmentRepo,
	}
}

// Handle executes the GetMapData query
func (h *GetMapDataHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetMapDataQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMapDataQuery")
	}

	if query.PlanDate.IsZero() {
		return nil, shared.NewValidationError("plan_date", "plan date is required")
	}

	routes, err := h.loadRoutes(ctx, query)
	if err != nil {
		return nil, err
	}

	dep, err := h.resolveDepot(ctx, routes)
	if err != nil {
		return nil, err
	}

	mapRoutes := make([]MapRoute, 0, len(routes))
	for i, route := range routes {
		mapRoute, err := h.buildMapRoute(ctx, route, routeColors[i%len(routeColors)])
		if err != nil {
			return nil, err
		}
		mapRoutes = append(mapRoutes, mapRoute)
	}

	return &GetMapDataResponse{
		DepotID:       dep.ID,
		DepotName:     dep.Name,
		DepotLocation: dep.Location,
		Routes:        mapRoutes,
	}, nil
}

func (h *GetMapDataHandler) loadRoutes(ctx context.Context, query *GetMapDataQuery) ([]*planning.Route, error) {
	if query.JobID != "" {
		return h.routeRepo.FindByJobID(ctx, query.JobID)
	}
	return h.routeRepo.FindByPlanDate(ctx, query.PlanDate)
}

// resolveDepot uses the first route's depot; with no routes the default
// depot still frames the empty map.
func (h *GetMapDataHandler) resolveDepot(ctx context.Context, routes []*planning.Route) (*depot.Depot, error) {
	if len(routes) > 0 && routes[0].DepotID != "" {
		return h.depotRepo.FindByID(ctx, routes[0].DepotID)
	}
	return h.depotRepo.FindDefault(ctx)
}

func (h *GetMapDataHandler) buildMapRoute(ctx context.Context, route *planning.Route, color string) (MapRoute, error) {
	ceilings := make(map[string]float64)
	if ids := route.ShipmentIDs(); len(ids) > 0 {
		shipments, err := h.shipmentRepo.FindByIDs(ctx, ids)
		if err != nil {
			return MapRoute{}, err
		}
		for _, s := range shipments {
			ceilings[s.ID] = s.TempCeiling
		}
	}

	stops := make([]MapStop, 0, len(route.Stops))
	for _, stop := range route.Stops {
		stops = append(stops, MapStop{
			Sequence:      stop.Sequence,
			ShipmentID:    stop.ShipmentID,
			Latitude:      stop.Location.Latitude,
			Longitude:     stop.Location.Longitude,
			Address:       stop.Address,
			ArrivalTime:   shared.FormatMinuteOfDay(stop.ArrivalMinute),
			DepartureTime: shared.FormatMinuteOfDay(stop.DepartureMinute),
			PredictedTemp: stop.PredictedArrivalTemp,
			TempCeiling:   ceilings[stop.ShipmentID],
			Feasible:      stop.TempFeasible,
		})
	}

	return MapRoute{
		RouteID:   route.ID,
		Code:      route.Code,
		VehicleID: route.VehicleID,
		Status:    string(route.Status),
		Color:     color,
		Stops:     stops,
	}, nil
}
