package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
)

// RouteHandler serves the committed-route endpoints
type RouteHandler struct {
	mediator common.Mediator
}

// NewRouteHandler creates a new route handler instance
func NewRouteHandler(mediator common.Mediator) *RouteHandler {
	return &RouteHandler{mediator: mediator}
}

// ListRoutes returns routes for a plan date or a job, ordered by code
func (h *RouteHandler) ListRoutes(c *fiber.Ctx) error {
	query := &queries.ListRoutesQuery{JobID: c.Query("job_id")}

	if raw := c.Query("plan_date"); raw != "" {
		planDate, err := time.Parse(planDateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "plan_date must be formatted YYYY-MM-DD",
				"details": err.Error(),
			})
		}
		query.PlanDate = planDate
	}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	listResp, ok := response.(*queries.ListRoutesResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	items := make([]RouteResponse, 0, len(listResp.Routes))
	for _, route := range listResp.Routes {
		items = append(items, routeToResponse(route))
	}

	return c.JSON(RouteListResponse{Items: items, Total: len(items)})
}

// GetMapData returns the depot and per-route markers for the dispatcher
// map. Requires plan_date; job_id narrows to one job's routes.
func (h *RouteHandler) GetMapData(c *fiber.Ctx) error {
	raw := c.Query("plan_date")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "plan_date is required",
		})
	}

	planDate, err := time.Parse(planDateLayout, raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "plan_date must be formatted YYYY-MM-DD",
			"details": err.Error(),
		})
	}

	query := &queries.GetMapDataQuery{
		PlanDate: planDate,
		JobID:    c.Query("job_id"),
	}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	mapResp, ok := response.(*queries.GetMapDataResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(MapDataResponse{
		Depot: MapDepot{
			ID:        mapResp.DepotID,
			Name:      mapResp.DepotName,
			Latitude:  mapResp.DepotLocation.Latitude,
			Longitude: mapResp.DepotLocation.Longitude,
		},
		Routes: mapResp.Routes,
	})
}

// GetRoute returns one route with its stops in visit order
func (h *RouteHandler) GetRoute(c *fiber.Ctx) error {
	query := &queries.GetRouteQuery{RouteID: c.Params("id")}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	routeResp, ok := response.(*queries.GetRouteResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(routeToResponse(routeResp.Route))
}

// GetTemperatureAnalysis replays the thermal model over a committed
// route, stop by stop
func (h *RouteHandler) GetTemperatureAnalysis(c *fiber.Ctx) error {
	query := &queries.GetTemperatureAnalysisQuery{RouteID: c.Params("id")}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	analysisResp, ok := response.(*queries.GetTemperatureAnalysisResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(TemperatureAnalysisResponse{
		RouteID:     analysisResp.RouteID,
		RouteCode:   analysisResp.RouteCode,
		VehicleID:   analysisResp.VehicleID,
		InitialTemp: analysisResp.InitialTemp,
		MaxTemp:     analysisResp.MaxTemp,
		FinalTemp:   analysisResp.FinalTemp,
		Feasible:    analysisResp.Feasible,
		Stops:       analysisResp.Stops,
	})
}

// UpdateRouteStatus transitions a route through its operational
// lifecycle. The caller echoes the version it last read; a stale
// version gets a conflict back.
func (h *RouteHandler) UpdateRouteStatus(c *fiber.Ctx) error {
	var req UpdateRouteStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid request body",
			"details": err.Error(),
		})
	}

	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	cmd := &commands.UpdateRouteStatusCommand{
		RouteID:         c.Params("id"),
		Status:          req.Status,
		ExpectedVersion: req.ExpectedVersion,
	}

	response, err := h.mediator.Send(c.Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	updateResp, ok := response.(*commands.UpdateRouteStatusResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(routeToResponse(updateResp.Route))
}
