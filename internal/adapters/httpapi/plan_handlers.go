package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/commands"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/queries"
)

// PlanHandler serves the optimization job endpoints
type PlanHandler struct {
	mediator common.Mediator
}

// NewPlanHandler creates a new plan handler instance
func NewPlanHandler(mediator common.Mediator) *PlanHandler {
	return &PlanHandler{mediator: mediator}
}

// CreateJob accepts a planning request and queues it for the solver.
// Returns 202 immediately; progress is polled via GetJob.
func (h *PlanHandler) CreateJob(c *fiber.Ctx) error {
	var req CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid request body",
			"details": err.Error(),
		})
	}

	if req.PlanDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "plan_date is required",
		})
	}

	planDate, err := time.Parse(planDateLayout, req.PlanDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "plan_date must be formatted YYYY-MM-DD",
			"details": err.Error(),
		})
	}

	cmd := &commands.RequestPlanCommand{
		PlanDate:         planDate,
		DepotID:          req.DepotID,
		DepotLat:         req.DepotLatitude,
		DepotLon:         req.DepotLongitude,
		VehicleIDs:       req.VehicleIDs,
		ShipmentIDs:      req.ShipmentIDs,
		Strategy:         req.Strategy,
		TimeLimitSeconds: req.TimeLimitSeconds,
		DepartureTime:    req.PlannedDepartureTime,
		AmbientTemp:      req.AmbientTemperature,
		InitialCargoTemp: req.InitialCargoTemp,
		AverageSpeedKmh:  req.AverageSpeedKmh,
	}

	response, err := h.mediator.Send(c.Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	planResp, ok := response.(*commands.RequestPlanResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(CreateJobResponse{
		JobID:         planResp.JobID,
		Status:        string(planResp.Status),
		Message:       "planning job queued",
		VehicleCount:  planResp.VehicleCount,
		ShipmentCount: planResp.ShipmentCount,
	})
}

// GetJob returns the polling view of one job, including route ids once
// the plan is committed
func (h *PlanHandler) GetJob(c *fiber.Ctx) error {
	query := &queries.GetJobStatusQuery{JobID: c.Params("id")}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	statusResp, ok := response.(*queries.GetJobStatusResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(jobToResponse(statusResp.Job, statusResp.RouteIDs))
}

// ListJobs returns jobs newest first, optionally filtered by status and
// plan date
func (h *PlanHandler) ListJobs(c *fiber.Ctx) error {
	query := &queries.ListJobsQuery{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit"),
	}

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

	listResp, ok := response.(*queries.ListJobsResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	items := make([]JobResponse, 0, len(listResp.Jobs))
	for _, job := range listResp.Jobs {
		items = append(items, jobToResponse(job, nil))
	}

	return c.JSON(JobListResponse{Items: items, Total: len(items)})
}

// CancelJob stops a queued or running job
func (h *PlanHandler) CancelJob(c *fiber.Ctx) error {
	cmd := &commands.CancelPlanJobCommand{JobID: c.Params("id")}

	response, err := h.mediator.Send(c.Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	cancelResp, ok := response.(*commands.CancelPlanJobResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(CancelJobResponse{
		JobID:  cancelResp.JobID,
		Status: string(cancelResp.Status),
	})
}

// GetJobLogs returns the persisted solver log for a job, oldest first
func (h *PlanHandler) GetJobLogs(c *fiber.Ctx) error {
	jobID := c.Params("id")
	query := &queries.GetJobLogsQuery{
		JobID: jobID,
		Limit: c.QueryInt("limit"),
	}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	logsResp, ok := response.(*queries.GetJobLogsResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(logEntriesToResponse(jobID, logsResp.Entries))
}

// GetJobViolations explains why shipments were left off the committed
// plan, pairing solver diagnostics with any tolerated temperature
// breaches
func (h *PlanHandler) GetJobViolations(c *fiber.Ctx) error {
	query := &queries.GetViolationsQuery{JobID: c.Params("id")}

	response, err := h.mediator.Send(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	violationsResp, ok := response.(*queries.GetViolationsResponse)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected response type",
		})
	}

	return c.JSON(ViolationsResponse{
		JobID:                 violationsResp.JobID,
		JobStatus:             string(violationsResp.JobStatus),
		ErrorMessage:          violationsResp.ErrorMessage,
		TemperatureViolations: violationsResp.TemperatureViolations,
		UnassignedShipments:   violationsResp.Unassigned,
	})
}
