package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// GetViolationsQuery represents a query for a job's violations report
type GetViolationsQuery struct {
	JobID string // Required
}

// TemperatureViolation is one stop whose predicted arrival breaches its
// shipment's bounds
type TemperatureViolation struct {
	RouteID       string  `json:"route_id"`
	RouteCode     string  `json:"route_code"`
	ShipmentID    string  `json:"shipment_id"`
	StopSequence  int     `json:"stop_sequence"`
	PredictedTemp float64 `json:"predicted_temp"`
	TempCeiling   float64 `json:"temp_ceiling"`
	Overshoot     float64 `json:"overshoot"`
	SLA           string  `json:"sla"`
}

// GetViolationsResponse is the violations report for a job.
// FAILED jobs have no routes; their diagnostics live on the job record,
// so the unassigned array still explains what went wrong.
type GetViolationsResponse struct {
	JobID                 string
	JobStatus             planning.JobStatus
	ErrorMessage          string
	TemperatureViolations []TemperatureViolation
	Unassigned            []planning.UnassignedShipment
}

// GetViolationsHandler handles the GetViolations query
type GetViolationsHandler struct {
	jobRepo      planning.PlanJobRepository
	routeRepo    planning.RouteRepository
	shipmentRepo shipment.ShipmentRepository
}

// NewGetViolationsHandler creates a new GetViolationsHandler
func NewGetViolationsHandler(
	jobRepo planning.PlanJobRepository,
	routeRepo planning.RouteRepository,
	shipmentRepo shipment.ShipmentRepository,
) *GetViolationsHandler {
	return &GetViolationsHandler{
		jobRepo:      jobRepo,
		routeRepo:    routeRepo,
		shipmentRepo: shipmentRepo,
	}
}

// Handle executes the GetViolations query
func (h *GetViolationsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetViolationsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetViolationsQuery")
	}

	if query.JobID == "" {
		return nil, shared.NewValidationError("job_id", "job id is required")
	}

	job, err := h.jobRepo.FindByID(ctx, query.JobID)
	if err != nil {
		return nil, err
	}

	routes, err := h.routeRepo.FindByJobID(ctx, job.ID())
	if err != nil {
		return nil, err
	}

	violations, err := h.collectTemperatureViolations(ctx, routes)
	if err != nil {
		return nil, err
	}

	errorMessage := ""
	if job.LastError() != nil {
		errorMessage = job.LastError().Error()
	}

	return &GetViolationsResponse{
		JobID:                 job.ID(),
		JobStatus:             job.Status(),
		ErrorMessage:          errorMessage,
		TemperatureViolations: violations,
		Unassigned:            job.Unassigned(),
	}, nil
}

// collectTemperatureViolations walks committed stops and reports every
// one flagged infeasible, with the overshoot past its shipment's ceiling
func (h *GetViolationsHandler) collectTemperatureViolations(ctx context.Context, routes []*planning.Route) ([]TemperatureViolation, error) {
	violations := make([]TemperatureViolation, 0)

	for _, route := range routes {
		ids := route.ShipmentIDs()
		if len(ids) == 0 {
			continue
		}
		shipments, err := h.shipmentRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]*shipment.Shipment, len(shipments))
		for _, s := range shipments {
			byID[s.ID] = s
		}

		for _, stop := range route.Stops {
			if stop.TempFeasible {
				continue
			}
			s, ok := byID[stop.ShipmentID]
			if !ok {
				continue
			}
			violations = append(violations, TemperatureViolation{
				RouteID:       route.ID,
				RouteCode:     route.Code,
				ShipmentID:    stop.ShipmentID,
				StopSequence:  stop.Sequence,
				PredictedTemp: stop.PredictedArrivalTemp,
				TempCeiling:   s.TempCeiling,
				Overshoot:     stop.PredictedArrivalTemp - s.TempCeiling,
				SLA:           string(s.SLA),
			})
		}
	}

	return violations, nil
}
