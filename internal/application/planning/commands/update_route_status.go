package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/coldroute-go/internal/application/common"
	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/domain/shipment"
)

// UpdateRouteStatusCommand advances a route through its lifecycle.
// ExpectedVersion guards against concurrent dispatch-tool updates.
type UpdateRouteStatusCommand struct {
	RouteID         string // Required
	Status          string // Required: IN_PROGRESS, COMPLETED, or ABORTED
	ExpectedVersion int    // Required: version the caller last read
}

// UpdateRouteStatusResponse carries the updated route
type UpdateRouteStatusResponse struct {
	Route *planning.Route
}

// UpdateRouteStatusHandler handles route status transitions and the
// shipment status fan-out they imply.
type UpdateRouteStatusHandler struct {
	routeRepo    planning.RouteRepository
	shipmentRepo shipment.ShipmentRepository
}

// NewUpdateRouteStatusHandler creates a new UpdateRouteStatusHandler
func NewUpdateRouteStatusHandler(routeRepo planning.RouteRepository, shipmentRepo shipment.ShipmentRepository) *UpdateRouteStatusHandler {
	return &UpdateRouteStatusHandler{
		routeRepo:    routeRepo,
		shipmentRepo: shipmentRepo,
	}
}

// Handle executes the UpdateRouteStatus command
func (h *UpdateRouteStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdateRouteStatusCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateRouteStatusCommand")
	}

	if cmd.RouteID == "" {
		return nil, shared.NewValidationError("route_id", "route id is required")
	}

	route, err := h.routeRepo.FindByID(ctx, cmd.RouteID)
	if err != nil {
		return nil, err
	}

	if route.Version != cmd.ExpectedVersion {
		return nil, shared.NewConflictError("route", route.ID, cmd.ExpectedVersion)
	}

	var shipmentStatus shipment.Status
	switch planning.RouteStatus(cmd.Status) {
	case planning.RouteStatusInProgress:
		if err := route.Start(); err != nil {
			return nil, err
		}
		shipmentStatus = shipment.StatusInTransit
	case planning.RouteStatusCompleted:
		if err := route.Complete(); err != nil {
			return nil, err
		}
		shipmentStatus = shipment.StatusDelivered
	case planning.RouteStatusAborted:
		if err := route.Abort(); err != nil {
			return nil, err
		}
		shipmentStatus = shipment.StatusFailed
	default:
		return nil, shared.NewValidationError("status",
			fmt.Sprintf("unknown or unreachable route status %q", cmd.Status))
	}

	if err := h.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	if err := h.updateShipments(ctx, route, shipmentStatus); err != nil {
		return nil, err
	}

	return &UpdateRouteStatusResponse{Route: route}, nil
}

// updateShipments moves the route's shipments along with it
func (h *UpdateRouteStatusHandler) updateShipments(ctx context.Context, route *planning.Route, status shipment.Status) error {
	shipments, err := h.shipmentRepo.FindByIDs(ctx, route.ShipmentIDs())
	if err != nil {
		return err
	}

	for _, s := range shipments {
		s.Status = status
		if err := h.shipmentRepo.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to update shipment %s: %w", s.ID, err)
		}
	}

	return nil
}
