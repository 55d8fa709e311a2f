package planning

import (
	"errors"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// ReasonType classifies why a shipment could not be placed on any route
type ReasonType string

const (
	// ReasonTimeWindow means no vehicle can reach the stop inside any of
	// its delivery windows.
	ReasonTimeWindow ReasonType = "TIME_WINDOW"

	// ReasonStrictSLA marks a hard-constraint shipment among the reasons,
	// always paired with the constraint that made it undeliverable.
	ReasonStrictSLA ReasonType = "STRICT_SLA"

	// ReasonTemperature means every vehicle would arrive above the
	// shipment's ceiling (or below its floor).
	ReasonTemperature ReasonType = "TEMPERATURE"

	// ReasonCapacityOrRouting covers drops the solver made for capacity,
	// labor, or cost reasons that no single constraint explains.
	ReasonCapacityOrRouting ReasonType = "CAPACITY_OR_ROUTING"
)

// UnassignedReason is one diagnostic explaining an unplaced shipment
type UnassignedReason struct {
	Type            ReasonType `json:"type"`
	Message         string     `json:"message"`
	Parameter       string     `json:"parameter,omitempty"`
	CurrentValue    string     `json:"current_value,omitempty"`
	ConstraintValue string     `json:"constraint_value,omitempty"`
}

// UnassignedShipment pairs a dropped shipment with its likely reasons
type UnassignedShipment struct {
	ShipmentID    string             `json:"shipment_id"`
	OrderNumber   string             `json:"order_number,omitempty"`
	SLA           string             `json:"sla"`
	LikelyReasons []UnassignedReason `json:"likely_reasons"`
}

// FailureKind is the persisted classification of a failed job's error
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureValidation    FailureKind = "VALIDATION"
	FailurePrecondition  FailureKind = "PRECONDITION"
	FailureNotFound      FailureKind = "NOT_FOUND"
	FailureConflict      FailureKind = "CONFLICT"
	FailureSolverTimeout FailureKind = "SOLVER_TIMEOUT"
	FailureInfeasible    FailureKind = "INFEASIBLE"
	FailureCancelled     FailureKind = "CANCELLED"
	FailureInternal      FailureKind = "INTERNAL"
)

// ClassifyFailure maps a job error to its persisted kind
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		return FailureValidation
	}

	var preconditionErr *shared.PreconditionFailureError
	if errors.As(err, &preconditionErr) {
		return FailurePrecondition
	}

	var notFoundErr *shared.NotFoundError
	if errors.As(err, &notFoundErr) {
		return FailureNotFound
	}

	var conflictErr *shared.ConflictError
	if errors.As(err, &conflictErr) {
		return FailureConflict
	}

	var timeoutErr *shared.SolverTimeoutError
	if errors.As(err, &timeoutErr) {
		return FailureSolverTimeout
	}

	var infeasibleErr *shared.InfeasibleError
	if errors.As(err, &infeasibleErr) {
		return FailureInfeasible
	}

	var cancelledErr *shared.CancelledError
	if errors.As(err, &cancelledErr) {
		return FailureCancelled
	}

	return FailureInternal
}
