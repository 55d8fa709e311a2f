package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Precondition failure: the request is well-formed but the current data
// cannot support a solve (no vehicles, no pending shipments)

type PreconditionFailureError struct {
	*DomainError
	Requirement string
}

func NewPreconditionFailureError(requirement, message string) *PreconditionFailureError {
	return &PreconditionFailureError{
		DomainError: &DomainError{Message: message},
		Requirement: requirement,
	}
}

// Not found

type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s not found", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}

// Conflict: optimistic-lock failure on a versioned update

type ConflictError struct {
	*DomainError
	Entity          string
	ID              string
	ExpectedVersion int
}

func NewConflictError(entity, id string, expectedVersion int) *ConflictError {
	return &ConflictError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("%s %s was modified concurrently (expected version %d)", entity, id, expectedVersion),
		},
		Entity:          entity,
		ID:              id,
		ExpectedVersion: expectedVersion,
	}
}

// Solver outcomes

type SolverTimeoutError struct {
	*DomainError
	TimeLimitSeconds int
}

func NewSolverTimeoutError(timeLimitSeconds int) *SolverTimeoutError {
	return &SolverTimeoutError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("solver reached the %ds time limit without a feasible solution", timeLimitSeconds),
		},
		TimeLimitSeconds: timeLimitSeconds,
	}
}

type InfeasibleError struct {
	*DomainError
	Detail string
}

func NewInfeasibleError(detail string) *InfeasibleError {
	return &InfeasibleError{
		DomainError: &DomainError{Message: fmt.Sprintf("plan is infeasible: %s", detail)},
		Detail:      detail,
	}
}

// Cancellation

type CancelledError struct {
	*DomainError
}

func NewCancelledError(jobID string) *CancelledError {
	return &CancelledError{
		DomainError: &DomainError{Message: fmt.Sprintf("job %s was cancelled", jobID)},
	}
}

// Internal error: unexpected failure inside the worker

type InternalError struct {
	*DomainError
	Cause error
}

func NewInternalError(message string, cause error) *InternalError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &InternalError{
		DomainError: &DomainError{Message: message},
		Cause:       cause,
	}
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}
