package httpapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", shared.NewValidationError("plan_date", "required"), fiber.StatusBadRequest},
		{"not found", shared.NewNotFoundError("route", "route-1"), fiber.StatusNotFound},
		{"conflict", shared.NewConflictError("route", "route-1", 2), fiber.StatusConflict},
		{"precondition", shared.NewPreconditionFailureError("available_vehicles", "none"), fiber.StatusUnprocessableEntity},
		{"infeasible", shared.NewInfeasibleError("strict shipment dropped"), fiber.StatusUnprocessableEntity},
		{"cancelled", shared.NewCancelledError("job-1"), statusClientClosedRequest},
		{"solver timeout", shared.NewSolverTimeoutError(30), fiber.StatusGatewayTimeout},
		{"internal", shared.NewInternalError("solver crashed", nil), fiber.StatusInternalServerError},
		{"untyped", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestStatusForError_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler failed: %w", shared.NewNotFoundError("plan_job", "job-1"))

	assert.Equal(t, fiber.StatusNotFound, statusForError(wrapped))
}
