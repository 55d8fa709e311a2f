package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// statusClientClosedRequest reports a job that was cancelled on request,
// mirroring the nginx convention for aborted work.
const statusClientClosedRequest = 499

// statusForError maps domain error types to HTTP status codes.
// Errors may arrive wrapped, so unwrapping via errors.As is required.
func statusForError(err error) int {
	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	var notFoundErr *shared.NotFoundError
	if errors.As(err, &notFoundErr) {
		return fiber.StatusNotFound
	}

	var conflictErr *shared.ConflictError
	if errors.As(err, &conflictErr) {
		return fiber.StatusConflict
	}

	var preconditionErr *shared.PreconditionFailureError
	if errors.As(err, &preconditionErr) {
		return fiber.StatusUnprocessableEntity
	}

	var infeasibleErr *shared.InfeasibleError
	if errors.As(err, &infeasibleErr) {
		return fiber.StatusUnprocessableEntity
	}

	var cancelledErr *shared.CancelledError
	if errors.As(err, &cancelledErr) {
		return statusClientClosedRequest
	}

	var timeoutErr *shared.SolverTimeoutError
	if errors.As(err, &timeoutErr) {
		return fiber.StatusGatewayTimeout
	}

	return fiber.StatusInternalServerError
}

// respondError writes the JSON error envelope for a failed request.
// Typed errors carry extra context worth surfacing to the caller.
func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"error": err.Error(),
	}

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		body["field"] = validationErr.Field
	}

	var notFoundErr *shared.NotFoundError
	if errors.As(err, &notFoundErr) {
		body["entity"] = notFoundErr.Entity
	}

	var preconditionErr *shared.PreconditionFailureError
	if errors.As(err, &preconditionErr) {
		body["requirement"] = preconditionErr.Requirement
	}

	var conflictErr *shared.ConflictError
	if errors.As(err, &conflictErr) {
		body["expected_version"] = conflictErr.ExpectedVersion
	}

	return c.Status(statusForError(err)).JSON(body)
}
