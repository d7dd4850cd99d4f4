package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/mergington/api/internal/model"
	"github.com/forgo/mergington/api/internal/service"
)

// Client-facing details. These strings are part of the API contract.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student already signed up for this activity"
	detailNotRegistered    = "Student is not registered for this activity"
	detailEmailRequired    = "email query parameter is required"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError(detailActivityNotFound)

	// ===== Roster State Errors → 400 =====
	case errors.Is(err, service.ErrAlreadySignedUp):
		return model.NewRosterConflictError(detailAlreadySignedUp)
	case errors.Is(err, service.ErrNotRegistered):
		return model.NewRosterConflictError(detailNotRegistered)

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrEmailRequired):
		return model.NewBadRequestError(detailEmailRequired)

	// ===== Default → 500 =====
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
