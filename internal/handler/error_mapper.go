package handler

import (
	"errors"

	"github.com/openheritage/api/internal/database"
	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError("invalid or expired refresh token")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrRoleNotAllowed):
		return model.NewForbiddenError("your role does not permit this action")
	case errors.Is(err, service.ErrNotEntryOwner):
		return model.NewForbiddenError("only the entry owner or an admin can delete it")
	case errors.Is(err, service.ErrNotCommentAuthor):
		return model.NewForbiddenError("only the comment author or an admin can delete it")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrEntryNotFound):
		return model.NewNotFoundError("catalog entry")
	case errors.Is(err, service.ErrCommentNotFound):
		return model.NewNotFoundError("comment")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("email already registered")

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{
			{Field: "email", Message: "invalid email format"},
		})
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: err.Error()},
		})
	case errors.Is(err, service.ErrDisplayNameMissing):
		return model.NewValidationError([]model.FieldError{
			{Field: "display_name", Message: "display name is required"},
		})
	case errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrCommentTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "text", Message: err.Error()},
		})
	case errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{
			{Field: "role", Message: "unknown role"},
		})

	// ===== Bad Request → 400 =====
	case errors.Is(err, service.ErrInvalidEntryType),
		errors.Is(err, service.ErrInvalidItemTarget):
		return model.NewBadRequestError(err.Error())

	// ===== Backend Errors → 503 =====
	case errors.Is(err, database.ErrConnection):
		return model.NewBackendUnavailableError("")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
