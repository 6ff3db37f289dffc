package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/civic-stack/grievance-service/internal/workflow"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Workflow errors are
// all caller-recoverable, so each maps to a distinct code and a 4xx status
// with a message the caller can act on.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var invalid *workflow.InvalidTransitionError
	if errors.As(err, &invalid) {
		return &DomainError{
			Code:       "INVALID_TRANSITION",
			Message:    fmt.Sprintf("this complaint cannot move to %q from its current state", invalid.To),
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"current_status": invalid.From, "requested_status": invalid.To, "role": invalid.Role},
		}
	}
	var forbidden *workflow.ForbiddenError
	if errors.As(err, &forbidden) {
		return &DomainError{
			Code:       "FORBIDDEN",
			Message:    "you do not have permission to perform this action on the complaint",
			HTTPStatus: http.StatusForbidden,
			Details:    map[string]any{"role": forbidden.Role},
		}
	}
	var mismatch *workflow.DepartmentMismatchError
	if errors.As(err, &mismatch) {
		return &DomainError{
			Code:       "DEPARTMENT_MISMATCH",
			Message:    "the selected staff member does not belong to the complaint's department",
			HTTPStatus: http.StatusUnprocessableEntity,
			Details:    map[string]any{"staff_id": mismatch.StaffID, "department_id": mismatch.DepartmentID},
		}
	}
	if errors.Is(err, workflow.ErrMissingDepartment) {
		return &DomainError{
			Code:       "MISSING_DEPARTMENT",
			Message:    "the complaint must be routed to a department before it can be assigned",
			HTTPStatus: http.StatusUnprocessableEntity,
		}
	}
	if errors.Is(err, workflow.ErrConcurrentModification) {
		return &DomainError{
			Code:       "CONCURRENT_MODIFICATION",
			Message:    "the complaint was changed by someone else, reload and try again",
			HTTPStatus: http.StatusConflict,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
