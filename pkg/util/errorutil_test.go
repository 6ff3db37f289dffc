package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/workflow"
)

func TestToDomainErrorWorkflowMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		code       string
		httpStatus int
	}{
		{
			name:       "invalid transition",
			err:        &workflow.InvalidTransitionError{From: domain.StatusClosed, To: domain.StatusInProgress},
			code:       "INVALID_TRANSITION",
			httpStatus: http.StatusConflict,
		},
		{
			name:       "forbidden",
			err:        &workflow.ForbiddenError{Role: workflow.RoleCitizen, Action: "triage"},
			code:       "FORBIDDEN",
			httpStatus: http.StatusForbidden,
		},
		{
			name:       "department mismatch",
			err:        &workflow.DepartmentMismatchError{StaffID: "s-1", DepartmentID: "d-1"},
			code:       "DEPARTMENT_MISMATCH",
			httpStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing department",
			err:        workflow.ErrMissingDepartment,
			code:       "MISSING_DEPARTMENT",
			httpStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "concurrent modification",
			err:        workflow.ErrConcurrentModification,
			code:       "CONCURRENT_MODIFICATION",
			httpStatus: http.StatusConflict,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := ToDomainError(tc.err)
			require.NotNil(t, mapped)
			assert.Equal(t, tc.code, mapped.Code)
			assert.Equal(t, tc.httpStatus, mapped.HTTPStatus)
		})
	}
}

func TestToDomainErrorWrappedWorkflowErrors(t *testing.T) {
	wrapped := fmt.Errorf("transition failed: %w", workflow.ErrConcurrentModification)
	mapped := ToDomainError(wrapped)
	assert.Equal(t, "CONCURRENT_MODIFICATION", mapped.Code)
}

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "title"})
	mapped := ToDomainError(original)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Equal(t, "title", mapped.Details["field"])
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknownFallsBackToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Error(t, MapError(errors.New("boom")))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
