package workflow

import (
	"errors"
	"fmt"

	"github.com/civic-stack/grievance-service/internal/domain"
)

// ErrConcurrentModification signals that the underlying record changed
// between read and write. The caller must re-fetch and retry; it is returned
// by the persistence layer when a version-conditional update matches no row.
var ErrConcurrentModification = errors.New("complaint was modified concurrently")

// ErrMissingDepartment signals an assignment attempted before the complaint
// has been routed to a department.
var ErrMissingDepartment = errors.New("complaint has no department")

// InvalidTransitionError reports a status change that is not permitted from
// the current status, regardless of who asked for it.
type InvalidTransitionError struct {
	From domain.ComplaintStatus
	To   domain.ComplaintStatus
	Role Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move complaint from %q to %q (requested by %s)", e.From, e.To, e.Role)
}

// ForbiddenError reports an otherwise-valid operation that the actor's role
// or department affiliation does not authorize. Callers can tell "wrong
// permission" apart from "wrong state" by the error type.
type ForbiddenError struct {
	Role   Role
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %s is not permitted to %s", e.Role, e.Action)
}

// DepartmentMismatchError reports an assignment target that does not belong
// to the complaint's department.
type DepartmentMismatchError struct {
	StaffID      string
	DepartmentID string
}

func (e *DepartmentMismatchError) Error() string {
	return fmt.Sprintf("staff %s does not belong to department %s", e.StaffID, e.DepartmentID)
}
