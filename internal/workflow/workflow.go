// Package workflow implements the complaint status/assignment state machine.
// It is a pure in-memory core: operations validate fully before mutating, so
// a failed call leaves the complaint untouched and appends no audit entry.
// Serialization of concurrent callers is the data store's job (version-keyed
// conditional updates); the workflow itself holds no locks.
package workflow

import (
	"time"

	"github.com/civic-stack/grievance-service/internal/domain"
)

const adminCloseNote = "closed by administrator"

// staffRoles are the roles allowed to drive the ordinary lifecycle.
var staffRoles = []Role{RoleDepartment, RoleDepartmentAdmin, RoleAdmin}

// adminOnly restricts a transition to system-wide administrators.
var adminOnly = []Role{RoleAdmin}

// transitions is the authoritative table of legal status changes and the
// roles that may perform each. Anything absent here is an invalid
// transition, with one exception: an admin may force-close any non-terminal
// complaint (handled separately in ApplyTransition).
var transitions = map[domain.ComplaintStatus]map[domain.ComplaintStatus][]Role{
	domain.StatusNew: {
		domain.StatusTriaged:    staffRoles,
		domain.StatusInProgress: staffRoles,
	},
	domain.StatusTriaged: {
		domain.StatusInProgress: staffRoles,
		domain.StatusResolved:   staffRoles,
		domain.StatusEscalated:  staffRoles,
	},
	domain.StatusInProgress: {
		domain.StatusResolved:  staffRoles,
		domain.StatusEscalated: staffRoles,
	},
	domain.StatusResolved: {
		domain.StatusClosed:     staffRoles,
		domain.StatusInProgress: staffRoles,
	},
	domain.StatusEscalated: {
		domain.StatusClosed: adminOnly,
	},
	domain.StatusClosed: {},
}

// ApplyTransition moves the complaint to target on behalf of actor. On
// success it updates the complaint in place, applies the transition's side
// effects, appends exactly one audit event, and returns that event for
// persistence. On failure the complaint is left completely unmodified.
func ApplyTransition(c *domain.Complaint, target domain.ComplaintStatus, actor Actor, note string, now time.Time) (*domain.ComplaintEvent, error) {
	allowed, known := transitions[c.Status][target]
	forceClose := false
	if !known {
		// Administrative override: any non-terminal complaint may be closed
		// directly, but only by an admin. This is a legal transition with a
		// role requirement, so a non-admin attempt is Forbidden, not invalid.
		if target == domain.StatusClosed && c.Status != domain.StatusClosed {
			forceClose = true
			allowed = adminOnly
		} else {
			return nil, &InvalidTransitionError{From: c.Status, To: target, Role: actor.Role}
		}
	}
	if !roleAllowed(actor.Role, allowed) {
		return nil, &ForbiddenError{Role: actor.Role, Action: "change complaint status to " + string(target)}
	}
	if !actor.sameDepartment(c.DepartmentID) {
		return nil, &ForbiddenError{Role: actor.Role, Action: "act on a complaint outside their department"}
	}

	// Validation is complete; everything below mutates.
	switch target {
	case domain.StatusResolved:
		resolvedAt := now
		c.ResolvedAt = &resolvedAt
		if note != "" {
			resolution := note
			c.ResolutionNote = &resolution
		}
	case domain.StatusInProgress:
		if c.Status == domain.StatusResolved {
			c.ResolvedAt = nil
		}
	case domain.StatusEscalated:
		c.EscalationCount++
	case domain.StatusClosed:
		if forceClose && c.ResolutionNote == nil {
			resolution := note
			if resolution == "" {
				resolution = adminCloseNote
			}
			c.ResolutionNote = &resolution
		}
	}
	c.Status = target
	c.UpdatedAt = now

	event := statusEvent(c, target, actor, note, now)
	c.Events = append(c.Events, *event)
	return event, nil
}

// Assign routes the complaint to a specific staff member. Reassignment
// overwrites the prior assignee; only the current value is authoritative,
// with the audit log as the sole history of earlier assignments.
func Assign(c *domain.Complaint, assignee *domain.StaffMember, actor Actor, now time.Time) (*domain.ComplaintEvent, error) {
	if c.DepartmentID == nil {
		return nil, ErrMissingDepartment
	}
	switch actor.Role {
	case RoleAdmin:
		// may assign anywhere, including cross-department
	case RoleDepartmentAdmin:
		if !actor.sameDepartment(c.DepartmentID) {
			return nil, &ForbiddenError{Role: actor.Role, Action: "assign a complaint outside their department"}
		}
	default:
		return nil, &ForbiddenError{Role: actor.Role, Action: "assign complaints"}
	}
	if actor.Role != RoleAdmin {
		if assignee.DepartmentID == nil || *assignee.DepartmentID != *c.DepartmentID {
			return nil, &DepartmentMismatchError{StaffID: assignee.ID, DepartmentID: *c.DepartmentID}
		}
	}

	c.AssigneeID = &assignee.ID
	c.UpdatedAt = now

	actorID := actor.ID
	assigneeID := assignee.ID
	event := &domain.ComplaintEvent{
		ComplaintID: c.ID,
		Kind:        domain.EventKindAssignment,
		AssigneeID:  &assigneeID,
		ActorID:     &actorID,
		CreatedAt:   now,
	}
	c.Events = append(c.Events, *event)
	return event, nil
}

// InitialEvent records the complaint entering the lifecycle in "new" status
// at submission time.
func InitialEvent(c *domain.Complaint, now time.Time) *domain.ComplaintEvent {
	event := statusEvent(c, domain.StatusNew, Actor{}, "", now)
	event.ActorID = c.SubmitterID
	c.Events = append(c.Events, *event)
	return event
}

func statusEvent(c *domain.Complaint, status domain.ComplaintStatus, actor Actor, note string, now time.Time) *domain.ComplaintEvent {
	event := &domain.ComplaintEvent{
		ComplaintID: c.ID,
		Kind:        domain.EventKindStatusChange,
		Status:      &status,
		CreatedAt:   now,
	}
	if actor.ID != "" {
		actorID := actor.ID
		event.ActorID = &actorID
	}
	if note != "" {
		eventNote := note
		event.Note = &eventNote
	}
	return event
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
