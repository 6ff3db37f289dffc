package domain

import "time"

// ComplaintEventKind captures what an audit entry records.
type ComplaintEventKind string

const (
	EventKindStatusChange ComplaintEventKind = "status_change"
	EventKindAssignment   ComplaintEventKind = "assignment"
)

// ComplaintEvent is an immutable audit-trail entry. Entries are append-only:
// they are never mutated or removed once written.
type ComplaintEvent struct {
	ID          string
	ComplaintID string
	Kind        ComplaintEventKind
	Status      *ComplaintStatus
	AssigneeID  *string
	ActorID     *string
	Note        *string
	CreatedAt   time.Time
}
