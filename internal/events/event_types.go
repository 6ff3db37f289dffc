package events

import (
	"time"

	"github.com/civic-stack/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResolved      EventType = "complaint_resolved"
	EventComplaintEscalated     EventType = "complaint_escalated"
	EventComplaintAssigned      EventType = "complaint_assigned"
)

// Actor encapsulates actor metadata for an event. Both IDs are nil for
// anonymous submissions.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services. Dispatch is
// fire-and-forget: a failing handler never affects the operation that
// produced the event.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	TrackingCode string                   `json:"tracking_code"`
	DepartmentID *string                  `json:"department_id,omitempty"`
	Category     string                   `json:"category"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Title        string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      string                 `json:"note,omitempty"`
}

// ComplaintResolvedPayload payload for the resolution notification.
type ComplaintResolvedPayload struct {
	TrackingCode   string  `json:"tracking_code"`
	ResolutionNote *string `json:"resolution_note,omitempty"`
	ContactEmail   string  `json:"contact_email,omitempty"`
}

// ComplaintEscalatedPayload payload for the escalation notification.
type ComplaintEscalatedPayload struct {
	TrackingCode    string  `json:"tracking_code"`
	DepartmentID    *string `json:"department_id,omitempty"`
	EscalationCount int     `json:"escalation_count"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssigneeStaffID *string `json:"assignee_staff_id,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
}
