package dto

import (
	"time"

	"github.com/civic-stack/grievance-service/internal/domain"
)

// CreateComplaintRequest payload. Department, category, and priority are
// optional; the classifier fills whatever is missing. ContactEmail is
// mandatory for anonymous submissions.
type CreateComplaintRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	ContactEmail string  `json:"contact_email"`
	ContactPhone string  `json:"contact_phone"`
	Category     string  `json:"category"`
	DepartmentID *string `json:"department_id"`
	Priority     string  `json:"priority"`
}

// UpdateStatusRequest payload for staff transitions. Status accepts the
// external spelling variants; it is normalized before reaching the workflow.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// AssignRequest payload.
type AssignRequest struct {
	StaffID string `json:"staff_id"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID           string                   `json:"id"`
	TrackingCode string                   `json:"tracking_code"`
	DepartmentID *string                  `json:"department_id"`
	AssigneeID   *string                  `json:"assignee_id"`
	Category     string                   `json:"category"`
	Title        string                   `json:"title"`
	Status       domain.ComplaintStatus   `json:"status"`
	Priority     domain.ComplaintPriority `json:"priority"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ComplaintDetailResponse provides full complaint info including the audit
// trail.
type ComplaintDetailResponse struct {
	ID              string                   `json:"id"`
	TrackingCode    string                   `json:"tracking_code"`
	DepartmentID    *string                  `json:"department_id"`
	AssigneeID      *string                  `json:"assignee_id"`
	Category        string                   `json:"category"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	Location        string                   `json:"location,omitempty"`
	Status          domain.ComplaintStatus   `json:"status"`
	Priority        domain.ComplaintPriority `json:"priority"`
	ResolutionNote  *string                  `json:"resolution_note,omitempty"`
	ResolvedAt      *time.Time               `json:"resolved_at,omitempty"`
	EscalationCount int                      `json:"escalation_count"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Events          []ComplaintEventResponse `json:"events"`
}

// TrackingResponse is the public view returned for a tracking-code lookup.
// It omits contact details and internal ids.
type TrackingResponse struct {
	TrackingCode   string                   `json:"tracking_code"`
	Title          string                   `json:"title"`
	Status         domain.ComplaintStatus   `json:"status"`
	Priority       domain.ComplaintPriority `json:"priority"`
	ResolutionNote *string                  `json:"resolution_note,omitempty"`
	ResolvedAt     *time.Time               `json:"resolved_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Events         []ComplaintEventResponse `json:"events"`
}

// ComplaintEventResponse represents one audit-trail entry.
type ComplaintEventResponse struct {
	ID         string                    `json:"id"`
	Kind       domain.ComplaintEventKind `json:"kind"`
	Status     *domain.ComplaintStatus   `json:"status,omitempty"`
	AssigneeID *string                   `json:"assignee_id,omitempty"`
	ActorID    *string                   `json:"actor_id,omitempty"`
	Note       *string                   `json:"note,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// DepartmentResponse metadata.
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
