package domain

import (
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
// "new" is the sole initial state; "closed" is the sole terminal state.
type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "new"
	StatusTriaged    ComplaintStatus = "triaged"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusEscalated  ComplaintStatus = "escalated"
	StatusClosed     ComplaintStatus = "closed"
)

// ParseStatus normalizes external status spellings ("Pending", "In Progress",
// "in-progress", ...) to the canonical enum. The state machine only ever sees
// canonical values; translation happens here, at the boundary.
func ParseStatus(raw string) (ComplaintStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	switch normalized {
	case "new", "pending", "open", "submitted":
		return StatusNew, true
	case "triaged", "acknowledged", "under_review":
		return StatusTriaged, true
	case "in_progress", "inprogress", "working":
		return StatusInProgress, true
	case "resolved", "fixed":
		return StatusResolved, true
	case "escalated":
		return StatusEscalated, true
	case "closed", "rejected":
		return StatusClosed, true
	}
	return "", false
}

// ComplaintPriority enumerates urgency, ordered low < medium < high < critical.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "low"
	PriorityMedium   ComplaintPriority = "medium"
	PriorityHigh     ComplaintPriority = "high"
	PriorityCritical ComplaintPriority = "critical"
)

var priorityRank = map[ComplaintPriority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the ordinal position of the priority, -1 for unknown values.
func (p ComplaintPriority) Rank() int {
	rank, ok := priorityRank[p]
	if !ok {
		return -1
	}
	return rank
}

// ParsePriority normalizes external priority spellings to the canonical enum.
func ParsePriority(raw string) (ComplaintPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, true
	case "medium", "normal":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	case "critical", "urgent":
		return PriorityCritical, true
	}
	return "", false
}

// Complaint is the aggregate for citizen grievances. Version backs the
// optimistic-concurrency contract of the repository layer: every conditional
// update is keyed on it.
type Complaint struct {
	ID              string
	TrackingCode    string
	SubmitterID     *string
	DepartmentID    *string
	AssigneeID      *string
	Category        string
	Title           string
	Description     string
	Location        string
	ContactEmail    string
	ContactPhone    string
	Status          ComplaintStatus
	Priority        ComplaintPriority
	ResolutionNote  *string
	ResolvedAt      *time.Time
	EscalationCount int
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Events          []ComplaintEvent
}

// Anonymous reports whether the complaint has no owning user account.
func (c *Complaint) Anonymous() bool {
	return c.SubmitterID == nil
}
