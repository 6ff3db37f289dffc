package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatusVariants(t *testing.T) {
	cases := map[string]ComplaintStatus{
		"new":          StatusNew,
		"Pending":      StatusNew,
		"OPEN":         StatusNew,
		"submitted":    StatusNew,
		"triaged":      StatusTriaged,
		"Under Review": StatusTriaged,
		"in_progress":  StatusInProgress,
		"In Progress":  StatusInProgress,
		"in-progress":  StatusInProgress,
		"InProgress":   StatusInProgress,
		" resolved ":   StatusResolved,
		"Fixed":        StatusResolved,
		"escalated":    StatusEscalated,
		"closed":       StatusClosed,
		"Rejected":     StatusClosed,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		assert.True(t, ok, "parse %q", raw)
		assert.Equal(t, want, got, "parse %q", raw)
	}

	_, ok := ParseStatus("reopened")
	assert.False(t, ok)
}

func TestParsePriorityVariants(t *testing.T) {
	cases := map[string]ComplaintPriority{
		"low":      PriorityLow,
		"Normal":   PriorityMedium,
		"medium":   PriorityMedium,
		"HIGH":     PriorityHigh,
		"critical": PriorityCritical,
		"urgent":   PriorityCritical,
	}
	for raw, want := range cases {
		got, ok := ParsePriority(raw)
		assert.True(t, ok, "parse %q", raw)
		assert.Equal(t, want, got, "parse %q", raw)
	}

	_, ok := ParsePriority("p1")
	assert.False(t, ok)
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())
	assert.Equal(t, -1, ComplaintPriority("p1").Rank())
}

func TestAnonymous(t *testing.T) {
	submitter := "u-1"
	assert.True(t, (&Complaint{}).Anonymous())
	assert.False(t, (&Complaint{SubmitterID: &submitter}).Anonymous())
}
