package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-service/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newComplaint(status domain.ComplaintStatus, departmentID *string) *domain.Complaint {
	return &domain.Complaint{
		ID:           "c-1",
		TrackingCode: "GRV-ABCD1234",
		DepartmentID: departmentID,
		Status:       status,
		Priority:     domain.PriorityMedium,
		Version:      3,
	}
}

func officer(dept string) Actor {
	return Actor{ID: "staff-1", Role: RoleDepartment, DepartmentID: strPtr(dept)}
}

func admin() Actor {
	return Actor{ID: "admin-1", Role: RoleAdmin}
}

func TestApplyTransitionHappyPaths(t *testing.T) {
	cases := []struct {
		name  string
		from  domain.ComplaintStatus
		to    domain.ComplaintStatus
		actor Actor
	}{
		{"new to triaged", domain.StatusNew, domain.StatusTriaged, officer("d-1")},
		{"new to in_progress", domain.StatusNew, domain.StatusInProgress, officer("d-1")},
		{"triaged to in_progress", domain.StatusTriaged, domain.StatusInProgress, officer("d-1")},
		{"triaged to resolved", domain.StatusTriaged, domain.StatusResolved, officer("d-1")},
		{"triaged to escalated", domain.StatusTriaged, domain.StatusEscalated, officer("d-1")},
		{"in_progress to resolved", domain.StatusInProgress, domain.StatusResolved, officer("d-1")},
		{"in_progress to escalated", domain.StatusInProgress, domain.StatusEscalated, officer("d-1")},
		{"resolved to closed", domain.StatusResolved, domain.StatusClosed, officer("d-1")},
		{"resolved reopened", domain.StatusResolved, domain.StatusInProgress, officer("d-1")},
		{"escalated closed by admin", domain.StatusEscalated, domain.StatusClosed, admin()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newComplaint(tc.from, strPtr("d-1"))
			event, err := ApplyTransition(c, tc.to, tc.actor, "", testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.to, c.Status)
			require.NotNil(t, event)
			assert.Equal(t, domain.EventKindStatusChange, event.Kind)
			require.NotNil(t, event.Status)
			assert.Equal(t, tc.to, *event.Status)
			assert.Len(t, c.Events, 1)
		})
	}
}

func TestApplyTransitionInvalidPairs(t *testing.T) {
	cases := []struct {
		from domain.ComplaintStatus
		to   domain.ComplaintStatus
	}{
		{domain.StatusNew, domain.StatusResolved},
		{domain.StatusNew, domain.StatusEscalated},
		{domain.StatusResolved, domain.StatusTriaged},
		{domain.StatusEscalated, domain.StatusResolved},
		{domain.StatusClosed, domain.StatusInProgress},
		{domain.StatusClosed, domain.StatusClosed},
		{domain.StatusInProgress, domain.StatusInProgress},
	}
	for _, tc := range cases {
		c := newComplaint(tc.from, strPtr("d-1"))
		_, err := ApplyTransition(c, tc.to, admin(), "", testNow)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid, "from %s to %s", tc.from, tc.to)
		assert.Equal(t, tc.from, invalid.From)
		assert.Equal(t, tc.to, invalid.To)
		assert.Equal(t, tc.from, c.Status, "failed transition must not mutate")
		assert.Empty(t, c.Events)
	}
}

func TestApplyTransitionRoleChecks(t *testing.T) {
	t.Run("citizen cannot triage", func(t *testing.T) {
		c := newComplaint(domain.StatusNew, strPtr("d-1"))
		citizen := Actor{ID: "u-1", Role: RoleCitizen}
		_, err := ApplyTransition(c, domain.StatusTriaged, citizen, "", testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.StatusNew, c.Status)
	})

	t.Run("officer cannot close escalated", func(t *testing.T) {
		c := newComplaint(domain.StatusEscalated, strPtr("d-1"))
		_, err := ApplyTransition(c, domain.StatusClosed, officer("d-1"), "", testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("officer outside department", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, strPtr("d-1"))
		_, err := ApplyTransition(c, domain.StatusInProgress, officer("d-2"), "", testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("unrouted complaint open to any staff", func(t *testing.T) {
		c := newComplaint(domain.StatusNew, nil)
		_, err := ApplyTransition(c, domain.StatusTriaged, officer("d-2"), "", testNow)
		require.NoError(t, err)
	})
}

func TestForceClose(t *testing.T) {
	t.Run("admin closes in_progress directly", func(t *testing.T) {
		c := newComplaint(domain.StatusInProgress, strPtr("d-1"))
		event, err := ApplyTransition(c, domain.StatusClosed, admin(), "", testNow)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, c.Status)
		require.NotNil(t, c.ResolutionNote)
		assert.Equal(t, "closed by administrator", *c.ResolutionNote)
		require.NotNil(t, event.Status)
		assert.Equal(t, domain.StatusClosed, *event.Status)
	})

	t.Run("explicit note wins over default", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, strPtr("d-1"))
		_, err := ApplyTransition(c, domain.StatusClosed, admin(), "duplicate of GRV-XYZ", testNow)
		require.NoError(t, err)
		require.NotNil(t, c.ResolutionNote)
		assert.Equal(t, "duplicate of GRV-XYZ", *c.ResolutionNote)
	})

	t.Run("non-admin gets forbidden not invalid", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, strPtr("d-1"))
		_, err := ApplyTransition(c, domain.StatusClosed, officer("d-1"), "", testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		var invalid *InvalidTransitionError
		assert.False(t, errors.As(err, &invalid))
	})
}

func TestResolutionLifecycle(t *testing.T) {
	c := newComplaint(domain.StatusInProgress, strPtr("d-1"))
	actor := officer("d-1")

	_, err := ApplyTransition(c, domain.StatusResolved, actor, "replaced the valve", testNow)
	require.NoError(t, err)
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, testNow, *c.ResolvedAt)
	require.NotNil(t, c.ResolutionNote)
	assert.Equal(t, "replaced the valve", *c.ResolutionNote)

	// Reopening clears the resolution timestamp but keeps the note as
	// context for whoever picks the complaint back up.
	later := testNow.Add(time.Hour)
	_, err = ApplyTransition(c, domain.StatusInProgress, actor, "leak came back", later)
	require.NoError(t, err)
	assert.Nil(t, c.ResolvedAt)
	assert.NotNil(t, c.ResolutionNote)
	assert.Equal(t, later, c.UpdatedAt)
	assert.Len(t, c.Events, 2)
}

func TestEscalationCountsEveryEscalation(t *testing.T) {
	c := newComplaint(domain.StatusTriaged, strPtr("d-1"))
	actor := officer("d-1")

	_, err := ApplyTransition(c, domain.StatusEscalated, actor, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, c.EscalationCount)

	_, err = ApplyTransition(c, domain.StatusClosed, admin(), "", testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, c.EscalationCount)
}

func TestAssign(t *testing.T) {
	dept := strPtr("d-1")
	member := &domain.StaffMember{ID: "staff-9", DepartmentID: dept, Role: domain.StaffRoleOfficer}
	deptAdmin := Actor{ID: "da-1", Role: RoleDepartmentAdmin, DepartmentID: dept}

	t.Run("department admin assigns within department", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, dept)
		event, err := Assign(c, member, deptAdmin, testNow)
		require.NoError(t, err)
		require.NotNil(t, c.AssigneeID)
		assert.Equal(t, "staff-9", *c.AssigneeID)
		assert.Equal(t, domain.EventKindAssignment, event.Kind)
		require.NotNil(t, event.AssigneeID)
		assert.Equal(t, "staff-9", *event.AssigneeID)
		require.NotNil(t, event.ActorID)
		assert.Equal(t, "da-1", *event.ActorID)
	})

	t.Run("reassignment overwrites", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, dept)
		c.AssigneeID = strPtr("staff-old")
		_, err := Assign(c, member, deptAdmin, testNow)
		require.NoError(t, err)
		assert.Equal(t, "staff-9", *c.AssigneeID)
		assert.Len(t, c.Events, 1)
	})

	t.Run("missing department fails even for admin", func(t *testing.T) {
		c := newComplaint(domain.StatusNew, nil)
		_, err := Assign(c, member, admin(), testNow)
		require.ErrorIs(t, err, ErrMissingDepartment)
		assert.Nil(t, c.AssigneeID)
	})

	t.Run("officer cannot assign", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, dept)
		_, err := Assign(c, member, officer("d-1"), testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("department admin cannot assign outside their department", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, strPtr("d-2"))
		_, err := Assign(c, member, deptAdmin, testNow)
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("assignee must belong to the department", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, dept)
		outsider := &domain.StaffMember{ID: "staff-7", DepartmentID: strPtr("d-2")}
		_, err := Assign(c, outsider, deptAdmin, testNow)
		var mismatch *DepartmentMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "staff-7", mismatch.StaffID)
	})

	t.Run("admin may assign cross-department", func(t *testing.T) {
		c := newComplaint(domain.StatusTriaged, strPtr("d-2"))
		_, err := Assign(c, member, admin(), testNow)
		require.NoError(t, err)
		assert.Equal(t, "staff-9", *c.AssigneeID)
	})
}

func TestInitialEvent(t *testing.T) {
	c := newComplaint(domain.StatusNew, nil)
	c.SubmitterID = strPtr("u-1")
	event := InitialEvent(c, testNow)
	require.NotNil(t, event.Status)
	assert.Equal(t, domain.StatusNew, *event.Status)
	require.NotNil(t, event.ActorID)
	assert.Equal(t, "u-1", *event.ActorID)
	assert.Len(t, c.Events, 1)
}

func TestActorForStaff(t *testing.T) {
	dept := strPtr("d-1")
	cases := []struct {
		staffRole domain.StaffRole
		want      Role
	}{
		{domain.StaffRoleOfficer, RoleDepartment},
		{domain.StaffRoleDepartmentAdmin, RoleDepartmentAdmin},
		{domain.StaffRoleAdmin, RoleAdmin},
	}
	for _, tc := range cases {
		actor := ActorForStaff(&domain.StaffMember{ID: "s-1", Role: tc.staffRole, DepartmentID: dept})
		assert.Equal(t, tc.want, actor.Role)
		assert.Equal(t, "s-1", actor.ID)
	}
}
