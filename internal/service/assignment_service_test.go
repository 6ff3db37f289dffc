package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/events"
	"github.com/civic-stack/grievance-service/internal/repository"
	"github.com/civic-stack/grievance-service/internal/workflow"
)

type fakeStaffRepo struct {
	byID    map[string]*domain.StaffMember
	byEmail map[string]*domain.StaffMember
}

func newFakeStaffRepo(members ...*domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{
		byID:    make(map[string]*domain.StaffMember),
		byEmail: make(map[string]*domain.StaffMember),
	}
	for _, member := range members {
		repo.byID[member.ID] = member
		if member.Email != "" {
			repo.byEmail[member.Email] = member
		}
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, _ *domain.StaffMember) error { return nil }
func (r *fakeStaffRepo) Update(_ context.Context, _ *domain.StaffMember) error { return nil }

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	member, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return member, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	member, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return member, nil
}

func (r *fakeStaffRepo) List(_ context.Context, _ repository.StaffFilter) ([]domain.StaffMember, error) {
	return nil, nil
}

type assignmentFixture struct {
	service    *AssignmentService
	complaints *fakeComplaintRepo
	eventLog   *fakeEventRepo
	dispatcher *recordingDispatcher
}

func newAssignmentFixture(members ...*domain.StaffMember) *assignmentFixture {
	complaints := newFakeComplaintRepo()
	eventLog := &fakeEventRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewAssignmentService(AssignmentDependencies{
		ComplaintRepo: complaints,
		StaffRepo:     newFakeStaffRepo(members...),
		EventRepo:     eventLog,
		Dispatcher:    dispatcher,
	})
	return &assignmentFixture{service: svc, complaints: complaints, eventLog: eventLog, dispatcher: dispatcher}
}

func seedAssignable(fx *assignmentFixture, departmentID *string) *domain.Complaint {
	complaint := &domain.Complaint{
		TrackingCode: "GRV-SEED0002",
		Title:        "seeded",
		Description:  "seeded",
		ContactEmail: "resident@example.com",
		Status:       domain.StatusTriaged,
		Priority:     domain.PriorityMedium,
		DepartmentID: departmentID,
	}
	_ = fx.complaints.Create(context.Background(), complaint)
	return complaint
}

func TestAssignHappyPath(t *testing.T) {
	dept := strPtr("d-1")
	member := &domain.StaffMember{ID: "s-9", Role: domain.StaffRoleOfficer, DepartmentID: dept, Active: true}
	fx := newAssignmentFixture(member)
	seeded := seedAssignable(fx, dept)
	deptAdmin := workflow.Actor{ID: "da-1", Role: workflow.RoleDepartmentAdmin, DepartmentID: dept}

	complaint, err := fx.service.Assign(context.Background(), deptAdmin, seeded.ID, "s-9")
	require.NoError(t, err)

	require.NotNil(t, complaint.AssigneeID)
	assert.Equal(t, "s-9", *complaint.AssigneeID)
	assert.Equal(t, int64(2), complaint.Version)

	require.Len(t, fx.eventLog.entries, 1)
	entry := fx.eventLog.entries[0]
	assert.Equal(t, domain.EventKindAssignment, entry.Kind)
	require.NotNil(t, entry.AssigneeID)
	assert.Equal(t, "s-9", *entry.AssigneeID)

	require.Len(t, fx.dispatcher.published, 1)
	assert.Equal(t, events.EventComplaintAssigned, fx.dispatcher.published[0].Type)
}

func TestAssignUnknownStaff(t *testing.T) {
	fx := newAssignmentFixture()
	seeded := seedAssignable(fx, strPtr("d-1"))
	admin := workflow.Actor{ID: "a-1", Role: workflow.RoleAdmin}

	_, err := fx.service.Assign(context.Background(), admin, seeded.ID, "s-missing")
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestAssignInactiveStaff(t *testing.T) {
	dept := strPtr("d-1")
	member := &domain.StaffMember{ID: "s-9", Role: domain.StaffRoleOfficer, DepartmentID: dept, Active: false}
	fx := newAssignmentFixture(member)
	seeded := seedAssignable(fx, dept)
	admin := workflow.Actor{ID: "a-1", Role: workflow.RoleAdmin}

	_, err := fx.service.Assign(context.Background(), admin, seeded.ID, "s-9")
	assertDomainCode(t, err, "CONFLICT")
	assert.Empty(t, fx.eventLog.entries)
}

func TestAssignUnroutedComplaint(t *testing.T) {
	member := &domain.StaffMember{ID: "s-9", Role: domain.StaffRoleOfficer, DepartmentID: strPtr("d-1"), Active: true}
	fx := newAssignmentFixture(member)
	seeded := seedAssignable(fx, nil)
	admin := workflow.Actor{ID: "a-1", Role: workflow.RoleAdmin}

	_, err := fx.service.Assign(context.Background(), admin, seeded.ID, "s-9")
	require.ErrorIs(t, err, workflow.ErrMissingDepartment)
}

func TestAssignRetriesOnVersionConflict(t *testing.T) {
	dept := strPtr("d-1")
	member := &domain.StaffMember{ID: "s-9", Role: domain.StaffRoleOfficer, DepartmentID: dept, Active: true}
	fx := newAssignmentFixture(member)
	seeded := seedAssignable(fx, dept)
	fx.complaints.conflicts = 1
	admin := workflow.Actor{ID: "a-1", Role: workflow.RoleAdmin}

	complaint, err := fx.service.Assign(context.Background(), admin, seeded.ID, "s-9")
	require.NoError(t, err)
	assert.Equal(t, "s-9", *complaint.AssigneeID)
	assert.Equal(t, 2, fx.complaints.updates)
}
