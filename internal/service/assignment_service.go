package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/events"
	"github.com/civic-stack/grievance-service/internal/repository"
	"github.com/civic-stack/grievance-service/internal/workflow"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// AssignmentService routes complaints to staff members.
type AssignmentService struct {
	complaints repository.ComplaintRepository
	staff      repository.StaffRepository
	eventLog   repository.ComplaintEventRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	StaffRepo     repository.StaffRepository
	EventRepo     repository.ComplaintEventRepository
	Dispatcher    events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		complaints: deps.ComplaintRepo,
		staff:      deps.StaffRepo,
		eventLog:   deps.EventRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign sets the complaint's assignee to the given staff member on behalf
// of actor. Reassignment overwrites the prior assignee; the audit log keeps
// the only record of earlier assignments.
func (s *AssignmentService) Assign(ctx context.Context, actor workflow.Actor, complaintID, staffID string) (*domain.Complaint, error) {
	assignee, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("staff member is inactive", map[string]any{"staff_id": staffID})
	}

	var conflict error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		complaint, err := s.complaints.GetByID(ctx, complaintID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
			}
			return nil, apperrors.MapError(err)
		}

		event, err := workflow.Assign(complaint, assignee, actor, time.Now())
		if err != nil {
			return nil, err
		}

		if err := s.complaints.UpdateWithVersion(ctx, complaint); err != nil {
			if errors.Is(err, workflow.ErrConcurrentModification) {
				conflict = err
				continue
			}
			return nil, apperrors.MapError(err)
		}
		if err := s.eventLog.Create(ctx, event); err != nil {
			return nil, apperrors.MapError(err)
		}

		s.publishAssigned(ctx, actor, complaint)
		return complaint, nil
	}
	return nil, conflict
}

func (s *AssignmentService) publishAssigned(ctx context.Context, actor workflow.Actor, complaint *domain.Complaint) {
	if s.dispatcher == nil {
		return
	}
	actorID := actor.ID
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorID},
		Timestamp:   time.Now(),
		Payload: events.ComplaintAssignedPayload{
			AssigneeStaffID: complaint.AssigneeID,
			DepartmentID:    complaint.DepartmentID,
		},
	})
}
