package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civic-stack/grievance-service/internal/classify"
	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/events"
	"github.com/civic-stack/grievance-service/internal/repository"
	"github.com/civic-stack/grievance-service/internal/tracking"
	"github.com/civic-stack/grievance-service/internal/workflow"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// maxWriteAttempts bounds the re-fetch/retry loop around version-conditional
// writes. After this many conflicts the conflict is surfaced to the caller.
const maxWriteAttempts = 3

// ComplaintService coordinates complaint submission and lifecycle.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	eventLog    repository.ComplaintEventRepository
	departments repository.DepartmentRepository
	codes       *tracking.Generator
	dispatcher  events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	EventRepo      repository.ComplaintEventRepository
	DepartmentRepo repository.DepartmentRepository
	CodeGenerator  *tracking.Generator
	Dispatcher     events.Dispatcher
}

// ComplaintCreateInput describes a submission. Classification fills any of
// Category, Priority, and DepartmentID the submitter left empty.
type ComplaintCreateInput struct {
	SubmitterID  *string
	Title        string
	Description  string
	Location     string
	ContactEmail string
	ContactPhone string
	Category     string
	DepartmentID *string
	Priority     domain.ComplaintPriority
}

// ComplaintCitizenFilter describes citizen listing filters.
type ComplaintCitizenFilter struct {
	Statuses   []domain.ComplaintStatus
	Priorities []domain.ComplaintPriority
	Limit      int
	Offset     int
}

// ComplaintStaffFilter describes staff listing filters.
type ComplaintStaffFilter struct {
	DepartmentID *string
	AssigneeID   *string
	Statuses     []domain.ComplaintStatus
	Priorities   []domain.ComplaintPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	UpdatedFrom  *time.Time
	UpdatedTo    *time.Time
	Limit        int
	Offset       int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		eventLog:    deps.EventRepo,
		departments: deps.DepartmentRepo,
		codes:       deps.CodeGenerator,
		dispatcher:  deps.Dispatcher,
	}
}

// Create files a new complaint. The classification heuristic only supplies
// defaults for what the submitter did not: an explicit department, category,
// or priority always wins.
func (s *ComplaintService) Create(ctx context.Context, input ComplaintCreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if input.SubmitterID == nil && strings.TrimSpace(input.ContactEmail) == "" {
		return nil, apperrors.NewValidationError("anonymous complaints require a contact email", nil)
	}

	suggestion := classify.Classify(title, description)

	complaint := &domain.Complaint{
		SubmitterID:  input.SubmitterID,
		DepartmentID: input.DepartmentID,
		Category:     input.Category,
		Title:        title,
		Description:  description,
		Location:     strings.TrimSpace(input.Location),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Status:       domain.StatusNew,
		Priority:     input.Priority,
	}
	if complaint.Category == "" {
		complaint.Category = suggestion.Category
	}
	if complaint.Priority.Rank() < 0 {
		complaint.Priority = suggestion.Priority
	}
	if complaint.DepartmentID == nil {
		complaint.DepartmentID = s.resolveSuggestedDepartment(ctx, suggestion.SuggestedDepartment)
	} else if _, err := s.departments.GetByID(ctx, *complaint.DepartmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown department", map[string]any{"department_id": *complaint.DepartmentID})
		}
		return nil, apperrors.MapError(err)
	}

	code, err := s.codes.Next(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	complaint.TrackingCode = code

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	initial := workflow.InitialEvent(complaint, complaint.CreatedAt)
	if err := s.eventLog.Create(ctx, initial); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       citizenActor(complaint.SubmitterID),
		Payload: events.ComplaintCreatedPayload{
			TrackingCode: complaint.TrackingCode,
			DepartmentID: complaint.DepartmentID,
			Category:     complaint.Category,
			Priority:     complaint.Priority,
			Title:        complaint.Title,
		},
	})
	return complaint, nil
}

// Transition moves a complaint to the target status on behalf of actor. The
// version-conditional write is retried a bounded number of times; the
// workflow itself runs on the freshly loaded record each attempt, so a retry
// is a full re-validation, never a blind overwrite.
func (s *ComplaintService) Transition(ctx context.Context, actor workflow.Actor, complaintID string, target domain.ComplaintStatus, note string) (*domain.Complaint, error) {
	var conflict error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		complaint, err := s.loadComplaint(ctx, complaintID)
		if err != nil {
			return nil, err
		}
		oldStatus := complaint.Status

		event, err := workflow.ApplyTransition(complaint, target, actor, note, time.Now())
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

		s.publishTransitionEvents(ctx, actor, complaint, oldStatus, target, note)
		return complaint, nil
	}
	return nil, conflict
}

// GetForCitizen fetches a complaint ensuring the caller submitted it.
func (s *ComplaintService) GetForCitizen(ctx context.Context, userID, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.SubmitterID == nil || *complaint.SubmitterID != userID {
		return nil, apperrors.NewForbidden("you may only view your own complaints")
	}
	return s.withEvents(ctx, complaint)
}

// GetByTrackingCode fetches a complaint for the public tracking page. No
// authentication: possession of the code is the capability.
func (s *ComplaintService) GetByTrackingCode(ctx context.Context, code string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByTrackingCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"tracking_code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return s.withEvents(ctx, complaint)
}

// GetForStaff fetches a complaint ensuring department scope.
func (s *ComplaintService) GetForStaff(ctx context.Context, actor workflow.Actor, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !staffCanAccess(actor, complaint) {
		return nil, apperrors.NewForbidden("complaint belongs to another department")
	}
	return s.withEvents(ctx, complaint)
}

// ListForCitizen returns the caller's own complaints.
func (s *ComplaintService) ListForCitizen(ctx context.Context, userID string, filter ComplaintCitizenFilter) ([]domain.Complaint, error) {
	repoFilter := repository.ComplaintFilter{
		SubmitterID: &userID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	list, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListForStaff returns complaints within the actor's scope. Non-admin staff
// are always pinned to their own department regardless of the filter.
func (s *ComplaintService) ListForStaff(ctx context.Context, actor workflow.Actor, filter ComplaintStaffFilter) ([]domain.Complaint, error) {
	repoFilter := repository.ComplaintFilter{
		DepartmentID: filter.DepartmentID,
		AssigneeID:   filter.AssigneeID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		UpdatedFrom:  filter.UpdatedFrom,
		UpdatedTo:    filter.UpdatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if actor.Role != workflow.RoleAdmin && actor.DepartmentID != nil {
		repoFilter.DepartmentID = actor.DepartmentID
	}
	list, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListEvents returns the audit trail for staff within scope.
func (s *ComplaintService) ListEvents(ctx context.Context, actor workflow.Actor, complaintID string) ([]domain.ComplaintEvent, error) {
	complaint, err := s.loadComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !staffCanAccess(actor, complaint) {
		return nil, apperrors.NewForbidden("complaint belongs to another department")
	}
	entries, err := s.eventLog.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *ComplaintService) loadComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) withEvents(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	entries, err := s.eventLog.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	complaint.Events = entries
	return complaint, nil
}

// resolveSuggestedDepartment maps the heuristic's department name to a real,
// active department. The suggestion is advisory: an unknown or inactive
// department simply leaves the complaint unrouted for manual triage.
func (s *ComplaintService) resolveSuggestedDepartment(ctx context.Context, name string) *string {
	if name == "" || name == "Other" {
		return nil
	}
	dept, err := s.departments.GetByName(ctx, name)
	if err != nil || !dept.IsActive {
		return nil
	}
	return &dept.ID
}

func (s *ComplaintService) publishTransitionEvents(ctx context.Context, actor workflow.Actor, complaint *domain.Complaint, oldStatus, newStatus domain.ComplaintStatus, note string) {
	s.publish(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       workflowActor(actor),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Note:      note,
		},
	})
	switch newStatus {
	case domain.StatusResolved:
		s.publish(ctx, events.Event{
			Type:        events.EventComplaintResolved,
			ComplaintID: complaint.ID,
			Actor:       workflowActor(actor),
			Payload: events.ComplaintResolvedPayload{
				TrackingCode:   complaint.TrackingCode,
				ResolutionNote: complaint.ResolutionNote,
				ContactEmail:   complaint.ContactEmail,
			},
		})
	case domain.StatusEscalated:
		s.publish(ctx, events.Event{
			Type:        events.EventComplaintEscalated,
			ComplaintID: complaint.ID,
			Actor:       workflowActor(actor),
			Payload: events.ComplaintEscalatedPayload{
				TrackingCode:    complaint.TrackingCode,
				DepartmentID:    complaint.DepartmentID,
				EscalationCount: complaint.EscalationCount,
			},
		})
	}
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// staffCanAccess mirrors the workflow's department scoping for reads.
func staffCanAccess(actor workflow.Actor, complaint *domain.Complaint) bool {
	switch actor.Role {
	case workflow.RoleAdmin:
		return true
	case workflow.RoleDepartment, workflow.RoleDepartmentAdmin:
		if complaint.DepartmentID == nil {
			return true
		}
		return actor.DepartmentID != nil && *actor.DepartmentID == *complaint.DepartmentID
	default:
		return false
	}
}

func citizenActor(userID *string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, UserID: userID}
}

func workflowActor(actor workflow.Actor) events.Actor {
	id := actor.ID
	if actor.Role == workflow.RoleCitizen {
		return events.Actor{Type: domain.SubjectTypeUser, UserID: &id}
	}
	return events.Actor{Type: domain.SubjectTypeStaff, StaffID: &id}
}
