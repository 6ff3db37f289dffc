package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/dto"
	"github.com/civic-stack/grievance-service/internal/auth"
	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/service"
	"github.com/civic-stack/grievance-service/internal/workflow"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// StaffComplaintsHandler manages the staff complaint workspace: queue
// listing, status transitions, and assignment.
type StaffComplaintsHandler struct {
	complaints  *service.ComplaintService
	assignments *service.AssignmentService
}

// NewStaffComplaintsHandler constructs handler.
func NewStaffComplaintsHandler(complaints *service.ComplaintService, assignments *service.AssignmentService) *StaffComplaintsHandler {
	return &StaffComplaintsHandler{complaints: complaints, assignments: assignments}
}

// ListComplaints GET /staff/complaints.
func (h *StaffComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	actor, err := staffActor(c)
	if err != nil {
		return err
	}
	complaints, err := h.complaints.ListForStaff(c.Context(), actor, parseStaffFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetComplaint GET /staff/complaints/:id.
func (h *StaffComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	actor, err := staffActor(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.GetForStaff(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint)})
}

// UpdateStatus PATCH /staff/complaints/:id/status.
func (h *StaffComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := staffActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target, ok := domain.ParseStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	complaint, err := h.complaints.Transition(c.Context(), actor, c.Params("id"), target, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint)})
}

// AssignComplaint PATCH /staff/complaints/:id/assignee.
func (h *StaffComplaintsHandler) AssignComplaint(c *fiber.Ctx) error {
	actor, err := staffActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id is required", nil)
	}
	complaint, err := h.assignments.Assign(c.Context(), actor, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint)})
}

// ListEvents GET /staff/complaints/:id/events.
func (h *StaffComplaintsHandler) ListEvents(c *fiber.Ctx) error {
	actor, err := staffActor(c)
	if err != nil {
		return err
	}
	entries, err := h.complaints.ListEvents(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponses(entries)})
}

func staffActor(c *fiber.Ctx) (workflow.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return workflow.Actor{}, apperrors.NewUnauthorized("staff account required")
	}
	return principal.Actor(), nil
}

func parseStaffFilter(c *fiber.Ctx) service.ComplaintStaffFilter {
	filter := service.ComplaintStaffFilter{}
	if dept := c.Query("department_id"); dept != "" {
		filter.DepartmentID = &dept
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}
	filter.Statuses = parseStatusList(c.Query("status"))
	filter.Priorities = parsePriorityList(c.Query("priority"))
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))
	filter.UpdatedFrom = parseTime(c.Query("updated_from"))
	filter.UpdatedTo = parseTime(c.Query("updated_to"))
	page := parseInt(c.Query("page"), 1)
	pageSize := parsePageSize(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}
