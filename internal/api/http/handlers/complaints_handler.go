package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/dto"
	"github.com/civic-stack/grievance-service/internal/auth"
	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/service"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// ComplaintsHandler manages citizen-facing complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints. Works both authenticated and anonymous;
// anonymous submissions must carry a contact email.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ComplaintCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Category:     req.Category,
		DepartmentID: req.DepartmentID,
	}
	if req.Priority != "" {
		priority, ok := domain.ParsePriority(req.Priority)
		if !ok {
			return apperrors.NewValidationError("unknown priority", map[string]any{"priority": req.Priority})
		}
		input.Priority = priority
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		input.SubmitterID = &principal.User.ID
		if input.ContactEmail == "" {
			input.ContactEmail = principal.User.Email
		}
	}

	complaint, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintDetail(complaint)})
}

// TrackComplaint GET /track/:code. Public: possession of the tracking code
// is the capability.
func (h *ComplaintsHandler) TrackComplaint(c *fiber.Ctx) error {
	complaint, err := h.service.GetByTrackingCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingView(complaint)})
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("citizen account required")
	}
	filter := parseCitizenFilter(c)
	complaints, err := h.service.ListForCitizen(c.Context(), principal.User.ID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetComplaint GET /complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("citizen account required")
	}
	complaint, err := h.service.GetForCitizen(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint)})
}

func parseCitizenFilter(c *fiber.Ctx) service.ComplaintCitizenFilter {
	filter := service.ComplaintCitizenFilter{}
	filter.Statuses = parseStatusList(c.Query("status"))
	filter.Priorities = parsePriorityList(c.Query("priority"))
	page := parseInt(c.Query("page"), 1)
	pageSize := parsePageSize(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseStatusList(raw string) []domain.ComplaintStatus {
	if raw == "" {
		return nil
	}
	var statuses []domain.ComplaintStatus
	for _, part := range strings.Split(raw, ",") {
		if status, ok := domain.ParseStatus(part); ok {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func parsePriorityList(raw string) []domain.ComplaintPriority {
	if raw == "" {
		return nil
	}
	var priorities []domain.ComplaintPriority
	for _, part := range strings.Split(raw, ",") {
		if priority, ok := domain.ParsePriority(part); ok {
			priorities = append(priorities, priority)
		}
	}
	return priorities
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// maxPageSize bounds the LIMIT a caller can request through page_size.
const maxPageSize = 100

func parsePageSize(val string, def int) int {
	size := parseInt(val, def)
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:           complaint.ID,
		TrackingCode: complaint.TrackingCode,
		DepartmentID: complaint.DepartmentID,
		AssigneeID:   complaint.AssigneeID,
		Category:     complaint.Category,
		Title:        complaint.Title,
		Status:       complaint.Status,
		Priority:     complaint.Priority,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
	}
}

func complaintDetail(complaint *domain.Complaint) dto.ComplaintDetailResponse {
	return dto.ComplaintDetailResponse{
		ID:              complaint.ID,
		TrackingCode:    complaint.TrackingCode,
		DepartmentID:    complaint.DepartmentID,
		AssigneeID:      complaint.AssigneeID,
		Category:        complaint.Category,
		Title:           complaint.Title,
		Description:     complaint.Description,
		Location:        complaint.Location,
		Status:          complaint.Status,
		Priority:        complaint.Priority,
		ResolutionNote:  complaint.ResolutionNote,
		ResolvedAt:      complaint.ResolvedAt,
		EscalationCount: complaint.EscalationCount,
		CreatedAt:       complaint.CreatedAt,
		UpdatedAt:       complaint.UpdatedAt,
		Events:          eventResponses(complaint.Events),
	}
}

func trackingView(complaint *domain.Complaint) dto.TrackingResponse {
	return dto.TrackingResponse{
		TrackingCode:   complaint.TrackingCode,
		Title:          complaint.Title,
		Status:         complaint.Status,
		Priority:       complaint.Priority,
		ResolutionNote: complaint.ResolutionNote,
		ResolvedAt:     complaint.ResolvedAt,
		CreatedAt:      complaint.CreatedAt,
		UpdatedAt:      complaint.UpdatedAt,
		Events:         eventResponses(complaint.Events),
	}
}

func eventResponses(entries []domain.ComplaintEvent) []dto.ComplaintEventResponse {
	resp := make([]dto.ComplaintEventResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ComplaintEventResponse{
			ID:         entry.ID,
			Kind:       entry.Kind,
			Status:     entry.Status,
			AssigneeID: entry.AssigneeID,
			ActorID:    entry.ActorID,
			Note:       entry.Note,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
