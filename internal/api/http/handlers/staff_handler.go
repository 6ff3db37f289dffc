package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/dto"
	"github.com/civic-stack/grievance-service/internal/auth"
	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/repository"
	"github.com/civic-stack/grievance-service/internal/service"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// StaffHandler manages staff authentication and the staff directory.
type StaffHandler struct {
	auth  *service.AuthService
	staff repository.StaffRepository
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffRepo repository.StaffRepository) *StaffHandler {
	return &StaffHandler{auth: authService, staff: staffRepo}
}

// Login POST /staff/auth/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, token, exp, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		Subject: dto.Subject{
			ID:    staff.ID,
			Name:  staff.Name,
			Email: staff.Email,
			Type:  string(domain.SubjectTypeStaff),
			Role:  string(staff.Role),
		},
	}})
}

// RequestPasswordReset POST /auth/password-reset. Always returns 202 so the
// endpoint does not leak which emails have accounts.
func (h *StaffHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			return err
		}
		// Unknown address. Answer as if a token was issued.
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "accepted"}})
}

// ConfirmPasswordReset POST /auth/password-reset/confirm.
func (h *StaffHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reset"}})
}

// ChangePassword POST /auth/password. Works for both citizens and staff.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subject := service.AuthSubject{Type: principal.SubjectType}
	if principal.User != nil {
		subject.ID = principal.User.ID
	} else if principal.Staff != nil {
		subject.ID = principal.Staff.ID
	}
	if err := h.auth.ChangePassword(c.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "changed"}})
}

// ListStaff GET /staff/members. Department admins see their own department;
// admins may filter across all of them.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff account required")
	}

	filter := repository.StaffFilter{}
	if dept := c.Query("department_id"); dept != "" {
		filter.DepartmentID = &dept
	}
	if principal.Staff.Role != domain.StaffRoleAdmin {
		filter.DepartmentID = principal.Staff.DepartmentID
	}
	if roleName := c.Query("role"); roleName != "" {
		role := domain.StaffRole(roleName)
		filter.Role = &role
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parsePageSize(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	members, err := h.staff.List(c.Context(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.StaffMemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, dto.StaffMemberResponse{
			ID:           member.ID,
			Name:         member.Name,
			Email:        member.Email,
			Role:         string(member.Role),
			DepartmentID: member.DepartmentID,
			Active:       member.Active,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
