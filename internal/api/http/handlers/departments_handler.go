package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/dto"
	"github.com/civic-stack/grievance-service/internal/repository"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// DepartmentsHandler exposes the public department directory used by the
// submission form.
type DepartmentsHandler struct {
	departments repository.DepartmentRepository
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments repository.DepartmentRepository) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// ListDepartments GET /departments.
func (h *DepartmentsHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.ListActive(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		items = append(items, dto.DepartmentResponse{
			ID:          dept.ID,
			Name:        dept.Name,
			Description: dept.Description,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
