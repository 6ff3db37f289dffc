package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/dto"
	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/service"
	apperrors "github.com/civic-stack/grievance-service/pkg/util"
)

// UsersHandler manages citizen registration and login.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userAuthResponse(user, token, exp)})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userAuthResponse(user, token, exp)})
}

func userAuthResponse(user *domain.User, token string, exp time.Time) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		Subject: dto.Subject{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Type:  string(domain.SubjectTypeUser),
		},
	}
}
