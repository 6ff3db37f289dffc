package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-stack/grievance-service/internal/api/http/handlers"
	"github.com/civic-stack/grievance-service/internal/auth"
	"github.com/civic-stack/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Staff           *handlers.StaffHandler
	Departments     *handlers.DepartmentsHandler
	Complaints      *handlers.ComplaintsHandler
	StaffComplaints *handlers.StaffComplaintsHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protectedAuth.Post("/password/change", cfg.Staff.ChangePassword)

	// Submission accepts anonymous complaints, so authentication is optional
	// on this one route.
	app.Post("/complaints", cfg.AuthMiddleware.HandleOptional, cfg.Complaints.CreateComplaint)
	app.Get("/track/:code", cfg.Complaints.TrackComplaint)
	app.Get("/departments", cfg.Departments.ListDepartments)

	citizen := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireUser())
	citizen.Get("", cfg.Complaints.ListComplaints)
	citizen.Get("/:id", cfg.Complaints.GetComplaint)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(
		domain.StaffRoleOfficer, domain.StaffRoleDepartmentAdmin, domain.StaffRoleAdmin))
	staff.Get("/complaints", cfg.StaffComplaints.ListComplaints)
	staff.Get("/complaints/:id", cfg.StaffComplaints.GetComplaint)
	staff.Get("/complaints/:id/events", cfg.StaffComplaints.ListEvents)
	staff.Patch("/complaints/:id/status", cfg.StaffComplaints.UpdateStatus)
	staff.Patch("/complaints/:id/assignee", cfg.StaffComplaints.AssignComplaint)
	staff.Get("/members", cfg.Staff.ListStaff)
}
