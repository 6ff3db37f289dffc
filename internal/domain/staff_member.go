package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleOfficer         StaffRole = "OFFICER"
	StaffRoleDepartmentAdmin StaffRole = "DEPARTMENT_ADMIN"
	StaffRoleAdmin           StaffRole = "ADMIN"
)

// StaffMember models a department officer or administrator. DepartmentID is
// nil only for system-wide admins.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	DepartmentID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
