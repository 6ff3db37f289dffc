package workflow

import "github.com/civic-stack/grievance-service/internal/domain"

// Role enumerates the capability classes the workflow distinguishes.
type Role string

const (
	RoleCitizen         Role = "citizen"
	RoleDepartment      Role = "department"
	RoleDepartmentAdmin Role = "department_admin"
	RoleAdmin           Role = "admin"
)

// Actor identifies who is invoking a workflow operation. It is always passed
// explicitly; the workflow never reads identity out of ambient request state.
// DepartmentID is set for department-affiliated roles and nil otherwise.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID *string
}

// ActorForStaff derives the workflow actor for an authenticated staff member.
func ActorForStaff(staff *domain.StaffMember) Actor {
	actor := Actor{ID: staff.ID, DepartmentID: staff.DepartmentID}
	switch staff.Role {
	case domain.StaffRoleAdmin:
		actor.Role = RoleAdmin
	case domain.StaffRoleDepartmentAdmin:
		actor.Role = RoleDepartmentAdmin
	default:
		actor.Role = RoleDepartment
	}
	return actor
}

// ActorForUser derives the workflow actor for an authenticated citizen.
func ActorForUser(user *domain.User) Actor {
	return Actor{ID: user.ID, Role: RoleCitizen}
}

func (a Actor) staff() bool {
	return a.Role == RoleDepartment || a.Role == RoleDepartmentAdmin || a.Role == RoleAdmin
}

// sameDepartment reports whether the actor may act on a complaint routed to
// the given department. Admins act anywhere; department roles are bound to
// their own department. A complaint with no department yet is open to any
// staff member, since triage is what sets the department.
func (a Actor) sameDepartment(departmentID *string) bool {
	if a.Role == RoleAdmin {
		return true
	}
	if departmentID == nil {
		return true
	}
	return a.DepartmentID != nil && *a.DepartmentID == *departmentID
}
