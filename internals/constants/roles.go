package constants

import "fmt"

// Role is the closed set of account roles. Parse at the boundary,
// never compare raw request strings elsewhere.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// UserStatus marks an account active or deactivated. Users are never
// physically deleted, only switched to inactive.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserActive, UserInactive:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

// ==========================
// Grouped role slices (route guards)
// ==========================
var (
	AllRoles = []Role{
		RoleStudent,
		RoleTeacher,
		RoleAdmin,
	}

	TeacherAndAdmin = []Role{
		RoleTeacher,
		RoleAdmin,
	}

	TeacherOnly = []Role{
		RoleTeacher,
	}

	AdminOnly = []Role{
		RoleAdmin,
	}
)
