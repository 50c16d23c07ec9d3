package helperAuth

import (
	"github.com/gofiber/fiber/v2"

	"evalku_backend/internals/constants"
	apperror "evalku_backend/internals/helpers/errors"
)

// Locals keys set by the auth middleware.
const (
	LocUserID    = "user_id"
	LocUserEmail = "user_email"
	LocUserRole  = "user_role"
)

// Principal is the authenticated caller as seen by every handler and
// authorization predicate.
type Principal struct {
	ID    uint
	Email string
	Role  constants.Role
}

func (p Principal) IsAdmin() bool   { return p.Role == constants.RoleAdmin }
func (p Principal) IsTeacher() bool { return p.Role == constants.RoleTeacher }
func (p Principal) IsStudent() bool { return p.Role == constants.RoleStudent }

// GetPrincipal reads the principal stored by the auth middleware.
func GetPrincipal(c *fiber.Ctx) (Principal, error) {
	id, ok := c.Locals(LocUserID).(uint)
	if !ok || id == 0 {
		return Principal{}, apperror.Unauthorized("Authentication required")
	}
	email, _ := c.Locals(LocUserEmail).(string)
	role, ok := c.Locals(LocUserRole).(constants.Role)
	if !ok {
		return Principal{}, apperror.Unauthorized("Authentication required")
	}
	return Principal{ID: id, Email: email, Role: role}, nil
}

// SetPrincipal stores the principal; called by the auth middleware only.
func SetPrincipal(c *fiber.Ctx, p Principal) {
	c.Locals(LocUserID, p.ID)
	c.Locals(LocUserEmail, p.Email)
	c.Locals(LocUserRole, p.Role)
}
