package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/users/auth/blacklist"
	"evalku_backend/internals/features/users/user/dto"
	"evalku_backend/internals/features/users/user/service"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

type UserController struct {
	Service   *service.UserService
	Blacklist blacklist.Store
}

func NewUserController(db *gorm.DB, store blacklist.Store) *UserController {
	return &UserController{
		Service:   service.NewUserService(db, store),
		Blacklist: store,
	}
}

// POST /api/users/register — public; always creates a student. Role
// escalation only happens through the admin endpoint.
func (uc *UserController) Register(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := uc.Service.CreateUser(c.UserContext(), &req, constants.RoleStudent)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] user %d registered", user.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "User registered successfully", dto.NewUserResponse(user))
}

// POST /api/users — admin only; may set any role.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	role := constants.RoleStudent
	if req.Role != "" {
		parsed, err := constants.ParseRole(req.Role)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid role")
		}
		role = parsed
	}

	user, err := uc.Service.CreateUser(c.UserContext(), &req, role)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] user %d created with role %s", user.ID, role)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "User created successfully", dto.NewUserResponse(user))
}

// GET /api/users — admin sees everyone; teachers only see students
// (they need the list to assign evaluations).
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var roleFilter *constants.Role
	switch {
	case p.IsAdmin():
		if v := c.Query("role"); v != "" {
			parsed, err := constants.ParseRole(v)
			if err != nil {
				return helper.Error(c, fiber.StatusBadRequest, "Invalid role filter")
			}
			roleFilter = &parsed
		}
	case p.IsTeacher():
		student := constants.RoleStudent
		roleFilter = &student
	default:
		return helper.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	users, total, err := uc.Service.GetUsers(c.UserContext(), roleFilter, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return helper.Success(c, "Users fetched successfully", fiber.Map{
		"users":      items,
		"pagination": helper.BuildPagination(paging, total),
	})
}

// GET /api/users/:id — self, admin, or a teacher looking at a student.
func (uc *UserController) GetUserByID(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	user, err := uc.Service.GetUserByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}

	allowed := p.IsAdmin() || p.ID == user.ID ||
		(p.IsTeacher() && user.Role == constants.RoleStudent)
	if !allowed {
		return helper.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}
	return helper.Success(c, "User fetched successfully", dto.NewUserResponse(user))
}

// PUT /api/users/:id — self or admin. Non-admins cannot touch role or
// status.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}
	if !p.IsAdmin() && p.ID != uint(id) {
		return helper.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if !p.IsAdmin() {
		req.Role = nil
		req.Status = nil
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := uc.Service.UpdateUser(c.UserContext(), uint(id), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] user %d updated by user %d", id, p.ID)
	return helper.Success(c, "User updated successfully", dto.NewUserResponse(user))
}

// DELETE /api/users/:id — self or admin. Deactivates instead of
// deleting and kills every session of the account; a self-delete also
// revokes the token that carried the request.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user ID")
	}
	if !p.IsAdmin() && p.ID != uint(id) {
		return helper.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}

	if err := uc.Service.DeactivateUser(c.UserContext(), uint(id)); err != nil {
		return helper.FromAppError(c, err)
	}
	if p.ID == uint(id) {
		uc.Blacklist.Revoke(helper.GetRawAccessToken(c))
	}

	log.Printf("[INFO] user %d deactivated by user %d", id, p.ID)
	return helper.Success(c, "User deactivated successfully", nil)
}
