package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	userModel "evalku_backend/internals/features/users/user/model"
)

var validate = validator.New()

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateUserRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	Role        string  `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
}

func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateUserRequest is a partial update. Role and Status only take
// effect for admin callers; the controller strips them otherwise.
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Role))
		r.Role = &v
	}
	if r.Status != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
}

func (r *UpdateUserRequest) Validate() error {
	return validate.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewUserResponse(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
