package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
)

var validate = validator.New()

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateCriteriaRequest struct {
	Description     string  `json:"description" validate:"required,min=2,max=200"`
	AssociatedSkill string  `json:"associated_skill" validate:"required,min=2,max=100"`
	MaxPoints       float64 `json:"max_points" validate:"required,gt=0,lte=100"`
	Coefficient     float64 `json:"coefficient" validate:"gte=0,lte=1"`
}

func (r *CreateCriteriaRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	r.AssociatedSkill = strings.TrimSpace(r.AssociatedSkill)
}

func (r *CreateCriteriaRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateCriteriaRequest) ToModel(scaleID uint) scaleModel.CriteriaModel {
	return scaleModel.CriteriaModel{
		Description:     r.Description,
		AssociatedSkill: r.AssociatedSkill,
		MaxPoints:       r.MaxPoints,
		Coefficient:     r.Coefficient,
		ScaleID:         scaleID,
	}
}

type CreateScaleRequest struct {
	Title       string                  `json:"title" validate:"required,min=2,max=100"`
	Description *string                 `json:"description,omitempty" validate:"omitempty,min=2,max=500"`
	Criteria    []CreateCriteriaRequest `json:"criteria" validate:"required,min=1,dive"`
}

func (r *CreateScaleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
	for i := range r.Criteria {
		r.Criteria[i].Normalize()
	}
}

func (r *CreateScaleRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateScaleRequest is a partial update. A non-nil Criteria slice
// replaces the whole criteria set (all-or-nothing).
type UpdateScaleRequest struct {
	Title       *string                 `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string                 `json:"description,omitempty" validate:"omitempty,min=2,max=500"`
	Criteria    []CreateCriteriaRequest `json:"criteria,omitempty" validate:"omitempty,min=1,dive"`
}

func (r *UpdateScaleRequest) Normalize() {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
	for i := range r.Criteria {
		r.Criteria[i].Normalize()
	}
}

func (r *UpdateScaleRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateCriteriaRequest struct {
	Description     *string  `json:"description,omitempty" validate:"omitempty,min=2,max=200"`
	AssociatedSkill *string  `json:"associated_skill,omitempty" validate:"omitempty,min=2,max=100"`
	MaxPoints       *float64 `json:"max_points,omitempty" validate:"omitempty,gt=0,lte=100"`
	Coefficient     *float64 `json:"coefficient,omitempty" validate:"omitempty,gte=0,lte=1"`
}

func (r *UpdateCriteriaRequest) Normalize() {
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
	if r.AssociatedSkill != nil {
		v := strings.TrimSpace(*r.AssociatedSkill)
		r.AssociatedSkill = &v
	}
}

func (r *UpdateCriteriaRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateCriteriaRequest) ApplyToModel(m *scaleModel.CriteriaModel) {
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.AssociatedSkill != nil {
		m.AssociatedSkill = *r.AssociatedSkill
	}
	if r.MaxPoints != nil {
		m.MaxPoints = *r.MaxPoints
	}
	if r.Coefficient != nil {
		m.Coefficient = *r.Coefficient
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	Description *string `json:"description,omitempty"`
}

func NewUserSummary(u *userModel.UserModel) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		Description: u.Description,
	}
}

type CriteriaResponse struct {
	ID              uint      `json:"id"`
	Description     string    `json:"description"`
	AssociatedSkill string    `json:"associated_skill"`
	MaxPoints       float64   `json:"max_points"`
	Coefficient     float64   `json:"coefficient"`
	ScaleID         uint      `json:"scale_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewCriteriaResponse(m *scaleModel.CriteriaModel) CriteriaResponse {
	return CriteriaResponse{
		ID:              m.ID,
		Description:     m.Description,
		AssociatedSkill: m.AssociatedSkill,
		MaxPoints:       m.MaxPoints,
		Coefficient:     m.Coefficient,
		ScaleID:         m.ScaleID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type ScaleResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	CreatorID   uint               `json:"creator_id"`
	Creator     *UserSummary       `json:"creator,omitempty"`
	Criteria    []CriteriaResponse `json:"criteria,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func NewScaleResponse(m *scaleModel.ScaleModel) ScaleResponse {
	resp := ScaleResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatorID:   m.CreatorID,
		Creator:     NewUserSummary(m.Creator),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.Criteria {
		resp.Criteria = append(resp.Criteria, NewCriteriaResponse(&m.Criteria[i]))
	}
	return resp
}
