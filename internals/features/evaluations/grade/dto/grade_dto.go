package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleDTO "evalku_backend/internals/features/evaluations/scale/dto"
)

var validate = validator.New()

type CreateGradeRequest struct {
	CriteriaID uint    `json:"criteria_id" validate:"required,gt=0"`
	Value      float64 `json:"value" validate:"gte=0"`
}

func (r *CreateGradeRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateGradeRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0"`
}

func (r *UpdateGradeRequest) Validate() error {
	return validate.Struct(r)
}

type GradeResponse struct {
	ID           uint                       `json:"id"`
	EvaluationID uint                       `json:"evaluation_id"`
	CriteriaID   uint                       `json:"criteria_id"`
	Value        float64                    `json:"value"`
	Criteria     *scaleDTO.CriteriaResponse `json:"criteria,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func NewGradeResponse(g *gradeModel.GradeModel) GradeResponse {
	resp := GradeResponse{
		ID:           g.ID,
		EvaluationID: g.EvaluationID,
		CriteriaID:   g.CriteriaID,
		Value:        g.Value,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if g.Criteria != nil {
		cr := scaleDTO.NewCriteriaResponse(g.Criteria)
		resp.Criteria = &cr
	}
	return resp
}
