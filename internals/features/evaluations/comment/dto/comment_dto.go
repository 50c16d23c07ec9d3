package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	scaleDTO "evalku_backend/internals/features/evaluations/scale/dto"
)

var validate = validator.New()

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r *CreateCommentRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

func (r *UpdateCommentRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r *UpdateCommentRequest) Validate() error {
	return validate.Struct(r)
}

type CommentResponse struct {
	ID           uint                  `json:"id"`
	EvaluationID uint                  `json:"evaluation_id"`
	TeacherID    uint                  `json:"teacher_id"`
	Text         string                `json:"text"`
	Teacher      *scaleDTO.UserSummary `json:"teacher,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func NewCommentResponse(m *commentModel.CommentModel) CommentResponse {
	return CommentResponse{
		ID:           m.ID,
		EvaluationID: m.EvaluationID,
		TeacherID:    m.TeacherID,
		Text:         m.Text,
		Teacher:      scaleDTO.NewUserSummary(m.Teacher),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
