package model

import (
	"time"

	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	userModel "evalku_backend/internals/features/users/user/model"
)

// CommentModel is teacher-authored feedback on an evaluation. The
// author is always the evaluation's assigned teacher.
type CommentModel struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EvaluationID uint      `gorm:"not null;index" json:"evaluation_id"`
	TeacherID    uint      `gorm:"not null;index" json:"teacher_id"`
	Text         string    `gorm:"size:1000;not null" json:"text"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Evaluation *evaluationModel.EvaluationModel `gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE" json:"-"`
	Teacher    *userModel.UserModel             `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (CommentModel) TableName() string {
	return "comments"
}
