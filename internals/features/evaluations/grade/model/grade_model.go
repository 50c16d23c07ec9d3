package model

import (
	"time"

	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
)

// GradeModel records the value of one criteria within one evaluation.
// The unique index keeps at most one grade per (evaluation, criteria).
type GradeModel struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EvaluationID uint      `gorm:"not null;uniqueIndex:idx_grades_evaluation_criteria" json:"evaluation_id"`
	CriteriaID   uint      `gorm:"not null;uniqueIndex:idx_grades_evaluation_criteria" json:"criteria_id"`
	Value        float64   `gorm:"not null" json:"value"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Evaluation *evaluationModel.EvaluationModel `gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE" json:"-"`
	Criteria   *scaleModel.CriteriaModel        `gorm:"foreignKey:CriteriaID" json:"criteria,omitempty"`
}

func (GradeModel) TableName() string {
	return "grades"
}
