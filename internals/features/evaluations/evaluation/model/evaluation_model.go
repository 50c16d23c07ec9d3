package model

import (
	"time"

	"evalku_backend/internals/constants"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
)

// EvaluationModel grades one student by one teacher against one scale.
// Rows always start in draft; the lifecycle is draft → published →
// archived and nothing else.
type EvaluationModel struct {
	ID        uint                       `gorm:"primaryKey" json:"id"`
	Title     string                     `gorm:"size:100;not null" json:"title"`
	DateEval  time.Time                  `gorm:"type:date;not null" json:"date_eval"`
	StudentID uint                       `gorm:"not null;index" json:"student_id"`
	TeacherID uint                       `gorm:"not null;index" json:"teacher_id"`
	ScaleID   uint                       `gorm:"not null;index" json:"scale_id"`
	Status    constants.EvaluationStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt time.Time                  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`

	Student *userModel.UserModel   `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"student,omitempty"`
	Teacher *userModel.UserModel   `gorm:"foreignKey:TeacherID;constraint:OnDelete:RESTRICT" json:"teacher,omitempty"`
	Scale   *scaleModel.ScaleModel `gorm:"foreignKey:ScaleID;constraint:OnDelete:RESTRICT" json:"scale,omitempty"`
}

func (EvaluationModel) TableName() string {
	return "evaluations"
}
