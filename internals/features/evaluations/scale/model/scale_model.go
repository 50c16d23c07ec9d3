package model

import (
	"time"

	userModel "evalku_backend/internals/features/users/user/model"
)

// ScaleModel is a reusable rubric of weighted criteria. Deleting a
// scale is blocked by the evaluations FK (RESTRICT); criteria go down
// with their scale (CASCADE).
type ScaleModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"size:500" json:"description,omitempty"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Creator  *userModel.UserModel `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	Criteria []CriteriaModel      `gorm:"foreignKey:ScaleID" json:"criteria,omitempty"`
}

func (ScaleModel) TableName() string {
	return "scales"
}
