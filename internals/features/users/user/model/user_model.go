package model

import (
	"time"

	"evalku_backend/internals/constants"
)

// UserModel maps the users table. Accounts are deactivated, never
// deleted, so historical evaluations keep their references.
type UserModel struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Name        string               `gorm:"size:100;not null" json:"name"`
	Email       string               `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string               `gorm:"not null" json:"-"`
	Role        constants.Role       `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Status      constants.UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Description *string              `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) IsActive() bool {
	return u.Status == constants.UserActive
}
