package model

import "time"

// CriteriaModel is one weighted grading dimension of a scale.
// MaxPoints becomes immutable as soon as a grade references the row.
type CriteriaModel struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Description     string    `gorm:"size:200;not null" json:"description"`
	AssociatedSkill string    `gorm:"size:100;not null" json:"associated_skill"`
	MaxPoints       float64   `gorm:"not null" json:"max_points"`
	Coefficient     float64   `gorm:"not null" json:"coefficient"`
	ScaleID         uint      `gorm:"not null;index" json:"scale_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Scale *ScaleModel `gorm:"foreignKey:ScaleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CriteriaModel) TableName() string {
	return "criteria"
}

// CoefficientSum totals the weights of a criteria set.
func CoefficientSum(criteria []CriteriaModel) float64 {
	var sum float64
	for _, c := range criteria {
		sum += c.Coefficient
	}
	return sum
}

// CoefficientEpsilon absorbs float artifacts when checking the ≤ 1 rule.
const CoefficientEpsilon = 1e-9
