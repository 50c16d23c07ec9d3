package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evalku_backend/internals/features/evaluations/scale/dto"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// ScaleService owns the scale/criteria invariants: coefficient sums
// stay ≤ 1 and criteria stay structurally frozen once evaluations or
// grades depend on them.
type ScaleService struct {
	DB *gorm.DB
}

func NewScaleService(db *gorm.DB) *ScaleService {
	return &ScaleService{DB: db}
}

func exceedsCoefficientBudget(sum float64) bool {
	return sum > 1+scaleModel.CoefficientEpsilon
}

// CreateScale creates the scale and its criteria atomically.
func (s *ScaleService) CreateScale(ctx context.Context, creatorID uint, req *dto.CreateScaleRequest) (*scaleModel.ScaleModel, error) {
	var sum float64
	for _, c := range req.Criteria {
		sum += c.Coefficient
	}
	if exceedsCoefficientBudget(sum) {
		return nil, apperror.Validation("Total coefficient of criteria cannot exceed 1")
	}

	scale := scaleModel.ScaleModel{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   creatorID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scale).Error; err != nil {
			return apperror.Internal("Failed to create scale")
		}
		criteria := make([]scaleModel.CriteriaModel, 0, len(req.Criteria))
		for _, c := range req.Criteria {
			criteria = append(criteria, c.ToModel(scale.ID))
		}
		if err := tx.Create(&criteria).Error; err != nil {
			return apperror.Internal("Failed to create criteria")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetScaleByID(ctx, scale.ID)
}

// GetScales lists scales newest-first; creatorID filters to one owner.
func (s *ScaleService) GetScales(ctx context.Context, creatorID *uint, offset, limit int) ([]scaleModel.ScaleModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&scaleModel.ScaleModel{})
	if creatorID != nil {
		q = q.Where("creator_id = ?", *creatorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("Failed to count scales")
	}

	var scales []scaleModel.ScaleModel
	err := q.
		Preload("Creator").
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("criteria.id ASC") }).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&scales).Error
	if err != nil {
		return nil, 0, apperror.Internal("Failed to retrieve scales")
	}
	return scales, total, nil
}

func (s *ScaleService) GetScaleByID(ctx context.Context, id uint) (*scaleModel.ScaleModel, error) {
	var scale scaleModel.ScaleModel
	err := s.DB.WithContext(ctx).
		Preload("Creator").
		Preload("Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("criteria.id ASC") }).
		First(&scale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Scale not found")
		}
		return nil, apperror.Internal("Failed to retrieve scale")
	}
	return &scale, nil
}

// UpdateScale patches title/description; a supplied criteria set
// replaces the existing one wholesale, which is forbidden once the
// scale is referenced by any evaluation.
func (s *ScaleService) UpdateScale(ctx context.Context, id uint, req *dto.UpdateScaleRequest) (*scaleModel.ScaleModel, error) {
	scale, err := s.GetScaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Criteria != nil {
			var evalCount int64
			if err := tx.Table("evaluations").Where("scale_id = ?", id).Count(&evalCount).Error; err != nil {
				return apperror.Internal("Failed to check scale usage")
			}
			if evalCount > 0 {
				return apperror.Conflict("Cannot modify criteria of a scale that is already used in evaluations")
			}

			var sum float64
			for _, c := range req.Criteria {
				sum += c.Coefficient
			}
			if exceedsCoefficientBudget(sum) {
				return apperror.Validation("Total coefficient of criteria cannot exceed 1")
			}

			if err := tx.Where("scale_id = ?", id).Delete(&scaleModel.CriteriaModel{}).Error; err != nil {
				return apperror.Internal("Failed to replace criteria")
			}
			criteria := make([]scaleModel.CriteriaModel, 0, len(req.Criteria))
			for _, c := range req.Criteria {
				criteria = append(criteria, c.ToModel(id))
			}
			if err := tx.Create(&criteria).Error; err != nil {
				return apperror.Internal("Failed to replace criteria")
			}
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(&scaleModel.ScaleModel{}).Where("id = ?", scale.ID).Updates(updates).Error; err != nil {
				return apperror.Internal("Failed to update scale")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetScaleByID(ctx, id)
}

// DeleteScale refuses while any evaluation references the scale.
func (s *ScaleService) DeleteScale(ctx context.Context, id uint) error {
	if _, err := s.GetScaleByID(ctx, id); err != nil {
		return err
	}

	var evalCount int64
	if err := s.DB.WithContext(ctx).Table("evaluations").Where("scale_id = ?", id).Count(&evalCount).Error; err != nil {
		return apperror.Internal("Failed to check scale usage")
	}
	if evalCount > 0 {
		return apperror.Conflict("Cannot delete scale: it is being used in evaluations")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scale_id = ?", id).Delete(&scaleModel.CriteriaModel{}).Error; err != nil {
			return apperror.Internal("Failed to delete scale")
		}
		if err := tx.Delete(&scaleModel.ScaleModel{}, id).Error; err != nil {
			return apperror.Internal("Failed to delete scale")
		}
		return nil
	})
}

// AddCriteria appends one criteria, keeping the coefficient budget.
func (s *ScaleService) AddCriteria(ctx context.Context, scaleID uint, req *dto.CreateCriteriaRequest) (*scaleModel.CriteriaModel, error) {
	var scale scaleModel.ScaleModel
	if err := s.DB.WithContext(ctx).First(&scale, "id = ?", scaleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Scale not found")
		}
		return nil, apperror.Internal("Failed to retrieve scale")
	}

	var existing []scaleModel.CriteriaModel
	if err := s.DB.WithContext(ctx).Where("scale_id = ?", scaleID).Find(&existing).Error; err != nil {
		return nil, apperror.Internal("Failed to retrieve criteria")
	}
	if exceedsCoefficientBudget(scaleModel.CoefficientSum(existing) + req.Coefficient) {
		return nil, apperror.Validation("Total coefficient cannot exceed 1")
	}

	criteria := req.ToModel(scaleID)
	if err := s.DB.WithContext(ctx).Create(&criteria).Error; err != nil {
		return nil, apperror.Internal("Failed to create criteria")
	}
	return &criteria, nil
}

func (s *ScaleService) GetCriteriaByID(ctx context.Context, id uint) (*scaleModel.CriteriaModel, error) {
	var criteria scaleModel.CriteriaModel
	if err := s.DB.WithContext(ctx).First(&criteria, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Criteria not found")
		}
		return nil, apperror.Internal("Failed to retrieve criteria")
	}
	return &criteria, nil
}

// GetCriteriaByScale lists a scale's criteria by ascending id.
func (s *ScaleService) GetCriteriaByScale(ctx context.Context, scaleID uint) ([]scaleModel.CriteriaModel, error) {
	var criteria []scaleModel.CriteriaModel
	err := s.DB.WithContext(ctx).
		Where("scale_id = ?", scaleID).
		Order("id ASC").
		Find(&criteria).Error
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve criteria")
	}
	return criteria, nil
}

// UpdateCriteria re-validates the coefficient budget when the weight
// changes and freezes maxPoints once any grade references the row.
func (s *ScaleService) UpdateCriteria(ctx context.Context, id uint, req *dto.UpdateCriteriaRequest) (*scaleModel.CriteriaModel, error) {
	criteria, err := s.GetCriteriaByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Coefficient != nil {
		var siblings []scaleModel.CriteriaModel
		if err := s.DB.WithContext(ctx).Where("scale_id = ?", criteria.ScaleID).Find(&siblings).Error; err != nil {
			return nil, apperror.Internal("Failed to retrieve criteria")
		}
		var sum float64
		for _, c := range siblings {
			if c.ID == id {
				sum += *req.Coefficient
			} else {
				sum += c.Coefficient
			}
		}
		if exceedsCoefficientBudget(sum) {
			return nil, apperror.Validation("Total coefficient cannot exceed 1")
		}
	}

	if req.MaxPoints != nil {
		var gradeCount int64
		if err := s.DB.WithContext(ctx).Table("grades").Where("criteria_id = ?", id).Count(&gradeCount).Error; err != nil {
			return nil, apperror.Internal("Failed to check criteria usage")
		}
		if gradeCount > 0 {
			return nil, apperror.Conflict("Cannot modify maxPoints for criteria that has grades")
		}
	}

	req.ApplyToModel(criteria)
	if err := s.DB.WithContext(ctx).Save(criteria).Error; err != nil {
		return nil, apperror.Internal("Failed to update criteria")
	}
	return criteria, nil
}

// DeleteCriteria refuses for the last criteria of a scale and for
// criteria already referenced by grades.
func (s *ScaleService) DeleteCriteria(ctx context.Context, id uint) error {
	criteria, err := s.GetCriteriaByID(ctx, id)
	if err != nil {
		return err
	}

	var siblingCount int64
	if err := s.DB.WithContext(ctx).Model(&scaleModel.CriteriaModel{}).Where("scale_id = ?", criteria.ScaleID).Count(&siblingCount).Error; err != nil {
		return apperror.Internal("Failed to check criteria count")
	}
	if siblingCount <= 1 {
		return apperror.Conflict("Cannot delete the last criteria of a scale")
	}

	var gradeCount int64
	if err := s.DB.WithContext(ctx).Table("grades").Where("criteria_id = ?", id).Count(&gradeCount).Error; err != nil {
		return apperror.Internal("Failed to check criteria usage")
	}
	if gradeCount > 0 {
		return apperror.Conflict("Cannot delete criteria that has grades")
	}

	if err := s.DB.WithContext(ctx).Delete(&scaleModel.CriteriaModel{}, id).Error; err != nil {
		return apperror.Internal("Failed to delete criteria")
	}
	return nil
}
