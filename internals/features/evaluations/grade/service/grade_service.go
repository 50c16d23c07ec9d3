package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	"evalku_backend/internals/features/evaluations/grade/dto"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// GradeService records per-criteria values inside an evaluation. All
// writes go through the assigned teacher, values stay within the
// criteria's maxPoints, and archived evaluations are frozen.
type GradeService struct {
	DB *gorm.DB
}

func NewGradeService(db *gorm.DB) *GradeService {
	return &GradeService{DB: db}
}

// requireOwnedEditable loads the evaluation scoped to the acting
// teacher. A foreign or missing evaluation answers the same 404 so
// teachers cannot probe each other's evaluations.
func (s *GradeService) requireOwnedEditable(ctx context.Context, evaluationID, teacherID uint) (*evaluationModel.EvaluationModel, error) {
	var evaluation evaluationModel.EvaluationModel
	err := s.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", evaluationID, teacherID).
		First(&evaluation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Evaluation not found or access denied")
		}
		return nil, apperror.Internal("Failed to retrieve evaluation")
	}
	if evaluation.Status == constants.EvaluationArchived {
		return nil, apperror.Conflict("Can only modify grades of draft or published evaluations")
	}
	return &evaluation, nil
}

// CreateGrade adds one grade for a criteria of the evaluation's scale.
func (s *GradeService) CreateGrade(ctx context.Context, evaluationID, teacherID uint, req *dto.CreateGradeRequest) (*gradeModel.GradeModel, error) {
	evaluation, err := s.requireOwnedEditable(ctx, evaluationID, teacherID)
	if err != nil {
		return nil, err
	}

	var criteria scaleModel.CriteriaModel
	err = s.DB.WithContext(ctx).
		Where("id = ? AND scale_id = ?", req.CriteriaID, evaluation.ScaleID).
		First(&criteria).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Criteria not found or does not belong to evaluation scale")
		}
		return nil, apperror.Internal("Failed to retrieve criteria")
	}

	if req.Value > criteria.MaxPoints {
		return nil, apperror.Validation(fmt.Sprintf("Grade cannot exceed maximum points (%g)", criteria.MaxPoints))
	}

	var existing int64
	err = s.DB.WithContext(ctx).
		Model(&gradeModel.GradeModel{}).
		Where("evaluation_id = ? AND criteria_id = ?", evaluationID, req.CriteriaID).
		Count(&existing).Error
	if err != nil {
		return nil, apperror.Internal("Failed to check existing grades")
	}
	if existing > 0 {
		return nil, apperror.Conflict("Grade already exists for this criteria")
	}

	grade := gradeModel.GradeModel{
		EvaluationID: evaluationID,
		CriteriaID:   req.CriteriaID,
		Value:        req.Value,
	}
	if err := s.DB.WithContext(ctx).Create(&grade).Error; err != nil {
		return nil, apperror.Internal("Failed to create grade")
	}
	grade.Criteria = &criteria
	return &grade, nil
}

// GetGradesByEvaluation lists the grades by ascending criteria id.
// Visibility is the caller's concern.
func (s *GradeService) GetGradesByEvaluation(ctx context.Context, evaluationID uint) ([]gradeModel.GradeModel, error) {
	var grades []gradeModel.GradeModel
	err := s.DB.WithContext(ctx).
		Preload("Criteria").
		Where("evaluation_id = ?", evaluationID).
		Order("criteria_id ASC").
		Find(&grades).Error
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve grades")
	}
	return grades, nil
}

// UpdateGrade replaces the value of an existing grade.
func (s *GradeService) UpdateGrade(ctx context.Context, evaluationID, gradeID, teacherID uint, req *dto.UpdateGradeRequest) (*gradeModel.GradeModel, error) {
	if _, err := s.requireOwnedEditable(ctx, evaluationID, teacherID); err != nil {
		return nil, err
	}

	var grade gradeModel.GradeModel
	err := s.DB.WithContext(ctx).
		Preload("Criteria").
		Where("id = ? AND evaluation_id = ?", gradeID, evaluationID).
		First(&grade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Grade not found")
		}
		return nil, apperror.Internal("Failed to retrieve grade")
	}

	if grade.Criteria != nil && *req.Value > grade.Criteria.MaxPoints {
		return nil, apperror.Validation(fmt.Sprintf("Grade cannot exceed maximum points (%g)", grade.Criteria.MaxPoints))
	}

	err = s.DB.WithContext(ctx).
		Model(&gradeModel.GradeModel{}).
		Where("id = ?", grade.ID).
		Update("value", *req.Value).Error
	if err != nil {
		return nil, apperror.Internal("Failed to update grade")
	}
	grade.Value = *req.Value
	return &grade, nil
}

// DeleteGrade removes one grade from a draft or published evaluation.
func (s *GradeService) DeleteGrade(ctx context.Context, evaluationID, gradeID, teacherID uint) error {
	if _, err := s.requireOwnedEditable(ctx, evaluationID, teacherID); err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).
		Where("id = ? AND evaluation_id = ?", gradeID, evaluationID).
		Delete(&gradeModel.GradeModel{})
	if res.Error != nil {
		return apperror.Internal("Failed to delete grade")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Grade not found")
	}
	return nil
}
