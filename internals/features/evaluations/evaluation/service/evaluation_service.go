package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	"evalku_backend/internals/features/evaluations/evaluation/dto"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// EvaluationService owns the evaluation lifecycle: rows start in
// draft, move only draft → published → archived, and keep their
// student/teacher/scale references frozen after creation.
type EvaluationService struct {
	DB *gorm.DB
}

func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{DB: db}
}

// ListFilter narrows the evaluation list. Nil fields mean "no filter".
type ListFilter struct {
	TeacherID *uint
	StudentID *uint
	Statuses  []constants.EvaluationStatus
	From      *time.Time
	To        *time.Time
	Offset    int
	Limit     int
}

// Detail bundles an evaluation with its grades and comments, which
// live in their own tables and cannot be preloaded from here.
type Detail struct {
	Evaluation *evaluationModel.EvaluationModel
	Grades     []gradeModel.GradeModel
	Comments   []commentModel.CommentModel
}

// CreateEvaluation validates the three references (the student must
// hold the student role, the teacher the teacher role, the scale must
// exist) and always creates the row in draft.
func (s *EvaluationService) CreateEvaluation(ctx context.Context, teacherID uint, req *dto.CreateEvaluationRequest) (*Detail, error) {
	dateEval, err := dto.ParseEvalDate(req.DateEval)
	if err != nil {
		return nil, err
	}

	var student userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&student, "id = ?", req.StudentID).Error; err != nil || student.Role != constants.RoleStudent {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("Failed to validate student")
		}
		return nil, apperror.Validation("Invalid student ID")
	}

	var teacher userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&teacher, "id = ?", teacherID).Error; err != nil || teacher.Role != constants.RoleTeacher {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("Failed to validate teacher")
		}
		return nil, apperror.Validation("Invalid teacher ID")
	}

	var scaleCount int64
	if err := s.DB.WithContext(ctx).Table("scales").Where("id = ?", req.ScaleID).Count(&scaleCount).Error; err != nil {
		return nil, apperror.Internal("Failed to validate scale")
	}
	if scaleCount == 0 {
		return nil, apperror.Validation("Invalid scale ID")
	}

	evaluation := evaluationModel.EvaluationModel{
		Title:     req.Title,
		DateEval:  dateEval,
		StudentID: req.StudentID,
		TeacherID: teacherID,
		ScaleID:   req.ScaleID,
		Status:    constants.EvaluationDraft,
	}
	if err := s.DB.WithContext(ctx).Create(&evaluation).Error; err != nil {
		return nil, apperror.Internal("Failed to create evaluation")
	}

	return s.GetEvaluationByID(ctx, evaluation.ID)
}

// GetEvaluations lists matching evaluations newest-first (by the
// evaluation date, then creation time) with grades and comments
// attached in two batched queries.
func (s *EvaluationService) GetEvaluations(ctx context.Context, filter ListFilter) ([]Detail, int64, error) {
	q := s.DB.WithContext(ctx).Model(&evaluationModel.EvaluationModel{})
	if filter.TeacherID != nil {
		q = q.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.From != nil {
		q = q.Where("date_eval >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date_eval <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("Failed to count evaluations")
	}

	q = q.
		Preload("Student").
		Preload("Teacher").
		Preload("Scale").
		Preload("Scale.Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("criteria.id ASC") }).
		Order("date_eval DESC").
		Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}

	var evaluations []evaluationModel.EvaluationModel
	err := q.Find(&evaluations).Error
	if err != nil {
		return nil, 0, apperror.Internal("Failed to retrieve evaluations")
	}

	details, err := s.attachChildren(ctx, evaluations)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (s *EvaluationService) GetEvaluationByID(ctx context.Context, id uint) (*Detail, error) {
	var evaluation evaluationModel.EvaluationModel
	err := s.DB.WithContext(ctx).
		Preload("Student").
		Preload("Teacher").
		Preload("Scale").
		Preload("Scale.Criteria", func(db *gorm.DB) *gorm.DB { return db.Order("criteria.id ASC") }).
		First(&evaluation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Evaluation not found")
		}
		return nil, apperror.Internal("Failed to retrieve evaluation")
	}

	details, err := s.attachChildren(ctx, []evaluationModel.EvaluationModel{evaluation})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// attachChildren loads grades (criteria ascending) and comments
// (newest first) for the given evaluations in one query each.
func (s *EvaluationService) attachChildren(ctx context.Context, evaluations []evaluationModel.EvaluationModel) ([]Detail, error) {
	details := make([]Detail, len(evaluations))
	ids := make([]uint, 0, len(evaluations))
	for i := range evaluations {
		details[i] = Detail{Evaluation: &evaluations[i]}
		ids = append(ids, evaluations[i].ID)
	}
	if len(ids) == 0 {
		return details, nil
	}

	var grades []gradeModel.GradeModel
	err := s.DB.WithContext(ctx).
		Preload("Criteria").
		Where("evaluation_id IN ?", ids).
		Order("criteria_id ASC").
		Find(&grades).Error
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve grades")
	}

	var comments []commentModel.CommentModel
	err = s.DB.WithContext(ctx).
		Preload("Teacher").
		Where("evaluation_id IN ?", ids).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve comments")
	}

	byID := make(map[uint]*Detail, len(details))
	for i := range details {
		byID[details[i].Evaluation.ID] = &details[i]
	}
	for _, g := range grades {
		if d, ok := byID[g.EvaluationID]; ok {
			d.Grades = append(d.Grades, g)
		}
	}
	for _, c := range comments {
		if d, ok := byID[c.EvaluationID]; ok {
			d.Comments = append(d.Comments, c)
		}
	}
	return details, nil
}

// UpdateEvaluation patches title and date. The student, teacher and
// scale references are immutable, and only drafts can be edited.
func (s *EvaluationService) UpdateEvaluation(ctx context.Context, id uint, req *dto.UpdateEvaluationRequest) (*Detail, error) {
	if req.StudentID != nil || req.TeacherID != nil || req.ScaleID != nil {
		return nil, apperror.Validation("Cannot modify student, teacher, or scale of an existing evaluation")
	}

	detail, err := s.GetEvaluationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Evaluation.Status != constants.EvaluationDraft {
		return nil, apperror.Conflict("Only draft evaluations can be modified")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.DateEval != nil {
		dateEval, err := dto.ParseEvalDate(*req.DateEval)
		if err != nil {
			return nil, err
		}
		updates["date_eval"] = dateEval
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&evaluationModel.EvaluationModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, apperror.Internal("Failed to update evaluation")
		}
	}

	return s.GetEvaluationByID(ctx, id)
}

// ChangeStatus moves the evaluation along the lifecycle. Only the
// assigned teacher may do it, and only forward transitions pass.
func (s *EvaluationService) ChangeStatus(ctx context.Context, id, requesterID uint, newStatus constants.EvaluationStatus) (*Detail, error) {
	detail, err := s.GetEvaluationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	evaluation := detail.Evaluation

	if evaluation.TeacherID != requesterID {
		return nil, apperror.Forbidden("Only the teacher who created this evaluation can modify its status")
	}
	if !evaluation.Status.CanTransitionTo(newStatus) {
		return nil, apperror.InvalidTransition(evaluation.Status, newStatus)
	}

	err = s.DB.WithContext(ctx).
		Model(&evaluationModel.EvaluationModel{}).
		Where("id = ?", id).
		Update("status", newStatus).Error
	if err != nil {
		return nil, apperror.Internal("Failed to update evaluation status")
	}

	return s.GetEvaluationByID(ctx, id)
}

// DeleteEvaluation removes the evaluation with its grades and
// comments. Teachers may only delete their own drafts; admins may
// delete anything.
func (s *EvaluationService) DeleteEvaluation(ctx context.Context, id uint, isAdmin bool) error {
	detail, err := s.GetEvaluationByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && detail.Evaluation.Status != constants.EvaluationDraft {
		return apperror.Conflict("Only draft evaluations can be deleted")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&gradeModel.GradeModel{}).Error; err != nil {
			return apperror.Internal("Failed to delete evaluation")
		}
		if err := tx.Where("evaluation_id = ?", id).Delete(&commentModel.CommentModel{}).Error; err != nil {
			return apperror.Internal("Failed to delete evaluation")
		}
		if err := tx.Delete(&evaluationModel.EvaluationModel{}, id).Error; err != nil {
			return apperror.Internal("Failed to delete evaluation")
		}
		return nil
	})
}
