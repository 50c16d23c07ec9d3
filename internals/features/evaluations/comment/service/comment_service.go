package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evalku_backend/internals/features/evaluations/comment/dto"
	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// CommentService manages teacher feedback on evaluations. Only the
// evaluation's assigned teacher writes comments, and authors can only
// touch their own rows.
type CommentService struct {
	DB *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{DB: db}
}

// CreateComment attaches feedback to an evaluation; the author must
// be the assigned teacher.
func (s *CommentService) CreateComment(ctx context.Context, evaluationID, teacherID uint, req *dto.CreateCommentRequest) (*commentModel.CommentModel, error) {
	var evaluation evaluationModel.EvaluationModel
	err := s.DB.WithContext(ctx).First(&evaluation, "id = ?", evaluationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Evaluation not found")
		}
		return nil, apperror.Internal("Failed to retrieve evaluation")
	}
	if evaluation.TeacherID != teacherID {
		return nil, apperror.Forbidden("Only the assigned teacher can comment on this evaluation")
	}

	comment := commentModel.CommentModel{
		EvaluationID: evaluationID,
		TeacherID:    teacherID,
		Text:         req.Text,
	}
	if err := s.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, apperror.Internal("Failed to create comment")
	}
	return s.getByID(ctx, comment.ID)
}

func (s *CommentService) getByID(ctx context.Context, id uint) (*commentModel.CommentModel, error) {
	var comment commentModel.CommentModel
	err := s.DB.WithContext(ctx).Preload("Teacher").First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Comment not found")
		}
		return nil, apperror.Internal("Failed to retrieve comment")
	}
	return &comment, nil
}

// GetCommentsByEvaluation lists comments newest-first. Visibility is
// the caller's concern.
func (s *CommentService) GetCommentsByEvaluation(ctx context.Context, evaluationID uint) ([]commentModel.CommentModel, error) {
	var comments []commentModel.CommentModel
	err := s.DB.WithContext(ctx).
		Preload("Teacher").
		Where("evaluation_id = ?", evaluationID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperror.Internal("Failed to retrieve comments")
	}
	return comments, nil
}

// UpdateComment edits the author's own comment. Foreign comments
// answer the same 404 as missing ones.
func (s *CommentService) UpdateComment(ctx context.Context, evaluationID, commentID, teacherID uint, req *dto.UpdateCommentRequest) (*commentModel.CommentModel, error) {
	var comment commentModel.CommentModel
	err := s.DB.WithContext(ctx).
		Where("id = ? AND evaluation_id = ? AND teacher_id = ?", commentID, evaluationID, teacherID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Comment not found or access denied")
		}
		return nil, apperror.Internal("Failed to retrieve comment")
	}

	err = s.DB.WithContext(ctx).
		Model(&commentModel.CommentModel{}).
		Where("id = ?", comment.ID).
		Update("text", req.Text).Error
	if err != nil {
		return nil, apperror.Internal("Failed to update comment")
	}
	return s.getByID(ctx, comment.ID)
}

// DeleteComment removes the author's own comment.
func (s *CommentService) DeleteComment(ctx context.Context, evaluationID, commentID, teacherID uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND evaluation_id = ? AND teacher_id = ?", commentID, evaluationID, teacherID).
		Delete(&commentModel.CommentModel{})
	if res.Error != nil {
		return apperror.Internal("Failed to delete comment")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Comment not found or access denied")
	}
	return nil
}
