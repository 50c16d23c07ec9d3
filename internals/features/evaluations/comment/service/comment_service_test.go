package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	database "evalku_backend/internals/databases"
	"evalku_backend/internals/features/evaluations/comment/dto"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

type fixture struct {
	db         *gorm.DB
	svc        *CommentService
	teacher    *userModel.UserModel
	other      *userModel.UserModel
	evaluation *evaluationModel.EvaluationModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{db: db, svc: NewCommentService(db)}

	f.teacher = &userModel.UserModel{Name: "T", Email: "t@school.com", Password: "x", Role: constants.RoleTeacher, Status: constants.UserActive}
	require.NoError(t, db.Create(f.teacher).Error)
	f.other = &userModel.UserModel{Name: "O", Email: "o@school.com", Password: "x", Role: constants.RoleTeacher, Status: constants.UserActive}
	require.NoError(t, db.Create(f.other).Error)
	student := userModel.UserModel{Name: "S", Email: "s@school.com", Password: "x", Role: constants.RoleStudent, Status: constants.UserActive}
	require.NoError(t, db.Create(&student).Error)

	scale := scaleModel.ScaleModel{Title: "Scale", CreatorID: f.teacher.ID}
	require.NoError(t, db.Create(&scale).Error)
	criteria := scaleModel.CriteriaModel{Description: "A", AssociatedSkill: "S", MaxPoints: 10, Coefficient: 1, ScaleID: scale.ID}
	require.NoError(t, db.Create(&criteria).Error)

	f.evaluation = &evaluationModel.EvaluationModel{
		Title:     "Session",
		DateEval:  time.Now(),
		StudentID: student.ID,
		TeacherID: f.teacher.ID,
		ScaleID:   scale.ID,
		Status:    constants.EvaluationDraft,
	}
	require.NoError(t, db.Create(f.evaluation).Error)
	return f
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t)

	comment, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateCommentRequest{
		Text: "Good work overall",
	})
	require.NoError(t, err)
	assert.Equal(t, "Good work overall", comment.Text)
	require.NotNil(t, comment.Teacher)
	assert.Equal(t, f.teacher.ID, comment.Teacher.ID)
}

func TestCreateCommentEvaluationMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateComment(context.Background(), 999, f.teacher.ID, &dto.CreateCommentRequest{Text: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualError(t, err, "Evaluation not found")
}

func TestCreateCommentWrongTeacher(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.other.ID, &dto.CreateCommentRequest{Text: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.EqualError(t, err, "Only the assigned teacher can comment on this evaluation")
}

func TestGetCommentsNewestFirst(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateCommentRequest{Text: "first"})
	require.NoError(t, err)
	second, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateCommentRequest{Text: "second"})
	require.NoError(t, err)

	// force distinct timestamps; sqlite time resolution can collide
	require.NoError(t, f.db.Model(second).Update("created_at", first.CreatedAt.Add(time.Second)).Error)

	comments, err := f.svc.GetCommentsByEvaluation(context.Background(), f.evaluation.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)
}

func TestUpdateCommentOwnOnly(t *testing.T) {
	f := newFixture(t)
	comment, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateCommentRequest{Text: "draft note"})
	require.NoError(t, err)

	_, err = f.svc.UpdateComment(context.Background(), f.evaluation.ID, comment.ID, f.other.ID, &dto.UpdateCommentRequest{Text: "hijack"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualError(t, err, "Comment not found or access denied")

	updated, err := f.svc.UpdateComment(context.Background(), f.evaluation.ID, comment.ID, f.teacher.ID, &dto.UpdateCommentRequest{Text: "final note"})
	require.NoError(t, err)
	assert.Equal(t, "final note", updated.Text)
}

func TestDeleteCommentOwnOnly(t *testing.T) {
	f := newFixture(t)
	comment, err := f.svc.CreateComment(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateCommentRequest{Text: "note"})
	require.NoError(t, err)

	err = f.svc.DeleteComment(context.Background(), f.evaluation.ID, comment.ID, f.other.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, f.svc.DeleteComment(context.Background(), f.evaluation.ID, comment.ID, f.teacher.ID))

	comments, err := f.svc.GetCommentsByEvaluation(context.Background(), f.evaluation.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
