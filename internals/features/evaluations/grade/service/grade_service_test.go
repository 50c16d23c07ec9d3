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
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	"evalku_backend/internals/features/evaluations/grade/dto"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

type fixture struct {
	db         *gorm.DB
	svc        *GradeService
	teacher    *userModel.UserModel
	student    *userModel.UserModel
	scale      *scaleModel.ScaleModel
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

	f := &fixture{db: db, svc: NewGradeService(db)}

	f.teacher = &userModel.UserModel{Name: "T", Email: "t@school.com", Password: "x", Role: constants.RoleTeacher, Status: constants.UserActive}
	require.NoError(t, db.Create(f.teacher).Error)
	f.student = &userModel.UserModel{Name: "S", Email: "s@school.com", Password: "x", Role: constants.RoleStudent, Status: constants.UserActive}
	require.NoError(t, db.Create(f.student).Error)

	f.scale = &scaleModel.ScaleModel{Title: "Scale", CreatorID: f.teacher.ID}
	require.NoError(t, db.Create(f.scale).Error)
	criteria := []scaleModel.CriteriaModel{
		{Description: "A", AssociatedSkill: "S1", MaxPoints: 10, Coefficient: 0.5, ScaleID: f.scale.ID},
		{Description: "B", AssociatedSkill: "S2", MaxPoints: 20, Coefficient: 0.5, ScaleID: f.scale.ID},
	}
	require.NoError(t, db.Create(&criteria).Error)
	f.scale.Criteria = criteria

	f.evaluation = &evaluationModel.EvaluationModel{
		Title:     "Session",
		DateEval:  time.Now(),
		StudentID: f.student.ID,
		TeacherID: f.teacher.ID,
		ScaleID:   f.scale.ID,
		Status:    constants.EvaluationDraft,
	}
	require.NoError(t, db.Create(f.evaluation).Error)
	return f
}

func (f *fixture) setStatus(t *testing.T, status constants.EvaluationStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&evaluationModel.EvaluationModel{}).
		Where("id = ?", f.evaluation.ID).
		Update("status", status).Error)
}

func TestCreateGrade(t *testing.T) {
	f := newFixture(t)

	grade, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID,
		Value:      7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, grade.Value)
	require.NotNil(t, grade.Criteria)
	assert.Equal(t, f.scale.Criteria[0].ID, grade.Criteria.ID)
}

func TestCreateGradeForeignEvaluation(t *testing.T) {
	f := newFixture(t)
	other := userModel.UserModel{Name: "O", Email: "o@school.com", Password: "x", Role: constants.RoleTeacher, Status: constants.UserActive}
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, other.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID,
		Value:      5,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualError(t, err, "Evaluation not found or access denied")
}

func TestCreateGradeArchivedEvaluation(t *testing.T) {
	f := newFixture(t)
	f.setStatus(t, constants.EvaluationArchived)

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID,
		Value:      5,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.EqualError(t, err, "Can only modify grades of draft or published evaluations")
}

func TestCreateGradePublishedStillAllowed(t *testing.T) {
	f := newFixture(t)
	f.setStatus(t, constants.EvaluationPublished)

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID,
		Value:      5,
	})
	require.NoError(t, err)
}

func TestCreateGradeCriteriaOutsideScale(t *testing.T) {
	f := newFixture(t)
	foreign := scaleModel.ScaleModel{Title: "Other", CreatorID: f.teacher.ID}
	require.NoError(t, f.db.Create(&foreign).Error)
	c := scaleModel.CriteriaModel{Description: "X", AssociatedSkill: "Y", MaxPoints: 10, Coefficient: 1, ScaleID: foreign.ID}
	require.NoError(t, f.db.Create(&c).Error)

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: c.ID,
		Value:      5,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualError(t, err, "Criteria not found or does not belong to evaluation scale")
}

func TestCreateGradeValueAboveMax(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID,
		Value:      11,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.EqualError(t, err, "Grade cannot exceed maximum points (10)")
}

func TestCreateGradeDuplicate(t *testing.T) {
	f := newFixture(t)
	req := &dto.CreateGradeRequest{CriteriaID: f.scale.Criteria[0].ID, Value: 5}

	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, req)
	require.NoError(t, err)

	_, err = f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, req)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.EqualError(t, err, "Grade already exists for this criteria")
}

func TestGetGradesByEvaluationOrder(t *testing.T) {
	f := newFixture(t)

	// insert in reverse criteria order
	_, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[1].ID, Value: 12,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID, Value: 6,
	})
	require.NoError(t, err)

	grades, err := f.svc.GetGradesByEvaluation(context.Background(), f.evaluation.ID)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, f.scale.Criteria[0].ID, grades[0].CriteriaID)
	assert.Equal(t, f.scale.Criteria[1].ID, grades[1].CriteriaID)
	require.NotNil(t, grades[0].Criteria)
}

func TestUpdateGrade(t *testing.T) {
	f := newFixture(t)
	grade, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID, Value: 5,
	})
	require.NoError(t, err)

	tooHigh := 15.0
	_, err = f.svc.UpdateGrade(context.Background(), f.evaluation.ID, grade.ID, f.teacher.ID, &dto.UpdateGradeRequest{Value: &tooHigh})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	ok := 9.0
	updated, err := f.svc.UpdateGrade(context.Background(), f.evaluation.ID, grade.ID, f.teacher.ID, &dto.UpdateGradeRequest{Value: &ok})
	require.NoError(t, err)
	assert.Equal(t, 9.0, updated.Value)
}

func TestUpdateGradeNotFound(t *testing.T) {
	f := newFixture(t)
	v := 5.0
	_, err := f.svc.UpdateGrade(context.Background(), f.evaluation.ID, 999, f.teacher.ID, &dto.UpdateGradeRequest{Value: &v})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteGrade(t *testing.T) {
	f := newFixture(t)
	grade, err := f.svc.CreateGrade(context.Background(), f.evaluation.ID, f.teacher.ID, &dto.CreateGradeRequest{
		CriteriaID: f.scale.Criteria[0].ID, Value: 5,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteGrade(context.Background(), f.evaluation.ID, grade.ID, f.teacher.ID))

	err = f.svc.DeleteGrade(context.Background(), f.evaluation.ID, grade.ID, f.teacher.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
