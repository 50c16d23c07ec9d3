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
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	"evalku_backend/internals/features/evaluations/scale/dto"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedTeacher(t *testing.T, db *gorm.DB, email string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Name:     "Teacher",
		Email:    email,
		Password: "x",
		Role:     constants.RoleTeacher,
		Status:   constants.UserActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedStudent(t *testing.T, db *gorm.DB, email string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Name:     "Student",
		Email:    email,
		Password: "x",
		Role:     constants.RoleStudent,
		Status:   constants.UserActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func twoCriteriaRequest() *dto.CreateScaleRequest {
	return &dto.CreateScaleRequest{
		Title: "Oral exam",
		Criteria: []dto.CreateCriteriaRequest{
			{Description: "Clarity", AssociatedSkill: "Communication", MaxPoints: 10, Coefficient: 0.4},
			{Description: "Content", AssociatedSkill: "Knowledge", MaxPoints: 20, Coefficient: 0.6},
		},
	}
}

func TestCreateScale(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	assert.Equal(t, "Oral exam", scale.Title)
	assert.Equal(t, teacher.ID, scale.CreatorID)
	require.Len(t, scale.Criteria, 2)
	assert.Equal(t, "Clarity", scale.Criteria[0].Description)
	require.NotNil(t, scale.Creator)
	assert.Equal(t, teacher.Email, scale.Creator.Email)
}

func TestCreateScaleCoefficientBudget(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	req := twoCriteriaRequest()
	req.Criteria[0].Coefficient = 0.7
	req.Criteria[1].Coefficient = 0.5

	_, err := svc.CreateScale(context.Background(), teacher.ID, req)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.EqualError(t, err, "Total coefficient of criteria cannot exceed 1")
}

func TestCreateScaleCoefficientExactlyOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	req := twoCriteriaRequest()
	req.Criteria[0].Coefficient = 0.3
	req.Criteria[1].Coefficient = 0.7

	_, err := svc.CreateScale(context.Background(), teacher.ID, req)
	require.NoError(t, err)
}

func TestGetScaleByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)

	_, err := svc.GetScaleByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetScalesFilterByCreator(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	t1 := seedTeacher(t, db, "t1@school.com")
	t2 := seedTeacher(t, db, "t2@school.com")

	_, err := svc.CreateScale(context.Background(), t1.ID, twoCriteriaRequest())
	require.NoError(t, err)
	req2 := twoCriteriaRequest()
	req2.Title = "Written exam"
	_, err = svc.CreateScale(context.Background(), t2.ID, req2)
	require.NoError(t, err)

	all, total, err := svc.GetScales(context.Background(), nil, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	mine, total, err := svc.GetScales(context.Background(), &t1.ID, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, t1.ID, mine[0].CreatorID)
}

func seedEvaluationFor(t *testing.T, db *gorm.DB, scaleID uint) *evaluationModel.EvaluationModel {
	t.Helper()
	teacher := seedTeacher(t, db, "eval-teacher@school.com")
	student := seedStudent(t, db, "eval-student@school.com")
	e := evaluationModel.EvaluationModel{
		Title:     "Session",
		DateEval:  time.Now(),
		StudentID: student.ID,
		TeacherID: teacher.ID,
		ScaleID:   scaleID,
		Status:    constants.EvaluationDraft,
	}
	require.NoError(t, db.Create(&e).Error)
	return &e
}

func TestUpdateScaleCriteriaFrozenWhenUsed(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	seedEvaluationFor(t, db, scale.ID)

	_, err = svc.UpdateScale(context.Background(), scale.ID, &dto.UpdateScaleRequest{
		Criteria: []dto.CreateCriteriaRequest{
			{Description: "New", AssociatedSkill: "Other", MaxPoints: 5, Coefficient: 0.5},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateScaleTitleOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	seedEvaluationFor(t, db, scale.ID)

	// title edits stay allowed even when the scale is in use
	newTitle := "Oral exam v2"
	updated, err := svc.UpdateScale(context.Background(), scale.ID, &dto.UpdateScaleRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Len(t, updated.Criteria, 2)
}

func TestUpdateScaleReplacesCriteria(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateScale(context.Background(), scale.ID, &dto.UpdateScaleRequest{
		Criteria: []dto.CreateCriteriaRequest{
			{Description: "Single", AssociatedSkill: "All", MaxPoints: 100, Coefficient: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Criteria, 1)
	assert.Equal(t, "Single", updated.Criteria[0].Description)
}

func TestDeleteScaleRefusedWhenUsed(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	seedEvaluationFor(t, db, scale.ID)

	err = svc.DeleteScale(context.Background(), scale.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestDeleteScaleRemovesCriteria(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScale(context.Background(), scale.ID))

	var count int64
	require.NoError(t, db.Model(&scaleModel.CriteriaModel{}).Where("scale_id = ?", scale.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAddCriteriaBudget(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)

	_, err = svc.AddCriteria(context.Background(), scale.ID, &dto.CreateCriteriaRequest{
		Description: "Extra", AssociatedSkill: "Bonus", MaxPoints: 5, Coefficient: 0.2,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	added, err := svc.AddCriteria(context.Background(), scale.ID, &dto.CreateCriteriaRequest{
		Description: "Extra", AssociatedSkill: "Bonus", MaxPoints: 5, Coefficient: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, scale.ID, added.ScaleID)
}

func TestUpdateCriteriaMaxPointsFrozenWithGrades(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	evaluation := seedEvaluationFor(t, db, scale.ID)

	grade := gradeModel.GradeModel{EvaluationID: evaluation.ID, CriteriaID: scale.Criteria[0].ID, Value: 5}
	require.NoError(t, db.Create(&grade).Error)

	newMax := 50.0
	_, err = svc.UpdateCriteria(context.Background(), scale.Criteria[0].ID, &dto.UpdateCriteriaRequest{MaxPoints: &newMax})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.EqualError(t, err, "Cannot modify maxPoints for criteria that has grades")

	// description edits are still fine
	desc := "Clarity and pacing"
	updated, err := svc.UpdateCriteria(context.Background(), scale.Criteria[0].ID, &dto.UpdateCriteriaRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
}

func TestUpdateCriteriaCoefficientBudget(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)

	// 0.6 stays on the sibling, so 0.5 here busts the budget
	tooMuch := 0.5
	_, err = svc.UpdateCriteria(context.Background(), scale.Criteria[0].ID, &dto.UpdateCriteriaRequest{Coefficient: &tooMuch})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	ok := 0.4
	_, err = svc.UpdateCriteria(context.Background(), scale.Criteria[0].ID, &dto.UpdateCriteriaRequest{Coefficient: &ok})
	require.NoError(t, err)
}

func TestDeleteCriteriaLastOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	req := &dto.CreateScaleRequest{
		Title: "Single criteria",
		Criteria: []dto.CreateCriteriaRequest{
			{Description: "Only", AssociatedSkill: "All", MaxPoints: 10, Coefficient: 1},
		},
	}
	scale, err := svc.CreateScale(context.Background(), teacher.ID, req)
	require.NoError(t, err)

	err = svc.DeleteCriteria(context.Background(), scale.Criteria[0].ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.EqualError(t, err, "Cannot delete the last criteria of a scale")
}

func TestDeleteCriteriaWithGrades(t *testing.T) {
	db := newTestDB(t)
	svc := NewScaleService(db)
	teacher := seedTeacher(t, db, "t1@school.com")

	scale, err := svc.CreateScale(context.Background(), teacher.ID, twoCriteriaRequest())
	require.NoError(t, err)
	evaluation := seedEvaluationFor(t, db, scale.ID)

	grade := gradeModel.GradeModel{EvaluationID: evaluation.ID, CriteriaID: scale.Criteria[1].ID, Value: 3}
	require.NoError(t, db.Create(&grade).Error)

	err = svc.DeleteCriteria(context.Background(), scale.Criteria[1].ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, svc.DeleteCriteria(context.Background(), scale.Criteria[0].ID))
}
