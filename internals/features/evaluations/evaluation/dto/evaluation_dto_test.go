package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
)

func TestParseEvalDate(t *testing.T) {
	d, err := ParseEvalDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.Format("2006-01-02"))

	d, err = ParseEvalDate("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.Format("2006-01-02"))

	_, err = ParseEvalDate("15/03/2026")
	assert.Error(t, err)
	_, err = ParseEvalDate("")
	assert.Error(t, err)
}

func TestEvaluationResponseScore(t *testing.T) {
	e := &evaluationModel.EvaluationModel{
		ID:       1,
		Title:    "Session",
		DateEval: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:   "published",
	}
	grades := []gradeModel.GradeModel{
		{ID: 1, EvaluationID: 1, CriteriaID: 1, Value: 8, Criteria: &scaleModel.CriteriaModel{ID: 1, MaxPoints: 10}},
		{ID: 2, EvaluationID: 1, CriteriaID: 2, Value: 12, Criteria: &scaleModel.CriteriaModel{ID: 2, MaxPoints: 20}},
	}

	resp := NewEvaluationResponse(e, grades, nil)
	require.NotNil(t, resp.Score)
	assert.InDelta(t, 20, *resp.Score, 1e-9)
	require.NotNil(t, resp.Percentage)
	// 20 / 30 rounds to 67
	assert.Equal(t, 67, *resp.Percentage)
	assert.Equal(t, "2026-03-15", resp.DateEval)
}

func TestEvaluationResponseWithoutGrades(t *testing.T) {
	e := &evaluationModel.EvaluationModel{ID: 1, Title: "Empty", DateEval: time.Now(), Status: "draft"}

	resp := NewEvaluationResponse(e, nil, nil)
	assert.Nil(t, resp.Score)
	assert.Nil(t, resp.Percentage)
	assert.Empty(t, resp.Grades)
}
