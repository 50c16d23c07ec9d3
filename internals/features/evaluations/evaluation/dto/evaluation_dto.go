package dto

import (
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commentModel "evalku_backend/internals/features/evaluations/comment/model"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	gradeModel "evalku_backend/internals/features/evaluations/grade/model"
	scaleDTO "evalku_backend/internals/features/evaluations/scale/dto"
	apperror "evalku_backend/internals/helpers/errors"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// ParseEvalDate accepts a plain calendar date or an RFC3339 timestamp.
func ParseEvalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Truncate(24 * time.Hour), nil
	}
	return time.Time{}, apperror.Validation("Invalid date format")
}

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateEvaluationRequest struct {
	Title     string `json:"title" validate:"required,min=2,max=100"`
	DateEval  string `json:"date_eval" validate:"required"`
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	ScaleID   uint   `json:"scale_id" validate:"required,gt=0"`
	// Status is deliberately accepted and ignored: evaluations always
	// start in draft no matter what the caller sends.
	Status string `json:"status,omitempty"`
}

func (r *CreateEvaluationRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.DateEval = strings.TrimSpace(r.DateEval)
}

func (r *CreateEvaluationRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateEvaluationRequest: the three reference IDs are parsed only so
// attempts to change them can be rejected explicitly.
type UpdateEvaluationRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	DateEval  *string `json:"date_eval,omitempty"`
	StudentID *uint   `json:"student_id,omitempty"`
	TeacherID *uint   `json:"teacher_id,omitempty"`
	ScaleID   *uint   `json:"scale_id,omitempty"`
}

func (r *UpdateEvaluationRequest) Normalize() {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.DateEval != nil {
		v := strings.TrimSpace(*r.DateEval)
		r.DateEval = &v
	}
}

func (r *UpdateEvaluationRequest) Validate() error {
	return validate.Struct(r)
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

func (r *ChangeStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(strings.ToLower(r.Status))
}

func (r *ChangeStatusRequest) Validate() error {
	return validate.Struct(r)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type GradeEntry struct {
	ID           uint                       `json:"id"`
	EvaluationID uint                       `json:"evaluation_id"`
	CriteriaID   uint                       `json:"criteria_id"`
	Value        float64                    `json:"value"`
	Criteria     *scaleDTO.CriteriaResponse `json:"criteria,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func NewGradeEntry(g *gradeModel.GradeModel) GradeEntry {
	entry := GradeEntry{
		ID:           g.ID,
		EvaluationID: g.EvaluationID,
		CriteriaID:   g.CriteriaID,
		Value:        g.Value,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if g.Criteria != nil {
		cr := scaleDTO.NewCriteriaResponse(g.Criteria)
		entry.Criteria = &cr
	}
	return entry
}

type CommentEntry struct {
	ID           uint                  `json:"id"`
	EvaluationID uint                  `json:"evaluation_id"`
	TeacherID    uint                  `json:"teacher_id"`
	Text         string                `json:"text"`
	Teacher      *scaleDTO.UserSummary `json:"teacher,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func NewCommentEntry(m *commentModel.CommentModel) CommentEntry {
	return CommentEntry{
		ID:           m.ID,
		EvaluationID: m.EvaluationID,
		TeacherID:    m.TeacherID,
		Text:         m.Text,
		Teacher:      scaleDTO.NewUserSummary(m.Teacher),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type EvaluationResponse struct {
	ID        uint                    `json:"id"`
	Title     string                  `json:"title"`
	DateEval  string                  `json:"date_eval"`
	StudentID uint                    `json:"student_id"`
	TeacherID uint                    `json:"teacher_id"`
	ScaleID   uint                    `json:"scale_id"`
	Status    string                  `json:"status"`
	Student   *scaleDTO.UserSummary   `json:"student,omitempty"`
	Teacher   *scaleDTO.UserSummary   `json:"teacher,omitempty"`
	Scale     *scaleDTO.ScaleResponse `json:"scale,omitempty"`
	Grades    []GradeEntry            `json:"grades,omitempty"`
	Comments  []CommentEntry          `json:"comments,omitempty"`
	// Score and Percentage are read-side aggregates over the recorded
	// grades; they are recomputed on every read, never stored.
	Score      *float64  `json:"score,omitempty"`
	Percentage *int      `json:"percentage,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewEvaluationResponse(e *evaluationModel.EvaluationModel, grades []gradeModel.GradeModel, comments []commentModel.CommentModel) EvaluationResponse {
	resp := EvaluationResponse{
		ID:        e.ID,
		Title:     e.Title,
		DateEval:  e.DateEval.Format(dateLayout),
		StudentID: e.StudentID,
		TeacherID: e.TeacherID,
		ScaleID:   e.ScaleID,
		Status:    e.Status.String(),
		Student:   scaleDTO.NewUserSummary(e.Student),
		Teacher:   scaleDTO.NewUserSummary(e.Teacher),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Scale != nil {
		sr := scaleDTO.NewScaleResponse(e.Scale)
		resp.Scale = &sr
	}
	for i := range grades {
		resp.Grades = append(resp.Grades, NewGradeEntry(&grades[i]))
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, NewCommentEntry(&comments[i]))
	}
	if len(grades) > 0 {
		score, percentage := computeScore(grades)
		resp.Score = &score
		resp.Percentage = percentage
	}
	return resp
}

// computeScore sums grade values; the percentage is taken over the
// maxPoints of the criteria that actually have a grade.
func computeScore(grades []gradeModel.GradeModel) (float64, *int) {
	var score, maxSum float64
	for _, g := range grades {
		score += g.Value
		if g.Criteria != nil {
			maxSum += g.Criteria.MaxPoints
		}
	}
	if maxSum <= 0 {
		return score, nil
	}
	p := int(math.Round(100 * score / maxSum))
	return score, &p
}
