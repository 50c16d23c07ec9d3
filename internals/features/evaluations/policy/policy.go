// Package policy centralizes the ownership and visibility rules of the
// evaluation domain. Every controller and service consults these
// predicates instead of re-deriving the rule inline.
package policy

import (
	"evalku_backend/internals/constants"
	evaluationModel "evalku_backend/internals/features/evaluations/evaluation/model"
	scaleModel "evalku_backend/internals/features/evaluations/scale/model"
	helperAuth "evalku_backend/internals/helpers/auth"
	apperror "evalku_backend/internals/helpers/errors"
)

// CanModifyScale: only the creator or an admin may change a scale or
// its criteria.
func CanModifyScale(p helperAuth.Principal, s *scaleModel.ScaleModel) bool {
	return p.IsAdmin() || s.CreatorID == p.ID
}

// CanViewEvaluation: admin sees all; the assigned teacher sees their
// own; the student sees their own once it is no longer a draft. A
// direct lookup of a hidden row answers 403 (ViewEvaluationError).
func CanViewEvaluation(p helperAuth.Principal, e *evaluationModel.EvaluationModel) bool {
	switch p.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleTeacher:
		return e.TeacherID == p.ID
	case constants.RoleStudent:
		return e.StudentID == p.ID && e.Status != constants.EvaluationDraft
	}
	return false
}

// ViewEvaluationError is the error for a caller that fails
// CanViewEvaluation. Students blocked from their own draft get the
// explicit message; everyone else a generic denial.
func ViewEvaluationError(p helperAuth.Principal, e *evaluationModel.EvaluationModel) *apperror.AppError {
	if p.IsStudent() && e.StudentID == p.ID && e.Status == constants.EvaluationDraft {
		return apperror.Forbidden("Students cannot view draft evaluations")
	}
	return apperror.Forbidden("Access denied to this evaluation")
}

// CanModifyEvaluation: only the assigned teacher edits an evaluation's
// own fields. Admins do not edit content, they may only delete.
func CanModifyEvaluation(p helperAuth.Principal, e *evaluationModel.EvaluationModel) bool {
	return p.IsTeacher() && e.TeacherID == p.ID
}

// CanDeleteEvaluation: the assigned teacher (draft-only rule enforced
// by the service) or an admin.
func CanDeleteEvaluation(p helperAuth.Principal, e *evaluationModel.EvaluationModel) bool {
	return p.IsAdmin() || e.TeacherID == p.ID
}
