package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/evaluations/evaluation/dto"
	"evalku_backend/internals/features/evaluations/evaluation/service"
	"evalku_backend/internals/features/evaluations/policy"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

type EvaluationController struct {
	Service *service.EvaluationService
}

func NewEvaluationController(db *gorm.DB) *EvaluationController {
	return &EvaluationController{Service: service.NewEvaluationService(db)}
}

func toResponse(d *service.Detail) dto.EvaluationResponse {
	return dto.NewEvaluationResponse(d.Evaluation, d.Grades, d.Comments)
}

// POST /api/evaluations — teacher only; the principal becomes the
// assigned teacher.
func (ec *EvaluationController) CreateEvaluation(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	detail, err := ec.Service.CreateEvaluation(c.UserContext(), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] evaluation %d created by teacher %d", detail.Evaluation.ID, p.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Evaluation created successfully", toResponse(detail))
}

// buildListFilter derives the visibility filter from the principal's
// role, then layers the optional query filters on top.
func buildListFilter(c *fiber.Ctx, p helperAuth.Principal) (service.ListFilter, error) {
	filter := service.ListFilter{}

	switch p.Role {
	case constants.RoleAdmin:
		if v := c.Query("teacher_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid teacher_id filter")
			}
			teacherID := uint(id)
			filter.TeacherID = &teacherID
		}
		if v := c.Query("student_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid student_id filter")
			}
			studentID := uint(id)
			filter.StudentID = &studentID
		}
	case constants.RoleTeacher:
		filter.TeacherID = &p.ID
	case constants.RoleStudent:
		filter.StudentID = &p.ID
		filter.Statuses = []constants.EvaluationStatus{
			constants.EvaluationPublished,
			constants.EvaluationArchived,
		}
	}

	if v := c.Query("status"); v != "" && p.Role != constants.RoleStudent {
		status, err := constants.ParseEvaluationStatus(strings.ToLower(v))
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid status filter")
		}
		filter.Statuses = []constants.EvaluationStatus{status}
	}
	if v := c.Query("from"); v != "" {
		t, err := dto.ParseEvalDate(v)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid from date")
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := dto.ParseEvalDate(v)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid to date")
		}
		filter.To = &t
	}
	return filter, nil
}

// GET /api/evaluations
func (ec *EvaluationController) GetEvaluations(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	filter, err := buildListFilter(c, p)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)
	filter.Offset = paging.Offset
	filter.Limit = paging.Limit

	details, total, err := ec.Service.GetEvaluations(c.UserContext(), filter)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.EvaluationResponse, 0, len(details))
	for i := range details {
		items = append(items, toResponse(&details[i]))
	}
	return helper.Success(c, "Evaluations fetched successfully", fiber.Map{
		"evaluations": items,
		"pagination":  helper.BuildPagination(paging, total),
	})
}

// GET /api/evaluations/:id — a caller outside the visibility rules
// gets an explicit 403.
func (ec *EvaluationController) GetEvaluationByID(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	detail, err := ec.Service.GetEvaluationByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanViewEvaluation(p, detail.Evaluation) {
		return helper.FromAppError(c, policy.ViewEvaluationError(p, detail.Evaluation))
	}
	return helper.Success(c, "Evaluation fetched successfully", toResponse(detail))
}

// PUT /api/evaluations/:id — assigned teacher only, drafts only.
func (ec *EvaluationController) UpdateEvaluation(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	detail, err := ec.Service.GetEvaluationByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanModifyEvaluation(p, detail.Evaluation) {
		return helper.Error(c, fiber.StatusForbidden, "Only the assigned teacher can modify this evaluation")
	}

	var req dto.UpdateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := ec.Service.UpdateEvaluation(c.UserContext(), uint(id), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] evaluation %d updated by teacher %d", id, p.ID)
	return helper.Success(c, "Evaluation updated successfully", toResponse(updated))
}

// PATCH /api/evaluations/:id/status
func (ec *EvaluationController) ChangeStatus(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	newStatus, err := constants.ParseEvaluationStatus(req.Status)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid status")
	}

	detail, err := ec.Service.ChangeStatus(c.UserContext(), uint(id), p.ID, newStatus)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] evaluation %d moved to %s by teacher %d", id, newStatus, p.ID)
	return helper.Success(c, "Evaluation status updated successfully", toResponse(detail))
}

// DELETE /api/evaluations/:id
func (ec *EvaluationController) DeleteEvaluation(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	detail, err := ec.Service.GetEvaluationByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanDeleteEvaluation(p, detail.Evaluation) {
		return helper.Error(c, fiber.StatusForbidden, "Only the assigned teacher or admin can delete this evaluation")
	}

	if err := ec.Service.DeleteEvaluation(c.UserContext(), uint(id), p.IsAdmin()); err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] evaluation %d deleted by user %d", id, p.ID)
	return helper.Success(c, "Evaluation deleted successfully", nil)
}
