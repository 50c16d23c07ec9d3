package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	evaluationService "evalku_backend/internals/features/evaluations/evaluation/service"
	"evalku_backend/internals/features/evaluations/grade/dto"
	"evalku_backend/internals/features/evaluations/grade/service"
	"evalku_backend/internals/features/evaluations/policy"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

type GradeController struct {
	Service     *service.GradeService
	Evaluations *evaluationService.EvaluationService
}

func NewGradeController(db *gorm.DB) *GradeController {
	return &GradeController{
		Service:     service.NewGradeService(db),
		Evaluations: evaluationService.NewEvaluationService(db),
	}
}

// POST /api/evaluations/:evaluationId/grades
func (gc *GradeController) CreateGrade(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	var req dto.CreateGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	grade, err := gc.Service.CreateGrade(c.UserContext(), uint(evaluationID), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] grade %d recorded on evaluation %d by teacher %d", grade.ID, evaluationID, p.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Grade created successfully", dto.NewGradeResponse(grade))
}

// GET /api/evaluations/:evaluationId/grades — same visibility as the
// evaluation itself.
func (gc *GradeController) GetGradesByEvaluation(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	detail, err := gc.Evaluations.GetEvaluationByID(c.UserContext(), uint(evaluationID))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanViewEvaluation(p, detail.Evaluation) {
		return helper.FromAppError(c, policy.ViewEvaluationError(p, detail.Evaluation))
	}

	grades, err := gc.Service.GetGradesByEvaluation(c.UserContext(), uint(evaluationID))
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		items = append(items, dto.NewGradeResponse(&grades[i]))
	}
	return helper.Success(c, "Grades fetched successfully", items)
}

// PUT /api/evaluations/:evaluationId/grades/:id
func (gc *GradeController) UpdateGrade(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid grade ID")
	}

	var req dto.UpdateGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	grade, err := gc.Service.UpdateGrade(c.UserContext(), uint(evaluationID), uint(id), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] grade %d updated on evaluation %d by teacher %d", id, evaluationID, p.ID)
	return helper.Success(c, "Grade updated successfully", dto.NewGradeResponse(grade))
}

// DELETE /api/evaluations/:evaluationId/grades/:id
func (gc *GradeController) DeleteGrade(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid grade ID")
	}

	if err := gc.Service.DeleteGrade(c.UserContext(), uint(evaluationID), uint(id), p.ID); err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] grade %d deleted from evaluation %d by teacher %d", id, evaluationID, p.ID)
	return helper.Success(c, "Grade deleted successfully", nil)
}
