package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/features/evaluations/comment/dto"
	"evalku_backend/internals/features/evaluations/comment/service"
	evaluationService "evalku_backend/internals/features/evaluations/evaluation/service"
	"evalku_backend/internals/features/evaluations/policy"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

type CommentController struct {
	Service     *service.CommentService
	Evaluations *evaluationService.EvaluationService
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{
		Service:     service.NewCommentService(db),
		Evaluations: evaluationService.NewEvaluationService(db),
	}
}

// POST /api/evaluations/:evaluationId/comments
func (cc *CommentController) CreateComment(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	comment, err := cc.Service.CreateComment(c.UserContext(), uint(evaluationID), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] comment %d added on evaluation %d by teacher %d", comment.ID, evaluationID, p.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Comment created successfully", dto.NewCommentResponse(comment))
}

// GET /api/evaluations/:evaluationId/comments — same visibility as
// the evaluation itself.
func (cc *CommentController) GetCommentsByEvaluation(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	evaluationID, err := c.ParamsInt("evaluationId")
	if err != nil || evaluationID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid evaluation ID")
	}

	detail, err := cc.Evaluations.GetEvaluationByID(c.UserContext(), uint(evaluationID))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanViewEvaluation(p, detail.Evaluation) {
		return helper.FromAppError(c, policy.ViewEvaluationError(p, detail.Evaluation))
	}

	comments, err := cc.Service.GetCommentsByEvaluation(c.UserContext(), uint(evaluationID))
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return helper.Success(c, "Comments fetched successfully", items)
}

// PUT /api/evaluations/:evaluationId/comments/:id
func (cc *CommentController) UpdateComment(c *fiber.Ctx) error {
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
		return helper.Error(c, fiber.StatusBadRequest, "Invalid comment ID")
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	comment, err := cc.Service.UpdateComment(c.UserContext(), uint(evaluationID), uint(id), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] comment %d updated by teacher %d", id, p.ID)
	return helper.Success(c, "Comment updated successfully", dto.NewCommentResponse(comment))
}

// DELETE /api/evaluations/:evaluationId/comments/:id
func (cc *CommentController) DeleteComment(c *fiber.Ctx) error {
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
		return helper.Error(c, fiber.StatusBadRequest, "Invalid comment ID")
	}

	if err := cc.Service.DeleteComment(c.UserContext(), uint(evaluationID), uint(id), p.ID); err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] comment %d deleted by teacher %d", id, p.ID)
	return helper.Success(c, "Comment deleted successfully", nil)
}
