package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/features/evaluations/policy"
	"evalku_backend/internals/features/evaluations/scale/dto"
	"evalku_backend/internals/features/evaluations/scale/service"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

type CriteriaController struct {
	Service *service.ScaleService
}

func NewCriteriaController(db *gorm.DB) *CriteriaController {
	return &CriteriaController{Service: service.NewScaleService(db)}
}

// requireScaleOwnership loads the scale and checks the modify rule.
func (cc *CriteriaController) requireScaleOwnership(c *fiber.Ctx, p helperAuth.Principal, scaleID uint) error {
	scale, err := cc.Service.GetScaleByID(c.UserContext(), scaleID)
	if err != nil {
		return err
	}
	if !policy.CanModifyScale(p, scale) {
		return fiber.NewError(fiber.StatusForbidden, "Only the scale creator or admin can modify criteria")
	}
	return nil
}

// POST /api/scales/:scaleId/criteria
func (cc *CriteriaController) CreateCriteria(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	scaleID, err := c.ParamsInt("scaleId")
	if err != nil || scaleID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scale ID")
	}

	if err := cc.requireScaleOwnership(c, p, uint(scaleID)); err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateCriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	criteria, err := cc.Service.AddCriteria(c.UserContext(), uint(scaleID), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] criteria %d added to scale %d by user %d", criteria.ID, scaleID, p.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Criteria created successfully", dto.NewCriteriaResponse(criteria))
}

// GET /api/scales/:scaleId/criteria — any authenticated user.
func (cc *CriteriaController) GetCriteriaByScale(c *fiber.Ctx) error {
	scaleID, err := c.ParamsInt("scaleId")
	if err != nil || scaleID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scale ID")
	}

	if _, err := cc.Service.GetScaleByID(c.UserContext(), uint(scaleID)); err != nil {
		return helper.FromAppError(c, err)
	}

	criteria, err := cc.Service.GetCriteriaByScale(c.UserContext(), uint(scaleID))
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.CriteriaResponse, 0, len(criteria))
	for i := range criteria {
		items = append(items, dto.NewCriteriaResponse(&criteria[i]))
	}
	return helper.Success(c, "Criteria fetched successfully", items)
}

// PUT /api/scales/:scaleId/criteria/:id
func (cc *CriteriaController) UpdateCriteria(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid criteria ID")
	}

	criteria, err := cc.Service.GetCriteriaByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if err := cc.requireScaleOwnership(c, p, criteria.ScaleID); err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.UpdateCriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := cc.Service.UpdateCriteria(c.UserContext(), uint(id), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] criteria %d updated by user %d", id, p.ID)
	return helper.Success(c, "Criteria updated successfully", dto.NewCriteriaResponse(updated))
}

// DELETE /api/scales/:scaleId/criteria/:id
func (cc *CriteriaController) DeleteCriteria(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid criteria ID")
	}

	criteria, err := cc.Service.GetCriteriaByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if err := cc.requireScaleOwnership(c, p, criteria.ScaleID); err != nil {
		return helper.FromAppError(c, err)
	}

	if err := cc.Service.DeleteCriteria(c.UserContext(), uint(id)); err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] criteria %d deleted by user %d", id, p.ID)
	return helper.Success(c, "Criteria deleted successfully", nil)
}
