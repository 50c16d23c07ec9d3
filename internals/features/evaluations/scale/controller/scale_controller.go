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

type ScaleController struct {
	Service *service.ScaleService
}

func NewScaleController(db *gorm.DB) *ScaleController {
	return &ScaleController{Service: service.NewScaleService(db)}
}

// POST /api/scales
func (sc *ScaleController) CreateScale(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateScaleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	scale, err := sc.Service.CreateScale(c.UserContext(), p.ID, &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] scale %d created by user %d", scale.ID, p.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Scale created successfully", dto.NewScaleResponse(scale))
}

// GET /api/scales — admin sees all, others see their own.
func (sc *ScaleController) GetScales(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var creatorFilter *uint
	if !p.IsAdmin() {
		creatorFilter = &p.ID
	}

	scales, total, err := sc.Service.GetScales(c.UserContext(), creatorFilter, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	items := make([]dto.ScaleResponse, 0, len(scales))
	for i := range scales {
		items = append(items, dto.NewScaleResponse(&scales[i]))
	}
	return helper.Success(c, "Scales fetched successfully", fiber.Map{
		"scales":     items,
		"pagination": helper.BuildPagination(paging, total),
	})
}

// GET /api/scales/:id — any authenticated user.
func (sc *ScaleController) GetScaleByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scale ID")
	}

	scale, err := sc.Service.GetScaleByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Scale fetched successfully", dto.NewScaleResponse(scale))
}

// PUT /api/scales/:id — creator or admin only.
func (sc *ScaleController) UpdateScale(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scale ID")
	}

	scale, err := sc.Service.GetScaleByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanModifyScale(p, scale) {
		return helper.Error(c, fiber.StatusForbidden, "Only the creator or admin can modify this scale")
	}

	var req dto.UpdateScaleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := sc.Service.UpdateScale(c.UserContext(), uint(id), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] scale %d updated by user %d", updated.ID, p.ID)
	return helper.Success(c, "Scale updated successfully", dto.NewScaleResponse(updated))
}

// DELETE /api/scales/:id — creator or admin only.
func (sc *ScaleController) DeleteScale(c *fiber.Ctx) error {
	p, err := helperAuth.GetPrincipal(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scale ID")
	}

	scale, err := sc.Service.GetScaleByID(c.UserContext(), uint(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !policy.CanModifyScale(p, scale) {
		return helper.Error(c, fiber.StatusForbidden, "Only the creator or admin can delete this scale")
	}

	if err := sc.Service.DeleteScale(c.UserContext(), uint(id)); err != nil {
		return helper.FromAppError(c, err)
	}

	log.Printf("[INFO] scale %d deleted by user %d", id, p.ID)
	return helper.Success(c, "Scale deleted successfully", nil)
}
