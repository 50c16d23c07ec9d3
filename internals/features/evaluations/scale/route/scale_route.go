package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/evaluations/scale/controller"
	authMW "evalku_backend/internals/middlewares/auth"
)

// ScaleRoutes mounts /api/scales and the nested criteria routes.
// api must already carry the auth middleware.
func ScaleRoutes(api fiber.Router, db *gorm.DB) {
	scaleCtrl := controller.NewScaleController(db)
	criteriaCtrl := controller.NewCriteriaController(db)

	scales := api.Group("/scales")
	scales.Post("/", authMW.RequireRoles(constants.TeacherAndAdmin...), scaleCtrl.CreateScale)
	scales.Get("/", scaleCtrl.GetScales)
	scales.Get("/:id", scaleCtrl.GetScaleByID)
	scales.Put("/:id", authMW.RequireRoles(constants.TeacherAndAdmin...), scaleCtrl.UpdateScale)
	scales.Delete("/:id", authMW.RequireRoles(constants.TeacherAndAdmin...), scaleCtrl.DeleteScale)

	criteria := api.Group("/scales/:scaleId/criteria")
	criteria.Post("/", authMW.RequireRoles(constants.TeacherAndAdmin...), criteriaCtrl.CreateCriteria)
	criteria.Get("/", criteriaCtrl.GetCriteriaByScale)
	criteria.Put("/:id", authMW.RequireRoles(constants.TeacherAndAdmin...), criteriaCtrl.UpdateCriteria)
	criteria.Delete("/:id", authMW.RequireRoles(constants.TeacherAndAdmin...), criteriaCtrl.DeleteCriteria)
}
