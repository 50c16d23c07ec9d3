package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/evaluations/evaluation/controller"
	authMW "evalku_backend/internals/middlewares/auth"
)

// EvaluationRoutes mounts /api/evaluations. api must already carry
// the auth middleware.
func EvaluationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEvaluationController(db)

	evaluations := api.Group("/evaluations")
	evaluations.Post("/", authMW.RequireRoles(constants.TeacherOnly...), ctrl.CreateEvaluation)
	evaluations.Get("/", ctrl.GetEvaluations)
	evaluations.Get("/:id", ctrl.GetEvaluationByID)
	evaluations.Put("/:id", authMW.RequireRoles(constants.TeacherOnly...), ctrl.UpdateEvaluation)
	evaluations.Patch("/:id/status", authMW.RequireRoles(constants.TeacherOnly...), ctrl.ChangeStatus)
	evaluations.Delete("/:id", authMW.RequireRoles(constants.TeacherAndAdmin...), ctrl.DeleteEvaluation)
}
