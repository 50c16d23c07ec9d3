package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/evaluations/grade/controller"
	authMW "evalku_backend/internals/middlewares/auth"
)

// GradeRoutes mounts the grade endpoints under their evaluation. api
// must already carry the auth middleware.
func GradeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGradeController(db)

	grades := api.Group("/evaluations/:evaluationId/grades")
	grades.Post("/", authMW.RequireRoles(constants.TeacherOnly...), ctrl.CreateGrade)
	grades.Get("/", ctrl.GetGradesByEvaluation)
	grades.Put("/:id", authMW.RequireRoles(constants.TeacherOnly...), ctrl.UpdateGrade)
	grades.Delete("/:id", authMW.RequireRoles(constants.TeacherOnly...), ctrl.DeleteGrade)
}
