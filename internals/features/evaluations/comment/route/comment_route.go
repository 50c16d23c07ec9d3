package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/evaluations/comment/controller"
	authMW "evalku_backend/internals/middlewares/auth"
)

// CommentRoutes mounts the comment endpoints under their evaluation.
// api must already carry the auth middleware.
func CommentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCommentController(db)

	comments := api.Group("/evaluations/:evaluationId/comments")
	comments.Post("/", authMW.RequireRoles(constants.TeacherOnly...), ctrl.CreateComment)
	comments.Get("/", ctrl.GetCommentsByEvaluation)
	comments.Put("/:id", authMW.RequireRoles(constants.TeacherOnly...), ctrl.UpdateComment)
	comments.Delete("/:id", authMW.RequireRoles(constants.TeacherOnly...), ctrl.DeleteComment)
}
