package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	commentRoute "evalku_backend/internals/features/evaluations/comment/route"
	evaluationRoute "evalku_backend/internals/features/evaluations/evaluation/route"
	gradeRoute "evalku_backend/internals/features/evaluations/grade/route"
	scaleRoute "evalku_backend/internals/features/evaluations/scale/route"
	authRoute "evalku_backend/internals/features/users/auth/route"
	"evalku_backend/internals/features/users/auth/blacklist"
	userRoute "evalku_backend/internals/features/users/user/route"
	authMW "evalku_backend/internals/middlewares/auth"
)

// SetupRoutes wires the public endpoints and the authenticated /api
// group. The blacklist store is shared so logout and deactivation are
// visible to the middleware immediately.
func SetupRoutes(app *fiber.App, db *gorm.DB, store blacklist.Store) {
	authRoute.AuthPublicRoutes(app, db, store)
	userRoute.UserPublicRoutes(app, db, store)

	api := app.Group("/api", authMW.AuthMiddleware(db, store))
	authRoute.AuthRoutes(api, db, store)
	userRoute.UserRoutes(api, db, store)
	scaleRoute.ScaleRoutes(api, db)
	evaluationRoute.EvaluationRoutes(api, db)
	gradeRoute.GradeRoutes(api, db)
	commentRoute.CommentRoutes(api, db)
}
