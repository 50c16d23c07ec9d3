package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/users/auth/blacklist"
	"evalku_backend/internals/features/users/user/controller"
	"evalku_backend/internals/middlewares"
	authMW "evalku_backend/internals/middlewares/auth"
)

// UserPublicRoutes mounts the endpoints that work without a session.
func UserPublicRoutes(app fiber.Router, db *gorm.DB, store blacklist.Store) {
	ctrl := controller.NewUserController(db, store)

	app.Post("/api/users/register", middlewares.RegisterRateLimiter(), ctrl.Register)
}

// UserRoutes mounts /api/users. api must already carry the auth
// middleware.
func UserRoutes(api fiber.Router, db *gorm.DB, store blacklist.Store) {
	ctrl := controller.NewUserController(db, store)

	users := api.Group("/users")
	users.Post("/", authMW.RequireRoles(constants.AdminOnly...), ctrl.CreateUser)
	users.Get("/", ctrl.GetUsers)
	users.Get("/:id", ctrl.GetUserByID)
	users.Put("/:id", ctrl.UpdateUser)
	users.Delete("/:id", ctrl.DeleteUser)
}
