package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/features/users/auth/blacklist"
	"evalku_backend/internals/features/users/auth/controller"
	"evalku_backend/internals/middlewares"
)

// AuthPublicRoutes mounts login, refresh and the CSRF bootstrap.
func AuthPublicRoutes(app fiber.Router, db *gorm.DB, store blacklist.Store) {
	ctrl := controller.NewAuthController(db, store)

	auth := app.Group("/api/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/refresh-token", ctrl.RefreshToken)

	app.Get("/api/csrf-token", ctrl.CSRFToken)
}

// AuthRoutes mounts the session endpoints that need a valid token.
// api must already carry the auth middleware.
func AuthRoutes(api fiber.Router, db *gorm.DB, store blacklist.Store) {
	ctrl := controller.NewAuthController(db, store)

	auth := api.Group("/auth")
	auth.Post("/logout", ctrl.Logout)
}
