package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMW "evalku_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the base middleware chain. Auth guards are
// mounted per route group in internals/route.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMW.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
