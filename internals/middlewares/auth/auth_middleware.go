package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/users/auth/blacklist"
	authService "evalku_backend/internals/features/users/auth/service"
	userModel "evalku_backend/internals/features/users/user/model"
	helper "evalku_backend/internals/helpers"
	helperAuth "evalku_backend/internals/helpers/auth"
)

// AuthMiddleware verifies the bearer token, rejects revoked or expired
// sessions, confirms the account is still active and stores the
// principal in Locals.
func AuthMiddleware(db *gorm.DB, store blacklist.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := helper.GetRawAccessToken(c)
		if tokenString == "" {
			return helper.Error(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
		}

		if store.IsRevoked(tokenString) {
			return helper.Error(c, fiber.StatusUnauthorized, "Token has been revoked")
		}

		claims, err := authService.ParseAccessToken(tokenString)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		var user userModel.UserModel
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.Error(c, fiber.StatusUnauthorized, "User not found")
			}
			log.Printf("[ERROR] auth middleware user lookup: %v", err)
			return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if !user.IsActive() {
			return helper.Error(c, fiber.StatusForbidden, "Account has been deactivated")
		}

		helper.SetRawAccessToken(c, tokenString)
		helperAuth.SetPrincipal(c, helperAuth.Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})

		// Double-submit CSRF check for state-changing browser requests.
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			if err := helper.CheckCSRFCookieHeader(c); err != nil {
				fe := err.(*fiber.Error)
				return helper.Error(c, fe.Code, fe.Message)
			}
		}

		return c.Next()
	}
}

// RequireRoles restricts a route to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...constants.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := helperAuth.GetPrincipal(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Authentication required")
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return helper.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}
}
