package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"evalku_backend/internals/configs"
	"evalku_backend/internals/features/users/auth/blacklist"
	authService "evalku_backend/internals/features/users/auth/service"
	userDTO "evalku_backend/internals/features/users/user/dto"
	userService "evalku_backend/internals/features/users/user/service"
	helper "evalku_backend/internals/helpers"
)

type AuthController struct {
	Users     *userService.UserService
	Blacklist blacklist.Store
}

func NewAuthController(db *gorm.DB, store blacklist.Store) *AuthController {
	return &AuthController{
		Users:     userService.NewUserService(db, store),
		Blacklist: store,
	}
}

func setSessionCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(configs.AccessTokenTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(configs.RefreshTokenTTL),
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req userDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := ac.Users.Authenticate(c.UserContext(), &req)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	accessToken, err := authService.GenerateAccessToken(user)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	refreshToken, err := authService.GenerateRefreshToken(user)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	// Track both so a later deactivation can revoke them.
	ac.Blacklist.Track(user.ID, accessToken)
	ac.Blacklist.Track(user.ID, refreshToken)
	setSessionCookies(c, accessToken, refreshToken)

	log.Printf("[INFO] user %d logged in", user.ID)
	return helper.Success(c, "Login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userDTO.NewUserResponse(user),
	})
}

// POST /api/auth/refresh-token — exchanges a live refresh token for a
// fresh access token. Revoked refresh tokens are dead even when their
// signature still verifies.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.BodyParser(&req)
	raw := req.RefreshToken
	if raw == "" {
		raw = c.Cookies("refresh_token")
	}
	if raw == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token required")
	}

	if ac.Blacklist.IsRevoked(raw) {
		return helper.Error(c, fiber.StatusUnauthorized, "Token has been revoked")
	}
	claims, err := authService.ParseRefreshToken(raw)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	user, err := ac.Users.GetUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if !user.IsActive() {
		return helper.Error(c, fiber.StatusUnauthorized, "Account is inactive")
	}

	accessToken, err := authService.GenerateAccessToken(user)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	ac.Blacklist.Track(user.ID, accessToken)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(configs.AccessTokenTTL),
	})

	return helper.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": accessToken,
	})
}

// POST /api/auth/logout — runs behind the auth middleware, so the
// token in Locals is valid; it goes straight to the blacklist.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	ac.Blacklist.Revoke(helper.GetRawAccessToken(c))
	if refresh := c.Cookies("refresh_token"); refresh != "" {
		ac.Blacklist.Revoke(refresh)
	}

	c.ClearCookie("access_token", "refresh_token")
	return helper.Success(c, "Logout successful", nil)
}

// GET /api/csrf-token — issues the double-submit pair: the value
// goes out both as a cookie and in the body so the client can echo it
// in X-CSRF-Token.
func (ac *AuthController) CSRFToken(c *fiber.Ctx) error {
	token := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "csrf_token",
		Value:    token,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(12 * time.Hour),
	})
	return helper.Success(c, "CSRF token issued", fiber.Map{
		"csrf_token": token,
	})
}
