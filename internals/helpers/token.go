package helper

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Raw JWT stored in Locals by the auth middleware.
const LocRawToken = "raw_token"

// GetRawAccessToken returns the access token from:
// 1) Locals("raw_token") set by the middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}

// CheckCSRFCookieHeader enforces the double-submit pattern for
// state-changing browser requests: header X-CSRF-Token must match the
// csrf_token cookie. Requests without the cookie (pure API clients)
// are not subject to the check.
func CheckCSRFCookieHeader(c *fiber.Ctx) error {
	csrfCookie := strings.TrimSpace(c.Cookies("csrf_token"))
	if csrfCookie == "" {
		return nil
	}
	csrfHeader := strings.TrimSpace(c.Get("X-CSRF-Token"))
	if csrfHeader == "" {
		return fiber.NewError(fiber.StatusForbidden, "CSRF token missing (header)")
	}
	if subtle.ConstantTimeCompare([]byte(csrfCookie), []byte(csrfHeader)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "CSRF token mismatch")
	}
	return nil
}
