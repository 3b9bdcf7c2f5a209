package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie holds the signed admin session.
const SessionCookie = "admin_token"

// GetRawSessionToken returns the session token from:
// 1) cookie "admin_token"
// 2) Authorization header "Bearer <token>"
func GetRawSessionToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(SessionCookie)); v != "" {
		return v
	}
	const p = "bearer "
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}
