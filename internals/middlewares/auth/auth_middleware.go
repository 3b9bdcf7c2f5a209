package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

// SessionParser resolves a raw token into an identity, nil when it must not be honoured.
type SessionParser interface {
	ParseSession(ctx context.Context, raw string) *helperAuth.Identity
}

// AuthSession rejects requests without a live session and stores the identity in Locals.
func AuthSession(gate SessionParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawSessionToken(c)
		if raw == "" {
			return helper.FromError(c, helper.ErrUnauthenticated(""))
		}
		id := gate.ParseSession(c.UserContext(), raw)
		if id == nil {
			return helper.FromError(c, helper.ErrUnauthenticated("세션이 만료되었습니다. 다시 로그인해주세요."))
		}
		helperAuth.SetIdentity(c, id)
		return c.Next()
	}
}
