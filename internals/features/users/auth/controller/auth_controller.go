package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/configs"
	"churchku_backend/internals/features/users/auth/dto"
	"churchku_backend/internals/features/users/auth/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc  *service.AuthService
	Gate *service.SessionGate
}

func NewAuthController(svc *service.AuthService, gate *service.SessionGate) *AuthController {
	return &AuthController{Svc: svc, Gate: gate}
}

func setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	res, err := ac.Svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// POST /api/auth/select-church
func (ac *AuthController) SelectChurch(c *fiber.Ctx) error {
	var req dto.SelectChurchRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	token, id, err := ac.Svc.SelectChurch(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	setSessionCookie(c, token, id.ExpiresAt)
	return helper.JsonOK(c, dto.SessionResponse{Identity: id, ExpiresAt: id.ExpiresAt})
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	res, err := ac.Svc.Register(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, res)
}

// POST /api/auth/logout
// Works without a valid session so a stale cookie can always be cleared.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if raw := helper.GetRawSessionToken(c); raw != "" {
		if id := ac.Gate.ParseSession(c.UserContext(), raw); id != nil {
			if err := ac.Svc.Logout(c.UserContext(), id); err != nil {
				return helper.FromError(c, err)
			}
		}
	}
	clearSessionCookie(c)
	return helper.JsonNoContent(c)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	id, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := ac.Svc.Me(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	id, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), id.MemberID, req); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, fiber.Map{"changed": true})
}
