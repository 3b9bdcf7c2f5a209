package route

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/users/auth/controller"
	"churchku_backend/internals/features/users/auth/service"
	rateLimiter "churchku_backend/internals/middlewares"
	authMiddleware "churchku_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. Login and register carry their own stricter limiters.
func AuthRoutes(app *fiber.App, svc *service.AuthService, gate *service.SessionGate) {
	ctrl := controller.NewAuthController(svc, gate)

	baseAuth := app.Group("/api/auth")

	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), ctrl.Login)
	baseAuth.Post("/select-church", rateLimiter.LoginRateLimiter(), ctrl.SelectChurch)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), ctrl.Register)
	baseAuth.Post("/logout", ctrl.Logout)

	protectedAuth := baseAuth.Group("", authMiddleware.AuthSession(gate))
	protectedAuth.Get("/me", ctrl.Me)
	protectedAuth.Post("/change-password", rateLimiter.LoginRateLimiter(), ctrl.ChangePassword)
}
