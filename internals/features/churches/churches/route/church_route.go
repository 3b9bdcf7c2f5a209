package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/churches/churches/controller"
	"churchku_backend/internals/features/churches/churches/service"
	rateLimiter "churchku_backend/internals/middlewares"
)

// ChurchSystemRoutes mounts under /api/system (system admins only).
func ChurchSystemRoutes(system fiber.Router, db *gorm.DB) {
	ctrl := controller.NewChurchController(service.NewChurchService(db, zap.L()))

	churches := system.Group("/churches")
	churches.Get("/", ctrl.List)
	churches.Post("/", ctrl.Create)
	churches.Get("/:id", ctrl.Get)
	churches.Patch("/:id", ctrl.Patch)
	churches.Delete("/:id", ctrl.Delete)
	churches.Post("/:id/admins", ctrl.AssignAdmin)

	system.Post("/members/:id/reset-password", rateLimiter.PasswordResetRateLimiter(), ctrl.ResetPassword)
}
