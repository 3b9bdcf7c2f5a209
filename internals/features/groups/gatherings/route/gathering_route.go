package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/groups/gatherings/controller"
	"churchku_backend/internals/features/groups/gatherings/service"
)

// GatheringAdminRoutes mounts under /api/a.
func GatheringAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGatheringController(service.NewGatheringService(db, zap.L()))

	admin.Get("/groups/:id/gatherings", ctrl.List)
	admin.Post("/groups/:id/gatherings", ctrl.Create)

	g := admin.Group("/gatherings")
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
	g.Patch("/:id/members/:gmId", ctrl.PatchMember)
}
