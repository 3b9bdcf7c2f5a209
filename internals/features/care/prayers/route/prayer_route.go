package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/care/prayers/controller"
	"churchku_backend/internals/features/care/prayers/service"
)

// PrayerSuperAdminRoutes mounts under /api/sa.
func PrayerSuperAdminRoutes(sa fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPrayerController(service.NewPrayerService(db))

	g := sa.Group("/prayers")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Patch("/:id/answered", ctrl.SetAnswered)
	g.Delete("/:id", ctrl.Delete)
}
