package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/calendar/events/controller"
)

// EventAdminRoutes mounts under /api/a.
func EventAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventController(db)

	g := admin.Group("/events")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
