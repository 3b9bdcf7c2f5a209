package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/care/visits/controller"
	"churchku_backend/internals/features/care/visits/service"
)

// VisitSuperAdminRoutes mounts under /api/sa.
func VisitSuperAdminRoutes(sa fiber.Router, db *gorm.DB) {
	ctrl := controller.NewVisitController(service.NewVisitService(db, zap.L()))

	g := sa.Group("/visits")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/members", ctrl.AddMember)
	g.Patch("/:id/members/:vmId", ctrl.PatchMember)
	g.Delete("/:id/members/:vmId", ctrl.RemoveMember)
}
