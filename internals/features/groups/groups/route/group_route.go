package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/groups/groups/controller"
	"churchku_backend/internals/features/groups/groups/service"
)

// GroupAdminRoutes mounts under /api/a.
func GroupAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGroupController(service.NewGroupService(db, zap.L()))

	g := admin.Group("/groups")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)

	g.Get("/:id/members", ctrl.ListMembers)
	g.Post("/:id/members", ctrl.AssignMembers)
	g.Patch("/:id/members/:gmId", ctrl.ChangeMemberRole)
	g.Delete("/:id/members/:gmId", ctrl.RemoveMember)
	g.Post("/:id/members/:gmId/graduate", ctrl.Graduate)
}
