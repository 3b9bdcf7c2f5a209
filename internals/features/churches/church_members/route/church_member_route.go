package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/churches/church_members/controller"
	"churchku_backend/internals/features/churches/church_members/service"
)

func ChurchMemberAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewChurchMemberController(service.NewChurchMemberService(db))

	g := admin.Group("/church-members")
	g.Get("/", ctrl.List)
	g.Patch("/:id/role", ctrl.ChangeRole)
	g.Delete("/:id", ctrl.Delete)
}
