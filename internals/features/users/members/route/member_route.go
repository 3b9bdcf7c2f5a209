package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/configs"
	"churchku_backend/internals/features/users/members/controller"
	"churchku_backend/internals/features/users/members/service"
)

// MemberAdminRoutes mounts under /api/a (ADMIN and above).
func MemberAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMemberController(service.NewMemberService(db, configs.UploadDir, zap.L()))

	g := admin.Group("/members")
	g.Get("/", ctrl.List)
	g.Get("/birthdays", ctrl.Birthdays)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/photo", ctrl.UploadPhoto)
}
