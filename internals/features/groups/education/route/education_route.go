package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/groups/education/controller"
	"churchku_backend/internals/features/groups/education/service"
)

// EducationAdminRoutes mounts under /api/a.
func EducationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEducationController(service.NewEducationService(db, zap.L()))

	g := admin.Group("/groups/:id")
	g.Get("/program", ctrl.GetProgram)
	g.Put("/program", ctrl.UpsertProgram)
	g.Get("/progress", ctrl.Progress)
	g.Put("/progress", ctrl.SetProgress)

	admin.Post("/education/reconcile", ctrl.Reconcile)
}
