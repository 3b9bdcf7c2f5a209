package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"churchku_backend/internals/features/churches/join_requests/controller"
	"churchku_backend/internals/features/churches/join_requests/service"
)

func JoinRequestAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewJoinRequestController(service.NewJoinRequestService(db))

	g := admin.Group("/join-requests")
	g.Get("/", ctrl.List)
	g.Post("/:id/approve", ctrl.Approve)
	g.Post("/:id/decline", ctrl.Decline)
	g.Get("/:id/approver", ctrl.Approver)
}
