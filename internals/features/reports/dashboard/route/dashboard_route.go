package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/configs"
	"churchku_backend/internals/features/reports/dashboard/controller"
	"churchku_backend/internals/features/reports/dashboard/service"
	memberController "churchku_backend/internals/features/users/members/controller"
	memberService "churchku_backend/internals/features/users/members/service"
)

// DashboardAdminRoutes mounts under /api/a.
func DashboardAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDashboardController(service.NewDashboardService(db, zap.L()))
	members := memberController.NewMemberController(memberService.NewMemberService(db, configs.UploadDir, zap.L()))

	d := admin.Group("/dashboard")
	d.Get("/weekly", ctrl.Weekly)
	d.Get("/stats", ctrl.Stats)
	d.Get("/birthdays", members.Birthdays)

	admin.Get("/reports/attendance", ctrl.AttendanceReport)
}
