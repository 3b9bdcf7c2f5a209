package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	eventRoute "churchku_backend/internals/features/calendar/events/route"
	prayerRoute "churchku_backend/internals/features/care/prayers/route"
	visitRoute "churchku_backend/internals/features/care/visits/route"
	churchMemberRoute "churchku_backend/internals/features/churches/church_members/route"
	churchRoute "churchku_backend/internals/features/churches/churches/route"
	joinRequestRoute "churchku_backend/internals/features/churches/join_requests/route"
	educationRoute "churchku_backend/internals/features/groups/education/route"
	gatheringRoute "churchku_backend/internals/features/groups/gatherings/route"
	groupRoute "churchku_backend/internals/features/groups/groups/route"
	dashboardRoute "churchku_backend/internals/features/reports/dashboard/route"
	authRoute "churchku_backend/internals/features/users/auth/route"
	authService "churchku_backend/internals/features/users/auth/service"
	memberRoute "churchku_backend/internals/features/users/members/route"
	authMiddleware "churchku_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes mounts every API group:
//
//	/api/auth    login, church selection, register, session
//	/api/system  system admins (church lifecycle, password reset)
//	/api/a       church ADMIN and above
//	/api/sa      church SUPER_ADMIN only (visits, prayers)
func SetupRoutes(app *fiber.App, db *gorm.DB, svc *authService.AuthService, gate *authService.SessionGate) {
	startTime = time.Now()
	log := zap.L()

	log.Info("mounting auth routes")
	authRoute.AuthRoutes(app, svc, gate)

	system := app.Group("/api/system",
		authMiddleware.AuthSession(gate),
		authMiddleware.RequireSystemAdmin("교회 관리"),
	)
	log.Info("mounting system routes")
	churchRoute.ChurchSystemRoutes(system, db)

	admin := app.Group("/api/a",
		authMiddleware.AuthSession(gate),
		authMiddleware.OnlyAdmins("관리자 화면"),
	)
	log.Info("mounting admin routes")
	memberRoute.MemberAdminRoutes(admin, db)
	churchMemberRoute.ChurchMemberAdminRoutes(admin, db)
	joinRequestRoute.JoinRequestAdminRoutes(admin, db)
	groupRoute.GroupAdminRoutes(admin, db)
	educationRoute.EducationAdminRoutes(admin, db)
	gatheringRoute.GatheringAdminRoutes(admin, db)
	eventRoute.EventAdminRoutes(admin, db)
	dashboardRoute.DashboardAdminRoutes(admin, db)

	sa := app.Group("/api/sa",
		authMiddleware.AuthSession(gate),
		authMiddleware.OnlySuperAdmins("심방 및 기도제목"),
	)
	log.Info("mounting super admin routes")
	visitRoute.VisitSuperAdminRoutes(sa, db)
	prayerRoute.PrayerSuperAdminRoutes(sa, db)
}
