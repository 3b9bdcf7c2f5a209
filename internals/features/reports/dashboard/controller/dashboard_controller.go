package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"churchku_backend/internals/features/reports/dashboard/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

func monthParam(c *fiber.Ctx, def time.Month) (time.Month, error) {
	m, err := helper.QueryInt(c, "month", int(def))
	if err != nil {
		return 0, err
	}
	if m < 1 || m > 12 {
		return 0, helper.ErrValidation("month 값은 1~12 입니다.")
	}
	return time.Month(m), nil
}

// GET /api/a/dashboard/weekly?year=&month=&week=
// Without parameters the reporting week containing today is used.
func (dc *DashboardController) Weekly(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	y, m, w := dbtime.WeekIndexOf(dbtime.TodayInChurch(c))

	year, err := helper.QueryInt(c, "year", y)
	if err != nil {
		return helper.FromError(c, err)
	}
	month, err := monthParam(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	week, err := helper.QueryInt(c, "week", w)
	if err != nil {
		return helper.FromError(c, err)
	}

	r, ok := dbtime.WeekRange(year, month, week)
	rep, err := dc.Svc.Weekly(c.UserContext(), churchID, r, ok)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, rep)
}

// GET /api/a/dashboard/stats?year=
func (dc *DashboardController) Stats(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	year, err := helper.QueryInt(c, "year", dbtime.NowInChurch(c).Year())
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := dc.Svc.Stats(c.UserContext(), churchID, year)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, st)
}

// GET /api/a/reports/attendance?year=&month=  (xlsx download)
func (dc *DashboardController) AttendanceReport(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	now := dbtime.NowInChurch(c)
	year, err := helper.QueryInt(c, "year", now.Year())
	if err != nil {
		return helper.FromError(c, err)
	}
	month, err := monthParam(c, now.Month())
	if err != nil {
		return helper.FromError(c, err)
	}

	rep, err := dc.Svc.MonthlyAttendance(c.UserContext(), churchID, year, month)
	if err != nil {
		return helper.FromError(c, err)
	}
	b, err := service.RenderAttendanceXLSX(rep)
	if err != nil {
		zap.L().Error("render attendance report", zap.Error(err))
		return helper.FromError(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(rep.FileName()))
	return c.Send(b)
}
