package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/care/prayers/dto"
	"churchku_backend/internals/features/care/prayers/model"
	"churchku_backend/internals/features/care/prayers/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type PrayerController struct {
	Svc *service.PrayerService
}

func NewPrayerController(svc *service.PrayerService) *PrayerController {
	return &PrayerController{Svc: svc}
}

func parseFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var f service.ListFilter
	if raw := c.Query("source"); raw != "" {
		kind, ok := model.ParseSourceKind(raw)
		if !ok {
			return f, helper.ErrValidation("source 값은 PERSONAL, GATHERING, VISIT 중 하나입니다.")
		}
		f.Source = &kind
	}
	var err error
	if f.MemberID, err = helper.ParseUUIDQuery(c, "member_id"); err != nil {
		return f, err
	}
	if f.GroupID, err = helper.ParseUUIDQuery(c, "group_id"); err != nil {
		return f, err
	}
	if f.VisitID, err = helper.ParseUUIDQuery(c, "visit_id"); err != nil {
		return f, err
	}
	if raw := c.Query("answered"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, helper.ErrValidation("answered 값은 true/false 입니다.")
		}
		f.Answered = &b
	}
	return f, nil
}

// GET /api/sa/prayers?source=&member_id=&group_id=&visit_id=&answered=
func (pc *PrayerController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	f, err := parseFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := pc.Svc.List(c.UserContext(), churchID, f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// GET /api/sa/prayers/:id
func (pc *PrayerController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	row, err := pc.Svc.Get(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, row)
}

// POST /api/sa/prayers
func (pc *PrayerController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.PrayerCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	row, err := pc.Svc.Create(c.UserContext(), churchID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, row)
}

// PATCH /api/sa/prayers/:id
func (pc *PrayerController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.PrayerUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	p, err := pc.Svc.UpdateContent(c.UserContext(), churchID, id, req.Content)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, p)
}

// PATCH /api/sa/prayers/:id/answered
func (pc *PrayerController) SetAnswered(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AnsweredRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	p, err := pc.Svc.SetAnswered(c.UserContext(), churchID, id, req.Answered)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, p)
}

// DELETE /api/sa/prayers/:id
func (pc *PrayerController) Delete(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := pc.Svc.Delete(c.UserContext(), churchID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}
