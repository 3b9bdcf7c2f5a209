package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/care/visits/dto"
	"churchku_backend/internals/features/care/visits/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
)

type VisitController struct {
	Svc *service.VisitService
}

func NewVisitController(svc *service.VisitService) *VisitController {
	return &VisitController{Svc: svc}
}

// GET /api/sa/visits?year=&month=&visitor_id=&q=
func (vc *VisitController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	year, err := helper.QueryInt(c, "year", dbtime.NowInChurch(c).Year())
	if err != nil {
		return helper.FromError(c, err)
	}
	var month *int
	if c.Query("month") != "" {
		m, err := helper.QueryInt(c, "month", 0)
		if err != nil {
			return helper.FromError(c, err)
		}
		month = &m
	}
	window, err := dto.Window(year, month)
	if err != nil {
		return helper.FromError(c, err)
	}
	visitorID, err := helper.ParseUUIDQuery(c, "visitor_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := vc.Svc.List(c.UserContext(), churchID,
		service.ListFilter{Window: window, VisitorID: visitorID, Q: c.Query("q")}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// GET /api/sa/visits/:id
func (vc *VisitController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	detail, err := vc.Svc.Get(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, detail)
}

// POST /api/sa/visits
func (vc *VisitController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.VisitCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	detail, err := vc.Svc.Create(c.UserContext(), churchID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, detail)
}

// PATCH /api/sa/visits/:id
func (vc *VisitController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.VisitUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	detail, err := vc.Svc.Patch(c.UserContext(), churchID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, detail)
}

// DELETE /api/sa/visits/:id
func (vc *VisitController) Delete(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := vc.Svc.Delete(c.UserContext(), churchID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}

// POST /api/sa/visits/:id/members
func (vc *VisitController) AddMember(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.VisitMemberInput
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	line, err := vc.Svc.AddMember(c.UserContext(), churchID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, line)
}

// PATCH /api/sa/visits/:id/members/:vmId
func (vc *VisitController) PatchMember(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	lineID, err := helper.ParseUUIDParam(c, "vmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.VisitMemberUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	line, err := vc.Svc.PatchMember(c.UserContext(), churchID, id, lineID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, line)
}

// DELETE /api/sa/visits/:id/members/:vmId
func (vc *VisitController) RemoveMember(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	lineID, err := helper.ParseUUIDParam(c, "vmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := vc.Svc.RemoveMember(c.UserContext(), churchID, id, lineID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}
