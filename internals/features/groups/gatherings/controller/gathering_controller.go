package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/groups/gatherings/dto"
	"churchku_backend/internals/features/groups/gatherings/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
)

type GatheringController struct {
	Svc *service.GatheringService
}

func NewGatheringController(svc *service.GatheringService) *GatheringController {
	return &GatheringController{Svc: svc}
}

func optionalInt(c *fiber.Ctx, name string) (*int, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	v, err := helper.QueryInt(c, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GET /api/a/groups/:id/gatherings?year=&month=&week=
func (gc *GatheringController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}

	year, err := helper.QueryInt(c, "year", dbtime.NowInChurch(c).Year())
	if err != nil {
		return helper.FromError(c, err)
	}
	month, err := optionalInt(c, "month")
	if err != nil {
		return helper.FromError(c, err)
	}
	week, err := optionalInt(c, "week")
	if err != nil {
		return helper.FromError(c, err)
	}
	w, err := dto.ResolveWindow(year, month, week)
	if err != nil {
		return helper.FromError(c, err)
	}

	list, err := gc.Svc.List(c.UserContext(), churchID, groupID, w)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, list)
}

// POST /api/a/groups/:id/gatherings
func (gc *GatheringController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GatheringCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	detail, err := gc.Svc.Create(c.UserContext(), churchID, groupID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, detail)
}

// GET /api/a/gatherings/:id
func (gc *GatheringController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	detail, err := gc.Svc.Get(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, detail)
}

// PATCH /api/a/gatherings/:id
func (gc *GatheringController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GatheringUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	detail, err := gc.Svc.Patch(c.UserContext(), churchID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, detail)
}

// PATCH /api/a/gatherings/:id/members/:gmId
func (gc *GatheringController) PatchMember(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	lineID, err := helper.ParseUUIDParam(c, "gmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GatheringMemberUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	line, err := gc.Svc.PatchMember(c.UserContext(), churchID, id, lineID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, line)
}

// DELETE /api/a/gatherings/:id
func (gc *GatheringController) Delete(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := gc.Svc.Delete(c.UserContext(), churchID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}
