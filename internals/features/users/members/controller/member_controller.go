package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/users/members/dto"
	"churchku_backend/internals/features/users/members/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
)

type MemberController struct {
	Svc *service.MemberService
}

func NewMemberController(svc *service.MemberService) *MemberController {
	return &MemberController{Svc: svc}
}

// GET /api/a/members?q=&role=&page=&per_page=
func (mc *MemberController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	f := service.ListFilter{Q: c.Query("q")}
	if s := c.Query("role"); s != "" {
		r, ok := constants.ParseChurchRole(s)
		if !ok {
			return helper.FromError(c, helper.ErrValidation("role 값이 올바르지 않습니다."))
		}
		f.Role = &r
	}
	p := helper.ResolvePaging(c, 20, 200)

	items, total, err := mc.Svc.List(c.UserContext(), churchID, f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, items, p.Build(total, len(items)))
}

// GET /api/a/members/:id
func (mc *MemberController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := mc.Svc.Get(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// POST /api/a/members
func (mc *MemberController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.MemberCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	res, err := mc.Svc.Create(c.UserContext(), churchID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, res)
}

// PATCH /api/a/members/:id
func (mc *MemberController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.MemberUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := mc.Svc.Patch(c.UserContext(), churchID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// DELETE /api/a/members/:id
func (mc *MemberController) Delete(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := mc.Svc.Delete(c.UserContext(), churchID, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}

// POST /api/a/members/:id/photo (multipart field "photo")
func (mc *MemberController) UploadPhoto(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.FromError(c, helper.ErrValidation("사진 파일이 필요합니다."))
	}
	url, err := mc.Svc.SetPhoto(c.UserContext(), churchID, id, fh)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, fiber.Map{"member_photo_url": url})
}

// GET /api/a/members/birthdays?week_offset=
func (mc *MemberController) Birthdays(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	offset, err := helper.QueryInt(c, "week_offset", 0)
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := mc.Svc.Birthdays(c.UserContext(), churchID, dbtime.NowInChurch(c), offset)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}
