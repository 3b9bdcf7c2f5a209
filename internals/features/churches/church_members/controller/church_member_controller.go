package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/churches/church_members/dto"
	"churchku_backend/internals/features/churches/church_members/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type ChurchMemberController struct {
	Svc *service.ChurchMemberService
}

func NewChurchMemberController(svc *service.ChurchMemberService) *ChurchMemberController {
	return &ChurchMemberController{Svc: svc}
}

// GET /api/a/church-members?role=
func (cc *ChurchMemberController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var role *constants.ChurchRole
	if s := c.Query("role"); s != "" {
		r, ok := constants.ParseChurchRole(s)
		if !ok {
			return helper.FromError(c, helper.ErrValidation("role 값이 올바르지 않습니다."))
		}
		role = &r
	}
	p := helper.ResolvePaging(c, 50, 500)
	rows, total, err := cc.Svc.List(c.UserContext(), churchID, role, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// PATCH /api/a/church-members/:id/role
func (cc *ChurchMemberController) ChangeRole(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChangeRoleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	cm, err := cc.Svc.ChangeRole(c.UserContext(), actor, id, constants.ChurchRole(req.Role))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, cm)
}

// DELETE /api/a/church-members/:id
func (cc *ChurchMemberController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := cc.Svc.Remove(c.UserContext(), actor, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}
