package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/churches/churches/dto"
	"churchku_backend/internals/features/churches/churches/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type ChurchController struct {
	Svc *service.ChurchService
}

func NewChurchController(svc *service.ChurchService) *ChurchController {
	return &ChurchController{Svc: svc}
}

// GET /api/system/churches?q=
func (cc *ChurchController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := cc.Svc.List(c.UserContext(), c.Query("q"), p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// GET /api/system/churches/:id
func (cc *ChurchController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := cc.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// POST /api/system/churches
func (cc *ChurchController) Create(c *fiber.Ctx) error {
	var req dto.ChurchCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := cc.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, res)
}

// PATCH /api/system/churches/:id
func (cc *ChurchController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChurchUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := cc.Svc.Patch(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// DELETE /api/system/churches/:id
func (cc *ChurchController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := cc.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}

// POST /api/system/churches/:id/admins
func (cc *ChurchController) AssignAdmin(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignAdminRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := cc.Svc.AssignAdmin(c.UserContext(), actor.MemberID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if res.Created {
		return helper.JsonCreated(c, res)
	}
	return helper.JsonOK(c, res)
}

// POST /api/system/members/:id/reset-password
func (cc *ChurchController) ResetPassword(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ResetPasswordRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := cc.Svc.ResetPassword(c.UserContext(), actor.MemberID, id, req); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, fiber.Map{"reset": true})
}
