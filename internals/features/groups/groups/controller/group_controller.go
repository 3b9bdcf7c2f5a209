package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/groups/dto"
	"churchku_backend/internals/features/groups/groups/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type GroupController struct {
	Svc *service.GroupService
}

func NewGroupController(svc *service.GroupService) *GroupController {
	return &GroupController{Svc: svc}
}

// GET /api/a/groups?type=&year=&q=
func (gc *GroupController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	f := service.ListFilter{Q: c.Query("q")}
	if s := strings.TrimSpace(c.Query("type")); s != "" {
		t := constants.GroupType(strings.ToUpper(s))
		if !t.Valid() {
			return helper.FromError(c, helper.ErrValidation("type 값은 NORMAL 또는 NEWCOMER 입니다."))
		}
		f.Type = &t
	}
	if c.Query("year") != "" {
		y, err := helper.QueryInt(c, "year", 0)
		if err != nil {
			return helper.FromError(c, err)
		}
		f.Year = &y
	}

	p := helper.ResolvePaging(c, 50, 500)
	rows, total, err := gc.Svc.List(c.UserContext(), churchID, f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// GET /api/a/groups/:id
func (gc *GroupController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	row, err := gc.Svc.Get(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, row)
}

// POST /api/a/groups
func (gc *GroupController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GroupCreateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	g, err := gc.Svc.Create(c.UserContext(), churchID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, g)
}

// PATCH /api/a/groups/:id
func (gc *GroupController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GroupUpdateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	g, err := gc.Svc.Patch(c.UserContext(), churchID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, g)
}

// DELETE /api/a/groups/:id
func (gc *GroupController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := gc.Svc.Delete(c.UserContext(), actor, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}

// GET /api/a/groups/:id/members?status=
func (gc *GroupController) ListMembers(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var status *constants.GroupMemberStatus
	switch s := constants.GroupMemberStatus(strings.ToUpper(c.Query("status"))); s {
	case "":
	case constants.GroupMemberActive, constants.GroupMemberGraduated:
		status = &s
	default:
		return helper.FromError(c, helper.ErrValidation("status 값은 ACTIVE 또는 GRADUATED 입니다."))
	}
	rows, err := gc.Svc.ListMembers(c.UserContext(), churchID, id, status)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, rows)
}

// POST /api/a/groups/:id/members
func (gc *GroupController) AssignMembers(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignMembersRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := gc.Svc.AssignMembers(c.UserContext(), actor, id, req.MemberIDs, req.GroupRole())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, res)
}

// PATCH /api/a/groups/:id/members/:gmId
func (gc *GroupController) ChangeMemberRole(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	gmID, err := helper.ParseUUIDParam(c, "gmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChangeGroupRoleRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	gm, err := gc.Svc.ChangeMemberRole(c.UserContext(), churchID, id, gmID, constants.GroupRole(req.Role))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, gm)
}

// DELETE /api/a/groups/:id/members/:gmId
func (gc *GroupController) RemoveMember(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	gmID, err := helper.ParseUUIDParam(c, "gmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := gc.Svc.RemoveMember(c.UserContext(), churchID, id, gmID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}

// POST /api/a/groups/:id/members/:gmId/graduate
func (gc *GroupController) Graduate(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	gmID, err := helper.ParseUUIDParam(c, "gmId")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GraduateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := gc.Svc.GraduateMember(c.UserContext(), actor, id, gmID, req.TargetGroupID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}
