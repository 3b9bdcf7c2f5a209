package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/churches/join_requests/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type JoinRequestController struct {
	Svc *service.JoinRequestService
}

func NewJoinRequestController(svc *service.JoinRequestService) *JoinRequestController {
	return &JoinRequestController{Svc: svc}
}

// GET /api/a/join-requests?status=PENDING
func (jc *JoinRequestController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var status *constants.RequestStatus
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		st := constants.RequestStatus(s)
		if !st.Valid() {
			return helper.FromError(c, helper.ErrValidation("status 값이 올바르지 않습니다."))
		}
		status = &st
	}
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := jc.Svc.List(c.UserContext(), churchID, status, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, rows, p.Build(total, len(rows)))
}

// POST /api/a/join-requests/:id/approve
func (jc *JoinRequestController) Approve(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := jc.Svc.Approve(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// POST /api/a/join-requests/:id/decline
func (jc *JoinRequestController) Decline(c *fiber.Ctx) error {
	actor, err := helperAuth.MustIdentity(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := jc.Svc.Decline(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}

// GET /api/a/join-requests/:id/approver
func (jc *JoinRequestController) Approver(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := jc.Svc.Approver(c.UserContext(), churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res)
}
