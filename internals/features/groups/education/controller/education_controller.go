package controller

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/features/groups/education/dto"
	"churchku_backend/internals/features/groups/education/service"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type EducationController struct {
	Svc *service.EducationService
}

func NewEducationController(svc *service.EducationService) *EducationController {
	return &EducationController{Svc: svc}
}

// GET /api/a/groups/:id/program
func (ec *EducationController) GetProgram(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	p, err := ec.Svc.GetProgram(c.UserContext(), churchID, groupID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, p)
}

// PUT /api/a/groups/:id/program
func (ec *EducationController) UpsertProgram(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ProgramUpsertRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	p, created, err := ec.Svc.UpsertProgram(c.UserContext(), churchID, groupID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if created {
		return helper.JsonCreated(c, p)
	}
	return helper.JsonOK(c, p)
}

// GET /api/a/groups/:id/progress
func (ec *EducationController) Progress(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	grid, err := ec.Svc.Progress(c.UserContext(), churchID, groupID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, grid)
}

// PUT /api/a/groups/:id/progress
func (ec *EducationController) SetProgress(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ProgressMarkRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	mark, err := ec.Svc.SetProgress(c.UserContext(), churchID, groupID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, mark)
}

// POST /api/a/education/reconcile
func (ec *EducationController) Reconcile(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	fixed, err := ec.Svc.ReconcileGraduatedCounts(c.UserContext(), &churchID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, fiber.Map{"repaired": fixed, "repaired_count": len(fixed)})
}
