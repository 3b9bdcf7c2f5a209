package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	d "churchku_backend/internals/features/calendar/events/dto"
	m "churchku_backend/internals/features/calendar/events/model"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
)

/* =========================
   Controller & Constructor
   ========================= */

type EventController struct {
	DB *gorm.DB
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db}
}

func (ctl *EventController) find(c *fiber.Ctx, churchID, id uuid.UUID) (*m.EventModel, error) {
	var e m.EventModel
	err := ctl.DB.WithContext(c.UserContext()).
		Where("event_id = ? AND event_church_id = ?", id, churchID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound("일정을 찾을 수 없습니다.")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

/* =========================
   List  GET /api/a/events?year=&month=
   ========================= */

func (ctl *EventController) List(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var q d.ListEventsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.FromError(c, helper.ErrValidation("조회 조건이 올바르지 않습니다."))
	}
	q.Normalize(dbtime.NowInChurch(c))
	if err := helper.ValidateStruct(&q); err != nil {
		return helper.FromError(c, err)
	}
	w := q.Window()

	rows := make([]m.EventModel, 0)
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("event_church_id = ?", churchID).
		Where("event_date BETWEEN ? AND ?", w.Start, w.End).
		Order("event_date ASC, event_start_time ASC NULLS FIRST, event_title ASC").
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, rows)
}

/* =========================
   Get  GET /api/a/events/:id
   ========================= */

func (ctl *EventController) Get(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	e, err := ctl.find(c, churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, e)
}

/* =========================
   Create  POST /api/a/events
   ========================= */

func (ctl *EventController) Create(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req d.CreateEventRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	e, err := req.ToModel(churchID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&e).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, e)
}

/* =========================
   Patch  PATCH /api/a/events/:id
   ========================= */

func (ctl *EventController) Patch(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req d.PatchEventRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	existing, err := ctl.find(c, churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := req.Apply(existing); err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(existing).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, existing)
}

/* =========================
   Delete (soft)  DELETE /api/a/events/:id
   ========================= */

func (ctl *EventController) Delete(c *fiber.Ctx) error {
	churchID, err := helperAuth.GetChurchIDFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	existing, err := ctl.find(c, churchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(existing).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonNoContent(c)
}
