package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	m "churchku_backend/internals/features/calendar/events/model"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

const (
	msgTimeFormat = "시간 형식은 HH:MM 입니다."
	msgTimeOrder  = "종료 시간은 시작 시간보다 늦어야 합니다."
)

/* =========================
   Requests
   ========================= */

type CreateEventRequest struct {
	Title       string  `json:"event_title"       validate:"required,max=160"`
	Description *string `json:"event_description" validate:"omitempty,max=5000"`
	Date        string  `json:"event_date"        validate:"required,datetime=2006-01-02"`
	StartTime   *string `json:"event_start_time"`
	EndTime     *string `json:"event_end_time"`
	Location    *string `json:"event_location"    validate:"omitempty,max=200"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreateEventRequest) ToModel(churchID uuid.UUID) (m.EventModel, error) {
	r.Normalize()
	if r.Title == "" {
		return m.EventModel{}, helper.ErrValidationFields(map[string]string{"Title": "required"})
	}
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return m.EventModel{}, err
	}
	start, err := dbtime.ParseTodPtr(r.StartTime)
	if err != nil {
		return m.EventModel{}, helper.ErrValidation(msgTimeFormat)
	}
	end, err := dbtime.ParseTodPtr(r.EndTime)
	if err != nil {
		return m.EventModel{}, helper.ErrValidation(msgTimeFormat)
	}
	if !dbtime.OrderedTods(start, end) {
		return m.EventModel{}, helper.ErrValidation(msgTimeOrder)
	}
	return m.EventModel{
		EventChurchID:    churchID,
		EventTitle:       r.Title,
		EventDescription: helper.TrimPtr(r.Description),
		EventDate:        d,
		EventStartTime:   start,
		EventEndTime:     end,
		EventLocation:    helper.TrimPtr(r.Location),
	}, nil
}

// PatchEventRequest: nil leaves a field alone, "" clears an optional one.
type PatchEventRequest struct {
	Title       *string `json:"event_title"       validate:"omitempty,min=1,max=160"`
	Description *string `json:"event_description" validate:"omitempty,max=5000"`
	Date        *string `json:"event_date"        validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"event_start_time"`
	EndTime     *string `json:"event_end_time"`
	Location    *string `json:"event_location"    validate:"omitempty,max=200"`
}

func (r *PatchEventRequest) Apply(e *m.EventModel) error {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return helper.ErrValidationFields(map[string]string{"Title": "required"})
		}
		e.EventTitle = t
	}
	if r.Description != nil {
		e.EventDescription = helper.TrimPtr(r.Description)
	}
	if r.Date != nil {
		d, err := helper.ParseDate(*r.Date)
		if err != nil {
			return err
		}
		e.EventDate = d
	}
	if r.StartTime != nil {
		t, err := dbtime.ParseTodPtr(r.StartTime)
		if err != nil {
			return helper.ErrValidation(msgTimeFormat)
		}
		e.EventStartTime = t
	}
	if r.EndTime != nil {
		t, err := dbtime.ParseTodPtr(r.EndTime)
		if err != nil {
			return helper.ErrValidation(msgTimeFormat)
		}
		e.EventEndTime = t
	}
	if !dbtime.OrderedTods(e.EventStartTime, e.EventEndTime) {
		return helper.ErrValidation(msgTimeOrder)
	}
	if r.Location != nil {
		e.EventLocation = helper.TrimPtr(r.Location)
	}
	return nil
}

/* =========================
   Query
   ========================= */

type ListEventsQuery struct {
	Year  int  `query:"year"`
	Month *int `query:"month" validate:"omitempty,min=1,max=12"`
}

// Normalize fills the year from the church clock when absent.
func (q *ListEventsQuery) Normalize(now time.Time) {
	if q.Year <= 0 {
		q.Year = now.Year()
	}
}

func (q *ListEventsQuery) Window() dbtime.Range {
	if q.Month != nil {
		return dbtime.MonthRange(q.Year, time.Month(*q.Month))
	}
	return dbtime.YearRange(q.Year)
}
