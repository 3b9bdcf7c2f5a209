package dto

import (
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/features/care/visits/model"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

const msgTimeOrder = "종료 시간은 시작 시간보다 늦어야 합니다."

type VisitMemberInput struct {
	ChurchMemberID uuid.UUID `json:"church_member_id"   validate:"required"`
	Story          *string   `json:"visit_member_story" validate:"omitempty,max=5000"`
}

// VisitCreateRequest: visitor and visited people are church_member ids of the tenant.
type VisitCreateRequest struct {
	VisitorID uuid.UUID          `json:"visit_visitor_id" validate:"required"`
	Date      string             `json:"visit_date"       validate:"required,datetime=2006-01-02"`
	StartTime *string            `json:"visit_start_time"`
	EndTime   *string            `json:"visit_end_time"`
	Place     *string            `json:"visit_place"      validate:"omitempty,max=200"`
	Expense   *int64             `json:"visit_expense"    validate:"omitempty,min=0"`
	Notes     *string            `json:"visit_notes"      validate:"omitempty,max=5000"`
	Members   []VisitMemberInput `json:"members"          validate:"omitempty,max=50,dive"`
}

func parseTimes(start, end *string) (*dbtime.Tod, *dbtime.Tod, error) {
	s, err := dbtime.ParseTodPtr(start)
	if err != nil {
		return nil, nil, helper.ErrValidation("시간 형식은 HH:MM 입니다.")
	}
	e, err := dbtime.ParseTodPtr(end)
	if err != nil {
		return nil, nil, helper.ErrValidation("시간 형식은 HH:MM 입니다.")
	}
	return s, e, nil
}

func (r *VisitCreateRequest) ToModel(churchID uuid.UUID) (*model.VisitModel, error) {
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, end, err := parseTimes(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	if !dbtime.OrderedTods(start, end) {
		return nil, helper.ErrValidation(msgTimeOrder)
	}
	return &model.VisitModel{
		VisitChurchID:  churchID,
		VisitVisitorID: r.VisitorID,
		VisitDate:      d,
		VisitStartTime: start,
		VisitEndTime:   end,
		VisitPlace:     helper.TrimPtr(r.Place),
		VisitExpense:   r.Expense,
		VisitNotes:     helper.TrimPtr(r.Notes),
	}, nil
}

// ChurchMemberIDs lists the visitor and every visited person.
func (r *VisitCreateRequest) ChurchMemberIDs() []uuid.UUID {
	ids := []uuid.UUID{r.VisitorID}
	for _, m := range r.Members {
		ids = append(ids, m.ChurchMemberID)
	}
	return ids
}

// VisitUpdateRequest is a PATCH; a blank time clears it.
type VisitUpdateRequest struct {
	VisitorID *uuid.UUID `json:"visit_visitor_id"`
	Date      *string    `json:"visit_date"       validate:"omitempty,datetime=2006-01-02"`
	StartTime *string    `json:"visit_start_time"`
	EndTime   *string    `json:"visit_end_time"`
	Place     *string    `json:"visit_place"      validate:"omitempty,max=200"`
	Expense   *int64     `json:"visit_expense"    validate:"omitempty,min=0"`
	Notes     *string    `json:"visit_notes"      validate:"omitempty,max=5000"`
}

// ToUpdates checks the resulting start/end pair against the stored one.
func (r *VisitUpdateRequest) ToUpdates(current *model.VisitModel) (map[string]any, error) {
	u := map[string]any{}
	if r.VisitorID != nil {
		u["visit_visitor_id"] = *r.VisitorID
	}
	if r.Date != nil {
		d, err := helper.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		u["visit_date"] = d
	}

	start, end := current.VisitStartTime, current.VisitEndTime
	s, e, err := parseTimes(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	if r.StartTime != nil {
		start = s
		u["visit_start_time"] = s
	}
	if r.EndTime != nil {
		end = e
		u["visit_end_time"] = e
	}
	if !dbtime.OrderedTods(start, end) {
		return nil, helper.ErrValidation(msgTimeOrder)
	}

	if r.Place != nil {
		u["visit_place"] = helper.TrimPtr(r.Place)
	}
	if r.Expense != nil {
		u["visit_expense"] = *r.Expense
	}
	if r.Notes != nil {
		u["visit_notes"] = helper.TrimPtr(r.Notes)
	}
	return u, nil
}

type VisitMemberUpdateRequest struct {
	Story *string `json:"visit_member_story" validate:"omitempty,max=5000"`
}

/* ===================== Responses ===================== */

type VisitRow struct {
	model.VisitModel
	VisitorName string `json:"visitor_name" gorm:"column:visitor_name"`
	MemberCount int    `json:"member_count" gorm:"column:member_count"`
	MemberNames string `json:"member_names" gorm:"column:member_names"`
}

type VisitMemberRow struct {
	model.VisitMemberModel
	MemberID    uuid.UUID `json:"member_id"    gorm:"column:member_id"`
	MemberName  string    `json:"member_name"  gorm:"column:member_name"`
	PrayerCount int       `json:"prayer_count" gorm:"column:prayer_count"`
}

type VisitDetail struct {
	model.VisitModel
	VisitorName string           `json:"visitor_name"`
	Members     []VisitMemberRow `json:"members"`
}

// Window is the ?year=&month= list filter.
func Window(year int, month *int) (dbtime.Range, error) {
	if month == nil {
		return dbtime.YearRange(year), nil
	}
	if *month < 1 || *month > 12 {
		return dbtime.Range{}, helper.ErrValidation("month 값은 1~12 입니다.")
	}
	return dbtime.MonthRange(year, time.Month(*month)), nil
}
