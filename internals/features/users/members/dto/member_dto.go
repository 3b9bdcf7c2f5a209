package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/users/members/model"
	helper "churchku_backend/internals/helpers"
)

/* ===================== Requests ===================== */

// MemberCreateRequest registers a directory profile; no email/password means no login.
type MemberCreateRequest struct {
	Name        string  `json:"member_name"        validate:"required,max=100"`
	Email       *string `json:"member_email"       validate:"omitempty,email,max=255"`
	Sex         *string `json:"member_sex"         validate:"omitempty,oneof=MALE FEMALE"`
	Birthday    *string `json:"member_birthday"    validate:"omitempty,datetime=2006-01-02"`
	Phone       *string `json:"member_phone"       validate:"omitempty,max=30"`
	Address     *string `json:"member_address"     validate:"omitempty,max=500"`
	Occupation  *string `json:"member_occupation"  validate:"omitempty,max=100"`
	Baptism     *string `json:"member_baptism"     validate:"omitempty,max=30"`
	Description *string `json:"member_description" validate:"omitempty,max=2000"`
}

func (r *MemberCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = lowerPtr(helper.TrimPtr(r.Email))
}

func (r *MemberCreateRequest) ToModel() (*model.MemberModel, error) {
	birthday, err := helper.ParseDatePtr(r.Birthday)
	if err != nil {
		return nil, err
	}
	m := &model.MemberModel{
		MemberName:        r.Name,
		MemberEmail:       r.Email,
		MemberBirthday:    birthday,
		MemberPhone:       helper.TrimPtr(r.Phone),
		MemberAddress:     helper.TrimPtr(r.Address),
		MemberOccupation:  helper.TrimPtr(r.Occupation),
		MemberBaptism:     helper.TrimPtr(r.Baptism),
		MemberDescription: helper.TrimPtr(r.Description),
	}
	if r.Sex != nil {
		s := model.Sex(*r.Sex)
		m.MemberSex = &s
	}
	return m, nil
}

// MemberUpdateRequest is a PATCH: nil fields stay untouched, "" clears optional text.
type MemberUpdateRequest struct {
	Name        *string `json:"member_name"        validate:"omitempty,min=1,max=100"`
	Email       *string `json:"member_email"       validate:"omitempty,email,max=255"`
	Sex         *string `json:"member_sex"         validate:"omitempty,oneof=MALE FEMALE"`
	Birthday    *string `json:"member_birthday"    validate:"omitempty,datetime=2006-01-02"`
	Phone       *string `json:"member_phone"       validate:"omitempty,max=30"`
	Address     *string `json:"member_address"     validate:"omitempty,max=500"`
	Occupation  *string `json:"member_occupation"  validate:"omitempty,max=100"`
	Baptism     *string `json:"member_baptism"     validate:"omitempty,max=30"`
	Description *string `json:"member_description" validate:"omitempty,max=2000"`
}

// ToUpdates builds the column map for gorm Updates.
func (r *MemberUpdateRequest) ToUpdates() (map[string]any, error) {
	u := map[string]any{}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, helper.ErrValidationFields(map[string]string{"Name": "required"})
		}
		u["member_name"] = name
	}
	if r.Email != nil {
		u["member_email"] = lowerPtr(helper.TrimPtr(r.Email))
	}
	if r.Sex != nil {
		u["member_sex"] = *r.Sex
	}
	if r.Birthday != nil {
		b, err := helper.ParseDatePtr(r.Birthday)
		if err != nil {
			return nil, err
		}
		u["member_birthday"] = b
	}
	setText := func(col string, v *string) {
		if v != nil {
			u[col] = helper.TrimPtr(v)
		}
	}
	setText("member_phone", r.Phone)
	setText("member_address", r.Address)
	setText("member_occupation", r.Occupation)
	setText("member_baptism", r.Baptism)
	setText("member_description", r.Description)
	return u, nil
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}

/* ===================== Responses ===================== */

// MemberResponse is a member as seen from one church.
type MemberResponse struct {
	model.MemberModel
	ChurchMemberID   uuid.UUID            `json:"church_member_id"`
	ChurchMemberRole constants.ChurchRole `json:"church_member_role"`
	CanLogin         bool                 `json:"can_login"`
}

// MemberRow is the scan target of the directory query.
type MemberRow struct {
	model.MemberModel
	ChurchMemberID   uuid.UUID            `gorm:"column:church_member_id"`
	ChurchMemberRole constants.ChurchRole `gorm:"column:church_member_role"`
}

func FromRow(r MemberRow) MemberResponse {
	return MemberResponse{
		MemberModel:      r.MemberModel,
		ChurchMemberID:   r.ChurchMemberID,
		ChurchMemberRole: r.ChurchMemberRole,
		CanLogin:         r.MemberModel.CanLogin(),
	}
}

func FromRows(rows []MemberRow) []MemberResponse {
	out := make([]MemberResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out
}

type BirthdayItem struct {
	MemberID       uuid.UUID `json:"member_id"`
	MemberName     string    `json:"member_name"`
	MemberBirthday string    `json:"member_birthday"`
	// NextBirthday is the occurrence inside the requested week.
	NextBirthday string  `json:"next_birthday"`
	PhotoURL     *string `json:"member_photo_url,omitempty"`
}

type BirthdayWeek struct {
	WeekStart string         `json:"week_start"`
	WeekEnd   string         `json:"week_end"`
	Members   []BirthdayItem `json:"members"`
}

func FormatDate(t time.Time) string { return t.Format(helper.DateLayout) }
