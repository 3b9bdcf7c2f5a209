package dto

import (
	"strings"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/churches/churches/model"
	helper "churchku_backend/internals/helpers"
)

type ChurchCreateRequest struct {
	Name     string  `json:"church_name"     validate:"required,max=150"`
	Location *string `json:"church_location" validate:"omitempty,max=500"`
	Phone    *string `json:"church_phone"    validate:"omitempty,max=30"`
	Email    *string `json:"church_email"    validate:"omitempty,email,max=255"`
	Timezone *string `json:"church_timezone" validate:"omitempty,timezone"`
}

func (r *ChurchCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *ChurchCreateRequest) ToModel() *model.ChurchModel {
	m := &model.ChurchModel{
		ChurchName:     r.Name,
		ChurchLocation: helper.TrimPtr(r.Location),
		ChurchPhone:    helper.TrimPtr(r.Phone),
		ChurchEmail:    helper.TrimPtr(r.Email),
	}
	if tz := helper.TrimPtr(r.Timezone); tz != nil {
		m.ChurchTimezone = *tz
	}
	return m
}

type ChurchUpdateRequest struct {
	Name     *string `json:"church_name"     validate:"omitempty,min=1,max=150"`
	Location *string `json:"church_location" validate:"omitempty,max=500"`
	Phone    *string `json:"church_phone"    validate:"omitempty,max=30"`
	Email    *string `json:"church_email"    validate:"omitempty,email,max=255"`
	Timezone *string `json:"church_timezone" validate:"omitempty,timezone"`
}

func (r *ChurchUpdateRequest) ToUpdates() map[string]any {
	u := map[string]any{}
	if r.Name != nil {
		if v := strings.TrimSpace(*r.Name); v != "" {
			u["church_name"] = v
		}
	}
	if r.Location != nil {
		u["church_location"] = helper.TrimPtr(r.Location)
	}
	if r.Phone != nil {
		u["church_phone"] = helper.TrimPtr(r.Phone)
	}
	if r.Email != nil {
		u["church_email"] = helper.TrimPtr(r.Email)
	}
	if tz := helper.TrimPtr(r.Timezone); tz != nil {
		u["church_timezone"] = *tz
	}
	return u
}

// AssignAdminRequest makes an existing member an administrator of a church.
type AssignAdminRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
	Role     string    `json:"role"      validate:"required,oneof=ADMIN SUPER_ADMIN"`
}

func (r AssignAdminRequest) ChurchRole() constants.ChurchRole {
	return constants.ChurchRole(r.Role)
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type ChurchResponse struct {
	model.ChurchModel
	MemberCount int64 `json:"member_count" gorm:"column:member_count"`
	AdminCount  int64 `json:"admin_count"  gorm:"column:admin_count"`
}

type AssignAdminResponse struct {
	ChurchMemberID uuid.UUID            `json:"church_member_id"`
	ChurchID       uuid.UUID            `json:"church_id"`
	MemberID       uuid.UUID            `json:"member_id"`
	Role           constants.ChurchRole `json:"role"`
	Created        bool                 `json:"created"`
}
