package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	helperAuth "churchku_backend/internals/helpers/auth"
)

/* ===================== Requests ===================== */

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// SelectChurchRequest: ChurchID may be omitted only by system admins.
type SelectChurchRequest struct {
	LoginTicket string     `json:"login_ticket" validate:"required"`
	ChurchID    *uuid.UUID `json:"church_id"`
}

type RegisterRequest struct {
	ChurchID uuid.UUID `json:"church_id" validate:"required"`
	Name     string    `json:"name"      validate:"required,max=100"`
	Email    string    `json:"email"     validate:"required,email,max=255"`
	Password string    `json:"password"  validate:"required,min=8,max=72"`
	Phone    *string   `json:"phone"     validate:"omitempty,max=30"`
	Sex      *string   `json:"sex"       validate:"omitempty,oneof=MALE FEMALE"`
	Birthday *string   `json:"birthday"  validate:"omitempty,datetime=2006-01-02"`
	Message  *string   `json:"message"   validate:"omitempty,max=500"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

/* ===================== Responses ===================== */

type EligibleChurch struct {
	ChurchID   uuid.UUID            `json:"church_id"   gorm:"column:church_id"`
	ChurchName string               `json:"church_name" gorm:"column:church_name"`
	Role       constants.ChurchRole `json:"role"        gorm:"column:role"`
}

type LoginResponse struct {
	LoginTicket     string           `json:"login_ticket"`
	TicketExpiresAt time.Time        `json:"ticket_expires_at"`
	Churches        []EligibleChurch `json:"churches"`
	AutoSelect      bool             `json:"auto_select"`
	IsSystemAdmin   bool             `json:"is_system_admin"`
}

type SessionResponse struct {
	Identity  *helperAuth.Identity `json:"identity"`
	ExpiresAt time.Time            `json:"expires_at"`
}

type MeResponse struct {
	Identity    *helperAuth.Identity `json:"identity"`
	MemberEmail *string              `json:"member_email,omitempty"`
	PhotoURL    *string              `json:"member_photo_url,omitempty"`
}

type RegisterResponse struct {
	MemberID  uuid.UUID `json:"member_id"`
	RequestID uuid.UUID `json:"church_member_request_id"`
	Status    string    `json:"status"`
}
