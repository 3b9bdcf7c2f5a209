package dto

import (
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
)

type JoinRequestRow struct {
	ID          uuid.UUID               `json:"church_member_request_id"                    gorm:"column:church_member_request_id"`
	MemberID    uuid.UUID               `json:"member_id"                                   gorm:"column:church_member_request_member_id"`
	Status      constants.RequestStatus `json:"church_member_request_status"                gorm:"column:church_member_request_status"`
	Message     *string                 `json:"church_member_request_message,omitempty"     gorm:"column:church_member_request_message"`
	ApprovedBy  *uuid.UUID              `json:"church_member_request_approved_by,omitempty" gorm:"column:church_member_request_approved_by"`
	DecidedAt   *time.Time              `json:"church_member_request_decided_at,omitempty"  gorm:"column:church_member_request_decided_at"`
	CreatedAt   time.Time               `json:"church_member_request_created_at"            gorm:"column:church_member_request_created_at"`
	MemberName  string                  `json:"member_name"                                 gorm:"column:member_name"`
	MemberEmail *string                 `json:"member_email,omitempty"                      gorm:"column:member_email"`
	MemberPhone *string                 `json:"member_phone,omitempty"                      gorm:"column:member_phone"`
}

type DecisionResponse struct {
	ID             uuid.UUID               `json:"church_member_request_id"`
	Status         constants.RequestStatus `json:"church_member_request_status"`
	ChurchMemberID *uuid.UUID              `json:"church_member_id,omitempty"`
	// MembershipCreated is false when the member already belonged to the church.
	MembershipCreated bool `json:"membership_created"`
}
