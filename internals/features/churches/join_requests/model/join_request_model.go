package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
)

// ChurchMemberRequestModel: PENDING → ACCEPTED | DECLINED, decided once.
type ChurchMemberRequestModel struct {
	ChurchMemberRequestID         uuid.UUID               `gorm:"type:uuid;primaryKey;column:church_member_request_id"              json:"church_member_request_id"`
	ChurchMemberRequestChurchID   uuid.UUID               `gorm:"type:uuid;not null;index;column:church_member_request_church_id"   json:"church_member_request_church_id"`
	ChurchMemberRequestMemberID   uuid.UUID               `gorm:"type:uuid;not null;index;column:church_member_request_member_id"   json:"church_member_request_member_id"`
	ChurchMemberRequestStatus     constants.RequestStatus `gorm:"type:varchar(20);not null;column:church_member_request_status"     json:"church_member_request_status"`
	ChurchMemberRequestMessage    *string                 `gorm:"type:text;column:church_member_request_message"                    json:"church_member_request_message,omitempty"`
	ChurchMemberRequestApprovedBy *uuid.UUID              `gorm:"type:uuid;column:church_member_request_approved_by"                json:"church_member_request_approved_by,omitempty"`
	ChurchMemberRequestDecidedAt  *time.Time              `gorm:"type:timestamptz;column:church_member_request_decided_at"          json:"church_member_request_decided_at,omitempty"`

	ChurchMemberRequestCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:church_member_request_created_at" json:"church_member_request_created_at"`
	ChurchMemberRequestUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:church_member_request_updated_at" json:"church_member_request_updated_at"`
	ChurchMemberRequestDeletedAt gorm.DeletedAt `gorm:"column:church_member_request_deleted_at;index"                                   json:"-"`
}

func (ChurchMemberRequestModel) TableName() string { return "church_member_requests" }

func (m *ChurchMemberRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChurchMemberRequestID == uuid.Nil {
		m.ChurchMemberRequestID = uuid.New()
	}
	if m.ChurchMemberRequestStatus == "" {
		m.ChurchMemberRequestStatus = constants.RequestPending
	}
	return nil
}
