package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions
const (
	ActionJoinApproved    = "JOIN_REQUEST_APPROVED"
	ActionJoinDeclined    = "JOIN_REQUEST_DECLINED"
	ActionGraduated       = "GROUP_MEMBER_GRADUATED"
	ActionRoleChanged     = "CHURCH_MEMBER_ROLE_CHANGED"
	ActionAdminAssigned   = "CHURCH_ADMIN_ASSIGNED"
	ActionPasswordReset   = "MEMBER_PASSWORD_RESET"
	ActionGroupDeleted    = "GROUP_DELETED"
	ActionMembersAssigned = "GROUP_MEMBERS_ASSIGNED"
)

// Entity types
const (
	EntityJoinRequest  = "church_member_request"
	EntityGroupMember  = "group_member"
	EntityGroup        = "group"
	EntityChurchMember = "church_member"
	EntityMember       = "member"
)

// ActivityLogModel is an append-only audit row.
type ActivityLogModel struct {
	ActivityLogID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:activity_log_id"                json:"activity_log_id"`
	ActivityLogChurchID   *uuid.UUID     `gorm:"type:uuid;index;column:activity_log_church_id"              json:"activity_log_church_id,omitempty"`
	ActivityLogActorID    uuid.UUID      `gorm:"type:uuid;not null;column:activity_log_actor_id"            json:"activity_log_actor_id"`
	ActivityLogAction     string         `gorm:"type:varchar(50);not null;column:activity_log_action"       json:"activity_log_action"`
	ActivityLogEntityType string         `gorm:"type:varchar(50);not null;column:activity_log_entity_type"  json:"activity_log_entity_type"`
	ActivityLogEntityID   uuid.UUID      `gorm:"type:uuid;not null;index;column:activity_log_entity_id"     json:"activity_log_entity_id"`
	ActivityLogDetail     datatypes.JSON `gorm:"type:jsonb;column:activity_log_detail"                      json:"activity_log_detail,omitempty"`

	ActivityLogCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:activity_log_created_at" json:"activity_log_created_at"`
	ActivityLogDeletedAt gorm.DeletedAt `gorm:"column:activity_log_deleted_at"                                         json:"-"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (m *ActivityLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityLogID == uuid.Nil {
		m.ActivityLogID = uuid.New()
	}
	return nil
}
