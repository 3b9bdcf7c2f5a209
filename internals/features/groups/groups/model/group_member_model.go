package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
)

// GroupMemberModel: one ACTIVE row per (group, member); GRADUATED rows stay as history.
type GroupMemberModel struct {
	GroupMemberID          uuid.UUID                   `gorm:"type:uuid;primaryKey;column:group_member_id"               json:"group_member_id"`
	GroupMemberGroupID     uuid.UUID                   `gorm:"type:uuid;not null;index;column:group_member_group_id"     json:"group_member_group_id"`
	GroupMemberMemberID    uuid.UUID                   `gorm:"type:uuid;not null;index;column:group_member_member_id"    json:"group_member_member_id"`
	GroupMemberRole        constants.GroupRole         `gorm:"type:varchar(20);not null;column:group_member_role"        json:"group_member_role"`
	GroupMemberStatus      constants.GroupMemberStatus `gorm:"type:varchar(20);not null;column:group_member_status"      json:"group_member_status"`
	GroupMemberGraduatedAt *time.Time                  `gorm:"type:timestamptz;column:group_member_graduated_at"         json:"group_member_graduated_at,omitempty"`

	GroupMemberCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:group_member_created_at" json:"group_member_created_at"`
	GroupMemberUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:group_member_updated_at" json:"group_member_updated_at"`
	GroupMemberDeletedAt gorm.DeletedAt `gorm:"column:group_member_deleted_at;index"                                   json:"-"`
}

func (GroupMemberModel) TableName() string { return "group_members" }

func (m *GroupMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.GroupMemberID == uuid.Nil {
		m.GroupMemberID = uuid.New()
	}
	if m.GroupMemberRole == "" {
		m.GroupMemberRole = constants.GroupRoleMember
	}
	if m.GroupMemberStatus == "" {
		m.GroupMemberStatus = constants.GroupMemberActive
	}
	return nil
}
