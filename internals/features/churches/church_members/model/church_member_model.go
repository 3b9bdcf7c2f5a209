package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
)

// ChurchMemberModel grants a member a role inside one church.
// At most one live row per (church, member): partial unique index in migrations.
type ChurchMemberModel struct {
	ChurchMemberID       uuid.UUID            `gorm:"type:uuid;primaryKey;column:church_member_id"                json:"church_member_id"`
	ChurchMemberChurchID uuid.UUID            `gorm:"type:uuid;not null;index;column:church_member_church_id"     json:"church_member_church_id"`
	ChurchMemberMemberID uuid.UUID            `gorm:"type:uuid;not null;index;column:church_member_member_id"     json:"church_member_member_id"`
	ChurchMemberRole     constants.ChurchRole `gorm:"type:varchar(20);not null;column:church_member_role"         json:"church_member_role"`

	ChurchMemberCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:church_member_created_at" json:"church_member_created_at"`
	ChurchMemberUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:church_member_updated_at" json:"church_member_updated_at"`
	ChurchMemberDeletedAt gorm.DeletedAt `gorm:"column:church_member_deleted_at;index"                                   json:"-"`
}

func (ChurchMemberModel) TableName() string { return "church_members" }

func (m *ChurchMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChurchMemberID == uuid.Nil {
		m.ChurchMemberID = uuid.New()
	}
	if m.ChurchMemberRole == "" {
		m.ChurchMemberRole = constants.RoleMember
	}
	return nil
}
