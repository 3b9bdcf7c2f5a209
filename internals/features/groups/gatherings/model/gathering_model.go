package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GatheringModel is one dated meeting of a group.
type GatheringModel struct {
	GatheringID            uuid.UUID `gorm:"type:uuid;primaryKey;column:gathering_id"               json:"gathering_id"`
	GatheringChurchID      uuid.UUID `gorm:"type:uuid;not null;index;column:gathering_church_id"    json:"gathering_church_id"`
	GatheringGroupID       uuid.UUID `gorm:"type:uuid;not null;index;column:gathering_group_id"     json:"gathering_group_id"`
	GatheringDate          time.Time `gorm:"type:date;not null;column:gathering_date"               json:"gathering_date"`
	GatheringPlace         *string   `gorm:"type:varchar(200);column:gathering_place"               json:"gathering_place,omitempty"`
	GatheringLeaderComment *string   `gorm:"type:text;column:gathering_leader_comment"              json:"gathering_leader_comment,omitempty"`
	GatheringAdminComment  *string   `gorm:"type:text;column:gathering_admin_comment"               json:"gathering_admin_comment,omitempty"`

	GatheringCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:gathering_created_at" json:"gathering_created_at"`
	GatheringUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:gathering_updated_at" json:"gathering_updated_at"`
	GatheringDeletedAt gorm.DeletedAt `gorm:"column:gathering_deleted_at;index"                                   json:"-"`
}

func (GatheringModel) TableName() string { return "gatherings" }

func (m *GatheringModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatheringID == uuid.Nil {
		m.GatheringID = uuid.New()
	}
	return nil
}

// GatheringMemberModel is the attendance sheet line of one group member.
// Null flags mean "not recorded" and count as absent.
type GatheringMemberModel struct {
	GatheringMemberID                uuid.UUID `gorm:"type:uuid;primaryKey;column:gathering_member_id"                  json:"gathering_member_id"`
	GatheringMemberGatheringID       uuid.UUID `gorm:"type:uuid;not null;index;column:gathering_member_gathering_id"    json:"gathering_member_gathering_id"`
	GatheringMemberGroupMemberID     uuid.UUID `gorm:"type:uuid;not null;index;column:gathering_member_group_member_id" json:"gathering_member_group_member_id"`
	GatheringMemberWorshipAttended   *bool     `gorm:"column:gathering_member_worship_attended"                         json:"gathering_member_worship_attended"`
	GatheringMemberGatheringAttended *bool     `gorm:"column:gathering_member_gathering_attended"                       json:"gathering_member_gathering_attended"`
	GatheringMemberStory             *string   `gorm:"type:text;column:gathering_member_story"                          json:"gathering_member_story,omitempty"`
	GatheringMemberGoal              *string   `gorm:"type:text;column:gathering_member_goal"                           json:"gathering_member_goal,omitempty"`
	GatheringMemberLeaderComment     *string   `gorm:"type:text;column:gathering_member_leader_comment"                 json:"gathering_member_leader_comment,omitempty"`

	GatheringMemberCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:gathering_member_created_at" json:"gathering_member_created_at"`
	GatheringMemberUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:gathering_member_updated_at" json:"gathering_member_updated_at"`
	GatheringMemberDeletedAt gorm.DeletedAt `gorm:"column:gathering_member_deleted_at;index"                                   json:"-"`
}

func (GatheringMemberModel) TableName() string { return "gathering_members" }

func (m *GatheringMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatheringMemberID == uuid.Nil {
		m.GatheringMemberID = uuid.New()
	}
	return nil
}
