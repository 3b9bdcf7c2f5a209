package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
)

// GroupModel is a cell (NORMAL) or a newcomer cohort (NEWCOMER). A null start date
// counts as active since forever, a null end date as still running.
type GroupModel struct {
	GroupID          uuid.UUID           `gorm:"type:uuid;primaryKey;column:group_id"              json:"group_id"`
	GroupChurchID    uuid.UUID           `gorm:"type:uuid;not null;index;column:group_church_id"   json:"group_church_id"`
	GroupName        string              `gorm:"type:varchar(100);not null;column:group_name"      json:"group_name"`
	GroupType        constants.GroupType `gorm:"type:varchar(20);not null;column:group_type"       json:"group_type"`
	GroupDescription *string             `gorm:"type:text;column:group_description"                json:"group_description,omitempty"`
	GroupStartDate   *time.Time          `gorm:"type:date;column:group_start_date"                 json:"group_start_date,omitempty"`
	GroupEndDate     *time.Time          `gorm:"type:date;column:group_end_date"                   json:"group_end_date,omitempty"`

	GroupCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:group_created_at" json:"group_created_at"`
	GroupUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:group_updated_at" json:"group_updated_at"`
	GroupDeletedAt gorm.DeletedAt `gorm:"column:group_deleted_at;index"                                   json:"-"`
}

func (GroupModel) TableName() string { return "groups" }

func (m *GroupModel) BeforeCreate(tx *gorm.DB) error {
	if m.GroupID == uuid.Nil {
		m.GroupID = uuid.New()
	}
	if m.GroupType == "" {
		m.GroupType = constants.GroupTypeNormal
	}
	return nil
}

// ActiveIn reports whether the group overlaps the inclusive window [from, to].
func (m *GroupModel) ActiveIn(from, to time.Time) bool {
	if m.GroupStartDate != nil && m.GroupStartDate.After(to) {
		return false
	}
	if m.GroupEndDate != nil && m.GroupEndDate.Before(from) {
		return false
	}
	return true
}

// ActiveWithinSQL is ActiveIn as a WHERE fragment over the given table alias.
// Bind the window end first, then its start.
func ActiveWithinSQL(alias string) string {
	return fmt.Sprintf("(%[1]s.group_start_date IS NULL OR %[1]s.group_start_date <= ?) AND (%[1]s.group_end_date IS NULL OR %[1]s.group_end_date >= ?)", alias)
}
