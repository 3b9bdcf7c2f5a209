package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/helpers/dbtime"
)

// VisitModel is a pastoral home visit made by VisitVisitorID (a church member).
type VisitModel struct {
	VisitID        uuid.UUID   `gorm:"type:uuid;primaryKey;column:visit_id"              json:"visit_id"`
	VisitChurchID  uuid.UUID   `gorm:"type:uuid;not null;index;column:visit_church_id"   json:"visit_church_id"`
	VisitVisitorID uuid.UUID   `gorm:"type:uuid;not null;index;column:visit_visitor_id"  json:"visit_visitor_id"`
	VisitDate      time.Time   `gorm:"type:date;not null;column:visit_date"              json:"visit_date"`
	VisitStartTime *dbtime.Tod `gorm:"type:time;column:visit_start_time"                 json:"visit_start_time,omitempty"`
	VisitEndTime   *dbtime.Tod `gorm:"type:time;column:visit_end_time"                   json:"visit_end_time,omitempty"`
	VisitPlace     *string     `gorm:"type:varchar(200);column:visit_place"              json:"visit_place,omitempty"`
	VisitExpense   *int64      `gorm:"column:visit_expense"                              json:"visit_expense,omitempty"`
	VisitNotes     *string     `gorm:"type:text;column:visit_notes"                      json:"visit_notes,omitempty"`

	VisitCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:visit_created_at" json:"visit_created_at"`
	VisitUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:visit_updated_at" json:"visit_updated_at"`
	VisitDeletedAt gorm.DeletedAt `gorm:"column:visit_deleted_at;index"                                   json:"-"`
}

func (VisitModel) TableName() string { return "visits" }

func (m *VisitModel) BeforeCreate(tx *gorm.DB) error {
	if m.VisitID == uuid.Nil {
		m.VisitID = uuid.New()
	}
	return nil
}

// VisitMemberModel is one person visited, with what they shared.
type VisitMemberModel struct {
	VisitMemberID             uuid.UUID `gorm:"type:uuid;primaryKey;column:visit_member_id"                   json:"visit_member_id"`
	VisitMemberVisitID        uuid.UUID `gorm:"type:uuid;not null;index;column:visit_member_visit_id"         json:"visit_member_visit_id"`
	VisitMemberChurchMemberID uuid.UUID `gorm:"type:uuid;not null;index;column:visit_member_church_member_id" json:"visit_member_church_member_id"`
	VisitMemberStory          *string   `gorm:"type:text;column:visit_member_story"                           json:"visit_member_story,omitempty"`

	VisitMemberCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:visit_member_created_at" json:"visit_member_created_at"`
	VisitMemberUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:visit_member_updated_at" json:"visit_member_updated_at"`
	VisitMemberDeletedAt gorm.DeletedAt `gorm:"column:visit_member_deleted_at;index"                                   json:"-"`
}

func (VisitMemberModel) TableName() string { return "visit_members" }

func (m *VisitMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.VisitMemberID == uuid.Nil {
		m.VisitMemberID = uuid.New()
	}
	return nil
}
