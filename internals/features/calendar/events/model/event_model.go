package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/helpers/dbtime"
)

type EventModel struct {
	EventID       uuid.UUID `gorm:"type:uuid;primaryKey;column:event_id"             json:"event_id"`
	EventChurchID uuid.UUID `gorm:"type:uuid;not null;index;column:event_church_id"  json:"event_church_id"`

	EventTitle       string  `gorm:"type:varchar(160);not null;column:event_title" json:"event_title"`
	EventDescription *string `gorm:"type:text;column:event_description"            json:"event_description,omitempty"`

	// DATE is required, TIME optional
	EventDate      time.Time   `gorm:"type:date;not null;column:event_date" json:"event_date"`
	EventStartTime *dbtime.Tod `gorm:"type:time;column:event_start_time"    json:"event_start_time,omitempty"`
	EventEndTime   *dbtime.Tod `gorm:"type:time;column:event_end_time"      json:"event_end_time,omitempty"`

	EventLocation *string `gorm:"type:varchar(200);column:event_location" json:"event_location,omitempty"`

	EventCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:event_created_at" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:event_updated_at" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index"                                   json:"-"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}
