package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrayerModel stores its source as three nullable references guarded by a
// num_nonnulls(...) = 1 check. Use Source/SetSource instead of the columns.
type PrayerModel struct {
	PrayerID                uuid.UUID  `gorm:"type:uuid;primaryKey;column:prayer_id"                 json:"prayer_id"`
	PrayerChurchID          uuid.UUID  `gorm:"type:uuid;not null;index;column:prayer_church_id"      json:"prayer_church_id"`
	PrayerMemberID          *uuid.UUID `gorm:"type:uuid;index;column:prayer_member_id"               json:"-"`
	PrayerGatheringMemberID *uuid.UUID `gorm:"type:uuid;index;column:prayer_gathering_member_id"     json:"-"`
	PrayerVisitMemberID     *uuid.UUID `gorm:"type:uuid;index;column:prayer_visit_member_id"         json:"-"`
	PrayerContent           string     `gorm:"type:text;not null;column:prayer_content"              json:"prayer_content"`
	PrayerIsAnswered        bool       `gorm:"not null;column:prayer_is_answered"                    json:"prayer_is_answered"`
	PrayerAnsweredAt        *time.Time `gorm:"type:timestamptz;column:prayer_answered_at"            json:"prayer_answered_at,omitempty"`

	PrayerCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:prayer_created_at" json:"prayer_created_at"`
	PrayerUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:prayer_updated_at" json:"prayer_updated_at"`
	PrayerDeletedAt gorm.DeletedAt `gorm:"column:prayer_deleted_at;index"                                   json:"-"`
}

func (PrayerModel) TableName() string { return "prayers" }

func (m *PrayerModel) BeforeCreate(tx *gorm.DB) error {
	if m.PrayerID == uuid.Nil {
		m.PrayerID = uuid.New()
	}
	if _, err := m.Source(); err != nil {
		return err
	}
	return nil
}

// Source decodes the stored references; rows violating exclusivity are an error.
func (m *PrayerModel) Source() (PrayerSource, error) {
	var (
		src PrayerSource
		n   int
	)
	if m.PrayerMemberID != nil {
		src, n = Personal{MemberID: *m.PrayerMemberID}, n+1
	}
	if m.PrayerGatheringMemberID != nil {
		src, n = GatheringSource{GatheringMemberID: *m.PrayerGatheringMemberID}, n+1
	}
	if m.PrayerVisitMemberID != nil {
		src, n = VisitSource{VisitMemberID: *m.PrayerVisitMemberID}, n+1
	}
	if n != 1 {
		return nil, ErrInvalidSource
	}
	return src, nil
}

// SetSource sets exactly one reference and clears the others.
func (m *PrayerModel) SetSource(src PrayerSource) {
	m.PrayerMemberID, m.PrayerGatheringMemberID, m.PrayerVisitMemberID = nil, nil, nil
	id := src.RefID()
	switch src.(type) {
	case Personal:
		m.PrayerMemberID = &id
	case GatheringSource:
		m.PrayerGatheringMemberID = &id
	case VisitSource:
		m.PrayerVisitMemberID = &id
	}
}
