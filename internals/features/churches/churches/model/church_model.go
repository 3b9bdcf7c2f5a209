package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChurchModel is the tenant root.
type ChurchModel struct {
	ChurchID       uuid.UUID `gorm:"type:uuid;primaryKey;column:church_id"                json:"church_id"`
	ChurchName     string    `gorm:"type:varchar(150);not null;column:church_name"        json:"church_name"`
	ChurchLocation *string   `gorm:"type:text;column:church_location"                     json:"church_location,omitempty"`
	ChurchPhone    *string   `gorm:"type:varchar(30);column:church_phone"                 json:"church_phone,omitempty"`
	ChurchEmail    *string   `gorm:"type:varchar(255);column:church_email"                json:"church_email,omitempty"`
	ChurchTimezone string    `gorm:"type:varchar(50);not null;column:church_timezone"     json:"church_timezone"`

	ChurchCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:church_created_at" json:"church_created_at"`
	ChurchUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:church_updated_at" json:"church_updated_at"`
	ChurchDeletedAt gorm.DeletedAt `gorm:"column:church_deleted_at;index"                                   json:"-"`
}

func (ChurchModel) TableName() string { return "churches" }

func (m *ChurchModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChurchID == uuid.Nil {
		m.ChurchID = uuid.New()
	}
	if m.ChurchTimezone == "" {
		m.ChurchTimezone = "Asia/Seoul"
	}
	return nil
}
