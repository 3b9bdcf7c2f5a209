package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
)

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// MemberModel is a person. Email and password stay empty for profiles that never log in.
type MemberModel struct {
	MemberID uuid.UUID `gorm:"type:uuid;primaryKey;column:member_id" json:"member_id"`

	MemberName     string  `gorm:"type:varchar(100);not null;column:member_name" json:"member_name"`
	MemberEmail    *string `gorm:"type:varchar(255);column:member_email"         json:"member_email,omitempty"`
	MemberPassword *string `gorm:"type:text;column:member_password"              json:"-"`

	MemberSex         *Sex       `gorm:"type:varchar(10);column:member_sex"   json:"member_sex,omitempty"`
	MemberBirthday    *time.Time `gorm:"type:date;column:member_birthday"     json:"member_birthday,omitempty"`
	MemberPhone       *string    `gorm:"type:varchar(30);column:member_phone" json:"member_phone,omitempty"`
	MemberAddress     *string    `gorm:"type:text;column:member_address"      json:"member_address,omitempty"`
	MemberOccupation  *string    `gorm:"type:varchar(100);column:member_occupation" json:"member_occupation,omitempty"`
	MemberBaptism     *string    `gorm:"type:varchar(30);column:member_baptism"     json:"member_baptism,omitempty"`
	MemberDescription *string    `gorm:"type:text;column:member_description"        json:"member_description,omitempty"`
	MemberPhotoURL    *string    `gorm:"type:text;column:member_photo_url"          json:"member_photo_url,omitempty"`

	MemberSystemRole constants.SystemRole `gorm:"type:varchar(20);not null;column:member_system_role" json:"member_system_role"`

	MemberCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:member_created_at" json:"member_created_at"`
	MemberUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:member_updated_at" json:"member_updated_at"`
	MemberDeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index"                                   json:"-"`
}

func (MemberModel) TableName() string { return "members" }

func (m *MemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	if m.MemberSystemRole == "" {
		m.MemberSystemRole = constants.SystemRoleNone
	}
	return nil
}

// CanLogin is false for directory-only profiles.
func (m *MemberModel) CanLogin() bool {
	return m.MemberEmail != nil && m.MemberPassword != nil && *m.MemberPassword != ""
}
