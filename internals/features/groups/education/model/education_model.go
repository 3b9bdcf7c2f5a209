package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EducationProgramModel is the curriculum of a NEWCOMER group. GraduatedCount is
// maintained inside the graduation transaction and re-derived by the reconciler.
type EducationProgramModel struct {
	EducationProgramID             uuid.UUID `gorm:"type:uuid;primaryKey;column:education_program_id"                 json:"education_program_id"`
	EducationProgramGroupID        uuid.UUID `gorm:"type:uuid;not null;column:education_program_group_id"            json:"education_program_group_id"`
	EducationProgramName           string    `gorm:"type:varchar(100);not null;column:education_program_name"        json:"education_program_name"`
	EducationProgramTotalWeeks     int       `gorm:"not null;column:education_program_total_weeks"                   json:"education_program_total_weeks"`
	EducationProgramGraduatedCount int       `gorm:"not null;column:education_program_graduated_count"               json:"education_program_graduated_count"`

	EducationProgramCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:education_program_created_at" json:"education_program_created_at"`
	EducationProgramUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:education_program_updated_at" json:"education_program_updated_at"`
	EducationProgramDeletedAt gorm.DeletedAt `gorm:"column:education_program_deleted_at;index"                                   json:"-"`
}

func (EducationProgramModel) TableName() string { return "education_programs" }

func (m *EducationProgramModel) BeforeCreate(tx *gorm.DB) error {
	if m.EducationProgramID == uuid.Nil {
		m.EducationProgramID = uuid.New()
	}
	return nil
}

// EducationProgressModel marks week N as completed for one group member.
type EducationProgressModel struct {
	EducationProgressID            uuid.UUID `gorm:"type:uuid;primaryKey;column:education_progress_id"                    json:"education_progress_id"`
	EducationProgressGroupMemberID uuid.UUID `gorm:"type:uuid;not null;index;column:education_progress_group_member_id"  json:"education_progress_group_member_id"`
	EducationProgressWeek          int       `gorm:"not null;column:education_progress_week"                             json:"education_progress_week"`

	EducationProgressCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:education_progress_created_at" json:"education_progress_created_at"`
	EducationProgressDeletedAt gorm.DeletedAt `gorm:"column:education_progress_deleted_at;index"                                   json:"-"`
}

func (EducationProgressModel) TableName() string { return "education_progresses" }

func (m *EducationProgressModel) BeforeCreate(tx *gorm.DB) error {
	if m.EducationProgressID == uuid.Nil {
		m.EducationProgressID = uuid.New()
	}
	return nil
}
