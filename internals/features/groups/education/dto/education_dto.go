package dto

import (
	"strings"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/education/model"
)

type ProgramUpsertRequest struct {
	Name       string `json:"education_program_name"        validate:"required,max=100"`
	TotalWeeks int    `json:"education_program_total_weeks" validate:"required,min=1,max=52"`
}

func (r *ProgramUpsertRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type ProgressMarkRequest struct {
	GroupMemberID uuid.UUID `json:"group_member_id" validate:"required"`
	Week          int       `json:"week"            validate:"required,min=1"`
	Completed     bool      `json:"completed"`
}

type ProgressMark struct {
	GroupMemberID uuid.UUID `json:"group_member_id"`
	Week          int       `json:"week"`
	Completed     bool      `json:"completed"`
}

// ProgressGrid is the week-by-week board of a newcomer group.
type ProgressGrid struct {
	Program model.EducationProgramModel `json:"program"`
	Weeks   []int                       `json:"weeks"`
	Members []ProgressRow               `json:"members"`
}

type ProgressRow struct {
	GroupMemberID  uuid.UUID                   `json:"group_member_id"     gorm:"column:group_member_id"`
	MemberID       uuid.UUID                   `json:"member_id"           gorm:"column:member_id"`
	MemberName     string                      `json:"member_name"         gorm:"column:member_name"`
	Status         constants.GroupMemberStatus `json:"group_member_status" gorm:"column:group_member_status"`
	CompletedWeeks []int                       `json:"completed_weeks"     gorm:"-"`
	CompletedCount int                         `json:"completed_count"     gorm:"-"`
}

// CounterDrift is a program whose stored graduated count disagreed with its roster.
type CounterDrift struct {
	ProgramID uuid.UUID `json:"education_program_id"       gorm:"column:education_program_id"`
	GroupID   uuid.UUID `json:"education_program_group_id" gorm:"column:education_program_group_id"`
	Stored    int       `json:"stored"                     gorm:"column:stored"`
	Actual    int       `json:"actual"                     gorm:"column:actual"`
}
