package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/features/care/prayers/model"
	helper "churchku_backend/internals/helpers"
)

// PrayerCreateRequest names the source by kind and the id of the referenced row:
// PERSONAL → member_id, GATHERING → gathering_member_id, VISIT → visit_member_id.
type PrayerCreateRequest struct {
	Source   string    `json:"source"    validate:"required,oneof=PERSONAL GATHERING VISIT personal gathering visit"`
	SourceID uuid.UUID `json:"source_id" validate:"required"`
	Content  string    `json:"prayer_content" validate:"required,max=5000"`
}

func (r *PrayerCreateRequest) PrayerSource() (model.PrayerSource, error) {
	kind, ok := model.ParseSourceKind(r.Source)
	if !ok {
		return nil, helper.ErrValidationFields(map[string]string{"Source": "oneof"})
	}
	src, err := model.NewSource(kind, r.SourceID)
	if err != nil {
		return nil, helper.ErrValidation(err.Error())
	}
	return src, nil
}

func (r *PrayerCreateRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type PrayerUpdateRequest struct {
	Content string `json:"prayer_content" validate:"required,max=5000"`
}

func (r *PrayerUpdateRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type AnsweredRequest struct {
	Answered bool `json:"answered"`
}

// PrayerRow is a prayer with the person and context it came from.
type PrayerRow struct {
	model.PrayerModel
	Source        model.SourceKind `json:"source"         gorm:"-"`
	SourceID      uuid.UUID        `json:"source_id"      gorm:"-"`
	MemberID      uuid.UUID        `json:"member_id"      gorm:"column:source_member_id"`
	MemberName    string           `json:"member_name"    gorm:"column:member_name"`
	GroupID       *uuid.UUID       `json:"group_id"       gorm:"column:group_id"`
	GatheringDate *time.Time       `json:"gathering_date" gorm:"column:gathering_date"`
	VisitID       *uuid.UUID       `json:"visit_id"       gorm:"column:visit_id"`
	VisitDate     *time.Time       `json:"visit_date"     gorm:"column:visit_date"`
}

// Fill resolves the source variant from the stored references.
func (r *PrayerRow) Fill() {
	if src, err := r.PrayerModel.Source(); err == nil {
		r.Source = src.Kind()
		r.SourceID = src.RefID()
	}
}
