package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"churchku_backend/internals/features/care/prayers/dto"
	"churchku_backend/internals/features/care/prayers/model"
	helper "churchku_backend/internals/helpers"
)

const msgPrayerNotFound = "기도제목을 찾을 수 없습니다."

var errBlankContent = helper.ErrValidationFields(map[string]string{"Content": "required"})

type PrayerService struct {
	DB *gorm.DB
}

func NewPrayerService(db *gorm.DB) *PrayerService {
	return &PrayerService{DB: db}
}

type ListFilter struct {
	Source   *model.SourceKind
	MemberID *uuid.UUID
	GroupID  *uuid.UUID
	VisitID  *uuid.UUID
	Answered *bool
}

// prayers joins each live prayer to the member behind its source.
func (s *PrayerService) prayers(ctx context.Context, churchID uuid.UUID) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("prayers p").
		Joins("LEFT JOIN gathering_members gtm ON gtm.gathering_member_id = p.prayer_gathering_member_id").
		Joins("LEFT JOIN gatherings ga ON ga.gathering_id = gtm.gathering_member_gathering_id").
		Joins("LEFT JOIN group_members grm ON grm.group_member_id = gtm.gathering_member_group_member_id").
		Joins("LEFT JOIN visit_members vm ON vm.visit_member_id = p.prayer_visit_member_id").
		Joins("LEFT JOIN visits v ON v.visit_id = vm.visit_member_visit_id").
		Joins("LEFT JOIN church_members cm ON cm.church_member_id = vm.visit_member_church_member_id").
		Joins("JOIN members m ON m.member_id = COALESCE(p.prayer_member_id, grm.group_member_member_id, cm.church_member_member_id)").
		Where("p.prayer_church_id = ? AND p.prayer_deleted_at IS NULL", churchID)
}

const prayerRowColumns = `p.*, m.member_id AS source_member_id, m.member_name,
	ga.gathering_group_id AS group_id, ga.gathering_date,
	vm.visit_member_visit_id AS visit_id, v.visit_date`

func (s *PrayerService) List(ctx context.Context, churchID uuid.UUID, f ListFilter, p helper.Paging) ([]dto.PrayerRow, int64, error) {
	q := s.prayers(ctx, churchID)
	if f.Source != nil {
		switch *f.Source {
		case model.SourcePersonal:
			q = q.Where("p.prayer_member_id IS NOT NULL")
		case model.SourceGathering:
			q = q.Where("p.prayer_gathering_member_id IS NOT NULL")
		case model.SourceVisit:
			q = q.Where("p.prayer_visit_member_id IS NOT NULL")
		}
	}
	if f.MemberID != nil {
		q = q.Where("m.member_id = ?", *f.MemberID)
	}
	if f.GroupID != nil {
		q = q.Where("ga.gathering_group_id = ?", *f.GroupID)
	}
	if f.VisitID != nil {
		q = q.Where("vm.visit_member_visit_id = ?", *f.VisitID)
	}
	if f.Answered != nil {
		q = q.Where("p.prayer_is_answered = ?", *f.Answered)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.PrayerRow, 0)
	if err := q.Select(prayerRowColumns).
		Order("p.prayer_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Fill()
	}
	return rows, total, nil
}

func (s *PrayerService) Get(ctx context.Context, churchID, id uuid.UUID) (*dto.PrayerRow, error) {
	var rows []dto.PrayerRow
	if err := s.prayers(ctx, churchID).
		Where("p.prayer_id = ?", id).
		Select(prayerRowColumns).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound(msgPrayerNotFound)
	}
	rows[0].Fill()
	return &rows[0], nil
}

// sourceInChurch checks the referenced row is live and belongs to the church.
func sourceInChurch(tx *gorm.DB, churchID uuid.UUID, src model.PrayerSource) error {
	var q *gorm.DB
	switch v := src.(type) {
	case model.Personal:
		q = tx.Table("church_members").
			Where("church_member_member_id = ? AND church_member_church_id = ? AND church_member_deleted_at IS NULL", v.MemberID, churchID)
	case model.GatheringSource:
		q = tx.Table("gathering_members gtm").
			Joins("JOIN gatherings ga ON ga.gathering_id = gtm.gathering_member_gathering_id AND ga.gathering_deleted_at IS NULL").
			Where("gtm.gathering_member_id = ? AND ga.gathering_church_id = ? AND gtm.gathering_member_deleted_at IS NULL", v.GatheringMemberID, churchID)
	case model.VisitSource:
		q = tx.Table("visit_members vm").
			Joins("JOIN visits v ON v.visit_id = vm.visit_member_visit_id AND v.visit_deleted_at IS NULL").
			Where("vm.visit_member_id = ? AND v.visit_church_id = ? AND vm.visit_member_deleted_at IS NULL", v.VisitMemberID, churchID)
	default:
		return helper.ErrValidation(model.ErrInvalidSource.Error())
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.ErrNotFound("기도제목의 대상을 찾을 수 없습니다.")
	}
	return nil
}

func (s *PrayerService) Create(ctx context.Context, churchID uuid.UUID, req dto.PrayerCreateRequest) (*dto.PrayerRow, error) {
	src, err := req.PrayerSource()
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if req.Content == "" {
		return nil, errBlankContent
	}
	p := model.PrayerModel{PrayerChurchID: churchID, PrayerContent: req.Content}
	p.SetSource(src)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := sourceInChurch(tx, churchID, src); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, churchID, p.PrayerID)
}

func findPrayer(tx *gorm.DB, churchID, id uuid.UUID) (*model.PrayerModel, error) {
	var p model.PrayerModel
	err := tx.Where("prayer_id = ? AND prayer_church_id = ?", id, churchID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgPrayerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrayerService) UpdateContent(ctx context.Context, churchID, id uuid.UUID, content string) (*model.PrayerModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errBlankContent
	}
	db := s.DB.WithContext(ctx)
	p, err := findPrayer(db, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(p).Update("prayer_content", content).Error; err != nil {
		return nil, err
	}
	p.PrayerContent = content
	return p, nil
}

// SetAnswered toggles the answered flag; answered_at follows it.
func (s *PrayerService) SetAnswered(ctx context.Context, churchID, id uuid.UUID, answered bool) (*model.PrayerModel, error) {
	db := s.DB.WithContext(ctx)
	p, err := findPrayer(db, churchID, id)
	if err != nil {
		return nil, err
	}
	if p.PrayerIsAnswered == answered {
		return p, nil
	}
	var at *time.Time
	if answered {
		now := db.NowFunc()
		at = &now
	}
	if err := db.Model(p).Updates(map[string]any{
		"prayer_is_answered": answered,
		"prayer_answered_at": at,
	}).Error; err != nil {
		return nil, err
	}
	p.PrayerIsAnswered = answered
	p.PrayerAnsweredAt = at
	return p, nil
}

// Delete bins one prayer. Binned prayers drop out of every listing.
func (s *PrayerService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("prayer_id = ? AND prayer_church_id = ?", id, churchID).
		Delete(&model.PrayerModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound(msgPrayerNotFound)
	}
	return nil
}
