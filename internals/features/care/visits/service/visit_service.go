package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/features/care/visits/dto"
	"churchku_backend/internals/features/care/visits/model"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
	"churchku_backend/internals/helpers/softdelete"
)

const (
	msgVisitNotFound       = "심방 기록을 찾을 수 없습니다."
	msgVisitMemberNotFound = "심방 대상자를 찾을 수 없습니다."
)

type VisitService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewVisitService(db *gorm.DB, log *zap.Logger) *VisitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VisitService{DB: db, Log: log}
}

type ListFilter struct {
	Window    dbtime.Range
	VisitorID *uuid.UUID
	Q         string
}

const visitRowColumns = `v.*, vm_name.member_name AS visitor_name,
	(SELECT COUNT(*) FROM visit_members x
	  WHERE x.visit_member_visit_id = v.visit_id
	    AND x.visit_member_deleted_at IS NULL) AS member_count,
	(SELECT string_agg(m.member_name, ', ' ORDER BY m.member_name)
	   FROM visit_members x
	   JOIN church_members cm ON cm.church_member_id = x.visit_member_church_member_id
	   JOIN members m ON m.member_id = cm.church_member_member_id
	  WHERE x.visit_member_visit_id = v.visit_id
	    AND x.visit_member_deleted_at IS NULL) AS member_names`

func (s *VisitService) visits(ctx context.Context, churchID uuid.UUID) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("visits v").
		Joins("JOIN church_members vcm ON vcm.church_member_id = v.visit_visitor_id").
		Joins("JOIN members vm_name ON vm_name.member_id = vcm.church_member_member_id").
		Where("v.visit_church_id = ? AND v.visit_deleted_at IS NULL", churchID)
}

// List returns visits in the window, latest first.
func (s *VisitService) List(ctx context.Context, churchID uuid.UUID, f ListFilter, p helper.Paging) ([]dto.VisitRow, int64, error) {
	q := s.visits(ctx, churchID).
		Where("v.visit_date BETWEEN ? AND ?", f.Window.Start, f.Window.End)
	if f.VisitorID != nil {
		q = q.Where("v.visit_visitor_id = ?", *f.VisitorID)
	}
	if kw := strings.TrimSpace(f.Q); kw != "" {
		like := "%" + kw + "%"
		q = q.Where(`(v.visit_place ILIKE ? OR EXISTS (
			SELECT 1 FROM visit_members x
			  JOIN church_members cm ON cm.church_member_id = x.visit_member_church_member_id
			  JOIN members m ON m.member_id = cm.church_member_member_id
			 WHERE x.visit_member_visit_id = v.visit_id
			   AND x.visit_member_deleted_at IS NULL
			   AND m.member_name ILIKE ?))`, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.VisitRow, 0)
	err := q.Select(visitRowColumns).
		Order("v.visit_date DESC, v.visit_start_time DESC NULLS LAST").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func findVisit(tx *gorm.DB, churchID, id uuid.UUID) (*model.VisitModel, error) {
	var v model.VisitModel
	err := tx.Where("visit_id = ? AND visit_church_id = ?", id, churchID).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgVisitNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VisitService) Get(ctx context.Context, churchID, id uuid.UUID) (*dto.VisitDetail, error) {
	db := s.DB.WithContext(ctx)
	v, err := findVisit(db, churchID, id)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := db.Table("church_members cm").
		Joins("JOIN members m ON m.member_id = cm.church_member_member_id").
		Where("cm.church_member_id = ?", v.VisitVisitorID).
		Limit(1).
		Pluck("m.member_name", &names).Error; err != nil {
		return nil, err
	}
	detail := &dto.VisitDetail{VisitModel: *v}
	if len(names) > 0 {
		detail.VisitorName = names[0]
	}

	members := make([]dto.VisitMemberRow, 0)
	if err := db.Table("visit_members vm").
		Joins("JOIN church_members cm ON cm.church_member_id = vm.visit_member_church_member_id").
		Joins("JOIN members m ON m.member_id = cm.church_member_member_id").
		Where("vm.visit_member_visit_id = ? AND vm.visit_member_deleted_at IS NULL", id).
		Select(`vm.*, m.member_id, m.member_name,
			(SELECT COUNT(*) FROM prayers p
			  WHERE p.prayer_visit_member_id = vm.visit_member_id
			    AND p.prayer_deleted_at IS NULL) AS prayer_count`).
		Order("m.member_name ASC").
		Scan(&members).Error; err != nil {
		return nil, err
	}
	detail.Members = members
	return detail, nil
}

// ensureChurchMembers fails with 400 unless every id is a live church_member of the tenant.
func ensureChurchMembers(tx *gorm.DB, churchID uuid.UUID, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Table("church_members").
		Where("church_member_church_id = ? AND church_member_deleted_at IS NULL", churchID).
		Where("church_member_id = ANY(?::uuid[])", pq.Array(idStrings(ids))).
		Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return helper.ErrValidation("교회에 등록되지 않은 교인이 포함되어 있습니다.")
	}
	return nil
}

// Create stores the visit together with the people visited.
func (s *VisitService) Create(ctx context.Context, churchID uuid.UUID, req dto.VisitCreateRequest) (*dto.VisitDetail, error) {
	v, err := req.ToModel(churchID)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureChurchMembers(tx, churchID, req.ChurchMemberIDs()); err != nil {
			return err
		}
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		seen := map[uuid.UUID]struct{}{}
		lines := make([]model.VisitMemberModel, 0, len(req.Members))
		for _, m := range req.Members {
			if _, dup := seen[m.ChurchMemberID]; dup {
				continue
			}
			seen[m.ChurchMemberID] = struct{}{}
			lines = append(lines, model.VisitMemberModel{
				VisitMemberVisitID:        v.VisitID,
				VisitMemberChurchMemberID: m.ChurchMemberID,
				VisitMemberStory:          helper.TrimPtr(m.Story),
			})
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, churchID, v.VisitID)
}

func (s *VisitService) Patch(ctx context.Context, churchID, id uuid.UUID, req dto.VisitUpdateRequest) (*dto.VisitDetail, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := findVisit(tx, churchID, id)
		if err != nil {
			return err
		}
		updates, err := req.ToUpdates(v)
		if err != nil {
			return err
		}
		if req.VisitorID != nil {
			if err := ensureChurchMembers(tx, churchID, []uuid.UUID{*req.VisitorID}); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(v).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, churchID, id)
}

// Delete bins the visit, the people on it and the prayers they shared.
func (s *VisitService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := findVisit(tx, churchID, id)
		if err != nil {
			return err
		}
		return softdelete.Apply(tx, softdelete.Visit, []uuid.UUID{v.VisitID}, tx.NowFunc())
	})
}

// AddMember adds one visited person; a person already on the visit is a conflict.
func (s *VisitService) AddMember(ctx context.Context, churchID, visitID uuid.UUID, in dto.VisitMemberInput) (*model.VisitMemberModel, error) {
	line := model.VisitMemberModel{
		VisitMemberVisitID:        visitID,
		VisitMemberChurchMemberID: in.ChurchMemberID,
		VisitMemberStory:          helper.TrimPtr(in.Story),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findVisit(tx, churchID, visitID); err != nil {
			return err
		}
		if err := ensureChurchMembers(tx, churchID, []uuid.UUID{in.ChurchMemberID}); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.VisitMemberModel{}).
			Where("visit_member_visit_id = ? AND visit_member_church_member_id = ?", visitID, in.ChurchMemberID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.ErrConflict("이미 심방 대상자로 등록되어 있습니다.")
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func findVisitMember(tx *gorm.DB, churchID, visitID, lineID uuid.UUID) (*model.VisitMemberModel, error) {
	if _, err := findVisit(tx, churchID, visitID); err != nil {
		return nil, err
	}
	var line model.VisitMemberModel
	err := tx.Where("visit_member_id = ? AND visit_member_visit_id = ?", lineID, visitID).Take(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgVisitMemberNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *VisitService) PatchMember(ctx context.Context, churchID, visitID, lineID uuid.UUID, req dto.VisitMemberUpdateRequest) (*model.VisitMemberModel, error) {
	var out *model.VisitMemberModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := findVisitMember(tx, churchID, visitID, lineID)
		if err != nil {
			return err
		}
		out = line
		if req.Story == nil {
			return nil
		}
		story := helper.TrimPtr(req.Story)
		if err := tx.Model(line).Update("visit_member_story", story).Error; err != nil {
			return err
		}
		line.VisitMemberStory = story
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMember bins one visited person and the prayers recorded for them.
func (s *VisitService) RemoveMember(ctx context.Context, churchID, visitID, lineID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := findVisitMember(tx, churchID, visitID, lineID)
		if err != nil {
			return err
		}
		return softdelete.Apply(tx, softdelete.VisitMember, []uuid.UUID{line.VisitMemberID}, tx.NowFunc())
	})
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
