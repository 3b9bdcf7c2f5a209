package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/gatherings/dto"
	"churchku_backend/internals/features/groups/gatherings/model"
	groupModel "churchku_backend/internals/features/groups/groups/model"
	groupService "churchku_backend/internals/features/groups/groups/service"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
	"churchku_backend/internals/helpers/softdelete"
)

const msgGatheringNotFound = "모임을 찾을 수 없습니다."

type GatheringService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewGatheringService(db *gorm.DB, log *zap.Logger) *GatheringService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GatheringService{DB: db, Log: log}
}

const gatheringRowColumns = `g.*,
	COUNT(gm.gathering_member_id) AS member_count,
	COUNT(gm.gathering_member_id) FILTER (WHERE gm.gathering_member_worship_attended IS TRUE) AS worship_attended,
	COUNT(gm.gathering_member_id) FILTER (WHERE gm.gathering_member_gathering_attended IS TRUE) AS gathering_attended`

// List returns the group's gatherings inside the window, oldest first. A week that does
// not exist in the month yields an empty list.
func (s *GatheringService) List(ctx context.Context, churchID, groupID uuid.UUID, w dto.Window) (*dto.GatheringList, error) {
	db := s.DB.WithContext(ctx)
	if _, err := groupService.FindGroup(db, churchID, groupID); err != nil {
		return nil, err
	}
	out := &dto.GatheringList{Window: w.Range, WeekExists: w.WeekExists, Items: make([]dto.GatheringRow, 0)}
	if !w.WeekExists {
		return out, nil
	}

	if err := db.Table("gatherings g").
		Joins("LEFT JOIN gathering_members gm ON gm.gathering_member_gathering_id = g.gathering_id AND gm.gathering_member_deleted_at IS NULL").
		Where("g.gathering_church_id = ? AND g.gathering_group_id = ? AND g.gathering_deleted_at IS NULL", churchID, groupID).
		Where("g.gathering_date BETWEEN ? AND ?", w.Range.Start, w.Range.End).
		Select(gatheringRowColumns).
		Group("g.gathering_id").
		Order("g.gathering_date ASC, g.gathering_created_at ASC").
		Scan(&out.Items).Error; err != nil {
		return nil, err
	}
	for i := range out.Items {
		out.Items[i].Fill()
	}
	return out, nil
}

// Create opens a gathering and seeds one attendance line per ACTIVE group member.
func (s *GatheringService) Create(ctx context.Context, churchID, groupID uuid.UUID, req dto.GatheringCreateRequest) (*dto.GatheringDetail, error) {
	g, err := req.ToModel(churchID, groupID)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := groupService.FindGroup(tx, churchID, groupID); err != nil {
			return err
		}
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		var gmIDs []uuid.UUID
		if err := tx.Model(&groupModel.GroupMemberModel{}).
			Where("group_member_group_id = ? AND group_member_status = ?", groupID, constants.GroupMemberActive).
			Pluck("group_member_id", &gmIDs).Error; err != nil {
			return err
		}
		if len(gmIDs) == 0 {
			return nil
		}
		lines := make([]model.GatheringMemberModel, len(gmIDs))
		for i, id := range gmIDs {
			lines[i] = model.GatheringMemberModel{
				GatheringMemberGatheringID:   g.GatheringID,
				GatheringMemberGroupMemberID: id,
			}
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.Get(ctx, churchID, g.GatheringID)
	if err != nil {
		return nil, err
	}
	if detail.SameWeek > 0 {
		// weekly reports read the earliest one; surface the duplicate instead of rejecting it
		s.Log.Warn("more than one gathering in a reporting week",
			zap.String("group_id", groupID.String()),
			zap.String("gathering_id", g.GatheringID.String()),
			zap.Int("others", detail.SameWeek))
	}
	return detail, nil
}

func findGathering(tx *gorm.DB, churchID, id uuid.UUID) (*model.GatheringModel, error) {
	var g model.GatheringModel
	err := tx.Where("gathering_id = ? AND gathering_church_id = ?", id, churchID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgGatheringNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GatheringService) Get(ctx context.Context, churchID, id uuid.UUID) (*dto.GatheringDetail, error) {
	db := s.DB.WithContext(ctx)
	g, err := findGathering(db, churchID, id)
	if err != nil {
		return nil, err
	}

	members := make([]dto.GatheringMemberRow, 0)
	if err := db.Table("gathering_members gm").
		Joins("JOIN group_members grm ON grm.group_member_id = gm.gathering_member_group_member_id").
		Joins("JOIN members m ON m.member_id = grm.group_member_member_id").
		Where("gm.gathering_member_gathering_id = ? AND gm.gathering_member_deleted_at IS NULL", id).
		Select("gm.*, grm.group_member_member_id AS member_id, grm.group_member_role, m.member_name").
		Order("CASE grm.group_member_role WHEN 'LEADER' THEN 0 WHEN 'SUB_LEADER' THEN 1 ELSE 2 END, m.member_name ASC").
		Scan(&members).Error; err != nil {
		return nil, err
	}

	detail := dto.NewGatheringDetail(*g, members)

	year, month, week := dbtime.WeekIndexOf(g.GatheringDate)
	wr, _ := dbtime.WeekRange(year, month, week)
	var others int64
	if err := db.Model(&model.GatheringModel{}).
		Where("gathering_group_id = ? AND gathering_id <> ?", g.GatheringGroupID, g.GatheringID).
		Where("gathering_date BETWEEN ? AND ?", wr.Start, wr.End).
		Count(&others).Error; err != nil {
		return nil, err
	}
	detail.SameWeek = int(others)
	return detail, nil
}

func (s *GatheringService) Patch(ctx context.Context, churchID, id uuid.UUID, req dto.GatheringUpdateRequest) (*dto.GatheringDetail, error) {
	updates, err := req.ToUpdates()
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findGathering(tx, churchID, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(g).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, churchID, id)
}

// PatchMember edits one attendance line of a gathering.
func (s *GatheringService) PatchMember(ctx context.Context, churchID, gatheringID, lineID uuid.UUID, req dto.GatheringMemberUpdateRequest) (*model.GatheringMemberModel, error) {
	var out model.GatheringMemberModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findGathering(tx, churchID, gatheringID); err != nil {
			return err
		}
		err := tx.Where("gathering_member_id = ? AND gathering_member_gathering_id = ?", lineID, gatheringID).
			Take(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrNotFound("출석 기록을 찾을 수 없습니다.")
		}
		if err != nil {
			return err
		}
		updates := req.ToUpdates()
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&out).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("gathering_member_id = ?", lineID).Take(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete bins the gathering, its attendance lines and the prayers recorded on them.
func (s *GatheringService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findGathering(tx, churchID, id)
		if err != nil {
			return err
		}
		return softdelete.Apply(tx, softdelete.Gathering, []uuid.UUID{g.GatheringID}, tx.NowFunc())
	})
}
