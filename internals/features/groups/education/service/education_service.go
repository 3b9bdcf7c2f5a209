package service

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/education/dto"
	"churchku_backend/internals/features/groups/education/model"
	groupModel "churchku_backend/internals/features/groups/groups/model"
	groupService "churchku_backend/internals/features/groups/groups/service"
	helper "churchku_backend/internals/helpers"
)

const msgProgramNotFound = "등록된 교육 과정이 없습니다."

type EducationService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewEducationService(db *gorm.DB, log *zap.Logger) *EducationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EducationService{DB: db, Log: log}
}

func findProgram(tx *gorm.DB, groupID uuid.UUID, lock bool) (*model.EducationProgramModel, error) {
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p model.EducationProgramModel
	err := tx.Where("education_program_group_id = ?", groupID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgProgramNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *EducationService) GetProgram(ctx context.Context, churchID, groupID uuid.UUID) (*model.EducationProgramModel, error) {
	db := s.DB.WithContext(ctx)
	if _, err := groupService.FindGroup(db, churchID, groupID); err != nil {
		return nil, err
	}
	return findProgram(db, groupID, false)
}

// UpsertProgram attaches or edits the curriculum of a newcomer group. The graduated
// counter is never written from here.
func (s *EducationService) UpsertProgram(ctx context.Context, churchID, groupID uuid.UUID, req dto.ProgramUpsertRequest) (*model.EducationProgramModel, bool, error) {
	var (
		out     *model.EducationProgramModel
		created bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := groupService.FindGroup(tx, churchID, groupID)
		if err != nil {
			return err
		}
		if g.GroupType != constants.GroupTypeNewcomer {
			return helper.ErrConflict("교육 과정은 새가족반에만 등록할 수 있습니다.")
		}

		p, err := findProgram(tx, groupID, true)
		if err != nil && helper.StatusOf(err) != http.StatusNotFound {
			return err
		}
		if p == nil {
			p = &model.EducationProgramModel{
				EducationProgramGroupID:    groupID,
				EducationProgramName:       req.Name,
				EducationProgramTotalWeeks: req.TotalWeeks,
			}
			created = true
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			out = p
			return nil
		}

		if err := tx.Model(p).Updates(map[string]any{
			"education_program_name":        req.Name,
			"education_program_total_weeks": req.TotalWeeks,
		}).Error; err != nil {
			return err
		}
		p.EducationProgramName = req.Name
		p.EducationProgramTotalWeeks = req.TotalWeeks
		out = p
		return nil
	})
	return out, created, err
}

// Progress builds the week grid. Marks beyond the current week count are kept but hidden.
func (s *EducationService) Progress(ctx context.Context, churchID, groupID uuid.UUID) (*dto.ProgressGrid, error) {
	db := s.DB.WithContext(ctx)
	if _, err := groupService.FindGroup(db, churchID, groupID); err != nil {
		return nil, err
	}
	prog, err := findProgram(db, groupID, false)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ProgressRow, 0)
	if err := db.Table("group_members gm").
		Joins("JOIN members m ON m.member_id = gm.group_member_member_id AND m.member_deleted_at IS NULL").
		Where("gm.group_member_group_id = ? AND gm.group_member_deleted_at IS NULL", groupID).
		Select("gm.group_member_id, gm.group_member_member_id AS member_id, m.member_name, gm.group_member_status").
		Order("gm.group_member_status ASC, m.member_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	grid := &dto.ProgressGrid{Program: *prog, Weeks: make([]int, 0, prog.EducationProgramTotalWeeks), Members: rows}
	for w := 1; w <= prog.EducationProgramTotalWeeks; w++ {
		grid.Weeks = append(grid.Weeks, w)
	}
	if len(rows) == 0 {
		return grid, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.GroupMemberID
	}
	var marks []model.EducationProgressModel
	if err := db.Where("education_progress_group_member_id IN ?", ids).
		Find(&marks).Error; err != nil {
		return nil, err
	}

	byMember := make(map[uuid.UUID][]int, len(rows))
	for _, m := range marks {
		if m.EducationProgressWeek > prog.EducationProgramTotalWeeks {
			continue
		}
		byMember[m.EducationProgressGroupMemberID] = append(byMember[m.EducationProgressGroupMemberID], m.EducationProgressWeek)
	}
	for i := range grid.Members {
		weeks := byMember[grid.Members[i].GroupMemberID]
		sort.Ints(weeks)
		if weeks == nil {
			weeks = []int{}
		}
		grid.Members[i].CompletedWeeks = weeks
		grid.Members[i].CompletedCount = len(weeks)
	}
	return grid, nil
}

// SetProgress marks or clears one week for one roster line. Repeating a call is a no-op.
func (s *EducationService) SetProgress(ctx context.Context, churchID, groupID uuid.UUID, req dto.ProgressMarkRequest) (*dto.ProgressMark, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := groupService.FindGroup(tx, churchID, groupID); err != nil {
			return err
		}
		prog, err := findProgram(tx, groupID, false)
		if err != nil {
			return err
		}
		if req.Week < 1 || req.Week > prog.EducationProgramTotalWeeks {
			return helper.ErrValidationFields(map[string]string{"Week": "out_of_range"})
		}

		var gm groupModel.GroupMemberModel
		err = tx.Where("group_member_id = ? AND group_member_group_id = ?", req.GroupMemberID, groupID).
			Take(&gm).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrNotFound("소그룹 구성원을 찾을 수 없습니다.")
		}
		if err != nil {
			return err
		}

		var existing []model.EducationProgressModel
		if err := tx.Where("education_progress_group_member_id = ? AND education_progress_week = ?", gm.GroupMemberID, req.Week).
			Find(&existing).Error; err != nil {
			return err
		}

		switch {
		case req.Completed && len(existing) == 0:
			return tx.Create(&model.EducationProgressModel{
				EducationProgressGroupMemberID: gm.GroupMemberID,
				EducationProgressWeek:          req.Week,
			}).Error
		case !req.Completed && len(existing) > 0:
			return tx.Where("education_progress_group_member_id = ? AND education_progress_week = ?", gm.GroupMemberID, req.Week).
				Delete(&model.EducationProgressModel{}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProgressMark{GroupMemberID: req.GroupMemberID, Week: req.Week, Completed: req.Completed}, nil
}

// ReconcileGraduatedCounts re-derives graduated_count from GRADUATED roster lines and
// repairs drifted programs. churchID nil covers every church. Binned GRADUATED lines still
// count: a graduate who later leaves the church or the group stays graduated.
func (s *EducationService) ReconcileGraduatedCounts(ctx context.Context, churchID *uuid.UUID) ([]dto.CounterDrift, error) {
	db := s.DB.WithContext(ctx)

	q := db.Table("education_programs p").
		Joins("JOIN groups g ON g.group_id = p.education_program_group_id AND g.group_deleted_at IS NULL").
		Joins(`LEFT JOIN group_members gm ON gm.group_member_group_id = p.education_program_group_id
			AND gm.group_member_status = 'GRADUATED'`).
		Where("p.education_program_deleted_at IS NULL")
	if churchID != nil {
		q = q.Where("g.group_church_id = ?", *churchID)
	}
	var suspects []dto.CounterDrift
	if err := q.Select(`p.education_program_id, p.education_program_group_id,
			p.education_program_graduated_count AS stored, COUNT(gm.group_member_id) AS actual`).
		Group("p.education_program_id").
		Having("p.education_program_graduated_count <> COUNT(gm.group_member_id)").
		Scan(&suspects).Error; err != nil {
		return nil, err
	}

	fixed := make([]dto.CounterDrift, 0, len(suspects))
	for _, d := range suspects {
		// recount under the row lock; a graduation may have landed since the scan
		var drift *dto.CounterDrift
		err := db.Transaction(func(tx *gorm.DB) error {
			var p model.EducationProgramModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("education_program_id = ?", d.ProgramID).
				Take(&p).Error; err != nil {
				return err
			}
			var n int64
			if err := tx.Unscoped().Model(&groupModel.GroupMemberModel{}).
				Where("group_member_group_id = ? AND group_member_status = ?", p.EducationProgramGroupID, constants.GroupMemberGraduated).
				Count(&n).Error; err != nil {
				return err
			}
			if int(n) == p.EducationProgramGraduatedCount {
				return nil
			}
			drift = &dto.CounterDrift{
				ProgramID: p.EducationProgramID,
				GroupID:   p.EducationProgramGroupID,
				Stored:    p.EducationProgramGraduatedCount,
				Actual:    int(n),
			}
			return tx.Model(&p).Update("education_program_graduated_count", n).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return fixed, err
		}
		if drift != nil {
			s.Log.Warn("graduated count drift repaired",
				zap.String("education_program_id", drift.ProgramID.String()),
				zap.Int("stored", drift.Stored),
				zap.Int("actual", drift.Actual))
			fixed = append(fixed, *drift)
		}
	}
	return fixed, nil
}
