package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"churchku_backend/internals/constants"
	activityModel "churchku_backend/internals/features/activity/activity_logs/model"
	activityService "churchku_backend/internals/features/activity/activity_logs/service"
	educationModel "churchku_backend/internals/features/groups/education/model"
	"churchku_backend/internals/features/groups/groups/dto"
	"churchku_backend/internals/features/groups/groups/model"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/dbtime"
	"churchku_backend/internals/helpers/softdelete"
)

const (
	msgGroupNotFound       = "소그룹을 찾을 수 없습니다."
	msgGroupMemberNotFound = "소그룹 구성원을 찾을 수 없습니다."
	msgGroupNameTaken      = "같은 이름의 소그룹이 이미 있습니다."
)

type GroupService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewGroupService(db *gorm.DB, log *zap.Logger) *GroupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GroupService{DB: db, Log: log}
}

type ListFilter struct {
	Type *constants.GroupType
	Year *int
	Q    string
}

const groupRowColumns = `g.*,
	(SELECT COUNT(*) FROM group_members gm
	  WHERE gm.group_member_group_id = g.group_id
	    AND gm.group_member_status = 'ACTIVE'
	    AND gm.group_member_deleted_at IS NULL) AS active_member_count,
	(SELECT string_agg(m.member_name, ', ' ORDER BY m.member_name)
	   FROM group_members gm
	   JOIN members m ON m.member_id = gm.group_member_member_id
	  WHERE gm.group_member_group_id = g.group_id
	    AND gm.group_member_role = 'LEADER'
	    AND gm.group_member_status = 'ACTIVE'
	    AND gm.group_member_deleted_at IS NULL) AS leader_names`

func (s *GroupService) groups(ctx context.Context, churchID uuid.UUID) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("groups g").
		Where("g.group_church_id = ? AND g.group_deleted_at IS NULL", churchID)
}

func (s *GroupService) List(ctx context.Context, churchID uuid.UUID, f ListFilter, p helper.Paging) ([]dto.GroupRow, int64, error) {
	q := s.groups(ctx, churchID)
	if f.Type != nil {
		q = q.Where("g.group_type = ?", *f.Type)
	}
	if f.Year != nil {
		yr := dbtime.YearRange(*f.Year)
		q = q.Where(model.ActiveWithinSQL("g"), yr.End, yr.Start)
	}
	if kw := strings.TrimSpace(f.Q); kw != "" {
		q = q.Where("g.group_name ILIKE ?", "%"+kw+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.GroupRow, 0)
	err := q.Select(groupRowColumns).
		Order("g.group_type DESC, g.group_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func (s *GroupService) Get(ctx context.Context, churchID, groupID uuid.UUID) (*dto.GroupRow, error) {
	var rows []dto.GroupRow
	if err := s.groups(ctx, churchID).
		Where("g.group_id = ?", groupID).
		Select(groupRowColumns).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound(msgGroupNotFound)
	}
	return &rows[0], nil
}

// FindGroup loads a live group of the tenant.
func FindGroup(tx *gorm.DB, churchID, groupID uuid.UUID) (*model.GroupModel, error) {
	var g model.GroupModel
	err := tx.Where("group_id = ? AND group_church_id = ?", groupID, churchID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgGroupNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ensureNameFree rejects a name held by another live group of the tenant. Exact match.
func ensureNameFree(tx *gorm.DB, churchID uuid.UUID, name string, except *uuid.UUID) error {
	q := tx.Model(&model.GroupModel{}).
		Where("group_church_id = ? AND group_name = ?", churchID, name)
	if except != nil {
		q = q.Where("group_id <> ?", *except)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict(msgGroupNameTaken)
	}
	return nil
}

func (s *GroupService) Create(ctx context.Context, churchID uuid.UUID, req dto.GroupCreateRequest) (*model.GroupModel, error) {
	g, err := req.ToModel(churchID)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, churchID, g.GroupName, nil); err != nil {
			return err
		}
		return tx.Create(g).Error
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Patch updates a group; a rename is checked against the other live groups of the tenant.
func (s *GroupService) Patch(ctx context.Context, churchID, groupID uuid.UUID, req dto.GroupUpdateRequest) (*model.GroupModel, error) {
	var out *model.GroupModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := FindGroup(tx, churchID, groupID)
		if err != nil {
			return err
		}
		updates, newName, err := req.ToUpdates(g)
		if err != nil {
			return err
		}
		if newName != nil {
			if err := ensureNameFree(tx, churchID, *newName, &groupID); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(g).Updates(updates).Error; err != nil {
				return err
			}
		}
		out, err = FindGroup(tx, churchID, groupID)
		return err
	})
	return out, err
}

// Delete bins the group with its members, program and gatherings.
func (s *GroupService) Delete(ctx context.Context, actor *helperAuth.Identity, groupID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := FindGroup(tx, actor.ChurchID, groupID)
		if err != nil {
			return err
		}
		if err := softdelete.Apply(tx, softdelete.Group, []uuid.UUID{g.GroupID}, tx.NowFunc()); err != nil {
			return err
		}
		churchID := actor.ChurchID
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &churchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionGroupDeleted,
			EntityType: activityModel.EntityGroup,
			EntityID:   g.GroupID,
			Detail:     map[string]any{"group_name": g.GroupName, "group_type": g.GroupType},
		})
	})
}

/* ===================== Members ===================== */

func (s *GroupService) ListMembers(ctx context.Context, churchID, groupID uuid.UUID, status *constants.GroupMemberStatus) ([]dto.GroupMemberRow, error) {
	db := s.DB.WithContext(ctx)
	if _, err := FindGroup(db, churchID, groupID); err != nil {
		return nil, err
	}
	q := db.Table("group_members gm").
		Joins("JOIN members m ON m.member_id = gm.group_member_member_id AND m.member_deleted_at IS NULL").
		Where("gm.group_member_group_id = ? AND gm.group_member_deleted_at IS NULL", groupID)
	if status != nil {
		q = q.Where("gm.group_member_status = ?", *status)
	}
	rows := make([]dto.GroupMemberRow, 0)
	err := q.Select(`gm.group_member_id, gm.group_member_member_id, gm.group_member_role,
			gm.group_member_status, gm.group_member_graduated_at, gm.group_member_created_at,
			m.member_name, m.member_phone, m.member_photo_url`).
		Order(`gm.group_member_status ASC,
			CASE gm.group_member_role WHEN 'LEADER' THEN 0 WHEN 'SUB_LEADER' THEN 1 ELSE 2 END,
			m.member_name ASC`).
		Scan(&rows).Error
	return rows, err
}

// AssignMembers adds members to a group. Members already ACTIVE there are skipped; when
// every target is skipped the call is a conflict.
func (s *GroupService) AssignMembers(ctx context.Context, actor *helperAuth.Identity, groupID uuid.UUID, memberIDs []uuid.UUID, role constants.GroupRole) (*dto.AssignResult, error) {
	if !role.Valid() {
		return nil, helper.ErrValidation("role 값이 올바르지 않습니다.")
	}
	ids := uniqueIDs(memberIDs)
	if len(ids) == 0 {
		return nil, helper.ErrValidation("배정할 교인을 선택해주세요.")
	}
	churchID := actor.ChurchID

	var res dto.AssignResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindGroup(tx, churchID, groupID); err != nil {
			return err
		}

		var inChurch []uuid.UUID
		if err := tx.Table("church_members").
			Where("church_member_church_id = ? AND church_member_deleted_at IS NULL", churchID).
			Where("church_member_member_id = ANY(?::uuid[])", pq.Array(idStrings(ids))).
			Pluck("church_member_member_id", &inChurch).Error; err != nil {
			return err
		}
		if len(uniqueIDs(inChurch)) != len(ids) {
			return helper.ErrValidation("교회에 등록되지 않은 교인이 포함되어 있습니다.")
		}

		var active []uuid.UUID
		if err := tx.Model(&model.GroupMemberModel{}).
			Where("group_member_group_id = ? AND group_member_status = ?", groupID, constants.GroupMemberActive).
			Where("group_member_member_id = ANY(?::uuid[])", pq.Array(idStrings(ids))).
			Pluck("group_member_member_id", &active).Error; err != nil {
			return err
		}
		skip := make(map[uuid.UUID]struct{}, len(active))
		for _, id := range active {
			skip[id] = struct{}{}
		}

		rows := make([]model.GroupMemberModel, 0, len(ids))
		for _, id := range ids {
			if _, ok := skip[id]; ok {
				continue
			}
			rows = append(rows, model.GroupMemberModel{
				GroupMemberGroupID:  groupID,
				GroupMemberMemberID: id,
				GroupMemberRole:     role,
				GroupMemberStatus:   constants.GroupMemberActive,
			})
			res.AssignedIDs = append(res.AssignedIDs, id)
		}
		res.AssignedCount = len(rows)
		res.SkippedCount = len(ids) - len(rows)
		if len(rows) == 0 {
			return helper.ErrConflict("선택한 교인은 모두 이미 소그룹에 속해 있습니다.")
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &churchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionMembersAssigned,
			EntityType: activityModel.EntityGroup,
			EntityID:   groupID,
			Detail:     map[string]any{"member_ids": res.AssignedIDs, "role": role, "skipped": res.SkippedCount},
		})
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// findGroupMember locks a roster line of a tenant group.
func findGroupMember(tx *gorm.DB, churchID, groupID, groupMemberID uuid.UUID) (*model.GroupModel, *model.GroupMemberModel, error) {
	g, err := FindGroup(tx, churchID, groupID)
	if err != nil {
		return nil, nil, err
	}
	var gm model.GroupMemberModel
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_member_id = ? AND group_member_group_id = ?", groupMemberID, groupID).
		Take(&gm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, helper.ErrNotFound(msgGroupMemberNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return g, &gm, nil
}

func (s *GroupService) ChangeMemberRole(ctx context.Context, churchID, groupID, groupMemberID uuid.UUID, role constants.GroupRole) (*model.GroupMemberModel, error) {
	if !role.Valid() {
		return nil, helper.ErrValidation("role 값이 올바르지 않습니다.")
	}
	var out *model.GroupMemberModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, gm, err := findGroupMember(tx, churchID, groupID, groupMemberID)
		if err != nil {
			return err
		}
		if gm.GroupMemberStatus != constants.GroupMemberActive {
			return helper.ErrConflict("수료한 구성원의 역할은 변경할 수 없습니다.")
		}
		if err := tx.Model(gm).Update("group_member_role", role).Error; err != nil {
			return err
		}
		gm.GroupMemberRole = role
		out = gm
		return nil
	})
	return out, err
}

// RemoveMember bins one roster line together with its education progress.
func (s *GroupService) RemoveMember(ctx context.Context, churchID, groupID, groupMemberID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, gm, err := findGroupMember(tx, churchID, groupID, groupMemberID)
		if err != nil {
			return err
		}
		return softdelete.Apply(tx, softdelete.GroupMember, []uuid.UUID{gm.GroupMemberID}, tx.NowFunc())
	})
}

// GraduateMember moves a newcomer into a regular group. The status change, the new roster
// line, the program counter and the audit row commit together or not at all.
func (s *GroupService) GraduateMember(ctx context.Context, actor *helperAuth.Identity, groupID, groupMemberID, targetGroupID uuid.UUID) (*dto.GraduateResult, error) {
	if targetGroupID == groupID {
		return nil, helper.ErrValidation("같은 소그룹으로는 수료할 수 없습니다.")
	}
	churchID := actor.ChurchID

	var out dto.GraduateResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, gm, err := findGroupMember(tx, churchID, groupID, groupMemberID)
		if err != nil {
			return err
		}
		if src.GroupType != constants.GroupTypeNewcomer {
			return helper.ErrConflict("새가족반 구성원만 수료할 수 있습니다.")
		}
		if gm.GroupMemberStatus != constants.GroupMemberActive {
			return helper.ErrConflict("이미 수료한 구성원입니다.")
		}

		target, err := FindGroup(tx, churchID, targetGroupID)
		if err != nil {
			if helper.StatusOf(err) == http.StatusNotFound {
				return helper.ErrNotFound("수료 후 배정할 소그룹을 찾을 수 없습니다.")
			}
			return err
		}

		// the row lock serialises concurrent graduations of the same program
		var prog educationModel.EducationProgramModel
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("education_program_group_id = ?", groupID).
			Take(&prog).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrConflict("교육 과정이 등록되지 않은 새가족반입니다.")
		}
		if err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&model.GroupMemberModel{}).
			Where("group_member_group_id = ? AND group_member_member_id = ? AND group_member_status = ?",
				target.GroupID, gm.GroupMemberMemberID, constants.GroupMemberActive).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return helper.ErrConflict("이미 대상 소그룹에 속해 있습니다.")
		}

		now := tx.NowFunc()
		if err := tx.Model(gm).Updates(map[string]any{
			"group_member_status":       constants.GroupMemberGraduated,
			"group_member_graduated_at": now,
		}).Error; err != nil {
			return err
		}
		gm.GroupMemberStatus = constants.GroupMemberGraduated
		gm.GroupMemberGraduatedAt = &now

		moved := model.GroupMemberModel{
			GroupMemberGroupID:  target.GroupID,
			GroupMemberMemberID: gm.GroupMemberMemberID,
			GroupMemberRole:     constants.GroupRoleMember,
			GroupMemberStatus:   constants.GroupMemberActive,
		}
		if err := tx.Create(&moved).Error; err != nil {
			return err
		}

		if err := tx.Model(&prog).
			Update("education_program_graduated_count", gorm.Expr("education_program_graduated_count + 1")).Error; err != nil {
			return err
		}

		if err := activityService.Append(tx, activityService.Entry{
			ChurchID:   &churchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionGraduated,
			EntityType: activityModel.EntityGroupMember,
			EntityID:   gm.GroupMemberID,
			Detail: map[string]any{
				"member_id":           gm.GroupMemberMemberID,
				"from_group_id":       src.GroupID,
				"to_group_id":         target.GroupID,
				"new_group_member_id": moved.GroupMemberID,
			},
		}); err != nil {
			return err
		}

		out = dto.GraduateResult{
			Source:         *gm,
			Target:         moved,
			GraduatedCount: prog.EducationProgramGraduatedCount + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("group member graduated",
		zap.String("church_id", churchID.String()),
		zap.String("group_member_id", groupMemberID.String()),
		zap.String("target_group_id", targetGroupID.String()))
	return &out, nil
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
