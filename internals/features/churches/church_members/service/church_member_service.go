package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"churchku_backend/internals/constants"
	activityModel "churchku_backend/internals/features/activity/activity_logs/model"
	activityService "churchku_backend/internals/features/activity/activity_logs/service"
	"churchku_backend/internals/features/churches/church_members/dto"
	"churchku_backend/internals/features/churches/church_members/model"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/softdelete"
)

const msgChurchMemberNotFound = "교회 구성원을 찾을 수 없습니다."

type ChurchMemberService struct {
	DB *gorm.DB
}

func NewChurchMemberService(db *gorm.DB) *ChurchMemberService {
	return &ChurchMemberService{DB: db}
}

func (s *ChurchMemberService) List(ctx context.Context, churchID uuid.UUID, role *constants.ChurchRole, p helper.Paging) ([]dto.ChurchMemberRow, int64, error) {
	q := s.DB.WithContext(ctx).
		Table("church_members cm").
		Joins("JOIN members m ON m.member_id = cm.church_member_member_id AND m.member_deleted_at IS NULL").
		Where("cm.church_member_church_id = ? AND cm.church_member_deleted_at IS NULL", churchID)
	if role != nil {
		q = q.Where("cm.church_member_role = ?", *role)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.ChurchMemberRow, 0)
	err := q.Select(`cm.church_member_id, cm.church_member_member_id, cm.church_member_role,
			cm.church_member_created_at, m.member_name, m.member_email`).
		Order(`CASE cm.church_member_role WHEN 'SUPER_ADMIN' THEN 0 WHEN 'ADMIN' THEN 1 ELSE 2 END, m.member_name ASC`).
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func findInChurch(tx *gorm.DB, churchID, churchMemberID uuid.UUID) (*model.ChurchMemberModel, error) {
	var cm model.ChurchMemberModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("church_member_id = ? AND church_member_church_id = ?", churchMemberID, churchID).
		Take(&cm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgChurchMemberNotFound)
	}
	return &cm, err
}

// guardActor: nobody edits their own membership, or a member ranked above them.
func guardActor(actor *helperAuth.Identity, target *model.ChurchMemberModel) error {
	if target.ChurchMemberMemberID == actor.MemberID {
		return helper.ErrForbidden("자신의 권한은 변경할 수 없습니다.")
	}
	if !constants.HasPermissionOver(actor.Role, target.ChurchMemberRole) {
		return helper.ErrForbidden("상위 권한을 가진 구성원은 변경할 수 없습니다.")
	}
	return nil
}

// ChangeRole sets a member's church role. The actor may never grant a role above their own.
func (s *ChurchMemberService) ChangeRole(ctx context.Context, actor *helperAuth.Identity, churchMemberID uuid.UUID, role constants.ChurchRole) (*model.ChurchMemberModel, error) {
	if !role.Valid() {
		return nil, helper.ErrValidation("role 값이 올바르지 않습니다.")
	}
	if !constants.HasPermissionOver(actor.Role, role) {
		return nil, helper.ErrForbidden("자신보다 높은 권한은 부여할 수 없습니다.")
	}

	var out *model.ChurchMemberModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cm, err := findInChurch(tx, actor.ChurchID, churchMemberID)
		if err != nil {
			return err
		}
		if err := guardActor(actor, cm); err != nil {
			return err
		}
		from := cm.ChurchMemberRole
		if from == role {
			out = cm
			return nil
		}
		if err := tx.Model(cm).Update("church_member_role", role).Error; err != nil {
			return err
		}
		cm.ChurchMemberRole = role
		out = cm
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &actor.ChurchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionRoleChanged,
			EntityType: activityModel.EntityChurchMember,
			EntityID:   cm.ChurchMemberID,
			Detail:     map[string]string{"from": string(from), "to": string(role)},
		})
	})
	return out, err
}

func (s *ChurchMemberService) Remove(ctx context.Context, actor *helperAuth.Identity, churchMemberID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cm, err := findInChurch(tx, actor.ChurchID, churchMemberID)
		if err != nil {
			return err
		}
		if err := guardActor(actor, cm); err != nil {
			return err
		}
		return RemoveMembership(tx, actor.ChurchID, cm.ChurchMemberMemberID)
	})
}

// RemoveMembership soft-deletes the member's church membership and their group memberships
// in that church. Runs inside the caller's transaction.
func RemoveMembership(tx *gorm.DB, churchID, memberID uuid.UUID) error {
	res := tx.Where("church_member_church_id = ? AND church_member_member_id = ?", churchID, memberID).
		Delete(&model.ChurchMemberModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound(msgChurchMemberNotFound)
	}

	var gmIDs []uuid.UUID
	if err := tx.Table("group_members gm").
		Joins("JOIN groups g ON g.group_id = gm.group_member_group_id").
		Where("g.group_church_id = ? AND gm.group_member_member_id = ?", churchID, memberID).
		Where("gm.group_member_deleted_at IS NULL").
		Pluck("gm.group_member_id", &gmIDs).Error; err != nil {
		return err
	}
	return softdelete.Apply(tx, softdelete.GroupMember, gmIDs, tx.NowFunc())
}
