package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
	activityModel "churchku_backend/internals/features/activity/activity_logs/model"
	activityService "churchku_backend/internals/features/activity/activity_logs/service"
	churchMemberModel "churchku_backend/internals/features/churches/church_members/model"
	"churchku_backend/internals/features/churches/churches/dto"
	"churchku_backend/internals/features/churches/churches/model"
	authService "churchku_backend/internals/features/users/auth/service"
	memberModel "churchku_backend/internals/features/users/members/model"
	helper "churchku_backend/internals/helpers"
)

const (
	msgChurchNotFound = "교회를 찾을 수 없습니다."
	msgMemberNotFound = "교인을 찾을 수 없습니다."
)

// ChurchService backs the cross-tenant system console.
type ChurchService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewChurchService(db *gorm.DB, log *zap.Logger) *ChurchService {
	return &ChurchService{DB: db, Log: log}
}

const churchStatsColumns = `c.*,
	(SELECT COUNT(*) FROM church_members cm
	  WHERE cm.church_member_church_id = c.church_id AND cm.church_member_deleted_at IS NULL) AS member_count,
	(SELECT COUNT(*) FROM church_members cm
	  WHERE cm.church_member_church_id = c.church_id AND cm.church_member_deleted_at IS NULL
	    AND cm.church_member_role IN ('ADMIN','SUPER_ADMIN')) AS admin_count`

func (s *ChurchService) List(ctx context.Context, q string, p helper.Paging) ([]dto.ChurchResponse, int64, error) {
	base := s.DB.WithContext(ctx).Table("churches c").Where("c.church_deleted_at IS NULL")
	if kw := strings.TrimSpace(q); kw != "" {
		base = base.Where("c.church_name ILIKE ?", "%"+kw+"%")
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.ChurchResponse, 0)
	err := base.Select(churchStatsColumns).
		Order("c.church_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func (s *ChurchService) Get(ctx context.Context, churchID uuid.UUID) (*dto.ChurchResponse, error) {
	var rows []dto.ChurchResponse
	if err := s.DB.WithContext(ctx).Table("churches c").
		Where("c.church_id = ? AND c.church_deleted_at IS NULL", churchID).
		Select(churchStatsColumns).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound(msgChurchNotFound)
	}
	return &rows[0], nil
}

func (s *ChurchService) Create(ctx context.Context, req dto.ChurchCreateRequest) (*model.ChurchModel, error) {
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	s.Log.Info("church created", zap.String("church_id", m.ChurchID.String()), zap.String("name", m.ChurchName))
	return m, nil
}

func (s *ChurchService) Patch(ctx context.Context, churchID uuid.UUID, req dto.ChurchUpdateRequest) (*dto.ChurchResponse, error) {
	updates := req.ToUpdates()
	if len(updates) > 0 {
		res := s.DB.WithContext(ctx).Model(&model.ChurchModel{}).
			Where("church_id = ?", churchID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, helper.ErrNotFound(msgChurchNotFound)
		}
	}
	return s.Get(ctx, churchID)
}

// Delete soft-deletes the tenant root. Its rows stay in place but no session can select it.
func (s *ChurchService) Delete(ctx context.Context, churchID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("church_id = ?", churchID).Delete(&model.ChurchModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound(msgChurchNotFound)
	}
	s.Log.Info("church deleted", zap.String("church_id", churchID.String()))
	return nil
}

// AssignAdmin upgrades (or creates) the member's membership in churchID to an admin role.
func (s *ChurchService) AssignAdmin(ctx context.Context, actorID, churchID uuid.UUID, req dto.AssignAdminRequest) (*dto.AssignAdminResponse, error) {
	role := req.ChurchRole()
	if !constants.HasPermissionOver(role, constants.RoleAdmin) {
		return nil, helper.ErrValidation("관리자 권한만 지정할 수 있습니다.")
	}

	var out dto.AssignAdminResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.ChurchModel{}).Where("church_id = ?", churchID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helper.ErrNotFound(msgChurchNotFound)
		}
		if err := tx.Model(&memberModel.MemberModel{}).Where("member_id = ?", req.MemberID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helper.ErrNotFound(msgMemberNotFound)
		}

		var cm churchMemberModel.ChurchMemberModel
		err := tx.Where("church_member_church_id = ? AND church_member_member_id = ?", churchID, req.MemberID).
			Take(&cm).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cm = churchMemberModel.ChurchMemberModel{
				ChurchMemberChurchID: churchID,
				ChurchMemberMemberID: req.MemberID,
				ChurchMemberRole:     role,
			}
			if err := tx.Create(&cm).Error; err != nil {
				return err
			}
			out.Created = true
		case err != nil:
			return err
		default:
			if err := tx.Model(&cm).Update("church_member_role", role).Error; err != nil {
				return err
			}
			cm.ChurchMemberRole = role
		}

		out.ChurchMemberID = cm.ChurchMemberID
		out.ChurchID = churchID
		out.MemberID = req.MemberID
		out.Role = role
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &churchID,
			ActorID:    actorID,
			Action:     activityModel.ActionAdminAssigned,
			EntityType: activityModel.EntityChurchMember,
			EntityID:   cm.ChurchMemberID,
			Detail:     map[string]any{"role": role, "created": out.Created},
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password for any login-capable member.
func (s *ChurchService) ResetPassword(ctx context.Context, actorID, memberID uuid.UUID, req dto.ResetPasswordRequest) error {
	hash, err := authService.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m memberModel.MemberModel
		if err := tx.Select("member_id", "member_email").Take(&m, "member_id = ?", memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.ErrNotFound(msgMemberNotFound)
			}
			return err
		}
		if m.MemberEmail == nil {
			return helper.ErrValidation("이메일이 없는 교인은 로그인 계정이 아닙니다.")
		}
		if err := tx.Model(&memberModel.MemberModel{}).
			Where("member_id = ?", memberID).
			Update("member_password", hash).Error; err != nil {
			return err
		}
		return activityService.Append(tx, activityService.Entry{
			ActorID:    actorID,
			Action:     activityModel.ActionPasswordReset,
			EntityType: activityModel.EntityMember,
			EntityID:   memberID,
		})
	})
}
