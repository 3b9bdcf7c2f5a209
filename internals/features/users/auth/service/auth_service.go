package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
	churchModel "churchku_backend/internals/features/churches/churches/model"
	joinModel "churchku_backend/internals/features/churches/join_requests/model"
	"churchku_backend/internals/features/users/auth/dto"
	memberModel "churchku_backend/internals/features/users/members/model"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

const msgBadCredentials = "이메일 또는 비밀번호가 올바르지 않습니다."

type AuthService struct {
	DB          *gorm.DB
	Tokens      *TokenIssuer
	Revocations RevocationStore
	Log         *zap.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, revocations RevocationStore, log *zap.Logger) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Revocations: revocations, Log: log}
}

func (s *AuthService) findMemberByEmail(ctx context.Context, email string) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	err := s.DB.WithContext(ctx).
		Where("member_email = ?", email).
		Take(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// eligibleChurches lists churches where the member holds ADMIN or above.
func (s *AuthService) eligibleChurches(ctx context.Context, memberID uuid.UUID, only *uuid.UUID) ([]dto.EligibleChurch, error) {
	q := s.DB.WithContext(ctx).
		Table("church_members cm").
		Select("c.church_id, c.church_name, cm.church_member_role AS role").
		Joins("JOIN churches c ON c.church_id = cm.church_member_church_id AND c.church_deleted_at IS NULL").
		Where("cm.church_member_member_id = ? AND cm.church_member_deleted_at IS NULL", memberID).
		Where("cm.church_member_role IN ?", constants.AdminAndAbove)
	if only != nil {
		q = q.Where("c.church_id = ?", *only)
	}
	out := make([]dto.EligibleChurch, 0)
	if err := q.Order("c.church_name ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Login is step 1: verify credentials, list eligible churches and hand out a ticket.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	m, err := s.findMemberByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrUnauthenticated(msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !m.CanLogin() || !CheckPassword(*m.MemberPassword, req.Password) {
		return nil, helper.ErrUnauthenticated(msgBadCredentials)
	}

	churches, err := s.eligibleChurches(ctx, m.MemberID, nil)
	if err != nil {
		return nil, err
	}
	isSystem := m.MemberSystemRole.IsSystemAdmin()
	if len(churches) == 0 && !isSystem {
		return nil, helper.ErrForbidden("관리자 권한이 있는 교회가 없습니다.")
	}

	ticket, exp, err := s.Tokens.IssueTicket(m.MemberID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		LoginTicket:     ticket,
		TicketExpiresAt: exp,
		Churches:        churches,
		AutoSelect:      len(churches) == 1,
		IsSystemAdmin:   isSystem,
	}, nil
}

// SelectChurch is step 2: re-check eligibility for the chosen church and sign the session.
// Eligibility is re-read so a role revoked between the two steps is honoured.
func (s *AuthService) SelectChurch(ctx context.Context, req dto.SelectChurchRequest) (string, *helperAuth.Identity, error) {
	memberID, err := s.Tokens.ParseTicket(req.LoginTicket)
	if err != nil {
		return "", nil, helper.ErrUnauthenticated("로그인 정보가 만료되었습니다. 다시 로그인해주세요.")
	}

	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).Take(&m, "member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, helper.ErrUnauthenticated("")
		}
		return "", nil, err
	}

	id := &helperAuth.Identity{
		MemberID:   m.MemberID,
		MemberName: m.MemberName,
		SystemRole: m.MemberSystemRole,
	}

	if req.ChurchID == nil {
		if !m.MemberSystemRole.IsSystemAdmin() {
			return "", nil, helper.ErrValidation("교회를 선택해주세요.")
		}
	} else {
		churches, err := s.eligibleChurches(ctx, m.MemberID, req.ChurchID)
		if err != nil {
			return "", nil, err
		}
		if len(churches) == 0 {
			return "", nil, helper.ErrForbidden("해당 교회의 관리자 권한이 없습니다.")
		}
		var church churchModel.ChurchModel
		if err := s.DB.WithContext(ctx).
			Select("church_id", "church_timezone").
			Take(&church, "church_id = ?", *req.ChurchID).Error; err != nil {
			return "", nil, err
		}
		id.ChurchID = churches[0].ChurchID
		id.ChurchName = churches[0].ChurchName
		id.Role = churches[0].Role
		id.ChurchTimezone = church.ChurchTimezone
	}

	token, err := s.Tokens.IssueSession(id)
	if err != nil {
		return "", nil, err
	}
	s.Log.Info("session issued",
		zap.String("member_id", id.MemberID.String()),
		zap.String("church_id", id.ChurchID.String()),
		zap.String("role", string(id.Role)),
	)
	return token, id, nil
}

// Logout revokes the session id until the token's own expiry.
func (s *AuthService) Logout(ctx context.Context, id *helperAuth.Identity) error {
	if id == nil || id.TokenID == "" {
		return nil
	}
	until := id.ExpiresAt
	if until.IsZero() {
		until = time.Now().Add(s.Tokens.SessionTTL())
	}
	return s.Revocations.Revoke(ctx, id.TokenID, until)
}

// Register creates a login-capable member and a PENDING join request for the church.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	birthday, err := helper.ParseDatePtr(req.Birthday)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var out dto.RegisterResponse
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var churchCount int64
		if err := tx.Model(&churchModel.ChurchModel{}).
			Where("church_id = ?", req.ChurchID).
			Count(&churchCount).Error; err != nil {
			return err
		}
		if churchCount == 0 {
			return helper.ErrNotFound("교회를 찾을 수 없습니다.")
		}

		var emailCount int64
		if err := tx.Model(&memberModel.MemberModel{}).
			Where("member_email = ?", req.Email).
			Count(&emailCount).Error; err != nil {
			return err
		}
		if emailCount > 0 {
			return helper.ErrConflict("이미 가입된 이메일입니다.")
		}

		email := req.Email
		m := memberModel.MemberModel{
			MemberName:     req.Name,
			MemberEmail:    &email,
			MemberPassword: &hash,
			MemberPhone:    helper.TrimPtr(req.Phone),
			MemberBirthday: birthday,
		}
		if req.Sex != nil {
			sex := memberModel.Sex(*req.Sex)
			m.MemberSex = &sex
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		jr := joinModel.ChurchMemberRequestModel{
			ChurchMemberRequestChurchID: req.ChurchID,
			ChurchMemberRequestMemberID: m.MemberID,
			ChurchMemberRequestStatus:   constants.RequestPending,
			ChurchMemberRequestMessage:  helper.TrimPtr(req.Message),
		}
		if err := tx.Create(&jr).Error; err != nil {
			return err
		}

		out = dto.RegisterResponse{
			MemberID:  m.MemberID,
			RequestID: jr.ChurchMemberRequestID,
			Status:    string(jr.ChurchMemberRequestStatus),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, memberID uuid.UUID, req dto.ChangePasswordRequest) error {
	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).Take(&m, "member_id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ErrUnauthenticated("")
		}
		return err
	}
	if !m.CanLogin() || !CheckPassword(*m.MemberPassword, req.CurrentPassword) {
		return helper.ErrValidation("현재 비밀번호가 올바르지 않습니다.")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).
		Model(&memberModel.MemberModel{}).
		Where("member_id = ?", memberID).
		Update("member_password", hash).Error
}

// Me refreshes display fields from the database; authorization stays with the token.
func (s *AuthService) Me(ctx context.Context, id *helperAuth.Identity) (*dto.MeResponse, error) {
	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).Take(&m, "member_id = ?", id.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrUnauthenticated("")
		}
		return nil, err
	}
	return &dto.MeResponse{
		Identity:    id,
		MemberEmail: m.MemberEmail,
		PhotoURL:    m.MemberPhotoURL,
	}, nil
}

// BootstrapSystemAdmin promotes the configured member once. Later requests only look at
// members.member_system_role.
func BootstrapSystemAdmin(db *gorm.DB, memberID string, log *zap.Logger) error {
	if memberID == "" {
		return nil
	}
	id, err := uuid.Parse(memberID)
	if err != nil {
		log.Warn("SYSTEM_ADMIN_MEMBER_ID is not a uuid", zap.String("value", memberID))
		return nil
	}
	res := db.Model(&memberModel.MemberModel{}).
		Where("member_id = ? AND member_system_role <> ?", id, constants.SystemRoleAdmin).
		Update("member_system_role", constants.SystemRoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Info("system admin promoted", zap.String("member_id", id.String()))
	}
	return nil
}

