package service

import (
	"context"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/constants"
	churchMemberModel "churchku_backend/internals/features/churches/church_members/model"
	churchMemberService "churchku_backend/internals/features/churches/church_members/service"
	"churchku_backend/internals/features/users/members/dto"
	"churchku_backend/internals/features/users/members/model"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

const (
	msgMemberNotFound = "교인을 찾을 수 없습니다."
	msgEmailTaken     = "이미 사용 중인 이메일입니다."

	// PhotoURLPrefix is where UploadDir is served from.
	PhotoURLPrefix = "/uploads/"
)

type MemberService struct {
	DB        *gorm.DB
	UploadDir string
	Log       *zap.Logger
}

func NewMemberService(db *gorm.DB, uploadDir string, log *zap.Logger) *MemberService {
	return &MemberService{DB: db, UploadDir: uploadDir, Log: log}
}

// directory is every live member of the church joined with their church membership.
func (s *MemberService) directory(ctx context.Context, churchID uuid.UUID) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("members m").
		Joins("JOIN church_members cm ON cm.church_member_member_id = m.member_id AND cm.church_member_deleted_at IS NULL").
		Where("cm.church_member_church_id = ? AND m.member_deleted_at IS NULL", churchID)
}

const directoryColumns = "m.*, cm.church_member_id, cm.church_member_role"

type ListFilter struct {
	Q    string
	Role *constants.ChurchRole
}

func (s *MemberService) List(ctx context.Context, churchID uuid.UUID, f ListFilter, p helper.Paging) ([]dto.MemberResponse, int64, error) {
	q := s.directory(ctx, churchID)
	if kw := strings.TrimSpace(f.Q); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("(m.member_name ILIKE ? OR m.member_email ILIKE ? OR m.member_phone ILIKE ?)", like, like, like)
	}
	if f.Role != nil {
		q = q.Where("cm.church_member_role = ?", *f.Role)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []dto.MemberRow
	if err := q.Select(directoryColumns).
		Order("m.member_name ASC, m.member_id ASC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return dto.FromRows(rows), total, nil
}

func (s *MemberService) Get(ctx context.Context, churchID, memberID uuid.UUID) (*dto.MemberResponse, error) {
	var rows []dto.MemberRow
	if err := s.directory(ctx, churchID).
		Where("m.member_id = ?", memberID).
		Select(directoryColumns).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound(msgMemberNotFound)
	}
	out := dto.FromRow(rows[0])
	return &out, nil
}

func emailTaken(tx *gorm.DB, email string, except uuid.UUID) (bool, error) {
	var n int64
	q := tx.Model(&model.MemberModel{}).Where("member_email = ?", email)
	if except != uuid.Nil {
		q = q.Where("member_id <> ?", except)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Create adds a member profile and its MEMBER membership in one transaction.
func (s *MemberService) Create(ctx context.Context, churchID uuid.UUID, req dto.MemberCreateRequest) (*dto.MemberResponse, error) {
	m, err := req.ToModel()
	if err != nil {
		return nil, err
	}

	var cm churchMemberModel.ChurchMemberModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.MemberEmail != nil {
			taken, err := emailTaken(tx, *m.MemberEmail, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return helper.ErrConflict(msgEmailTaken)
			}
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		cm = churchMemberModel.ChurchMemberModel{
			ChurchMemberChurchID: churchID,
			ChurchMemberMemberID: m.MemberID,
			ChurchMemberRole:     constants.RoleMember,
		}
		return tx.Create(&cm).Error
	})
	if err != nil {
		return nil, err
	}
	return &dto.MemberResponse{
		MemberModel:      *m,
		ChurchMemberID:   cm.ChurchMemberID,
		ChurchMemberRole: cm.ChurchMemberRole,
		CanLogin:         m.CanLogin(),
	}, nil
}

func (s *MemberService) ensureInChurch(tx *gorm.DB, churchID, memberID uuid.UUID) error {
	var n int64
	if err := tx.Model(&churchMemberModel.ChurchMemberModel{}).
		Where("church_member_church_id = ? AND church_member_member_id = ?", churchID, memberID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.ErrNotFound(msgMemberNotFound)
	}
	return nil
}

func (s *MemberService) Patch(ctx context.Context, churchID, memberID uuid.UUID, req dto.MemberUpdateRequest) (*dto.MemberResponse, error) {
	updates, err := req.ToUpdates()
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureInChurch(tx, churchID, memberID); err != nil {
			return err
		}
		if email, ok := updates["member_email"].(*string); ok && email != nil {
			taken, err := emailTaken(tx, *email, memberID)
			if err != nil {
				return err
			}
			if taken {
				return helper.ErrConflict(msgEmailTaken)
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.MemberModel{}).
			Where("member_id = ?", memberID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, churchID, memberID)
}

// Delete removes the member from this church only. The person row survives (other churches,
// history), but their group memberships inside this church go with the church membership.
func (s *MemberService) Delete(ctx context.Context, churchID, memberID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := churchMemberService.RemoveMembership(tx, churchID, memberID)
		if err != nil && helper.StatusOf(err) == http.StatusNotFound {
			return helper.ErrNotFound(msgMemberNotFound)
		}
		return err
	})
}

// Birthdays lists members whose birthday falls in the Monday-anchored week at offset from now.
func (s *MemberService) Birthdays(ctx context.Context, churchID uuid.UUID, now time.Time, offset int) (*dto.BirthdayWeek, error) {
	r := dbtime.WeekOf(now, offset)

	var rows []model.MemberModel
	if err := s.directory(ctx, churchID).
		Where("m.member_birthday IS NOT NULL").
		Select("m.member_id, m.member_name, m.member_birthday, m.member_photo_url").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]dto.BirthdayItem, 0)
	next := make(map[uuid.UUID]time.Time)
	for _, m := range rows {
		if m.MemberBirthday == nil || !dbtime.BirthdayInRange(*m.MemberBirthday, r) {
			continue
		}
		nb := dbtime.NextBirthday(*m.MemberBirthday, r)
		next[m.MemberID] = nb
		items = append(items, dto.BirthdayItem{
			MemberID:       m.MemberID,
			MemberName:     m.MemberName,
			MemberBirthday: dto.FormatDate(*m.MemberBirthday),
			NextBirthday:   dto.FormatDate(nb),
			PhotoURL:       m.MemberPhotoURL,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := next[items[i].MemberID], next[items[j].MemberID]
		if !a.Equal(b) {
			return a.Before(b)
		}
		return items[i].MemberName < items[j].MemberName
	})

	return &dto.BirthdayWeek{
		WeekStart: dto.FormatDate(r.Start),
		WeekEnd:   dto.FormatDate(r.End),
		Members:   items,
	}, nil
}

// SetPhoto stores a resized WebP and points member_photo_url at it. The previous file is
// removed after the row is updated.
func (s *MemberService) SetPhoto(ctx context.Context, churchID, memberID uuid.UUID, fh *multipart.FileHeader) (string, error) {
	var m model.MemberModel
	if err := s.ensureInChurch(s.DB.WithContext(ctx), churchID, memberID); err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Select("member_id", "member_photo_url").
		Take(&m, "member_id = ?", memberID).Error; err != nil {
		return "", err
	}

	rel, err := helper.SaveImageAsWebP(s.UploadDir, "members", fh)
	if err != nil {
		return "", err
	}
	url := PhotoURLPrefix + rel
	if err := s.DB.WithContext(ctx).Model(&model.MemberModel{}).
		Where("member_id = ?", memberID).
		Update("member_photo_url", url).Error; err != nil {
		_ = helper.RemoveUpload(s.UploadDir, rel)
		return "", err
	}

	if old := m.MemberPhotoURL; old != nil && strings.HasPrefix(*old, PhotoURLPrefix) {
		if err := helper.RemoveUpload(s.UploadDir, strings.TrimPrefix(*old, PhotoURLPrefix)); err != nil {
			s.Log.Warn("old photo not removed", zap.String("path", *old), zap.Error(err))
		}
	}
	return url, nil
}
