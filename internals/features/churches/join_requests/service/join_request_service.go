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
	churchMemberModel "churchku_backend/internals/features/churches/church_members/model"
	"churchku_backend/internals/features/churches/join_requests/dto"
	"churchku_backend/internals/features/churches/join_requests/model"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

const (
	msgRequestNotFound = "가입 요청을 찾을 수 없습니다."
	msgAlreadyDecided  = "이미 처리된 가입 요청입니다."
)

type JoinRequestService struct {
	DB *gorm.DB
}

func NewJoinRequestService(db *gorm.DB) *JoinRequestService {
	return &JoinRequestService{DB: db}
}

func (s *JoinRequestService) List(ctx context.Context, churchID uuid.UUID, status *constants.RequestStatus, p helper.Paging) ([]dto.JoinRequestRow, int64, error) {
	q := s.DB.WithContext(ctx).
		Table("church_member_requests r").
		Joins("JOIN members m ON m.member_id = r.church_member_request_member_id AND m.member_deleted_at IS NULL").
		Where("r.church_member_request_church_id = ? AND r.church_member_request_deleted_at IS NULL", churchID)
	if status != nil {
		q = q.Where("r.church_member_request_status = ?", *status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]dto.JoinRequestRow, 0)
	err := q.Select("r.*, m.member_name, m.member_email, m.member_phone").
		Order("r.church_member_request_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error
	return rows, total, err
}

// lockPending loads the request FOR UPDATE so two admins cannot decide it twice.
func lockPending(tx *gorm.DB, churchID, requestID uuid.UUID) (*model.ChurchMemberRequestModel, error) {
	var jr model.ChurchMemberRequestModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("church_member_request_id = ? AND church_member_request_church_id = ?", requestID, churchID).
		Take(&jr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.ErrNotFound(msgRequestNotFound)
	}
	if err != nil {
		return nil, err
	}
	if jr.ChurchMemberRequestStatus != constants.RequestPending {
		return nil, helper.ErrConflict(msgAlreadyDecided)
	}
	return &jr, nil
}

func decide(tx *gorm.DB, jr *model.ChurchMemberRequestModel, actorID uuid.UUID, status constants.RequestStatus) error {
	now := tx.NowFunc()
	if err := tx.Model(jr).Updates(map[string]any{
		"church_member_request_status":      status,
		"church_member_request_approved_by": actorID,
		"church_member_request_decided_at":  now,
	}).Error; err != nil {
		return err
	}
	jr.ChurchMemberRequestStatus = status
	jr.ChurchMemberRequestApprovedBy = &actorID
	jr.ChurchMemberRequestDecidedAt = &now
	return nil
}

// Approve accepts a PENDING request and makes the requester a MEMBER of the church unless
// they already hold a live membership.
func (s *JoinRequestService) Approve(ctx context.Context, actor *helperAuth.Identity, requestID uuid.UUID) (*dto.DecisionResponse, error) {
	var out dto.DecisionResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		jr, err := lockPending(tx, actor.ChurchID, requestID)
		if err != nil {
			return err
		}
		if err := decide(tx, jr, actor.MemberID, constants.RequestAccepted); err != nil {
			return err
		}

		var cm churchMemberModel.ChurchMemberModel
		err = tx.Where("church_member_church_id = ? AND church_member_member_id = ?",
			jr.ChurchMemberRequestChurchID, jr.ChurchMemberRequestMemberID).
			Take(&cm).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cm = churchMemberModel.ChurchMemberModel{
				ChurchMemberChurchID: jr.ChurchMemberRequestChurchID,
				ChurchMemberMemberID: jr.ChurchMemberRequestMemberID,
				ChurchMemberRole:     constants.RoleMember,
			}
			if err := tx.Create(&cm).Error; err != nil {
				return err
			}
			out.MembershipCreated = true
		case err != nil:
			return err
		}

		out.ID = jr.ChurchMemberRequestID
		out.Status = jr.ChurchMemberRequestStatus
		out.ChurchMemberID = &cm.ChurchMemberID
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &actor.ChurchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionJoinApproved,
			EntityType: activityModel.EntityJoinRequest,
			EntityID:   jr.ChurchMemberRequestID,
			Detail:     map[string]any{"member_id": jr.ChurchMemberRequestMemberID, "membership_created": out.MembershipCreated},
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *JoinRequestService) Decline(ctx context.Context, actor *helperAuth.Identity, requestID uuid.UUID) (*dto.DecisionResponse, error) {
	var out dto.DecisionResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		jr, err := lockPending(tx, actor.ChurchID, requestID)
		if err != nil {
			return err
		}
		if err := decide(tx, jr, actor.MemberID, constants.RequestDeclined); err != nil {
			return err
		}
		out.ID = jr.ChurchMemberRequestID
		out.Status = jr.ChurchMemberRequestStatus
		return activityService.Append(tx, activityService.Entry{
			ChurchID:   &actor.ChurchID,
			ActorID:    actor.MemberID,
			Action:     activityModel.ActionJoinDeclined,
			EntityType: activityModel.EntityJoinRequest,
			EntityID:   jr.ChurchMemberRequestID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Approver answers "who decided this request" from the activity log.
func (s *JoinRequestService) Approver(ctx context.Context, churchID, requestID uuid.UUID) (*activityService.Actor, error) {
	return activityService.FindLatestActor(s.DB.WithContext(ctx), churchID,
		activityModel.EntityJoinRequest, requestID,
		activityModel.ActionJoinApproved, activityModel.ActionJoinDeclined)
}
