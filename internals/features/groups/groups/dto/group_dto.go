package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	"churchku_backend/internals/features/groups/groups/model"
	helper "churchku_backend/internals/helpers"
)

/* ===================== Groups ===================== */

type GroupCreateRequest struct {
	Name        string  `json:"group_name"        validate:"required,max=100"`
	Type        string  `json:"group_type"        validate:"omitempty,oneof=NORMAL NEWCOMER"`
	Description *string `json:"group_description" validate:"omitempty,max=2000"`
	StartDate   *string `json:"group_start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"group_end_date"    validate:"omitempty,datetime=2006-01-02"`
}

func (r *GroupCreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *GroupCreateRequest) ToModel(churchID uuid.UUID) (*model.GroupModel, error) {
	r.Normalize()
	if r.Name == "" {
		return nil, helper.ErrValidationFields(map[string]string{"Name": "required"})
	}
	start, err := helper.ParseDatePtr(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := helper.ParseDatePtr(r.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkPeriod(start, end); err != nil {
		return nil, err
	}
	return &model.GroupModel{
		GroupChurchID:    churchID,
		GroupName:        r.Name,
		GroupType:        constants.GroupType(r.Type),
		GroupDescription: helper.TrimPtr(r.Description),
		GroupStartDate:   start,
		GroupEndDate:     end,
	}, nil
}

// GroupUpdateRequest is a PATCH. The type is fixed at creation.
type GroupUpdateRequest struct {
	Name        *string `json:"group_name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"group_description" validate:"omitempty,max=2000"`
	StartDate   *string `json:"group_start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"group_end_date"    validate:"omitempty,datetime=2006-01-02"`
}

// ToUpdates returns the column map; the trimmed new name is returned separately so the
// caller can run the duplicate check first.
func (r *GroupUpdateRequest) ToUpdates(current *model.GroupModel) (map[string]any, *string, error) {
	u := map[string]any{}
	var name *string
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return nil, nil, helper.ErrValidationFields(map[string]string{"Name": "required"})
		}
		if n != current.GroupName {
			name = &n
			u["group_name"] = n
		}
	}
	if r.Description != nil {
		u["group_description"] = helper.TrimPtr(r.Description)
	}

	start, end := current.GroupStartDate, current.GroupEndDate
	if r.StartDate != nil {
		d, err := helper.ParseDatePtr(r.StartDate)
		if err != nil {
			return nil, nil, err
		}
		start = d
		u["group_start_date"] = d
	}
	if r.EndDate != nil {
		d, err := helper.ParseDatePtr(r.EndDate)
		if err != nil {
			return nil, nil, err
		}
		end = d
		u["group_end_date"] = d
	}
	if err := checkPeriod(start, end); err != nil {
		return nil, nil, err
	}
	return u, name, nil
}

func checkPeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return helper.ErrValidation("종료일은 시작일보다 빠를 수 없습니다.")
	}
	return nil
}

// GroupRow is a group with its live head count.
type GroupRow struct {
	model.GroupModel
	ActiveMemberCount int64   `json:"active_member_count" gorm:"column:active_member_count"`
	LeaderNames       *string `json:"leader_names"        gorm:"column:leader_names"`
}

/* ===================== Members ===================== */

type AssignMembersRequest struct {
	MemberIDs []uuid.UUID `json:"member_ids" validate:"required,min=1,max=200"`
	Role      string      `json:"role"       validate:"omitempty,oneof=LEADER SUB_LEADER MEMBER"`
}

// GroupRole defaults to MEMBER.
func (r *AssignMembersRequest) GroupRole() constants.GroupRole {
	if r.Role == "" {
		return constants.GroupRoleMember
	}
	return constants.GroupRole(r.Role)
}

type AssignResult struct {
	AssignedCount int         `json:"assigned_count"`
	SkippedCount  int         `json:"skipped_count"`
	AssignedIDs   []uuid.UUID `json:"assigned_member_ids"`
}

type ChangeGroupRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=LEADER SUB_LEADER MEMBER"`
}

type GraduateRequest struct {
	TargetGroupID uuid.UUID `json:"target_group_id" validate:"required"`
}

type GraduateResult struct {
	Source         model.GroupMemberModel `json:"source"`
	Target         model.GroupMemberModel `json:"target"`
	GraduatedCount int                    `json:"graduated_count"`
}

// GroupMemberRow is a roster line.
type GroupMemberRow struct {
	GroupMemberID          uuid.UUID                   `json:"group_member_id"           gorm:"column:group_member_id"`
	GroupMemberMemberID    uuid.UUID                   `json:"member_id"                 gorm:"column:group_member_member_id"`
	GroupMemberRole        constants.GroupRole         `json:"group_member_role"         gorm:"column:group_member_role"`
	GroupMemberStatus      constants.GroupMemberStatus `json:"group_member_status"       gorm:"column:group_member_status"`
	GroupMemberGraduatedAt *time.Time                  `json:"group_member_graduated_at" gorm:"column:group_member_graduated_at"`
	GroupMemberCreatedAt   time.Time                   `json:"group_member_created_at"   gorm:"column:group_member_created_at"`
	MemberName             string                      `json:"member_name"               gorm:"column:member_name"`
	MemberPhone            *string                     `json:"member_phone"              gorm:"column:member_phone"`
	MemberPhotoURL         *string                     `json:"member_photo_url"          gorm:"column:member_photo_url"`
}
