package dto

import (
	"time"

	"github.com/google/uuid"

	"churchku_backend/internals/constants"
)

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=MEMBER ADMIN SUPER_ADMIN"`
}

type ChurchMemberRow struct {
	ChurchMemberID        uuid.UUID            `json:"church_member_id"         gorm:"column:church_member_id"`
	MemberID              uuid.UUID            `json:"member_id"                gorm:"column:church_member_member_id"`
	Role                  constants.ChurchRole `json:"church_member_role"       gorm:"column:church_member_role"`
	ChurchMemberCreatedAt time.Time            `json:"church_member_created_at" gorm:"column:church_member_created_at"`
	MemberName            string               `json:"member_name"              gorm:"column:member_name"`
	MemberEmail           *string              `json:"member_email,omitempty"   gorm:"column:member_email"`
}
