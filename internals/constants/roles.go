package constants

import (
	"fmt"
	"strings"
)

// Role error templates
const (
	ErrOnlyAdminsCanAccess      = "%s 기능은 관리자만 사용할 수 있습니다."
	ErrOnlySuperAdminsCanAccess = "%s 기능은 최고 관리자만 사용할 수 있습니다."
	ErrOnlySystemCanAccess      = "%s 기능은 시스템 관리자만 사용할 수 있습니다."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsCanAccess, feature)
}

func RoleErrorSystem(feature string) string {
	return fmt.Sprintf(ErrOnlySystemCanAccess, feature)
}

/* ==========================
   Church (tenant) roles
========================== */

type ChurchRole string

const (
	RoleMember     ChurchRole = "MEMBER"
	RoleAdmin      ChurchRole = "ADMIN"
	RoleSuperAdmin ChurchRole = "SUPER_ADMIN"
)

// lowest first
var churchRoleOrder = []ChurchRole{RoleMember, RoleAdmin, RoleSuperAdmin}

// Rank returns the position of r in the hierarchy, or -1 when r is unknown.
func (r ChurchRole) Rank() int {
	for i, v := range churchRoleOrder {
		if v == r {
			return i
		}
	}
	return -1
}

func (r ChurchRole) Valid() bool { return r.Rank() >= 0 }

// HasPermissionOver reports whether have sits at or above need.
func HasPermissionOver(have, need ChurchRole) bool {
	h, n := have.Rank(), need.Rank()
	if h < 0 || n < 0 {
		return false
	}
	return h >= n
}

func ParseChurchRole(s string) (ChurchRole, bool) {
	r := ChurchRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// AdminAndAbove lists roles eligible for the admin console.
var AdminAndAbove = []ChurchRole{RoleAdmin, RoleSuperAdmin}

/* ==========================
   System capability
========================== */

type SystemRole string

const (
	SystemRoleNone  SystemRole = "NONE"
	SystemRoleAdmin SystemRole = "SYSTEM_ADMIN"
)

func (s SystemRole) IsSystemAdmin() bool { return s == SystemRoleAdmin }

/* ==========================
   Groups
========================== */

type GroupRole string

const (
	GroupRoleLeader    GroupRole = "LEADER"
	GroupRoleSubLeader GroupRole = "SUB_LEADER"
	GroupRoleMember    GroupRole = "MEMBER"
)

func (r GroupRole) Valid() bool {
	switch r {
	case GroupRoleLeader, GroupRoleSubLeader, GroupRoleMember:
		return true
	}
	return false
}

type GroupMemberStatus string

const (
	GroupMemberActive    GroupMemberStatus = "ACTIVE"
	GroupMemberGraduated GroupMemberStatus = "GRADUATED"
)

type GroupType string

const (
	GroupTypeNormal   GroupType = "NORMAL"
	GroupTypeNewcomer GroupType = "NEWCOMER"
)

func (t GroupType) Valid() bool { return t == GroupTypeNormal || t == GroupTypeNewcomer }

/* ==========================
   Join requests
========================== */

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestDeclined RequestStatus = "DECLINED"
)

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestAccepted || s == RequestDeclined
}
