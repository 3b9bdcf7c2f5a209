package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermissionOver(t *testing.T) {
	cases := []struct {
		have, need ChurchRole
		want       bool
	}{
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleMember, RoleAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleMember, true},
		{RoleAdmin, RoleSuperAdmin, false},
		{ChurchRole("OWNER"), RoleMember, false},
		{RoleSuperAdmin, ChurchRole(""), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HasPermissionOver(tc.have, tc.need), "%s over %s", tc.have, tc.need)
	}
}

func TestParseChurchRole(t *testing.T) {
	r, ok := ParseChurchRole(" super_admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, r)

	_, ok = ParseChurchRole("pastor")
	assert.False(t, ok)
}

func TestGroupEnums(t *testing.T) {
	assert.True(t, GroupRoleSubLeader.Valid())
	assert.False(t, GroupRole("ELDER").Valid())
	assert.True(t, GroupTypeNewcomer.Valid())
	assert.False(t, GroupType("YOUTH").Valid())
	assert.True(t, RequestDeclined.Valid())
}
