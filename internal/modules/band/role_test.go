package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleMatrix(t *testing.T) {
	// allowed[action] lists the roles that may perform it; everyone else is
	// denied, including RoleNone.
	allowed := map[Action]map[Role]bool{
		ActionEditBand:        {RoleAdmin: true, RoleModerator: true},
		ActionViewHistory:     {RoleAdmin: true, RoleModerator: true, RoleBandMember: true},
		ActionEditInventory:   {RoleAdmin: true, RoleModerator: true},
		ActionApproveRequests: {RoleAdmin: true},
		ActionManageMembers:   {RoleAdmin: true},
		ActionRecordSale:      {RoleAdmin: true, RoleModerator: true, RoleBandMember: true, RoleMember: true},
		ActionEditSale:        {RoleAdmin: true, RoleModerator: true, RoleBandMember: true},
	}
	roles := []Role{RoleAdmin, RoleModerator, RoleBandMember, RoleMember, RoleNone}

	for action, want := range allowed {
		for _, role := range roles {
			assert.Equal(t, want[role], role.Can(action), "role %q, action %q", role, action)
		}
	}
}

func TestRoleNoneDeniesEverything(t *testing.T) {
	for action := range permitted {
		assert.False(t, RoleNone.Can(action), "action %q", action)
	}
	assert.False(t, Role("SUPERUSER").Can(ActionRecordSale), "unknown roles deny")
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "admin", "Band_Member", "member"} {
		role, err := ParseRole(s)
		require.NoError(t, err, s)
		assert.NotEqual(t, RoleNone, role)
	}

	_, err := ParseRole("owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}
