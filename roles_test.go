package auth_test

import (
	"testing"

	auth "github.com/gazbert/bxbot-ui-server-sub000"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		input string
		role  auth.Role
		ok    bool
	}{
		{"user", auth.RoleUser, true},
		{"admin", auth.RoleAdmin, true},
		{"ADMIN", auth.RoleAdmin, true},
		{" user ", auth.RoleUser, true},
		{"owner", "owner", false},
		{"", "", false},
	}

	for _, tc := range cases {
		role, ok := auth.ParseRole(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.Equal(t, tc.role, role)
		}
	}
}

func TestParseRoleList(t *testing.T) {
	t.Run("parses the storage format", func(t *testing.T) {
		roles := auth.ParseRoleList("user,admin")
		assert.Equal(t, []auth.Role{auth.RoleUser, auth.RoleAdmin}, roles)
	})

	t.Run("drops unknown labels", func(t *testing.T) {
		roles := auth.ParseRoleList("user,operator,admin")
		assert.Equal(t, []auth.Role{auth.RoleUser, auth.RoleAdmin}, roles)
	})

	t.Run("tolerates whitespace and case", func(t *testing.T) {
		roles := auth.ParseRoleList(" User , ADMIN ")
		assert.Equal(t, []auth.Role{auth.RoleUser, auth.RoleAdmin}, roles)
	})

	t.Run("empty column yields no roles", func(t *testing.T) {
		assert.Nil(t, auth.ParseRoleList(""))
		assert.Nil(t, auth.ParseRoleList("   "))
	})
}

func TestFormatRoleList(t *testing.T) {
	csv := auth.FormatRoleList([]auth.Role{auth.RoleUser, auth.RoleAdmin})
	assert.Equal(t, "user,admin", csv)

	assert.Equal(t, []auth.Role{auth.RoleUser, auth.RoleAdmin}, auth.ParseRoleList(csv))
}

func TestRoleSets(t *testing.T) {
	assert.Equal(t, []auth.Role{auth.RoleUser, auth.RoleAdmin}, auth.ReadRoles())
	assert.Equal(t, []auth.Role{auth.RoleAdmin}, auth.WriteRoles())
}
