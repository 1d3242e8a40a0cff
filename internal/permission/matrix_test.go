package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCoversEveryModule(t *testing.T) {
	for _, role := range Roles() {
		set := For(role)
		require.Len(t, set, len(Modules()), "role %s", role)
		for _, m := range Modules() {
			_, ok := set[m]
			assert.True(t, ok, "role %s is missing module %s", role, m)
		}
	}
}

func TestMasterHasEverything(t *testing.T) {
	set := For(RoleMaster)
	for _, m := range Modules() {
		for _, a := range []Action{ActionRead, ActionWrite, ActionApprove, ActionDelete} {
			assert.True(t, set.Allows(m, a), "master denied %s.%s", m, a)
		}
	}
}

func TestEmployeeRestrictions(t *testing.T) {
	set := For(RoleEmployee)
	assert.False(t, set.Allows(ModuleEmployees, ActionRead))
	assert.False(t, set.Allows(ModuleSettings, ActionRead))
	assert.True(t, set.Allows(ModuleLeave, ActionWrite))
	assert.False(t, set.Allows(ModuleLeave, ActionApprove))
}

func TestForReturnsCopy(t *testing.T) {
	set := For(RoleEmployee)
	set[ModuleEmployees] = Flags{Read: true}

	assert.False(t, For(RoleEmployee).Allows(ModuleEmployees, ActionRead))
}

func TestForUnknownRoleFallsBackToEmployee(t *testing.T) {
	assert.Equal(t, For(RoleEmployee), For(Role("intern")))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"master", RoleMaster, false},
		{"admin", RoleAdmin, false},
		{"hr", RoleHR, false},
		{"employee", RoleEmployee, false},
		{"manager", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowsUnknownActionAndModule(t *testing.T) {
	set := For(RoleMaster)
	assert.False(t, set.Allows(ModulePayroll, Action("export")))
	assert.False(t, set.Allows(Module("inventory"), ActionRead))

	var empty Set
	assert.False(t, empty.Allows(ModulePayroll, ActionRead))
}
