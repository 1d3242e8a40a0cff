package permission

import "fmt"

// Role is a named authorization level
type Role string

const (
	RoleMaster   Role = "master"
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// Module is an application area guarded by the matrix
type Module string

const (
	ModulePayroll    Module = "payroll"
	ModuleLeave      Module = "leave"
	ModuleAttendance Module = "attendance"
	ModuleReports    Module = "reports"
	ModuleDocuments  Module = "documents"
	ModuleEmployees  Module = "employees"
	ModuleSettings   Module = "settings"
	ModuleExpenses   Module = "expenses"
)

// Action is one of the four flags recorded per module
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionApprove Action = "approve"
	ActionDelete  Action = "delete"
)

// Flags holds the allowed actions for one module
type Flags struct {
	Read    bool `json:"read"`
	Write   bool `json:"write"`
	Approve bool `json:"approve"`
	Delete  bool `json:"delete"`
}

// Allows reports whether the action is granted. Unknown actions are denied.
func (f Flags) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return f.Read
	case ActionWrite:
		return f.Write
	case ActionApprove:
		return f.Approve
	case ActionDelete:
		return f.Delete
	default:
		return false
	}
}

// Set maps every module to its flags for one role
type Set map[Module]Flags

var (
	all       = Flags{Read: true, Write: true, Approve: true, Delete: true}
	none      = Flags{}
	readOnly  = Flags{Read: true}
	readWrite = Flags{Read: true, Write: true}
	manage    = Flags{Read: true, Write: true, Approve: true}
)

// matrix is the single source of role permissions. Every role lists every module.
var matrix = map[Role]Set{
	RoleMaster: {
		ModulePayroll:    all,
		ModuleLeave:      all,
		ModuleAttendance: all,
		ModuleReports:    all,
		ModuleDocuments:  all,
		ModuleEmployees:  all,
		ModuleSettings:   all,
		ModuleExpenses:   all,
	},
	RoleAdmin: {
		ModulePayroll:    all,
		ModuleLeave:      all,
		ModuleAttendance: all,
		ModuleReports:    all,
		ModuleDocuments:  all,
		ModuleEmployees:  all,
		ModuleSettings:   readWrite,
		ModuleExpenses:   all,
	},
	RoleHR: {
		ModulePayroll:    readOnly,
		ModuleLeave:      manage,
		ModuleAttendance: manage,
		ModuleReports:    readOnly,
		ModuleDocuments:  readWrite,
		ModuleEmployees:  readWrite,
		ModuleSettings:   readOnly,
		ModuleExpenses:   manage,
	},
	RoleEmployee: {
		ModulePayroll:    readOnly,
		ModuleLeave:      readWrite,
		ModuleAttendance: readWrite,
		ModuleReports:    none,
		ModuleDocuments:  readOnly,
		ModuleEmployees:  none,
		ModuleSettings:   none,
		ModuleExpenses:   readWrite,
	},
}

var (
	roles   = []Role{RoleMaster, RoleAdmin, RoleHR, RoleEmployee}
	modules = []Module{
		ModulePayroll, ModuleLeave, ModuleAttendance, ModuleReports,
		ModuleDocuments, ModuleEmployees, ModuleSettings, ModuleExpenses,
	}
)

// Roles returns the closed set of roles, most privileged first
func Roles() []Role {
	return append([]Role(nil), roles...)
}

// Modules returns every module guarded by the matrix
func Modules() []Module {
	return append([]Module(nil), modules...)
}

// ParseRole converts a stored role name into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := matrix[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r belongs to the closed role set
func (r Role) Valid() bool {
	_, ok := matrix[r]
	return ok
}

// For returns a copy of the permission set for role.
// A role outside the closed set gets the employee set.
func For(role Role) Set {
	src, ok := matrix[role]
	if !ok {
		src = matrix[RoleEmployee]
	}
	out := make(Set, len(src))
	for m, f := range src {
		out[m] = f
	}
	return out
}

// Allows looks up module/action in the set. Missing modules are denied.
func (s Set) Allows(module Module, action Action) bool {
	if s == nil {
		return false
	}
	f, ok := s[module]
	if !ok {
		return false
	}
	return f.Allows(action)
}
