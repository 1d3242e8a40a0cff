package auth

import (
	"strings"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/permission"
)

// Local-only shortcuts for evaluating the product. Only honoured when demo mode is on.
const masterPassword = "master123"

var masterEmails = map[string]bool{
	"master@hrsuite.com": true,
	"admin@hrsuite.com":  true,
}

type demoAccount struct {
	email      string
	password   string
	firstName  string
	lastName   string
	department string
	position   string
	employeeID string
}

var demoAccounts = map[permission.Role]demoAccount{
	permission.RoleMaster: {
		email: "master@company.com", password: "Master123!",
		firstName: "Master", lastName: "Admin",
		department: "Administration", position: "Master Administrator", employeeID: "MASTER001",
	},
	permission.RoleAdmin: {
		email: "admin@company.com", password: "Admin123!",
		firstName: "System", lastName: "Admin",
		department: "Administration", position: "System Administrator", employeeID: "ADMIN001",
	},
	permission.RoleHR: {
		email: "hr@company.com", password: "HR123!",
		firstName: "Sarah", lastName: "Johnson",
		department: "Human Resources", position: "HR Manager", employeeID: "HR001",
	},
	permission.RoleEmployee: {
		email: "employee@company.com", password: "Employee123!",
		firstName: "John", lastName: "Doe",
		department: "Engineering", position: "Software Developer", employeeID: "EMP001",
	},
}

// matchDemo maps a login (email or employee id) and password to a demo role
func matchDemo(login, password string) (permission.Role, bool) {
	login = strings.ToLower(strings.TrimSpace(login))
	if masterEmails[login] || password == masterPassword {
		return permission.RoleMaster, true
	}

	for _, role := range permission.Roles() {
		acc := demoAccounts[role]
		if login != acc.email && login != strings.ToLower(acc.employeeID) {
			continue
		}
		if password == acc.password {
			return role, true
		}
	}
	return "", false
}

// DemoIdentity builds the fixed identity for a demo role
func DemoIdentity(role permission.Role) Identity {
	if !role.Valid() {
		role = permission.RoleEmployee
	}
	acc := demoAccounts[role]
	return Identity{
		ID:          "demo-" + string(role),
		Email:       acc.email,
		Role:        role,
		Permissions: permission.For(role),
		Department:  acc.department,
		EmployeeID:  acc.employeeID,
		FirstName:   acc.firstName,
		LastName:    acc.lastName,
		Position:    acc.position,
	}
}

// DemoSession wraps DemoIdentity. Demo sessions never expire.
func DemoSession(role permission.Role) *Session {
	id := DemoIdentity(role)
	return &Session{
		Identity:     id,
		AccessToken:  string(id.Role) + "-access-token",
		RefreshToken: string(id.Role) + "-refresh-token",
		ExpiresAt:    time.Time{},
		Provenance:   ProvenanceDemo,
	}
}

// markerKey is the local key whose presence restores a demo session for role
func markerKey(role permission.Role) string {
	if role == permission.RoleMaster {
		return localstore.KeyMasterAccess
	}
	return localstore.DemoKey(string(role))
}

// demoKeys lists every marker plus the identity blob, in resolution priority order
func demoKeys() []string {
	keys := make([]string, 0, len(permission.Roles())+1)
	for _, role := range permission.Roles() {
		keys = append(keys, markerKey(role))
	}
	return append(keys, localstore.KeyDemoUser)
}
