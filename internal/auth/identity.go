// Package auth resolves who is using an application instance and enforces
// what they may do. It combines live sessions from the provider, local demo
// sessions and the permission matrix.
package auth

import (
	"errors"
	"time"

	"hrsuite/internal/permission"
)

var (
	ErrDemoDisabled  = errors.New("demo access is disabled")
	ErrNotSignedIn   = errors.New("not signed in")
	ErrDemoReadOnly  = errors.New("demo profiles cannot be changed")
	ErrMissingLogin  = errors.New("email or employee id is required")
	ErrInvalidTheme  = errors.New("theme must be light, dark or system")
	ErrMissingPhone  = errors.New("phone number is required")
	ErrMissingFields = errors.New("email and password are required")
)

// Provenance tells where a Session came from
type Provenance string

const (
	ProvenanceLive Provenance = "live"
	ProvenanceDemo Provenance = "demo"
)

// Identity is the resolved user. Consumers treat it as read-only.
type Identity struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Role        permission.Role `json:"role"`
	Permissions permission.Set  `json:"permissions"`
	Department  string          `json:"department"`
	EmployeeID  string          `json:"employee_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Position    string          `json:"position,omitempty"`
}

// Session wraps an Identity with the tokens backing it
type Session struct {
	Identity     Identity   `json:"identity"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Provenance   Provenance `json:"provenance"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Identity.Permissions = permission.For(s.Identity.Role)
	return &c
}
