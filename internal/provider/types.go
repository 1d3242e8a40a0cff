// Package provider is the authentication backend the HR suite signs users in
// against: password accounts, OAuth/OIDC identity providers, phone one-time
// codes and password recovery. A Backend is shared by the process; every
// application instance talks to it through its own Client.
package provider

import (
	"errors"
	"time"
)

// Event names pushed to OnAuthStateChange listeners
type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
	EventUserUpdated      Event = "USER_UPDATED"
)

var (
	ErrInvalidCredentials   = errors.New("invalid login credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUnknownOAuthProvider = errors.New("oauth provider is not configured")
	ErrInvalidOAuthState    = errors.New("oauth state mismatch")
	ErrInvalidOTP           = errors.New("invalid or expired one-time code")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrNoSession            = errors.New("no active session")
)

// User is the provider's view of an account
type User struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Phone    string            `json:"phone,omitempty"`
	Provider string            `json:"provider"`
	Metadata map[string]string `json:"user_metadata,omitempty"`
}

// Session is a live authenticated session
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Listener receives auth state changes. session is nil for EventSignedOut.
type Listener func(event Event, session *Session)
