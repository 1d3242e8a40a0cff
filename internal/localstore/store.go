// Package localstore holds the small key/value state an application instance
// keeps between restarts (demo markers, the persisted provider session,
// preferences), plus the TTL codes used by the auth provider backend.
package localstore

import (
	"context"
	"time"
)

// Keys shared by the provider client, the session resolver and the preferences API.
const (
	KeyMasterAccess = "master_access"
	KeyDemoUser     = "demo_user"
	KeyAuthSession  = "auth_session"
	KeyOAuthState   = "oauth_state"
	KeyTheme        = "theme"
	KeyLanguage     = "language"
	KeyRememberMe   = "remember_me"
)

// DemoKey returns the marker key for a non-master demo role, e.g. demo_hr
func DemoKey(role string) string {
	return "demo_" + role
}

// Store is a string key/value store. A zero ttl keeps the value until deleted.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
