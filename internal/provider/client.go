package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"

	"github.com/google/uuid"
)

const oauthStateTTL = 10 * time.Minute

// Client is one application instance's handle on the Backend. The live
// session is persisted in the instance's local store, so a re-created
// client for the same store picks it back up.
type Client struct {
	backend *Backend
	local   localstore.Store
	log     *logger.Logger

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int

	// sessionMu serializes read-modify-write of the persisted session.
	// Refresh tokens are single use.
	sessionMu sync.Mutex
}

func NewClient(backend *Backend, local localstore.Store, log *logger.Logger) *Client {
	return &Client{
		backend:   backend,
		local:     local,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// OnAuthStateChange subscribes fn to auth events. Events are delivered on
// their own goroutine. The returned func unsubscribes.
func (c *Client) OnAuthStateChange(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(event Event, session *Session) {
	c.mu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		go fn(event, session)
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return session, c.commit(ctx, EventSignedIn, session)
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*User, error) {
	return c.backend.SignUp(ctx, email, password, metadata)
}

// SignInWithOAuth returns the provider consent URL. The session arrives later through ExchangeOAuthCode.
func (c *Client) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	state := uuid.NewString()
	authURL, err := c.backend.AuthCodeURL(provider, state)
	if err != nil {
		return "", err
	}
	if err := c.local.Set(ctx, localstore.KeyOAuthState, provider+":"+state, oauthStateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return authURL, nil
}

// ExchangeOAuthCode completes an OAuth redirect started by SignInWithOAuth on this instance
func (c *Client) ExchangeOAuthCode(ctx context.Context, provider, code, state string) (*Session, error) {
	stored, ok, err := c.local.Get(ctx, localstore.KeyOAuthState)
	if err != nil {
		return nil, fmt.Errorf("load oauth state: %w", err)
	}
	if !ok || state == "" || stored != provider+":"+state {
		return nil, ErrInvalidOAuthState
	}
	_ = c.local.Delete(ctx, localstore.KeyOAuthState)

	session, err := c.backend.ExchangeOAuthCode(ctx, provider, code)
	if err != nil {
		return nil, err
	}
	return session, c.commit(ctx, EventSignedIn, session)
}

func (c *Client) SignInWithOTP(ctx context.Context, phone string) error {
	return c.backend.SendOTP(ctx, phone)
}

func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	session, err := c.backend.VerifyOTP(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	return session, c.commit(ctx, EventSignedIn, session)
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	return c.backend.SendPasswordReset(ctx, email)
}

// UpdatePasswordWithToken finishes password recovery and signs the user in
func (c *Client) UpdatePasswordWithToken(ctx context.Context, token, newPassword string) (*Session, error) {
	session, err := c.backend.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return nil, err
	}
	return session, c.commit(ctx, EventPasswordRecovery, session)
}

// UpdateUser changes the signed-in account
func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes) (*User, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}

	user, err := c.backend.UpdateUser(ctx, session.User.ID, attrs)
	if err != nil {
		return nil, err
	}
	session.User = *user
	return user, c.commit(ctx, EventUserUpdated, session)
}

// SignOut revokes and forgets the live session. Without one it does nothing.
func (c *Client) SignOut(ctx context.Context) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := c.backend.Revoke(ctx, session.RefreshToken); err != nil {
		c.log.WithError(err).Warn("failed to revoke refresh token")
	}
	if err := c.local.Delete(ctx, localstore.KeyAuthSession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.emit(EventSignedOut, nil)
	return nil
}

// GetSession returns the persisted session, refreshing it when the access
// token has expired. A session that cannot be refreshed is dropped and nil returned.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	session, err := c.load(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	if c.valid(session) {
		return session, nil
	}

	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	// a concurrent caller may have refreshed while we waited
	session, err = c.load(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	if c.valid(session) {
		return session, nil
	}

	refreshed, err := c.backend.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			c.log.Debug("persisted session could not be refreshed")
			return c.dropIfCurrent(ctx, session.RefreshToken)
		}
		return nil, err
	}
	return refreshed, c.commitLocked(ctx, EventTokenRefreshed, refreshed)
}

func (c *Client) valid(session *Session) bool {
	if session.Expired(c.backend.now()) {
		return false
	}
	_, _, err := c.backend.ParseAccessToken(session.AccessToken)
	return err == nil
}

// dropIfCurrent deletes the persisted session only while it still holds
// the refresh token that failed. A session written since then is returned.
func (c *Client) dropIfCurrent(ctx context.Context, failedToken string) (*Session, error) {
	current, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if current.RefreshToken != failedToken {
		if c.valid(current) {
			return current, nil
		}
		return nil, nil
	}
	if err := c.local.Delete(ctx, localstore.KeyAuthSession); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	return nil, nil
}

func (c *Client) load(ctx context.Context) (*Session, error) {
	raw, ok, err := c.local.Get(ctx, localstore.KeyAuthSession)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		c.log.WithError(err).Warn("discarding unreadable persisted session")
		_ = c.local.Delete(ctx, localstore.KeyAuthSession)
		return nil, nil
	}
	return &session, nil
}

func (c *Client) commit(ctx context.Context, event Event, session *Session) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.commitLocked(ctx, event, session)
}

func (c *Client) commitLocked(ctx context.Context, event Event, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.local.Set(ctx, localstore.KeyAuthSession, string(raw), 0); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	c.emit(event, session)
	return nil
}
