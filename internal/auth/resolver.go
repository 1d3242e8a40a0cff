package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/provider"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const fallbackDepartment = "General"

// SessionSource is the part of the provider client the resolver watches
type SessionSource interface {
	GetSession(ctx context.Context) (*provider.Session, error)
	OnAuthStateChange(fn provider.Listener) func()
}

// ProfileLookup finds the HR profile joined to an auth user id
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

// Resolver owns the current Session of one application instance.
//
// Every resolution attempt and every local write takes a new generation
// number. A result is only committed if its generation is still the latest
// one issued, so a slow resolution can never overwrite a newer state.
type Resolver struct {
	local    localstore.Store
	source   SessionSource
	profiles ProfileLookup
	log      *logger.Logger

	mu          sync.Mutex
	generation  uint64
	session     *Session
	loading     bool
	lastToken   string
	listeners   map[int]func(*Session)
	nextID      int
	unsubscribe func()
}

func NewResolver(local localstore.Store, source SessionSource, profiles ProfileLookup, log *logger.Logger) *Resolver {
	return &Resolver{
		local:     local,
		source:    source,
		profiles:  profiles,
		log:       log,
		loading:   true,
		listeners: make(map[int]func(*Session)),
	}
}

// Start subscribes to provider events and runs the initial resolution
func (r *Resolver) Start(ctx context.Context) error {
	unsubscribe := r.source.OnAuthStateChange(func(event provider.Event, s *provider.Session) {
		r.HandleEvent(context.Background(), event, s)
	})

	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()

	return r.Resolve(ctx)
}

// Stop detaches from the provider
func (r *Resolver) Stop() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Resolve recomputes the session from local markers and the provider
func (r *Resolver) Resolve(ctx context.Context) error {
	gen := r.nextGeneration()

	if role, ok := r.demoMarker(ctx); ok {
		r.commit(gen, DemoSession(role))
		return nil
	}

	live, err := r.source.GetSession(ctx)
	if err != nil {
		r.finishLoading(gen)
		return err
	}
	if live == nil {
		r.commit(gen, nil)
		return nil
	}

	r.commit(gen, r.fromLive(ctx, live))
	return nil
}

// HandleEvent applies a provider auth event. Sign-in and password recovery
// supersede any demo session. Other events re-read the persisted provider
// session, which stays authoritative when events arrive late.
func (r *Resolver) HandleEvent(ctx context.Context, event provider.Event, live *provider.Session) {
	if live != nil && r.applied(live.AccessToken) {
		return
	}
	gen := r.nextGeneration()

	if event == provider.EventSignedIn || event == provider.EventPasswordRecovery {
		if err := r.local.Delete(ctx, demoKeys()...); err != nil {
			r.log.WithError(err).Warn("failed to clear demo markers")
		}
		if live == nil {
			r.commit(gen, nil)
			return
		}
		if r.commit(gen, r.fromLive(ctx, live)) {
			r.mu.Lock()
			r.lastToken = live.AccessToken
			r.mu.Unlock()
		}
		return
	}

	if role, ok := r.demoMarker(ctx); ok {
		r.commit(gen, DemoSession(role))
		return
	}

	current, err := r.source.GetSession(ctx)
	if err != nil {
		r.log.WithError(err).Warn("failed to read session after auth event")
		r.finishLoading(gen)
		return
	}
	if current == nil {
		r.commit(gen, nil)
		return
	}
	r.commit(gen, r.fromLive(ctx, current))
}

func (r *Resolver) applied(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return token != "" && token == r.lastToken
}

// Refresh re-resolves when the current live session has expired at now.
// Demo sessions never expire.
func (r *Resolver) Refresh(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	s := r.session
	stale := s != nil && s.Provenance == ProvenanceLive && !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
	r.mu.Unlock()

	if !stale {
		return nil
	}
	return r.Resolve(ctx)
}

// Set replaces the session after a local write (demo sign-in, sign-out)
func (r *Resolver) Set(session *Session) {
	r.commit(r.nextGeneration(), session)
}

// Session returns a copy of the current session, or nil
func (r *Resolver) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.clone()
}

// Identity returns a copy of the current identity, or nil
func (r *Resolver) Identity() *Identity {
	s := r.Session()
	if s == nil {
		return nil
	}
	return &s.Identity
}

// Loading is true until the first resolution completes
func (r *Resolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// OnChange registers fn to be called with every committed session (nil when signed out)
func (r *Resolver) OnChange(fn func(*Session)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Resolver) nextGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	return r.generation
}

func (r *Resolver) commit(gen uint64, session *Session) bool {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.log.Debugf("discarding stale resolution", map[string]interface{}{"generation": gen})
		return false
	}

	before := r.session
	r.session = session
	r.loading = false
	fns := make([]func(*Session), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	r.logTransition(before, session)
	for _, fn := range fns {
		fn(session.clone())
	}
	return true
}

func (r *Resolver) finishLoading(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.generation {
		r.loading = false
	}
}

func (r *Resolver) logTransition(before, after *Session) {
	switch {
	case after == nil && before != nil:
		r.log.Info("session cleared")
	case after != nil && (before == nil || before.Identity.ID != after.Identity.ID || before.Identity.Role != after.Identity.Role):
		r.log.Infof("session resolved", map[string]interface{}{
			"user_id":    after.Identity.ID,
			"role":       after.Identity.Role,
			"provenance": after.Provenance,
		})
	}
}

// demoMarker returns the role of the highest priority demo marker present
func (r *Resolver) demoMarker(ctx context.Context) (permission.Role, bool) {
	for _, role := range permission.Roles() {
		val, ok, err := r.local.Get(ctx, markerKey(role))
		if err != nil {
			r.log.WithError(err).Warn("failed to read demo marker")
			continue
		}
		if ok && val == "true" {
			return role, true
		}
	}
	return "", false
}

func (r *Resolver) fromLive(ctx context.Context, live *provider.Session) *Session {
	return &Session{
		Identity:     r.identityFor(ctx, live.User),
		AccessToken:  live.AccessToken,
		RefreshToken: live.RefreshToken,
		ExpiresAt:    live.ExpiresAt,
		Provenance:   ProvenanceLive,
	}
}

// identityFor joins the auth user to its profile. A missing or unreadable
// profile yields a least-privilege employee identity.
func (r *Resolver) identityFor(ctx context.Context, user provider.User) Identity {
	identity := Identity{
		ID:         user.ID,
		Email:      user.Email,
		Role:       permission.RoleEmployee,
		Department: fallbackDepartment,
		FirstName:  user.Metadata["first_name"],
		LastName:   user.Metadata["last_name"],
	}

	profile, err := r.profiles.GetByID(ctx, user.ID)
	if err != nil || profile == nil {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.WithError(err).Warn("profile lookup failed, using default identity")
		}
		identity.EmployeeID = synthesizeEmployeeID(user.ID)
		identity.Permissions = permission.For(identity.Role)
		return identity
	}

	if role, err := permission.ParseRole(profile.Role); err == nil {
		identity.Role = role
	} else {
		r.log.Warnf("unknown profile role, treating as employee", map[string]interface{}{"role": profile.Role})
	}
	if profile.Department != "" {
		identity.Department = profile.Department
	}
	if profile.FirstName != "" {
		identity.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		identity.LastName = profile.LastName
	}
	identity.Position = profile.Position
	identity.EmployeeID = profile.EmployeeID
	if identity.EmployeeID == "" {
		identity.EmployeeID = synthesizeEmployeeID(user.ID)
	}
	identity.Permissions = permission.For(identity.Role)
	return identity
}

// synthesizeEmployeeID derives a stable employee id for an account that has
// none on file, so rows scoped to it stay visible across resolutions.
func synthesizeEmployeeID(userID string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:hrsuite:employee:"+userID))
	return "EMP-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
