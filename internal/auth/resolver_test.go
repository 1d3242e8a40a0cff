package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(store localstore.Store, p *fakeProvider, profiles *fakeProfiles) *Resolver {
	return NewResolver(store, p, profiles, logger.Nop())
}

func TestResolverLoadingUntilFirstResolution(t *testing.T) {
	r := newTestResolver(localstore.NewMemoryStore(), newFakeProvider(), newFakeProfiles())
	assert.True(t, r.Loading())

	require.NoError(t, r.Start(context.Background()))
	assert.False(t, r.Loading())
	assert.Nil(t, r.Identity())
}

func TestResolverDemoMarkerSkipsProvider(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.DemoKey("hr"), "true", 0))

	p := newFakeProvider()
	p.session = liveSession(uuid.NewString(), "someone@company.com")
	r := newTestResolver(store, p, newFakeProfiles())

	require.NoError(t, r.Resolve(ctx))
	id := r.Identity()
	require.NotNil(t, id)
	assert.Equal(t, permission.RoleHR, id.Role)
	assert.Equal(t, "Human Resources", id.Department)
	assert.Equal(t, ProvenanceDemo, r.Session().Provenance)
	assert.Zero(t, p.callCount())
}

func TestResolverMasterMarkerWinsOverOtherMarkers(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.DemoKey("employee"), "true", 0))
	require.NoError(t, store.Set(ctx, localstore.KeyMasterAccess, "true", 0))

	r := newTestResolver(store, newFakeProvider(), newFakeProfiles())
	require.NoError(t, r.Resolve(ctx))
	assert.Equal(t, permission.RoleMaster, r.Identity().Role)
}

func TestResolverLiveSessionUsesProfile(t *testing.T) {
	userID := uuid.New()
	profiles := newFakeProfiles()
	profiles.profiles[userID.String()] = model.Profile{
		ID: userID, Email: "ana@company.com", FirstName: "Ana", Role: "hr",
		Department: "People", EmployeeID: "HR042",
	}
	p := newFakeProvider()
	p.session = liveSession(userID.String(), "ana@company.com")

	r := newTestResolver(localstore.NewMemoryStore(), p, profiles)
	require.NoError(t, r.Resolve(context.Background()))

	id := r.Identity()
	require.NotNil(t, id)
	assert.Equal(t, permission.RoleHR, id.Role)
	assert.Equal(t, "People", id.Department)
	assert.Equal(t, "HR042", id.EmployeeID)
	assert.Equal(t, "Ana", id.FirstName)
	assert.Equal(t, permission.For(permission.RoleHR), id.Permissions)
	assert.Equal(t, ProvenanceLive, r.Session().Provenance)
}

func TestResolverProfileFailureFallsBackToEmployee(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "lookup error", err: errors.New("connection reset")},
		{name: "no profile row", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := newFakeProfiles()
			profiles.err = tt.err
			p := newFakeProvider()
			p.session = liveSession(uuid.NewString(), "new@company.com")

			r := newTestResolver(localstore.NewMemoryStore(), p, profiles)
			require.NoError(t, r.Resolve(context.Background()))

			id := r.Identity()
			require.NotNil(t, id)
			assert.Equal(t, permission.RoleEmployee, id.Role)
			assert.Equal(t, "General", id.Department)
			assert.NotEmpty(t, id.EmployeeID)
		})
	}
}

func TestResolverFallbackEmployeeIDIsStable(t *testing.T) {
	userID := uuid.NewString()
	p := newFakeProvider()
	p.session = liveSession(userID, "new@company.com")
	ctx := context.Background()

	r := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())
	require.NoError(t, r.Resolve(ctx))
	first := r.Identity().EmployeeID
	assert.Regexp(t, `^EMP-[0-9A-F]{8}$`, first)

	require.NoError(t, r.Resolve(ctx))
	assert.Equal(t, first, r.Identity().EmployeeID)

	rebuilt := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())
	require.NoError(t, rebuilt.Resolve(ctx))
	assert.Equal(t, first, rebuilt.Identity().EmployeeID)

	p.session = liveSession(uuid.NewString(), "other@company.com")
	require.NoError(t, r.Resolve(ctx))
	assert.NotEqual(t, first, r.Identity().EmployeeID)
}

func TestResolverUnknownProfileRoleIsEmployee(t *testing.T) {
	userID := uuid.New()
	profiles := newFakeProfiles()
	profiles.profiles[userID.String()] = model.Profile{ID: userID, Role: "superuser", EmployeeID: "X1"}
	p := newFakeProvider()
	p.session = liveSession(userID.String(), "x@company.com")

	r := newTestResolver(localstore.NewMemoryStore(), p, profiles)
	require.NoError(t, r.Resolve(context.Background()))
	assert.Equal(t, permission.RoleEmployee, r.Identity().Role)
	assert.False(t, CanAccess(r.Identity(), permission.ModuleEmployees, permission.ActionRead))
}

func TestResolverDiscardsStaleResolution(t *testing.T) {
	p := newFakeProvider()
	p.session = liveSession(uuid.NewString(), "late@company.com")
	p.block = make(chan struct{})
	p.entered = make(chan struct{})

	r := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())

	done := make(chan error, 1)
	go func() { done <- r.Resolve(context.Background()) }()

	<-p.entered
	// a newer local write lands while the provider call is in flight
	r.Set(DemoSession(permission.RoleAdmin))
	close(p.block)
	require.NoError(t, <-done)

	id := r.Identity()
	require.NotNil(t, id)
	assert.Equal(t, permission.RoleAdmin, id.Role)
	assert.Equal(t, "demo-admin", id.ID)
}

func TestResolverSignedInEventClearsDemoMarkers(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.KeyMasterAccess, "true", 0))
	require.NoError(t, store.Set(ctx, localstore.KeyDemoUser, "{}", 0))

	r := newTestResolver(store, newFakeProvider(), newFakeProfiles())
	require.NoError(t, r.Resolve(ctx))
	require.Equal(t, permission.RoleMaster, r.Identity().Role)

	r.HandleEvent(ctx, provider.EventSignedIn, liveSession(uuid.NewString(), "real@company.com"))

	id := r.Identity()
	require.NotNil(t, id)
	assert.Equal(t, "real@company.com", id.Email)
	assert.Equal(t, permission.RoleEmployee, id.Role)

	_, ok, _ := store.Get(ctx, localstore.KeyMasterAccess)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, localstore.KeyDemoUser)
	assert.False(t, ok)
}

func TestResolverOtherEventsKeepDemoSession(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.DemoKey("admin"), "true", 0))

	r := newTestResolver(store, newFakeProvider(), newFakeProfiles())
	r.HandleEvent(ctx, provider.EventTokenRefreshed, liveSession(uuid.NewString(), "x@company.com"))
	assert.Equal(t, permission.RoleAdmin, r.Identity().Role)
}

func TestResolverSignedOutEventRereadsProvider(t *testing.T) {
	p := newFakeProvider()
	p.session = liveSession(uuid.NewString(), "still@company.com")
	r := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())

	// a late sign-out event does not drop a session the provider still holds
	r.HandleEvent(context.Background(), provider.EventSignedOut, nil)
	require.NotNil(t, r.Identity())
	assert.Equal(t, "still@company.com", r.Identity().Email)

	p.session = nil
	r.HandleEvent(context.Background(), provider.EventSignedOut, nil)
	assert.Nil(t, r.Identity())
}

func TestResolverStartSubscribesToProviderEvents(t *testing.T) {
	p := newFakeProvider()
	r := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())
	require.NoError(t, r.Start(context.Background()))
	require.Len(t, p.listeners, 1)

	changes := make(chan *Session, 1)
	r.OnChange(func(s *Session) { changes <- s })

	p.listeners[0](provider.EventSignedIn, liveSession(uuid.NewString(), "push@company.com"))

	select {
	case s := <-changes:
		require.NotNil(t, s)
		assert.Equal(t, "push@company.com", s.Identity.Email)
	case <-time.After(time.Second):
		t.Fatal("no session change published")
	}
}

func TestResolverIdentityIsACopy(t *testing.T) {
	r := newTestResolver(localstore.NewMemoryStore(), newFakeProvider(), newFakeProfiles())
	r.Set(DemoSession(permission.RoleEmployee))

	id := r.Identity()
	id.Permissions[permission.ModuleEmployees] = permission.Flags{Read: true}
	id.Role = permission.RoleMaster

	again := r.Identity()
	assert.Equal(t, permission.RoleEmployee, again.Role)
	assert.False(t, CanAccess(again, permission.ModuleEmployees, permission.ActionRead))
}

func TestResolverRefreshOnlyWhenLiveSessionExpired(t *testing.T) {
	p := newFakeProvider()
	expires := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.session = liveSession(uuid.NewString(), "ana@company.com")
	p.session.ExpiresAt = expires

	r := newTestResolver(localstore.NewMemoryStore(), p, newFakeProfiles())
	require.NoError(t, r.Resolve(context.Background()))
	calls := p.callCount()

	require.NoError(t, r.Refresh(context.Background(), expires.Add(-time.Minute)))
	assert.Equal(t, calls, p.callCount())

	require.NoError(t, r.Refresh(context.Background(), expires))
	assert.Equal(t, calls+1, p.callCount())

	r.Set(DemoSession(permission.RoleHR))
	calls = p.callCount()
	require.NoError(t, r.Refresh(context.Background(), expires.Add(time.Hour)))
	assert.Equal(t, calls, p.callCount())
}
