package auth

import (
	"context"
	"sync"

	"hrsuite/internal/model"
	"hrsuite/internal/provider"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeProvider records every call and serves a configurable session
type fakeProvider struct {
	mu        sync.Mutex
	calls     []string
	session   *provider.Session
	signInErr error
	users     map[string]string // email -> password
	block     chan struct{}     // when set, GetSession waits on it
	entered   chan struct{}
	listeners []provider.Listener
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: make(map[string]string)}
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func liveSession(userID, email string) *provider.Session {
	return &provider.Session{
		AccessToken:  "at-" + userID,
		RefreshToken: "rt-" + userID,
		TokenType:    "bearer",
		User:         provider.User{ID: userID, Email: email},
	}
}

func (f *fakeProvider) GetSession(context.Context) (*provider.Session, error) {
	f.record("GetSession")
	if f.block != nil {
		if f.entered != nil {
			close(f.entered)
		}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeProvider) OnAuthStateChange(fn provider.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (*provider.Session, error) {
	f.record("SignInWithPassword")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if pw, ok := f.users[email]; !ok || pw != password {
		return nil, provider.ErrInvalidCredentials
	}
	f.session = liveSession(uuid.NewSHA1(uuid.NameSpaceURL, []byte(email)).String(), email)
	return f.session, nil
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string, metadata map[string]string) (*provider.User, error) {
	f.record("SignUp")
	return &provider.User{ID: uuid.NewString(), Email: email, Metadata: metadata}, nil
}

func (f *fakeProvider) SignInWithOAuth(_ context.Context, name string) (string, error) {
	f.record("SignInWithOAuth")
	if name != provider.OAuthGoogle {
		return "", provider.ErrUnknownOAuthProvider
	}
	return "https://accounts.example.com/auth?state=s", nil
}

func (f *fakeProvider) ExchangeOAuthCode(context.Context, string, string, string) (*provider.Session, error) {
	f.record("ExchangeOAuthCode")
	return nil, provider.ErrInvalidOAuthState
}

func (f *fakeProvider) SignInWithOTP(context.Context, string) error {
	f.record("SignInWithOTP")
	return nil
}

func (f *fakeProvider) VerifyOTP(context.Context, string, string) (*provider.Session, error) {
	f.record("VerifyOTP")
	return nil, provider.ErrInvalidOTP
}

func (f *fakeProvider) ResetPasswordForEmail(context.Context, string) error {
	f.record("ResetPasswordForEmail")
	return nil
}

func (f *fakeProvider) UpdatePasswordWithToken(context.Context, string, string) (*provider.Session, error) {
	f.record("UpdatePasswordWithToken")
	return nil, provider.ErrInvalidResetToken
}

func (f *fakeProvider) UpdateUser(context.Context, provider.UserAttributes) (*provider.User, error) {
	f.record("UpdateUser")
	return &provider.User{}, nil
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.record("SignOut")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
	err      error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]model.Profile)}
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) GetByEmployeeID(_ context.Context, employeeID string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.EmployeeID == employeeID {
			found := p
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) Create(_ context.Context, profile *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.ID.String()] = *profile
	return nil
}

func (f *fakeProfiles) Update(ctx context.Context, profile *model.Profile) error {
	return f.Create(ctx, profile)
}

func (f *fakeProfiles) List(_ context.Context, role string, _, _ int) ([]model.Profile, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Profile
	for _, p := range f.profiles {
		if role == "" || p.Role == role {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAudit) Log(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) List(context.Context, repository.AuditFilter) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	sessions      []*Session
}

func (n *recordingNotifier) Notify(_ string, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, note)
}

func (n *recordingNotifier) SessionChanged(_ string, s *Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sessions = append(n.sessions, s)
}

func (n *recordingNotifier) last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notifications) == 0 {
		return Notification{}
	}
	return n.notifications[len(n.notifications)-1]
}
