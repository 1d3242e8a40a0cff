package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]model.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) find(match func(model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.ID.String() == id })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (f *fakeUsers) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
	delay  time.Duration // applied to FindByToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: make(map[string]model.RefreshToken)}
}

func (f *fakeTokens) Create(_ context.Context, token *model.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token.Token] = *token
	return nil
}

func (f *fakeTokens) FindByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rt, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokens) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

func (f *fakeTokens) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

type sentMessage struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

type sentSMS struct {
	to, body string
}

type recordingSMS struct {
	mu   sync.Mutex
	sent []sentSMS
}

func (s *recordingSMS) Send(_ context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentSMS{to: phone, body: message})
	return nil
}

func (s *recordingSMS) last() sentSMS {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentSMS{}
	}
	return s.sent[len(s.sent)-1]
}

type testEnv struct {
	backend *Backend
	users   *fakeUsers
	tokens  *fakeTokens
	mail    *recordingMailer
	sms     *recordingSMS
	store   *localstore.MemoryStore
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:  newFakeUsers(),
		tokens: newFakeTokens(),
		mail:   &recordingMailer{},
		sms:    &recordingSMS{},
		store:  localstore.NewMemoryStore(),
		now:    time.Now(),
	}
	env.backend = NewBackend(Options{
		JWTSecret:      []byte("test-secret"),
		AccessTokenTTL: time.Minute,
		AppURL:         "http://app.test",
		CallbackURL:    "http://api.test/api/auth/callback",
	}, env.users, env.tokens, env.store.Namespace("auth:"), env.mail, env.sms, logger.Nop())
	env.backend.now = func() time.Time { return env.now }
	env.backend.hashCost = bcrypt.MinCost
	return env
}

func (e *testEnv) addUser(t *testing.T, email, password, phone string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &model.User{Email: email, Password: string(hashed), Provider: "email"}
	if phone != "" {
		u.Phone = &phone
	}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}
