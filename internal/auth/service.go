package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/provider"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthProvider is the provider client surface used by Service
type AuthProvider interface {
	SessionSource
	SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*provider.User, error)
	SignInWithOAuth(ctx context.Context, name string) (string, error)
	ExchangeOAuthCode(ctx context.Context, name, code, state string) (*provider.Session, error)
	SignInWithOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*provider.Session, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	UpdatePasswordWithToken(ctx context.Context, token, newPassword string) (*provider.Session, error)
	UpdateUser(ctx context.Context, attrs provider.UserAttributes) (*provider.User, error)
	SignOut(ctx context.Context) error
}

// Credentials identify the user by email or employee id
type Credentials struct {
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

type SignUpRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// ProfileUpdate lists the profile fields a user may change on their own. Role is not one of them.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
}

type Preferences struct {
	Theme      string `json:"theme"`
	Language   string `json:"language"`
	RememberMe bool   `json:"remember_me"`
}

// Service runs the auth operations of one application instance
type Service struct {
	deviceID string
	demoMode bool
	local    localstore.Store
	provider AuthProvider
	resolver *Resolver
	profiles repository.ProfileRepository
	audit    repository.AuditRepository
	notifier Notifier
	log      *logger.Logger
}

func NewService(deviceID string, demoMode bool, local localstore.Store, p AuthProvider, resolver *Resolver,
	profiles repository.ProfileRepository, audit repository.AuditRepository, notifier Notifier, log *logger.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		deviceID: deviceID,
		demoMode: demoMode,
		local:    local,
		provider: p,
		resolver: resolver,
		profiles: profiles,
		audit:    audit,
		notifier: notifier,
		log:      log.WithField("device", deviceID),
	}
}

// SignIn authenticates with an email or employee id and a password.
// In demo mode the demo table is consulted first and never reaches the provider.
func (s *Service) SignIn(ctx context.Context, creds Credentials) error {
	login := creds.Email
	if login == "" {
		login = creds.EmployeeID
	}
	if strings.TrimSpace(login) == "" {
		return s.fail("Sign in failed", ErrMissingFields)
	}

	// master emails accept any password, the empty one included
	if s.demoMode {
		if role, ok := matchDemo(login, creds.Password); ok {
			return s.demoSignIn(ctx, role)
		}
	}
	if creds.Password == "" {
		return s.fail("Sign in failed", ErrMissingFields)
	}

	email := strings.TrimSpace(creds.Email)
	if email == "" {
		profile, err := s.profiles.GetByEmployeeID(ctx, strings.TrimSpace(creds.EmployeeID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.fail("Sign in failed", provider.ErrInvalidCredentials)
			}
			return s.fail("Sign in failed", fmt.Errorf("lookup employee id: %w", err))
		}
		email = profile.Email
	}

	live, err := s.provider.SignInWithPassword(ctx, email, creds.Password)
	if err != nil {
		return s.fail("Sign in failed", err)
	}

	s.resolver.HandleEvent(ctx, provider.EventSignedIn, live)
	s.record(ctx, model.ActionSignIn, live.User.ID, live.User.Email, nil)
	s.notify("success", "Successfully signed in!")
	return nil
}

// MasterLogin opens a master demo session
func (s *Service) MasterLogin(ctx context.Context) error {
	if !s.demoMode {
		return s.fail("Master access failed", ErrDemoDisabled)
	}
	return s.demoSignIn(ctx, permission.RoleMaster)
}

func (s *Service) demoSignIn(ctx context.Context, role permission.Role) error {
	session := DemoSession(role)
	blob, err := json.Marshal(session.Identity)
	if err != nil {
		return s.fail("Sign in failed", fmt.Errorf("encode demo identity: %w", err))
	}

	if err := s.local.Delete(ctx, demoKeys()...); err != nil {
		return s.fail("Sign in failed", err)
	}
	if err := s.local.Set(ctx, markerKey(role), "true", 0); err != nil {
		return s.fail("Sign in failed", err)
	}
	if err := s.local.Set(ctx, localstore.KeyDemoUser, string(blob), 0); err != nil {
		_ = s.local.Delete(ctx, markerKey(role))
		return s.fail("Sign in failed", err)
	}

	s.resolver.Set(session)

	action := model.ActionDemoSignIn
	if role == permission.RoleMaster {
		action = model.ActionMasterLogin
	}
	s.record(ctx, action, session.Identity.ID, session.Identity.Email, map[string]interface{}{"role": role})
	s.log.Infof("demo session started", map[string]interface{}{"role": role})
	s.notify("success", "Welcome back, "+session.Identity.FirstName+"!")
	return nil
}

// SignUp registers an account and its employee profile. New profiles are always role employee.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) error {
	metadata := map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"department": req.Department,
		"position":   req.Position,
	}
	if req.Phone != "" {
		metadata["phone"] = req.Phone
	}

	user, err := s.provider.SignUp(ctx, req.Email, req.Password, metadata)
	if err != nil {
		return s.fail("Sign up failed", err)
	}

	id, err := uuid.Parse(user.ID)
	if err != nil {
		return s.fail("Sign up failed", fmt.Errorf("parse user id: %w", err))
	}

	department := req.Department
	if department == "" {
		department = fallbackDepartment
	}
	profile := &model.Profile{
		ID:         id,
		Email:      user.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Role:       string(permission.RoleEmployee),
		Department: department,
		Position:   req.Position,
		EmployeeID: synthesizeEmployeeID(user.ID),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return s.fail("Sign up failed", fmt.Errorf("create profile: %w", err))
	}

	s.record(ctx, model.ActionSignUp, user.ID, user.Email, nil)
	s.notify("success", "Account created successfully! Please check your email to verify your account.")
	return nil
}

// SignInWithOAuth returns the consent URL to redirect the user to.
// The session is picked up by CompleteOAuth on the callback.
func (s *Service) SignInWithOAuth(ctx context.Context, name string) (string, error) {
	url, err := s.provider.SignInWithOAuth(ctx, name)
	if err != nil {
		return "", s.fail("OAuth sign in failed", err)
	}
	return url, nil
}

func (s *Service) CompleteOAuth(ctx context.Context, name, code, state string) error {
	live, err := s.provider.ExchangeOAuthCode(ctx, name, code, state)
	if err != nil {
		return s.fail("OAuth sign in failed", err)
	}

	s.resolver.HandleEvent(ctx, provider.EventSignedIn, live)
	s.record(ctx, model.ActionSignIn, live.User.ID, live.User.Email, map[string]interface{}{"provider": name})
	s.notify("success", "Successfully signed in!")
	return nil
}

// SignInWithOTP sends a one-time code. It does not sign the user in.
func (s *Service) SignInWithOTP(ctx context.Context, phone string) error {
	if strings.TrimSpace(phone) == "" {
		return s.fail("Could not send code", ErrMissingPhone)
	}
	if err := s.provider.SignInWithOTP(ctx, strings.TrimSpace(phone)); err != nil {
		return s.fail("Could not send code", err)
	}
	s.notify("info", "Check your phone for the login code")
	return nil
}

func (s *Service) VerifyOTP(ctx context.Context, phone, code string) error {
	live, err := s.provider.VerifyOTP(ctx, strings.TrimSpace(phone), strings.TrimSpace(code))
	if err != nil {
		return s.fail("Code verification failed", err)
	}

	s.resolver.HandleEvent(ctx, provider.EventSignedIn, live)
	s.record(ctx, model.ActionSignIn, live.User.ID, live.User.Email, map[string]interface{}{"method": "otp"})
	s.notify("success", "Successfully signed in!")
	return nil
}

// ResetPassword asks for a recovery email. The outcome does not reveal whether the account exists.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.provider.ResetPasswordForEmail(ctx, email); err != nil {
		return s.fail("Password reset failed", err)
	}
	s.notify("info", "Password reset email sent!")
	return nil
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	live, err := s.provider.UpdatePasswordWithToken(ctx, token, newPassword)
	if err != nil {
		return s.fail("Password reset failed", err)
	}

	s.resolver.HandleEvent(ctx, provider.EventPasswordRecovery, live)
	s.notify("success", "Password updated")
	return nil
}

// SignOut clears demo markers, ends the live session and forgets the identity.
// Without a session it does nothing.
func (s *Service) SignOut(ctx context.Context) error {
	current := s.resolver.Session()

	if err := s.local.Delete(ctx, demoKeys()...); err != nil {
		return s.fail("Sign out failed", err)
	}

	err := s.provider.SignOut(ctx)
	s.resolver.Set(nil)
	if err != nil {
		return s.fail("Sign out failed", err)
	}

	if current != nil {
		s.record(ctx, model.ActionSignOut, current.Identity.ID, current.Identity.Email, nil)
		s.notify("info", "Signed out")
	}
	return nil
}

// UpdateProfile changes the caller's own profile and re-resolves the identity
func (s *Service) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Identity, error) {
	current := s.resolver.Session()
	if current == nil {
		return nil, ErrNotSignedIn
	}
	if current.Provenance == ProvenanceDemo {
		return nil, ErrDemoReadOnly
	}

	profile, err := s.profiles.GetByID(ctx, current.Identity.ID)
	if err != nil {
		return nil, s.fail("Profile update failed", err)
	}

	meta := map[string]string{}
	if upd.FirstName != nil {
		profile.FirstName = *upd.FirstName
		meta["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		profile.LastName = *upd.LastName
		meta["last_name"] = *upd.LastName
	}
	if upd.Phone != nil {
		profile.Phone = *upd.Phone
	}
	if upd.Position != nil {
		profile.Position = *upd.Position
		meta["position"] = *upd.Position
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, s.fail("Profile update failed", err)
	}
	if _, err := s.provider.UpdateUser(ctx, provider.UserAttributes{Phone: upd.Phone, Metadata: meta}); err != nil {
		s.log.WithError(err).Warn("failed to sync account metadata")
	}

	if err := s.resolver.Resolve(ctx); err != nil {
		return nil, s.fail("Profile update failed", err)
	}
	s.record(ctx, model.ActionUpdateProfile, current.Identity.ID, current.Identity.Email, nil)
	s.notify("success", "Profile updated")
	return s.resolver.Identity(), nil
}

func (s *Service) GetPreferences(ctx context.Context) (Preferences, error) {
	prefs := Preferences{Theme: "light", Language: "en"}

	if v, ok, err := s.local.Get(ctx, localstore.KeyTheme); err != nil {
		return prefs, err
	} else if ok {
		prefs.Theme = v
	}
	if v, ok, err := s.local.Get(ctx, localstore.KeyLanguage); err != nil {
		return prefs, err
	} else if ok {
		prefs.Language = v
	}
	if v, ok, err := s.local.Get(ctx, localstore.KeyRememberMe); err != nil {
		return prefs, err
	} else if ok {
		prefs.RememberMe, _ = strconv.ParseBool(v)
	}
	return prefs, nil
}

func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) error {
	switch prefs.Theme {
	case "light", "dark", "system":
	default:
		return ErrInvalidTheme
	}
	if prefs.Language == "" {
		prefs.Language = "en"
	}

	if err := s.local.Set(ctx, localstore.KeyTheme, prefs.Theme, 0); err != nil {
		return err
	}
	if err := s.local.Set(ctx, localstore.KeyLanguage, prefs.Language, 0); err != nil {
		return err
	}
	return s.local.Set(ctx, localstore.KeyRememberMe, strconv.FormatBool(prefs.RememberMe), 0)
}

// Identity returns the current identity, nil when signed out
func (s *Service) Identity() *Identity {
	return s.resolver.Identity()
}

// Session returns the current session, nil when signed out
func (s *Service) Session() *Session {
	return s.resolver.Session()
}

func (s *Service) Loading() bool {
	return s.resolver.Loading()
}

func (s *Service) DemoMode() bool {
	return s.demoMode
}

func (s *Service) fail(title string, err error) error {
	s.log.WithError(err).Warn(strings.ToLower(title))
	s.notify("error", title+": "+err.Error())
	return err
}

func (s *Service) notify(level, message string) {
	s.notifier.Notify(s.deviceID, Notification{Level: level, Message: message})
}

func (s *Service) record(ctx context.Context, action, actorID, actorEmail string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	entry := &model.AuditLog{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		EntityID:   actorID,
		EntityName: actorEmail,
		Details:    "{}",
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.log.WithError(err).Warn("failed to write audit log")
	}
}
