package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/model"
	"hrsuite/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpPeriod         = 300 // seconds a phone code stays valid
	otpSkew           = 1
	minPasswordLength = 6
)

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// Options configures token lifetimes and the links put in outgoing mail
type Options struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	ResetTTL        time.Duration
	AppURL          string // frontend base, used in recovery links
	CallbackURL     string // OAuth redirect target, the provider name is appended
}

func (o *Options) setDefaults() {
	if o.AccessTokenTTL <= 0 {
		o.AccessTokenTTL = time.Hour
	}
	if o.RefreshTokenTTL <= 0 {
		o.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if o.OTPTTL <= 0 {
		o.OTPTTL = otpPeriod * time.Second
	}
	if o.ResetTTL <= 0 {
		o.ResetTTL = time.Hour
	}
}

// Backend owns accounts, tokens and short-lived codes. It is safe for concurrent use.
type Backend struct {
	opts     Options
	users    repository.UserRepository
	tokens   repository.RefreshTokenRepository
	codes    localstore.Store
	mailer   Mailer
	sms      SMSSender
	oauth    map[string]*oauthProvider
	log      *logger.Logger
	now      func() time.Time
	hashCost int
}

func NewBackend(opts Options, users repository.UserRepository, tokens repository.RefreshTokenRepository,
	codes localstore.Store, mailer Mailer, sms SMSSender, log *logger.Logger) *Backend {
	opts.setDefaults()
	return &Backend{
		opts:     opts,
		users:    users,
		tokens:   tokens,
		codes:    codes,
		mailer:   mailer,
		sms:      sms,
		oauth:    make(map[string]*oauthProvider),
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignInWithPassword checks an email/password pair and opens a session
func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	user, err := b.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return b.issueSession(ctx, user)
}

// SignUp registers a password account and mails a confirmation notice
func (b *Backend) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*User, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := b.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Metadata: string(meta),
		Provider: "email",
	}
	if err := b.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	body := fmt.Sprintf("Welcome to HR Suite. Sign in at %s/auth to get started.", b.opts.AppURL)
	if err := b.mailer.Send(ctx, email, "Confirm your HR Suite account", body); err != nil {
		b.log.WithError(err).Warn("confirmation mail failed")
	}

	u := toUser(user)
	return &u, nil
}

// Refresh rotates a refresh token into a new session
func (b *Backend) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	rt, err := b.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if !b.now().Before(rt.ExpiresAt) {
		_ = b.tokens.Delete(ctx, refreshToken)
		return nil, ErrInvalidToken
	}

	user, err := b.users.GetByID(ctx, rt.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := b.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return b.issueSession(ctx, user)
}

// Revoke invalidates a refresh token
func (b *Backend) Revoke(ctx context.Context, refreshToken string) error {
	return b.tokens.Delete(ctx, refreshToken)
}

// ParseAccessToken validates an access token and returns its subject and email
func (b *Backend) ParseAccessToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return b.opts.JWTSecret, nil
	}, jwt.WithTimeFunc(b.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return "", "", ErrInvalidToken
	}
	return sub, email, nil
}

// GetUser loads an account by id
func (b *Backend) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := b.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u := toUser(user)
	return &u, nil
}

// UserAttributes are the account fields a signed-in user may change
type UserAttributes struct {
	Phone    *string
	Metadata map[string]string
}

// UpdateUser applies attrs to an account. Metadata keys are merged.
func (b *Backend) UpdateUser(ctx context.Context, id string, attrs UserAttributes) (*User, error) {
	user, err := b.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if attrs.Phone != nil {
		if *attrs.Phone == "" {
			user.Phone = nil
		} else {
			phone := *attrs.Phone
			user.Phone = &phone
		}
	}

	if len(attrs.Metadata) > 0 {
		meta := decodeMetadata(user.Metadata)
		for k, v := range attrs.Metadata {
			meta[k] = v
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		user.Metadata = string(raw)
	}

	if err := b.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	u := toUser(user)
	return &u, nil
}

// SendOTP texts a one-time code to a registered phone. Unknown numbers are ignored silently.
func (b *Backend) SendOTP(ctx context.Context, phone string) error {
	if _, err := b.users.GetByPhone(ctx, phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.log.Debugf("otp requested for unknown phone", map[string]interface{}{"phone": phone})
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "HR Suite",
		AccountName: phone,
		Period:      otpPeriod,
	})
	if err != nil {
		return fmt.Errorf("generate otp secret: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), b.now(), otpValidateOpts())
	if err != nil {
		return fmt.Errorf("generate otp code: %w", err)
	}

	if err := b.codes.Set(ctx, otpKey(phone), key.Secret(), b.opts.OTPTTL); err != nil {
		return fmt.Errorf("store otp secret: %w", err)
	}

	return b.sms.Send(ctx, phone, fmt.Sprintf("Your HR Suite sign-in code is %s", code))
}

// VerifyOTP consumes a phone code and opens a session
func (b *Backend) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	secret, ok, err := b.codes.Get(ctx, otpKey(phone))
	if err != nil {
		return nil, fmt.Errorf("load otp secret: %w", err)
	}
	if !ok {
		return nil, ErrInvalidOTP
	}

	valid, err := totp.ValidateCustom(code, secret, b.now(), otpValidateOpts())
	if err != nil || !valid {
		return nil, ErrInvalidOTP
	}
	_ = b.codes.Delete(ctx, otpKey(phone))

	user, err := b.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return b.issueSession(ctx, user)
}

// SendPasswordReset mails a recovery link. Unknown emails are ignored silently.
func (b *Backend) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := b.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.log.Debugf("reset requested for unknown email", map[string]interface{}{"email": email})
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token := uuid.NewString()
	if err := b.codes.Set(ctx, resetKey(token), user.ID.String(), b.opts.ResetTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := b.opts.AppURL + "/reset-password?token=" + url.QueryEscape(token)
	return b.mailer.Send(ctx, email, "Reset your HR Suite password", "Follow this link to choose a new password: "+link)
}

// ResetPassword consumes a recovery token, sets the new password, revokes
// every other session of the account and signs the user in.
func (b *Backend) ResetPassword(ctx context.Context, token, newPassword string) (*Session, error) {
	userID, ok, err := b.codes.Get(ctx, resetKey(token))
	if err != nil {
		return nil, fmt.Errorf("load reset token: %w", err)
	}
	if !ok {
		return nil, ErrInvalidResetToken
	}
	if len(newPassword) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), b.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := b.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = b.codes.Delete(ctx, resetKey(token))
	if err := b.tokens.DeleteByUser(ctx, user.ID); err != nil {
		b.log.WithError(err).Warn("failed to revoke sessions after password reset")
	}

	return b.issueSession(ctx, user)
}

func (b *Backend) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	now := b.now()
	expiresAt := time.Unix(now.Add(b.opts.AccessTokenTTL).Unix(), 0)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	})
	accessToken, err := token.SignedString(b.opts.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(b.opts.RefreshTokenTTL),
	}
	if err := b.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	user.LastSignIn = &now
	if err := b.users.Update(ctx, user); err != nil {
		b.log.WithError(err).Warn("failed to record last sign in")
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
		User:         toUser(user),
	}, nil
}

func toUser(user *model.User) User {
	u := User{
		ID:       user.ID.String(),
		Email:    user.Email,
		Provider: user.Provider,
		Metadata: decodeMetadata(user.Metadata),
	}
	if user.Phone != nil {
		u.Phone = *user.Phone
	}
	return u
}

func decodeMetadata(raw string) map[string]string {
	meta := make(map[string]string)
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &meta)
	}
	return meta
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func resetKey(token string) string {
	return "reset:" + token
}

func otpValidateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    otpPeriod,
		Skew:      otpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
