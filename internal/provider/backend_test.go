package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSignInWithPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, "jane@company.com", "Secret123!", "")
	ctx := context.Background()

	session, err := env.backend.SignInWithPassword(ctx, " Jane@Company.com ", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.User.ID)
	assert.Equal(t, "bearer", session.TokenType)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, 1, env.tokens.count())

	sub, email, err := env.backend.ParseAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), sub)
	assert.Equal(t, "jane@company.com", email)
}

func TestSignInWithPasswordRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane@company.com", "Secret123!", "")
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "jane@company.com", password: "nope"},
		{name: "unknown email", email: "ghost@company.com", password: "Secret123!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.backend.SignInWithPassword(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
	assert.Zero(t, env.tokens.count())
}

func TestSignUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.backend.SignUp(ctx, "New@Company.com", "Secret123!", map[string]string{"first_name": "Nia"})
	require.NoError(t, err)
	assert.Equal(t, "new@company.com", user.Email)
	assert.Equal(t, "Nia", user.Metadata["first_name"])
	assert.Equal(t, "new@company.com", env.mail.last().to)

	_, err = env.backend.SignUp(ctx, "new@company.com", "Another123!", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.backend.SignUp(ctx, "short@company.com", "abc", nil)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAccessTokenExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane@company.com", "Secret123!", "")

	session, err := env.backend.SignInWithPassword(context.Background(), "jane@company.com", "Secret123!")
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Minute)
	_, _, err = env.backend.ParseAccessToken(session.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane@company.com", "Secret123!", "")
	ctx := context.Background()

	session, err := env.backend.SignInWithPassword(ctx, "jane@company.com", "Secret123!")
	require.NoError(t, err)

	refreshed, err := env.backend.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, 1, env.tokens.count())

	_, err = env.backend.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOTPFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, "jane@company.com", "Secret123!", "+15550100")
	ctx := context.Background()

	require.NoError(t, env.backend.SendOTP(ctx, "+15550100"))
	msg := env.sms.last()
	require.Equal(t, "+15550100", msg.to)
	code := msg.body[len(msg.body)-6:]

	_, err := env.backend.VerifyOTP(ctx, "+15550100", "000000x")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	session, err := env.backend.VerifyOTP(ctx, "+15550100", code)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.User.ID)

	// codes are single use
	_, err = env.backend.VerifyOTP(ctx, "+15550100", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestSendOTPUnknownPhoneIsSilent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.backend.SendOTP(context.Background(), "+15559999"))
	assert.Empty(t, env.sms.sent)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane@company.com", "Secret123!", "")
	ctx := context.Background()

	old, err := env.backend.SignInWithPassword(ctx, "jane@company.com", "Secret123!")
	require.NoError(t, err)

	require.NoError(t, env.backend.SendPasswordReset(ctx, "jane@company.com"))
	body := env.mail.last().body
	idx := strings.Index(body, "token=")
	require.Greater(t, idx, 0)
	token, err := url.QueryUnescape(body[idx+len("token="):])
	require.NoError(t, err)

	_, err = env.backend.ResetPassword(ctx, "bogus", "Fresh123!")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	session, err := env.backend.ResetPassword(ctx, token, "Fresh123!")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)

	_, err = env.backend.Refresh(ctx, old.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = env.backend.SignInWithPassword(ctx, "jane@company.com", "Fresh123!")
	assert.NoError(t, err)

	_, err = env.backend.ResetPassword(ctx, token, "Again123!")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestSendPasswordResetUnknownEmailIsSilent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.backend.SendPasswordReset(context.Background(), "ghost@company.com"))
	assert.Empty(t, env.mail.sent)
}

func TestUpdateUserMergesMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.backend.SignUp(ctx, "jane@company.com", "Secret123!", map[string]string{"first_name": "Jane"})
	require.NoError(t, err)

	phone := "+15550123"
	updated, err := env.backend.UpdateUser(ctx, created.ID, UserAttributes{
		Phone:    &phone,
		Metadata: map[string]string{"last_name": "Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "+15550123", updated.Phone)
	assert.Equal(t, "Jane", updated.Metadata["first_name"])
	assert.Equal(t, "Doe", updated.Metadata["last_name"])
}

func newOAuthServer(t *testing.T, email string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "provider-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":   "g-123",
			"email": email,
			"name":  "Olu Ade",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func registerTestOAuth(env *testEnv, srv *httptest.Server) {
	env.backend.RegisterOAuthEndpoint(OAuthGoogle, OAuthEndpoint{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/userinfo",
	})
}

func TestOAuthExchangeCreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	registerTestOAuth(env, newOAuthServer(t, "Olu@Company.com"))
	ctx := context.Background()

	authURL, err := env.backend.AuthCodeURL(OAuthGoogle, "state-1")
	require.NoError(t, err)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "state-1", parsed.Query().Get("state"))
	assert.Equal(t, "http://api.test/api/auth/callback/google", parsed.Query().Get("redirect_uri"))

	session, err := env.backend.ExchangeOAuthCode(ctx, OAuthGoogle, "code-1")
	require.NoError(t, err)
	assert.Equal(t, "olu@company.com", session.User.Email)
	assert.Equal(t, OAuthGoogle, session.User.Provider)
	assert.Equal(t, "Olu", session.User.Metadata["first_name"])

	again, err := env.backend.ExchangeOAuthCode(ctx, OAuthGoogle, "code-2")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, again.User.ID)
}

func TestOAuthUnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.backend.AuthCodeURL("github", "s")
	assert.ErrorIs(t, err, ErrUnknownOAuthProvider)

	err = env.backend.ConfigureOAuth(context.Background(), map[string]OAuthCredentials{"github": {ClientID: "x"}})
	assert.ErrorIs(t, err, ErrUnknownOAuthProvider)
}

func TestConfigureOAuthKnownProviders(t *testing.T) {
	env := newTestEnv(t)

	err := env.backend.ConfigureOAuth(context.Background(), map[string]OAuthCredentials{
		OAuthGoogle:    {ClientID: "g"},
		OAuthMicrosoft: {ClientID: "m"},
		OAuthLinkedIn:  {ClientID: "l"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{OAuthGoogle, OAuthLinkedIn, OAuthMicrosoft}, env.backend.OAuthProviders())

	authURL, err := env.backend.AuthCodeURL(OAuthMicrosoft, "s")
	require.NoError(t, err)
	assert.Contains(t, authURL, "login.microsoftonline.com/common")
}
