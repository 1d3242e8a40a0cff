package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"hrsuite/internal/model"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"gorm.io/gorm"
)

// Provider names accepted by SignInWithOAuth
const (
	OAuthGoogle    = "google"
	OAuthMicrosoft = "microsoft"
	OAuthLinkedIn  = "linkedin_oidc"
)

var defaultScopes = []string{oidc.ScopeOpenID, "email", "profile"}

var knownOAuth = map[string]struct {
	endpoint    oauth2.Endpoint
	userInfoURL string
}{
	OAuthGoogle:    {endpoints.Google, "https://openidconnect.googleapis.com/v1/userinfo"},
	OAuthMicrosoft: {endpoints.AzureAD("common"), "https://graph.microsoft.com/oidc/userinfo"},
	OAuthLinkedIn:  {endpoints.LinkedIn, "https://api.linkedin.com/v2/userinfo"},
}

// OAuthCredentials are the client credentials for one identity provider.
// A non-empty IssuerURL switches the provider to OpenID Connect discovery
// with ID token verification.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
}

// OAuthEndpoint fully describes an identity provider
type OAuthEndpoint struct {
	ClientID     string
	ClientSecret string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
	Scopes       []string
}

type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	verifier    *oidc.IDTokenVerifier
}

type oauthClaims struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// ConfigureOAuth registers the named providers using their well-known endpoints
func (b *Backend) ConfigureOAuth(ctx context.Context, creds map[string]OAuthCredentials) error {
	for name, c := range creds {
		known, ok := knownOAuth[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownOAuthProvider, name)
		}

		if c.IssuerURL == "" {
			b.RegisterOAuthEndpoint(name, OAuthEndpoint{
				ClientID:     c.ClientID,
				ClientSecret: c.ClientSecret,
				Endpoint:     known.endpoint,
				UserInfoURL:  known.userInfoURL,
			})
			continue
		}

		discovered, err := oidc.NewProvider(ctx, c.IssuerURL)
		if err != nil {
			return fmt.Errorf("failed to discover OIDC provider %s: %w", name, err)
		}
		b.oauth[name] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     c.ClientID,
				ClientSecret: c.ClientSecret,
				Endpoint:     discovered.Endpoint(),
				RedirectURL:  b.redirectURL(name),
				Scopes:       defaultScopes,
			},
			userInfoURL: known.userInfoURL,
			verifier:    discovered.Verifier(&oidc.Config{ClientID: c.ClientID}),
		}
	}
	return nil
}

// RegisterOAuthEndpoint registers a provider with explicit endpoints
func (b *Backend) RegisterOAuthEndpoint(name string, ep OAuthEndpoint) {
	scopes := ep.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	b.oauth[name] = &oauthProvider{
		config: &oauth2.Config{
			ClientID:     ep.ClientID,
			ClientSecret: ep.ClientSecret,
			Endpoint:     ep.Endpoint,
			RedirectURL:  b.redirectURL(name),
			Scopes:       scopes,
		},
		userInfoURL: ep.UserInfoURL,
	}
}

// OAuthProviders lists the configured provider names
func (b *Backend) OAuthProviders() []string {
	names := make([]string, 0, len(b.oauth))
	for name := range b.oauth {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuthCodeURL returns the consent page URL for a provider
func (b *Backend) AuthCodeURL(name, state string) (string, error) {
	p, ok := b.oauth[name]
	if !ok {
		return "", ErrUnknownOAuthProvider
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeOAuthCode trades an authorization code for a session, creating the
// account on first sign-in.
func (b *Backend) ExchangeOAuthCode(ctx context.Context, name, code string) (*Session, error) {
	p, ok := b.oauth[name]
	if !ok {
		return nil, ErrUnknownOAuthProvider
	}
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	claims, err := p.claims(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("missing email in %s response", name)
	}

	user, err := b.findOrCreateOAuthUser(ctx, name, claims)
	if err != nil {
		return nil, err
	}
	return b.issueSession(ctx, user)
}

func (p *oauthProvider) claims(ctx context.Context, token *oauth2.Token) (*oauthClaims, error) {
	var claims oauthClaims

	if p.verifier != nil {
		rawIDToken, ok := token.Extra("id_token").(string)
		if !ok {
			return nil, fmt.Errorf("missing id_token in response")
		}
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return nil, fmt.Errorf("failed to verify ID token: %w", err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, fmt.Errorf("failed to parse claims: %w", err)
		}
		return &claims, nil
	}

	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &claims, nil
}

func (b *Backend) findOrCreateOAuthUser(ctx context.Context, name string, claims *oauthClaims) (*model.User, error) {
	email := normalizeEmail(claims.Email)
	user, err := b.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	first, last := claims.GivenName, claims.FamilyName
	if first == "" && last == "" && claims.Name != "" {
		parts := strings.SplitN(claims.Name, " ", 2)
		first = parts[0]
		if len(parts) > 1 {
			last = parts[1]
		}
	}
	meta, _ := json.Marshal(map[string]string{
		"first_name": first,
		"last_name":  last,
		"subject":    claims.Subject,
	})

	user = &model.User{
		Email:    email,
		Metadata: string(meta),
		Provider: name,
	}
	if err := b.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	b.log.Infof("oauth account created", map[string]interface{}{"provider": name, "email": email})
	return user, nil
}

func (b *Backend) redirectURL(name string) string {
	return strings.TrimRight(b.opts.CallbackURL, "/") + "/" + name
}
