package devauth

// Package devauth provides a config-driven AuthProvider and OAuthFlow
// for local development. Any password is accepted; the federated flow
// short-circuits to our own callback with locally generated state and
// nonce.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

// Config controls the dev auth provider behavior.
// All fields are required except Roles, which may be empty.
type Config struct {
	UserName string
	Email    string
	Roles    []string
	TokenTTL time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider and ports.OAuthFlow for local
// development. Tokens are random strings; the profile is fixed from
// config.
type Provider struct {
	profile  domainauth.Profile
	tokenTTL time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserName == "" {
		return nil, errors.New("dev auth: UserName is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	roles := cfg.Roles
	if len(roles) == 0 {
		roles = []string{string(domainauth.RoleUser)}
	}
	return &Provider{
		profile: domainauth.Profile{
			ID:        "dev-" + cfg.UserName,
			UserName:  cfg.UserName,
			Email:     cfg.Email,
			Authority: append([]string(nil), roles...),
		},
		tokenTTL: ttl,
	}, nil
}

// SignIn accepts any credentials and issues a random token.
func (p *Provider) SignIn(_ context.Context, creds ports.Credentials) (ports.SignInToken, error) {
	if creds.UserName == "" {
		return ports.SignInToken{}, &ports.ProviderError{StatusCode: 400, Message: "Username is required."}
	}
	return p.issueToken()
}

// CurrentUser returns the configured profile for any token.
func (p *Provider) CurrentUser(_ context.Context, token string) (domainauth.Profile, error) {
	if token == "" {
		return domainauth.Profile{}, &ports.ProviderError{StatusCode: 401, Message: "Missing token."}
	}
	return p.profile, nil
}

// SignOut is a no-op; dev tokens simply age out.
func (p *Provider) SignOut(_ context.Context, _ string) error { return nil }

// ChangePassword is a no-op in dev mode.
func (p *Provider) ChangePassword(_ context.Context, _ string, in ports.ChangePasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return &ports.ProviderError{StatusCode: 400, Message: "New password and confirmation do not match."}
	}
	return nil
}

// Begin returns a local callback URL and cryptographically secure
// state and nonce. The standard handler expects
// GET /auth/oauth/callback?code=...&state=...
func (p *Provider) Begin(_ context.Context) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := "/auth/oauth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the code and nonce and issues a fresh dev token.
func (p *Provider) Exchange(_ context.Context, _, _ string) (ports.SignInToken, error) {
	return p.issueToken()
}

func (p *Provider) issueToken() (ports.SignInToken, error) {
	tok, err := randomString(32)
	if err != nil {
		return ports.SignInToken{}, fmt.Errorf("generate token: %w", err)
	}
	return ports.SignInToken{
		AccessToken: "dev-" + tok,
		ExpiresAt:   time.Now().Add(p.tokenTTL),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		s += s
	}
	return s[:n], nil
}
