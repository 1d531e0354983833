package oidc

// Package oidc implements federated sign-in against the corporate
// identity provider (AD FS / Entra style claims).

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

// Provider implements ports.AuthProvider and ports.OAuthFlow over
// OIDC/OAuth2. The password path is not available here; callers route
// password sign-ins to the credentials adapter.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	httpClient *http.Client
	roles      ports.RoleMapper

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	Roles        ports.RoleMapper
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. Discovery runs once, at
// construction.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{
		logoutURL:  config.LogoutURL,
		httpClient: httpClient,
		roles:      config.Roles,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Begin starts the redirect flow with fresh state and nonce values.
func (p *Provider) Begin(_ context.Context) (string, string, string, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}

	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

// Exchange swaps the callback code for tokens, verifying the id_token
// nonce against the value issued by Begin.
func (p *Provider) Exchange(ctx context.Context, code, nonce string) (ports.SignInToken, error) {
	if code == "" {
		return ports.SignInToken{}, errors.New("authorization code is required")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return ports.SignInToken{}, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Identity provider rejected the sign-in",
			Cause:      err,
		}
	}

	if p.hasOpenIDScope() {
		rawID, err := getIDTokenFromToken(token)
		if err != nil {
			return ports.SignInToken{}, err
		}
		idTok, err := p.verifier.Verify(ctx, rawID)
		if err != nil {
			return ports.SignInToken{}, fmt.Errorf("verify id_token: %w", err)
		}
		var claims struct {
			Nonce string `json:"nonce"`
		}
		if claimsErr := idTok.Claims(&claims); claimsErr != nil {
			return ports.SignInToken{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
		}
		if nonce != "" && claims.Nonce != nonce {
			return ports.SignInToken{}, errors.New("invalid nonce")
		}
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return ports.SignInToken{AccessToken: token.AccessToken, ExpiresAt: expiresAt}, nil
}

// SignIn rejects the password path; the portal signs in federated
// users through Begin/Exchange.
func (p *Provider) SignIn(context.Context, ports.Credentials) (ports.SignInToken, error) {
	return ports.SignInToken{}, &ports.ProviderError{
		StatusCode: http.StatusBadRequest,
		Message:    "Password sign-in is not available for this account",
	}
}

// userInfo is the userinfo payload in the AD/ADFS claim shape.
type userInfo struct {
	Subject        string   `json:"sub"`
	SamAccountName string   `json:"samaccountname"`
	FirstName      string   `json:"firstname"`
	LastName       string   `json:"lastname"`
	Mail           string   `json:"mail"`
	Avatar         string   `json:"picture"`
	MemberOf       []string `json:"memberof"`
}

// CurrentUser resolves the access token to a portal profile via the
// userinfo endpoint. Directory groups are translated to portal roles
// by the configured mapper.
func (p *Provider) CurrentUser(ctx context.Context, token string) (domainauth.Profile, error) {
	if token == "" {
		return domainauth.Profile{}, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Missing access token",
		}
	}

	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	if err != nil {
		return domainauth.Profile{}, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Could not verify the signed-in user",
			Cause:      err,
		}
	}

	var info userInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return domainauth.Profile{}, fmt.Errorf("decode user info: %w", claimsErr)
	}

	roles := info.MemberOf
	if p.roles != nil {
		roles = p.roles.Map(info.MemberOf)
	}

	profile := domainauth.Profile{
		ID:        firstNonEmpty(info.SamAccountName, info.Subject),
		UserName:  firstNonEmpty(info.SamAccountName, info.Mail, info.Subject),
		Email:     info.Mail,
		Avatar:    info.Avatar,
		Authority: domainauth.NormalizeRoles(roles),
	}
	if name := strings.TrimSpace(info.FirstName + " " + info.LastName); name != "" {
		profile.Employee = &domainauth.EmployeeProfile{FullName: name}
	}
	return profile, nil
}

// SignOut hits the IdP logout endpoint when one is configured.
// Best-effort: the auth service clears the local session regardless.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if p.logoutURL == "" || token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.logoutURL, nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("logout returned %d", resp.StatusCode)
	}
	return nil
}

// ChangePassword is managed by the directory, not the portal.
func (p *Provider) ChangePassword(context.Context, string, ports.ChangePasswordInput) error {
	return &ports.ProviderError{
		StatusCode: http.StatusBadRequest,
		Message:    "Passwords for directory accounts are managed by IT",
	}
}

// firstNonEmpty returns the first non-empty string from vals.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe
// random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// hasOpenIDScope reports whether the configured scopes include "openid".
func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == "openid" {
			return true
		}
	}
	return false
}

// getIDTokenFromToken extracts the id_token from an oauth2 token response.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
