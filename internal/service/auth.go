package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

const (
	// RedirectParamKey is the reserved query key carrying the
	// post-auth destination path.
	RedirectParamKey = "redirectUrl"

	// DefaultLandingRoute is where authenticated users land when no
	// redirect target was requested.
	DefaultLandingRoute = "/home"

	// RootRoute is where signed-out users land.
	RootRoute = "/"

	signInFallbackMessage         = "Unable to sign in. Please try again."
	changePasswordFallbackMessage = "Unable to change password. Please try again."
)

var errSessionExpired = errors.New("session expired")

// Status tags an auth result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// AuthResult is the tagged success/failure value every auth operation
// returns. Forms consume it to drive inline error display; nothing in
// the auth flow throws past this boundary.
type AuthResult struct {
	Status   Status
	Message  string
	Token    string
	Redirect string
	User     *domainauth.Profile
}

// Failed reports whether the result is a failure.
func (r AuthResult) Failed() bool { return r.Status == StatusFailed }

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Logger   *slog.Logger
	// Landing overrides DefaultLandingRoute when non-empty.
	Landing string
}

// AuthService is the only writer of sessions: every transition across
// sign-in/sign-out goes through here, and it alone knows the redirect
// contract.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	logger   *slog.Logger
	landing  string
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	landing := opts.Landing
	if landing == "" {
		landing = DefaultLandingRoute
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		logger:   logger,
		landing:  landing,
	}
}

// SignInInput groups parameters for SignIn.
type SignInInput struct {
	Credentials ports.Credentials
	// Query is the current URL's query; the reserved redirect key is
	// honored when it names a safe relative path.
	Query url.Values
}

// SignIn runs the password flow: authenticate, persist the token,
// fetch the profile, and only then resolve the redirect. The token
// write strictly precedes the profile fetch, which strictly precedes
// the redirect, so route guards evaluated after navigation read the
// profile synchronously.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) AuthResult {
	tok, err := s.provider.SignIn(ctx, in.Credentials)
	if err != nil {
		return s.failure(ctx, "sign in", err, signInFallbackMessage)
	}

	sess := domainauth.Session{ExpiresAt: tok.ExpiresAt}
	sess.SetToken(tok.AccessToken)
	sess.SetSignedIn(true)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.failure(ctx, "persist session", err, signInFallbackMessage)
	}

	profile, err := s.populateProfile(ctx, &sess)
	if err != nil {
		// A half-signed-in session must not survive a failed profile
		// fetch; the token is revoked locally before returning.
		if delErr := s.sessions.Delete(ctx, tok.AccessToken); delErr != nil {
			s.logger.WarnContext(ctx, "cleanup after profile fetch failure", "error", delErr)
		}
		return s.failure(ctx, "fetch profile", err, signInFallbackMessage)
	}

	return AuthResult{
		Status:   StatusSuccess,
		Token:    tok.AccessToken,
		Redirect: s.ResolveRedirect(in.Query),
		User:     profile,
	}
}

// OAuthSignIn lets a federated flow that already holds a provider
// token reuse the same profile-population routine and redirect
// contract as SignIn, without the password path.
func (s *AuthService) OAuthSignIn(ctx context.Context, tok ports.SignInToken, query url.Values) AuthResult {
	if tok.AccessToken == "" {
		return AuthResult{Status: StatusFailed, Message: signInFallbackMessage}
	}

	sess := domainauth.Session{ExpiresAt: tok.ExpiresAt}
	sess.SetToken(tok.AccessToken)
	sess.SetSignedIn(true)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return s.failure(ctx, "persist session", err, signInFallbackMessage)
	}

	profile, err := s.populateProfile(ctx, &sess)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, tok.AccessToken); delErr != nil {
			s.logger.WarnContext(ctx, "cleanup after profile fetch failure", "error", delErr)
		}
		return s.failure(ctx, "fetch profile", err, signInFallbackMessage)
	}

	return AuthResult{
		Status:   StatusSuccess,
		Token:    tok.AccessToken,
		Redirect: s.ResolveRedirect(query),
		User:     profile,
	}
}

// populateProfile fetches the current user for the session's token,
// normalizes roles, stores the profile wholesale, and persists the
// session. Shared by the password and federated paths.
func (s *AuthService) populateProfile(ctx context.Context, sess *domainauth.Session) (*domainauth.Profile, error) {
	profile, err := s.provider.CurrentUser(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	// Normalized at the point the profile is fetched; server-side
	// casing never reaches authorization checks.
	profile.Authority = domainauth.NormalizeRoles(profile.Authority)

	sess.SetUser(&profile)
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &profile, nil
}

// SignOut notifies the provider best-effort and always clears the
// local session. The local clear runs via defer, so a rejected
// provider call still leaves the user locally signed out, redirected
// to the root route.
func (s *AuthService) SignOut(ctx context.Context, token string) string {
	if token == "" {
		return RootRoute
	}

	defer func() {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.ErrorContext(ctx, "clear local session", "error", err)
		}
	}()

	if err := s.provider.SignOut(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "provider sign-out failed", "error", err)
	}
	return RootRoute
}

// ChangePasswordInput groups parameters for ChangePassword.
type ChangePasswordInput struct {
	Token  string
	Values ports.ChangePasswordInput
	Query  url.Values
}

// ChangePassword requires an authenticated session and does not mutate
// it. Success redirects with the same contract as sign-in; failure
// carries its own default message, distinct from the sign-in one.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) AuthResult {
	sess, err := s.GetSession(ctx, in.Token)
	if err != nil || !sess.Authenticated() {
		return AuthResult{Status: StatusFailed, Message: "You must be signed in to change your password."}
	}

	if in.Values.NewPassword != in.Values.ConfirmPassword {
		return AuthResult{Status: StatusFailed, Message: "New password and confirmation do not match."}
	}

	if err := s.provider.ChangePassword(ctx, in.Token, in.Values); err != nil {
		return s.failure(ctx, "change password", err, changePasswordFallbackMessage)
	}

	return AuthResult{
		Status:   StatusSuccess,
		Token:    in.Token,
		Redirect: s.ResolveRedirect(in.Query),
		User:     sess.User,
	}
}

// GetSession retrieves the session for a token. Expired sessions are
// deleted and reported as errors.
func (s *AuthService) GetSession(ctx context.Context, token string) (*domainauth.Session, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		if delErr := s.sessions.Delete(ctx, token); delErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", delErr))
		}
		return nil, errSessionExpired
	}

	return &sess, nil
}

// Rehydrate refreshes a stored session from a fresh profile fetch.
// The persisted token is the only thing trusted from storage; the
// signed-in flag and profile are re-derived, the way the app restores
// a session on reload.
func (s *AuthService) Rehydrate(ctx context.Context, token string) (*domainauth.Session, error) {
	sess, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.populateProfile(ctx, sess); err != nil {
		return nil, err
	}
	sess.SetSignedIn(true)
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// ResolveRedirect returns the post-auth destination: the reserved
// query key when it names a safe relative path, else the configured
// landing route.
func (s *AuthService) ResolveRedirect(query url.Values) string {
	if query == nil {
		return s.landing
	}
	return safeRedirectPath(query.Get(RedirectParamKey), s.landing)
}

// failure logs and converts an error into a tagged failure result.
func (s *AuthService) failure(ctx context.Context, op string, err error, fallback string) AuthResult {
	s.logger.WarnContext(ctx, op+" failed", "error", err)
	return AuthResult{Status: StatusFailed, Message: FailureMessage(err, fallback)}
}

// FailureMessage extracts the user-facing message for an auth failure,
// in priority order: the server-provided message field, the error's
// own message, then the fallback.
func FailureMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var pe *ports.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// safeRedirectPath accepts only same-origin relative paths starting
// with "/"; anything else falls back.
func safeRedirectPath(candidate, fallback string) string {
	if candidate == "" {
		return fallback
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return candidate
}
