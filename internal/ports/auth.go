package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
)

// Credentials carries a password sign-in attempt.
type Credentials struct {
	UserName string
	Password string
}

// ChangePasswordInput groups parameters for a password change.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// SignInToken is the result of a successful provider sign-in.
type SignInToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

// AuthProvider is the auth API the portal signs in against. The
// credentials adapter implements the password path; the OIDC adapter
// implements the federated path.
type AuthProvider interface {
	// SignIn verifies credentials and returns an access token.
	SignIn(ctx context.Context, creds Credentials) (SignInToken, error)

	// CurrentUser resolves a token to the full profile. Roles in the
	// returned profile are already normalized (lower-cased).
	CurrentUser(ctx context.Context, token string) (domainauth.Profile, error)

	// SignOut revokes the token upstream. Best-effort: callers must
	// clear local state whether or not this succeeds.
	SignOut(ctx context.Context, token string) error

	// ChangePassword changes the password for the token's account.
	ChangePassword(ctx context.Context, token string, in ChangePasswordInput) error
}

// OAuthFlow is the browser-redirect half of federated sign-in. Begin
// produces the authorization URL plus the state/nonce pair the
// callback must verify; Exchange turns the callback code into a
// provider token the auth service can sign in with.
type OAuthFlow interface {
	Begin(ctx context.Context) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, code, nonce string) (SignInToken, error)
}

// SessionStore persists and retrieves client sessions keyed by token.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, token string) (domainauth.Session, error)
	Delete(ctx context.Context, token string) error
}

// RoleMapper maps provider group/role names to normalized portal roles.
type RoleMapper interface {
	Map(groups []string) []string
}

// ProviderError is an auth failure carrying the upstream response
// message when the server supplied one. Message extraction priority
// (server message, then cause, then a generic fallback) lives in the
// auth service, not here.
type ProviderError struct {
	StatusCode int
	// Message is the server-provided message field, when present.
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "auth provider error"
}

func (e *ProviderError) Unwrap() error { return e.Cause }
