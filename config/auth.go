package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeCredentials signs in against the portal's own account table.
	AuthModeCredentials AuthMode = "credentials"
	// AuthModeOAuth uses OAuth/OIDC federated sign-in.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "credentials", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: credentials, oauth, mock)", v)
	}
}

// TokenConfig controls the access tokens the credentials provider issues.
type TokenConfig struct {
	// SigningKey is the HS256 key for access tokens. Required when
	// Mode=credentials.
	SigningKey string `env:"AUTH_TOKEN_SIGNING_KEY"`

	Issuer string `env:"AUTH_TOKEN_ISSUER" envDefault:"portal-ui-api"`

	TTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"8h"`
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"portal"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"portal"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/oauth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserName string   `env:"USER_NAME" envDefault:"dev"`
	Email    string   `env:"EMAIL"     envDefault:"dev@example.com"`
	Roles    []string `env:"ROLES"     envDefault:"admin;user"      envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"credentials"`

	// Token configuration (used when Mode=credentials).
	Token TokenConfig

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroups are the directory group names that map to the admin
	// role on federated sign-in.
	AdminGroups []string `env:"AUTH_ADMIN_GROUPS" envDefault:"" envSeparator:";"`

	// HRGroups are the directory group names that map to the hr role.
	HRGroups []string `env:"AUTH_HR_GROUPS" envDefault:"" envSeparator:";"`

	// LandingRoute overrides the default post-sign-in redirect when set.
	LandingRoute string `env:"AUTH_LANDING_ROUTE" envDefault:""`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Token.TTL <= 0 {
		a.Token.TTL = 8 * time.Hour
	}
	a.AdminGroups = trimNonEmpty(a.AdminGroups)
	a.HRGroups = trimNonEmpty(a.HRGroups)
}

func trimNonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
