package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/corpintra/portal-ui-api/config"
	"github.com/corpintra/portal-ui-api/internal/adapters/authroles"
	"github.com/corpintra/portal-ui-api/internal/adapters/credentials"
	"github.com/corpintra/portal-ui-api/internal/adapters/devauth"
	"github.com/corpintra/portal-ui-api/internal/adapters/oidc"
	redisadapter "github.com/corpintra/portal-ui-api/internal/adapters/redis"
	"github.com/corpintra/portal-ui-api/internal/data"
	"github.com/corpintra/portal-ui-api/internal/ports"
	"github.com/corpintra/portal-ui-api/internal/service"
)

// AuthConfig contains configuration for building the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthServices groups the auth service with the optional federated
// flow. Flow is nil when the configured provider has no browser
// redirect half (credentials mode).
type AuthServices struct {
	Service *service.AuthService
	Flow    ports.OAuthFlow
}

// BuildAuthService creates the auth service based on the configured
// auth mode. Returns a zero AuthServices if auth configuration is
// invalid; callers treat a nil Service as "auth disabled".
func BuildAuthService(cfg AuthConfig) AuthServices {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return AuthServices{}
	}

	// Redis session store shared by every mode.
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "portal:session:")

	switch cfg.Auth.Mode {
	case config.AuthModeCredentials:
		return buildCredentialsAuth(cfg, sessionStore)

	case config.AuthModeOAuth:
		return buildOAuthAuth(cfg, sessionStore)

	case config.AuthModeMock:
		return buildDevAuth(cfg, sessionStore)

	default:
		return AuthServices{}
	}
}

func buildCredentialsAuth(cfg AuthConfig, sessions *redisadapter.SessionStore) AuthServices {
	if cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("credentials auth disabled: database not configured")
		}
		return AuthServices{}
	}

	prov, err := credentials.New(credentials.Options{
		Accounts:   data.NewAccountRepo(cfg.DB),
		Employees:  data.NewEmployeeRepo(cfg.DB),
		Revoked:    redisadapter.NewCache(cfg.RedisClient, "portal:auth:"),
		Logger:     cfg.Logger,
		SigningKey: []byte(cfg.Auth.Token.SigningKey),
		Issuer:     cfg.Auth.Token.Issuer,
		TokenTTL:   cfg.Auth.Token.TTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create credentials provider, auth disabled", "error", err)
		}
		return AuthServices{}
	}

	return AuthServices{Service: newAuthService(cfg, prov, sessions)}
}

func buildOAuthAuth(cfg AuthConfig, sessions *redisadapter.SessionStore) AuthServices {
	// Only enable when fully configured.
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return AuthServices{}
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		Roles: authroles.StaticRoleMapper{
			AdminGroups: cfg.Auth.AdminGroups,
			HRGroups:    cfg.Auth.HRGroups,
		},
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return AuthServices{}
	}

	return AuthServices{Service: newAuthService(cfg, prov, sessions), Flow: prov}
}

func buildDevAuth(cfg AuthConfig, sessions *redisadapter.SessionStore) AuthServices {
	prov, err := devauth.NewProvider(devauth.Config{
		UserName: cfg.Auth.DevAuth.UserName,
		Email:    cfg.Auth.DevAuth.Email,
		Roles:    cfg.Auth.DevAuth.Roles,
		TokenTTL: cfg.Auth.Token.TTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return AuthServices{}
	}

	return AuthServices{Service: newAuthService(cfg, prov, sessions), Flow: prov}
}

func newAuthService(cfg AuthConfig, prov ports.AuthProvider, sessions ports.SessionStore) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessions,
		Logger:   cfg.Logger,
		Landing:  cfg.Auth.LandingRoute,
	})
}
