package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/corpintra/portal-ui-api/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthServiceDisabledWithoutRedis(t *testing.T) {
	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "mock mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					UserName: "dev",
					Email:    "dev@example.com",
					Roles:    []string{"admin"},
				},
			},
		},
		{
			name: "oauth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeOAuth,
				OAuth: config.OAuthConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://portal.example.com/auth/oauth/callback",
					Scope:        "openid",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildAuthService(AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      discardLogger(),
			})
			if got.Service != nil || got.Flow != nil {
				t.Fatalf("BuildAuthService() = %+v, want zero", got)
			}
		})
	}
}

func TestBuildAuthServiceMockMode(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { client.Close() })

	got := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				UserName: "dev",
				Email:    "dev@example.com",
				Roles:    []string{"admin", "user"},
			},
		},
		RedisClient: client,
		Logger:      discardLogger(),
	})

	if got.Service == nil {
		t.Fatal("mock mode should build an auth service")
	}
	if got.Flow == nil {
		t.Fatal("mock mode should expose a browser flow")
	}
}

func TestBuildAuthServiceOAuthRequiresDiscovery(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { client.Close() })

	got := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				// DiscoveryURL intentionally empty
			},
		},
		RedisClient: client,
		Logger:      discardLogger(),
	})

	if got.Service != nil {
		t.Fatal("oauth mode without discovery URL should disable auth")
	}
}

func TestBuildAuthServiceCredentialsRequiresDatabase(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { client.Close() })

	got := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeCredentials,
		},
		RedisClient: client,
		Logger:      discardLogger(),
	})

	if got.Service != nil {
		t.Fatal("credentials mode without a database should disable auth")
	}
}
