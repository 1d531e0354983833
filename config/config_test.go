package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func parseWith(t *testing.T, environ map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseWith(t, map[string]string{})

	if cfg.Auth.Mode != AuthModeCredentials {
		t.Errorf("default auth mode = %q, want credentials", cfg.Auth.Mode)
	}
	if cfg.Postgres.Name != "portal" {
		t.Errorf("default db name = %q, want portal", cfg.Postgres.Name)
	}
	if cfg.Redis.URI != "localhost:6379" {
		t.Errorf("default redis uri = %q", cfg.Redis.URI)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("default http addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Cache.ListTTL != 30*time.Second {
		t.Errorf("default list ttl = %v", cfg.Cache.ListTTL)
	}
	if cfg.Auth.Token.TTL != 8*time.Hour {
		t.Errorf("default token ttl = %v", cfg.Auth.Token.TTL)
	}
	if cfg.IsDev {
		t.Error("dev mode should default to off")
	}
}

func TestAuthModeUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        AuthMode
		expectError bool
	}{
		{name: "credentials", input: "credentials", want: AuthModeCredentials},
		{name: "oauth", input: "oauth", want: AuthModeOAuth},
		{name: "mock", input: "mock", want: AuthModeMock},
		{name: "mixed case", input: "OAuth", want: AuthModeOAuth},
		{name: "invalid", input: "ldap", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.want {
				t.Errorf("mode = %q, want %q", mode, tt.want)
			}
		})
	}
}

func TestGroupListsParseAndTrim(t *testing.T) {
	cfg := parseWith(t, map[string]string{
		"AUTH_ADMIN_GROUPS": "CN=Portal-Admins; CN=IT-Ops ;",
		"AUTH_HR_GROUPS":    "CN=People-Team",
	})

	if len(cfg.Auth.AdminGroups) != 2 {
		t.Fatalf("admin groups = %v, want 2 entries", cfg.Auth.AdminGroups)
	}
	if cfg.Auth.AdminGroups[1] != "CN=IT-Ops" {
		t.Errorf("admin group not trimmed: %q", cfg.Auth.AdminGroups[1])
	}
	if len(cfg.Auth.HRGroups) != 1 || cfg.Auth.HRGroups[0] != "CN=People-Team" {
		t.Errorf("hr groups = %v", cfg.Auth.HRGroups)
	}
}

func TestSanitizeClampsCompressionLevel(t *testing.T) {
	cfg := parseWith(t, map[string]string{"HTTP_COMPRESSION_LEVEL": "42"})
	if cfg.HTTP.CompressionLevel != 9 {
		t.Errorf("compression level = %d, want clamped to 9", cfg.HTTP.CompressionLevel)
	}

	cfg = parseWith(t, map[string]string{"HTTP_COMPRESSION_LEVEL": "-3"})
	if cfg.HTTP.CompressionLevel != 1 {
		t.Errorf("compression level = %d, want clamped to 1", cfg.HTTP.CompressionLevel)
	}
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := parseWith(t, map[string]string{})
	if !cfg.IsDev {
		t.Error("NODE_ENV=development should enable dev mode")
	}
}

func TestDevFlagWins(t *testing.T) {
	cfg := parseWith(t, map[string]string{"DEV": "true"})
	if !cfg.IsDev {
		t.Error("DEV=true should enable dev mode")
	}
}

func TestTokenTTLGuardrail(t *testing.T) {
	cfg := parseWith(t, map[string]string{"AUTH_TOKEN_TTL": "0s"})
	if cfg.Auth.Token.TTL != 8*time.Hour {
		t.Errorf("token ttl = %v, want guardrail default 8h", cfg.Auth.Token.TTL)
	}
}
