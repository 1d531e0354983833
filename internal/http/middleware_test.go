package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
)

// fakeSessions resolves tokens from a fixed map.
type fakeSessions struct {
	sessions map[string]*domainauth.Session
}

func (f *fakeSessions) GetSession(_ context.Context, token string) (*domainauth.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errors.New("session not found")
}

func sessionWithRoles(token string, roles ...string) *domainauth.Session {
	return &domainauth.Session{
		Token:    token,
		SignedIn: true,
		User: &domainauth.Profile{
			ID:        "u-1",
			UserName:  "tester",
			Authority: roles,
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenFromRequest_BearerHeaderWinsOverCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "header-token", TokenFromRequest(req))
}

func TestTokenFromRequest_FallsBackToCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", TokenFromRequest(req))
}

func TestTokenFromRequest_EmptyWhenAbsent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, TokenFromRequest(req))
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{}}
	h := RequireAuth(sessions)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/employees", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireAuth_RejectsSignedOutSession(t *testing.T) {
	t.Parallel()

	sess := sessionWithRoles("tok", "user")
	sess.SignedIn = false
	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{"tok": sess}}
	h := RequireAuth(sessions)(okHandler())

	req := httptest.NewRequest("GET", "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_AttachesSessionToContext(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{
		"tok": sessionWithRoles("tok", "user"),
	}}

	var got *domainauth.Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAuth(sessions)(inner)

	req := httptest.NewRequest("GET", "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "tester", got.User.UserName)
}

func TestRequireRole_ForbidsMissingRole(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{
		"tok": sessionWithRoles("tok", "user"),
	}}
	h := RequireRole(sessions, domainauth.RoleAdmin)(okHandler())

	req := httptest.NewRequest("POST", "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

func TestRequireRole_AnonymousGets401Not403(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{}}
	h := RequireRole(sessions, domainauth.RoleAdmin)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/employees", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AnyOfMatches(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{
		"tok": sessionWithRoles("tok", "hr"),
	}}
	h := RequireRole(sessions, domainauth.RoleAdmin, domainauth.RoleHR)(okHandler())

	req := httptest.NewRequest("POST", "/api/violations", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sessions: map[string]*domainauth.Session{}}

	var profile any = "sentinel"
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile = CurrentProfile(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := OptionalAuth(sessions)(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/news", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, profile)
}

func TestCompression_GzipsWhenAccepted(t *testing.T) {
	t.Parallel()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})
	})
	h := Compression(CompressionConfig{})(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
}

func TestCompression_SkipsWhenNotAccepted(t *testing.T) {
	t.Parallel()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})
	})
	h := Compression(CompressionConfig{})(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip;q=0")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}
