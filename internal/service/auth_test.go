package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

// recorder tracks the order of provider/store calls across a flow.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) sequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeProvider struct {
	rec *recorder

	signInToken ports.SignInToken
	signInErr   error

	profile    domainauth.Profile
	profileErr error

	signOutErr error
	changeErr  error
}

func (p *fakeProvider) SignIn(_ context.Context, _ ports.Credentials) (ports.SignInToken, error) {
	p.rec.record("provider.SignIn")
	return p.signInToken, p.signInErr
}

func (p *fakeProvider) CurrentUser(_ context.Context, _ string) (domainauth.Profile, error) {
	p.rec.record("provider.CurrentUser")
	return p.profile, p.profileErr
}

func (p *fakeProvider) SignOut(_ context.Context, _ string) error {
	p.rec.record("provider.SignOut")
	return p.signOutErr
}

func (p *fakeProvider) ChangePassword(_ context.Context, _ string, _ ports.ChangePasswordInput) error {
	p.rec.record("provider.ChangePassword")
	return p.changeErr
}

type fakeStore struct {
	rec *recorder

	mu       sync.Mutex
	sessions map[string]domainauth.Session

	saveErr   error
	deleteErr error
}

func newFakeStore(rec *recorder) *fakeStore {
	return &fakeStore{rec: rec, sessions: make(map[string]domainauth.Session)}
}

func (s *fakeStore) Save(_ context.Context, sess domainauth.Session) error {
	s.rec.record("store.Save")
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *fakeStore) Get(_ context.Context, token string) (domainauth.Session, error) {
	s.rec.record("store.Get")
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return domainauth.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (s *fakeStore) Delete(_ context.Context, token string) error {
	s.rec.record("store.Delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func newTestService(p ports.AuthProvider, st ports.SessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: p,
		Sessions: st,
		Logger:   slog.New(slog.DiscardHandler),
	})
}

func TestSignIn_Success_OrderingAndRedirect(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{
		rec:         rec,
		signInToken: ports.SignInToken{AccessToken: "tok-1"},
		profile: domainauth.Profile{
			ID:        "u1",
			UserName:  "alice",
			Authority: []string{"Admin", "HR"},
		},
	}
	store := newFakeStore(rec)
	svc := newTestService(provider, store)

	res := svc.SignIn(context.Background(), SignInInput{
		Credentials: ports.Credentials{UserName: "alice", Password: "pw"},
	})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, DefaultLandingRoute, res.Redirect)
	require.NotNil(t, res.User)
	assert.Equal(t, []string{"admin", "hr"}, res.User.Authority, "roles normalized on fetch")

	// Token persisted, then profile fetched, then profile persisted.
	// The redirect is only resolved after all of these.
	assert.Equal(t, []string{
		"provider.SignIn",
		"store.Save",
		"provider.CurrentUser",
		"store.Save",
	}, rec.sequence())

	sess, err := store.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	require.NotNil(t, sess.User)
	assert.Equal(t, "alice", sess.User.UserName)
}

func TestSignIn_HonorsRedirectParam(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{rec: rec, signInToken: ports.SignInToken{AccessToken: "t"}}
	svc := newTestService(provider, newFakeStore(rec))

	q := url.Values{RedirectParamKey: {"/violations?page=2"}}
	res := svc.SignIn(context.Background(), SignInInput{Query: q})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "/violations?page=2", res.Redirect)
}

func TestSignIn_RejectsAbsoluteRedirect(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{rec: rec, signInToken: ports.SignInToken{AccessToken: "t"}}
	svc := newTestService(provider, newFakeStore(rec))

	q := url.Values{RedirectParamKey: {"https://evil.example/phish"}}
	res := svc.SignIn(context.Background(), SignInInput{Query: q})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, DefaultLandingRoute, res.Redirect)
}

func TestSignIn_ProviderFailure_UsesServerMessage(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{
		rec: rec,
		signInErr: &ports.ProviderError{
			StatusCode: 401,
			Message:    "Account is locked",
		},
	}
	store := newFakeStore(rec)
	svc := newTestService(provider, store)

	res := svc.SignIn(context.Background(), SignInInput{})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Account is locked", res.Message)
	assert.Empty(t, res.Token)
	assert.Empty(t, store.sessions)
}

func TestSignIn_ProfileFailure_RevokesLocalSession(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{
		rec:         rec,
		signInToken: ports.SignInToken{AccessToken: "tok-orphan"},
		profileErr:  errors.New("upstream timeout"),
	}
	store := newFakeStore(rec)
	svc := newTestService(provider, store)

	res := svc.SignIn(context.Background(), SignInInput{})

	require.Equal(t, StatusFailed, res.Status)
	_, err := store.Get(context.Background(), "tok-orphan")
	assert.Error(t, err, "half-signed-in session must not survive")
}

func TestSignOut_LocalClearSurvivesProviderRejection(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{rec: rec, signOutErr: errors.New("revocation endpoint down")}
	store := newFakeStore(rec)
	require.NoError(t, store.Save(context.Background(), domainauth.Session{Token: "tok-2", SignedIn: true}))

	svc := newTestService(provider, store)
	redirect := svc.SignOut(context.Background(), "tok-2")

	assert.Equal(t, RootRoute, redirect)

	seq := rec.sequence()
	assert.Contains(t, seq, "provider.SignOut")
	assert.Equal(t, "store.Delete", seq[len(seq)-1], "local clear runs last, unconditionally")

	store.mu.Lock()
	_, present := store.sessions["tok-2"]
	store.mu.Unlock()
	assert.False(t, present, "session cleared even though the provider rejected")
}

func TestSignOut_EmptyTokenIsNoop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	svc := newTestService(&fakeProvider{rec: rec}, newFakeStore(rec))

	assert.Equal(t, RootRoute, svc.SignOut(context.Background(), ""))
	assert.Empty(t, rec.sequence())
}

func TestChangePassword_RequiresAuthenticatedSession(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	svc := newTestService(&fakeProvider{rec: rec}, newFakeStore(rec))

	res := svc.ChangePassword(context.Background(), ChangePasswordInput{Token: "missing"})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "You must be signed in to change your password.", res.Message)
}

func TestChangePassword_MismatchedConfirmation(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{rec: rec}
	store := newFakeStore(rec)
	require.NoError(t, store.Save(context.Background(), domainauth.Session{Token: "tok-3", SignedIn: true}))

	svc := newTestService(provider, store)
	res := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Token: "tok-3",
		Values: ports.ChangePasswordInput{
			CurrentPassword: "old",
			NewPassword:     "new-a",
			ConfirmPassword: "new-b",
		},
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "New password and confirmation do not match.", res.Message)
	assert.NotContains(t, rec.sequence(), "provider.ChangePassword")
}

func TestChangePassword_FailureUsesOwnFallback(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	// An error with an empty message exercises the final fallback.
	provider := &fakeProvider{rec: rec, changeErr: &ports.ProviderError{}}
	store := newFakeStore(rec)
	require.NoError(t, store.Save(context.Background(), domainauth.Session{Token: "tok-4", SignedIn: true}))

	svc := newTestService(provider, store)
	res := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Token: "tok-4",
		Values: ports.ChangePasswordInput{
			CurrentPassword: "old",
			NewPassword:     "new",
			ConfirmPassword: "new",
		},
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "auth provider error", res.Message)
}

func TestChangePassword_SuccessKeepsSession(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{rec: rec}
	store := newFakeStore(rec)
	user := &domainauth.Profile{ID: "u9", UserName: "bob"}
	require.NoError(t, store.Save(context.Background(), domainauth.Session{Token: "tok-5", SignedIn: true, User: user}))

	svc := newTestService(provider, store)
	res := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Token: "tok-5",
		Values: ports.ChangePasswordInput{
			CurrentPassword: "old",
			NewPassword:     "new",
			ConfirmPassword: "new",
		},
	})

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "tok-5", res.Token)
	assert.Equal(t, DefaultLandingRoute, res.Redirect)

	sess, err := store.Get(context.Background(), "tok-5")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated(), "password change does not touch the session")
}

func TestGetSession_ExpiredSessionIsDeleted(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	store := newFakeStore(rec)
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		Token:     "tok-old",
		SignedIn:  true,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	svc := newTestService(&fakeProvider{rec: rec}, store)
	_, err := svc.GetSession(context.Background(), "tok-old")

	require.Error(t, err)
	_, err = store.Get(context.Background(), "tok-old")
	assert.Error(t, err, "expired session removed from the store")
}

func TestRehydrate_RefreshesProfileFromProvider(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{
		rec: rec,
		profile: domainauth.Profile{
			ID:        "u1",
			UserName:  "alice",
			Authority: []string{"USER"},
		},
	}
	store := newFakeStore(rec)
	// Stored session carries a stale profile; only the token is trusted.
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		Token:    "tok-6",
		SignedIn: false,
		User:     &domainauth.Profile{ID: "u1", UserName: "stale"},
	}))

	svc := newTestService(provider, store)
	sess, err := svc.Rehydrate(context.Background(), "tok-6")

	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	require.NotNil(t, sess.User)
	assert.Equal(t, "alice", sess.User.UserName)
	assert.Equal(t, []string{"user"}, sess.User.Authority)
}

func TestOAuthSignIn_SharesProfilePopulation(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	provider := &fakeProvider{
		rec:     rec,
		profile: domainauth.Profile{ID: "u2", UserName: "carol", Authority: []string{"HR"}},
	}
	store := newFakeStore(rec)
	svc := newTestService(provider, store)

	res := svc.OAuthSignIn(context.Background(), ports.SignInToken{AccessToken: "oidc-tok"}, nil)

	require.Equal(t, StatusSuccess, res.Status)
	require.NotNil(t, res.User)
	assert.Equal(t, []string{"hr"}, res.User.Authority)
	assert.NotContains(t, rec.sequence(), "provider.SignIn", "federated path skips the password flow")
}

func TestFailureMessage_Priority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "server says no",
		FailureMessage(&ports.ProviderError{Message: "server says no", Cause: errors.New("401")}, "fallback"))
	assert.Equal(t, "plain failure",
		FailureMessage(errors.New("plain failure"), "fallback"))
	assert.Equal(t, "fallback", FailureMessage(nil, "fallback"))
}
