package credentials

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

type fakeAccounts struct {
	mu       sync.Mutex
	byName   map[string]model.Account
	byID     map[string]model.Account
	touched  []string
	updates  map[string]string
	touchErr error
}

func newFakeAccounts(accounts ...model.Account) *fakeAccounts {
	f := &fakeAccounts{
		byName:  make(map[string]model.Account),
		byID:    make(map[string]model.Account),
		updates: make(map[string]string),
	}
	for _, a := range accounts {
		f.byName[a.UserName] = a
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) FindByUserName(_ context.Context, userName string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byName[userName]
	if !ok {
		return model.Account{}, apperrors.NotFound("account")
	}
	return a, nil
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return model.Account{}, apperrors.NotFound("account")
	}
	return a, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID[id]
	a.PasswordHash = hash
	f.byID[id] = a
	f.byName[a.UserName] = a
	f.updates[id] = hash
	return nil
}

func (f *fakeAccounts) TouchSignIn(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return f.touchErr
}

type fakeEmployees struct {
	byID map[string]model.Employee
}

func (f *fakeEmployees) FindByID(_ context.Context, id string) (model.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return model.Employee{}, apperrors.NotFound("employee")
	}
	return e, nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	delete(c.m, key)
	return ok, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func testAccount(t *testing.T) model.Account {
	t.Helper()
	empID := "emp-1"
	return model.Account{
		ID:           "acc-1",
		UserName:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hashOf(t, "s3cret"),
		Roles:        []string{"Admin", "HR"},
		EmployeeID:   &empID,
	}
}

func newTestProvider(t *testing.T, accounts AccountStore, opts ...func(*Options)) *Provider {
	t.Helper()
	dept := "dep-1"
	pos := "Engineer"
	o := Options{
		Accounts: accounts,
		Employees: &fakeEmployees{byID: map[string]model.Employee{
			"emp-1": {ID: "emp-1", FullName: "Alice Nguyen", DepartmentID: &dept, Position: &pos},
		}},
		Revoked:    newMemCache(),
		Logger:     slog.New(slog.DiscardHandler),
		SigningKey: []byte("test-signing-key"),
		Issuer:     "portal-test",
	}
	for _, fn := range opts {
		fn(&o)
	}
	p, err := New(o)
	require.NoError(t, err)
	return p
}

func TestProvider_SignInAndCurrentUser(t *testing.T) {
	t.Parallel()

	accounts := newFakeAccounts(testAccount(t))
	p := newTestProvider(t, accounts)
	ctx := context.Background()

	tok, err := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.True(t, tok.ExpiresAt.After(time.Now()))
	assert.Equal(t, []string{"acc-1"}, accounts.touched)

	profile, err := p.CurrentUser(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", profile.ID)
	assert.Equal(t, "alice", profile.UserName)
	assert.Equal(t, []string{"admin", "hr"}, profile.Authority)
	require.NotNil(t, profile.Employee)
	assert.Equal(t, "Alice Nguyen", profile.Employee.FullName)
	assert.Equal(t, "dep-1", profile.Employee.DepartmentID)
}

func TestProvider_SignIn_WrongPassword(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))

	_, err := p.SignIn(context.Background(), ports.Credentials{UserName: "alice", Password: "wrong"})

	var pe *ports.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Invalid username or password", pe.Message)
}

func TestProvider_SignIn_UnknownUserSameMessage(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))
	ctx := context.Background()

	_, errUnknown := p.SignIn(ctx, ports.Credentials{UserName: "nobody", Password: "x"})
	_, errWrongPw := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "x"})

	var a, b *ports.ProviderError
	require.ErrorAs(t, errUnknown, &a)
	require.ErrorAs(t, errWrongPw, &b)
	assert.Equal(t, a.Message, b.Message, "must not reveal which accounts exist")
}

func TestProvider_SignIn_DisabledAccount(t *testing.T) {
	t.Parallel()

	acc := testAccount(t)
	acc.Disabled = true
	p := newTestProvider(t, newFakeAccounts(acc))

	_, err := p.SignIn(context.Background(), ports.Credentials{UserName: "alice", Password: "s3cret"})

	var pe *ports.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Account is disabled", pe.Message)
}

func TestProvider_SignOut_RevokesToken(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))
	ctx := context.Background()

	tok, err := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = p.CurrentUser(ctx, tok.AccessToken)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, tok.AccessToken))

	_, err = p.CurrentUser(ctx, tok.AccessToken)
	var pe *ports.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Session has been signed out", pe.Message)
}

func TestProvider_SignOut_GarbageTokenIsNoop(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))
	assert.NoError(t, p.SignOut(context.Background(), "not-a-jwt"))
}

func TestProvider_CurrentUser_InvalidToken(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))

	_, err := p.CurrentUser(context.Background(), "garbage")

	var pe *ports.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Invalid access token", pe.Message)
}

func TestProvider_CurrentUser_WrongSigningKey(t *testing.T) {
	t.Parallel()

	// A token signed with a different key must not validate.
	other := newTestProvider(t, newFakeAccounts(testAccount(t)), func(o *Options) {
		o.SigningKey = []byte("another-key")
	})
	ctx := context.Background()

	tok, err := other.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))
	_, err = p.CurrentUser(ctx, tok.AccessToken)
	assert.Error(t, err)
}

func TestProvider_ChangePassword(t *testing.T) {
	t.Parallel()

	accounts := newFakeAccounts(testAccount(t))
	p := newTestProvider(t, accounts)
	ctx := context.Background()

	tok, err := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)

	err = p.ChangePassword(ctx, tok.AccessToken, ports.ChangePasswordInput{
		CurrentPassword: "s3cret",
		NewPassword:     "n3w-pass",
		ConfirmPassword: "n3w-pass",
	})
	require.NoError(t, err)

	// The old password no longer signs in; the new one does.
	_, err = p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	assert.Error(t, err)
	_, err = p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "n3w-pass"})
	assert.NoError(t, err)
}

func TestProvider_ChangePassword_WrongCurrent(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, newFakeAccounts(testAccount(t)))
	ctx := context.Background()

	tok, err := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)

	err = p.ChangePassword(ctx, tok.AccessToken, ports.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "x",
		ConfirmPassword: "x",
	})

	var pe *ports.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Current password is incorrect", pe.Message)
}

func TestProvider_DanglingEmployeeLinkTolerated(t *testing.T) {
	t.Parallel()

	acc := testAccount(t)
	missing := "emp-gone"
	acc.EmployeeID = &missing
	p := newTestProvider(t, newFakeAccounts(acc))
	ctx := context.Background()

	tok, err := p.SignIn(ctx, ports.Credentials{UserName: "alice", Password: "s3cret"})
	require.NoError(t, err)

	profile, err := p.CurrentUser(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, profile.Employee)
}

func TestNew_RequiresSigningKey(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Accounts: newFakeAccounts()})
	assert.Error(t, err)

	_, err = New(Options{SigningKey: []byte("k")})
	assert.Error(t, err, "account store is also required")
}
