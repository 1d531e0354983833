package credentials

// Package credentials implements the password sign-in path against the
// portal's own account table. Tokens are HS256 JWTs; revocation is a
// cache-backed denylist keyed by JTI.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

// DefaultTokenTTL is how long issued access tokens live.
const DefaultTokenTTL = 8 * time.Hour

const revokedKeyPrefix = "revoked:"

// AccountStore is the slice of the account repository the provider needs.
type AccountStore interface {
	FindByUserName(ctx context.Context, userName string) (model.Account, error)
	FindByID(ctx context.Context, id string) (model.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchSignIn(ctx context.Context, id string) error
}

// EmployeeStore resolves the employee record linked to an account.
type EmployeeStore interface {
	FindByID(ctx context.Context, id string) (model.Employee, error)
}

// Claims are the JWT claims carried by portal access tokens.
type Claims struct {
	UserName string   `json:"preferred_username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Options groups dependencies for the credentials provider.
type Options struct {
	Accounts   AccountStore
	Employees  EmployeeStore
	Revoked    ports.Cache
	Logger     *slog.Logger
	SigningKey []byte
	Issuer     string
	TokenTTL   time.Duration
}

// Provider implements ports.AuthProvider over the account table.
type Provider struct {
	accounts   AccountStore
	employees  EmployeeStore
	revoked    ports.Cache
	logger     *slog.Logger
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// New constructs a credentials Provider.
func New(opts Options) (*Provider, error) {
	if len(opts.SigningKey) == 0 {
		return nil, errors.New("signing key is required")
	}
	if opts.Accounts == nil {
		return nil, errors.New("account store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Provider{
		accounts:   opts.Accounts,
		employees:  opts.Employees,
		revoked:    opts.Revoked,
		logger:     logger,
		signingKey: opts.SigningKey,
		issuer:     opts.Issuer,
		tokenTTL:   ttl,
	}, nil
}

// invalidCredentials is deliberately identical for unknown-user and
// wrong-password so the response does not leak which accounts exist.
func invalidCredentials() error {
	return &ports.ProviderError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid username or password",
	}
}

func (p *Provider) SignIn(ctx context.Context, creds ports.Credentials) (ports.SignInToken, error) {
	if creds.UserName == "" || creds.Password == "" {
		return ports.SignInToken{}, invalidCredentials()
	}

	account, err := p.accounts.FindByUserName(ctx, creds.UserName)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ports.SignInToken{}, invalidCredentials()
		}
		return ports.SignInToken{}, fmt.Errorf("find account: %w", err)
	}

	if account.Disabled {
		return ports.SignInToken{}, &ports.ProviderError{
			StatusCode: http.StatusForbidden,
			Message:    "Account is disabled",
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)) != nil {
		return ports.SignInToken{}, invalidCredentials()
	}

	token, expiresAt, err := p.mintToken(account)
	if err != nil {
		return ports.SignInToken{}, fmt.Errorf("mint token: %w", err)
	}

	if err := p.accounts.TouchSignIn(ctx, account.ID); err != nil {
		p.logger.WarnContext(ctx, "record last sign-in", "error", err, "account_id", account.ID)
	}

	return ports.SignInToken{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (p *Provider) CurrentUser(ctx context.Context, token string) (domainauth.Profile, error) {
	claims, err := p.parseToken(ctx, token)
	if err != nil {
		return domainauth.Profile{}, err
	}

	account, err := p.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Profile{}, &ports.ProviderError{
				StatusCode: http.StatusUnauthorized,
				Message:    "Account no longer exists",
			}
		}
		return domainauth.Profile{}, fmt.Errorf("find account: %w", err)
	}
	if account.Disabled {
		return domainauth.Profile{}, &ports.ProviderError{
			StatusCode: http.StatusForbidden,
			Message:    "Account is disabled",
		}
	}

	profile := domainauth.Profile{
		ID:       account.ID,
		UserName: account.UserName,
		Email:    account.Email,
		// Roles come from the account row, not the token: revoking a
		// role takes effect on the next profile fetch.
		Authority: domainauth.NormalizeRoles(account.Roles),
	}
	if account.Avatar != nil {
		profile.Avatar = *account.Avatar
	}

	if account.EmployeeID != nil && p.employees != nil {
		emp, err := p.employees.FindByID(ctx, *account.EmployeeID)
		switch {
		case err == nil:
			profile.Employee = employeeProfile(emp)
		case apperrors.IsNotFound(err):
			// Dangling link; the profile is still usable without it.
			p.logger.WarnContext(ctx, "linked employee missing", "employee_id", *account.EmployeeID)
		default:
			return domainauth.Profile{}, fmt.Errorf("find employee: %w", err)
		}
	}

	return profile, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parseToken(ctx, token)
	if err != nil {
		// Already unusable; nothing to revoke.
		return nil
	}
	if p.revoked == nil {
		return nil
	}

	ttl := p.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return p.revoked.Set(ctx, revokedKeyPrefix+claims.ID, []byte("1"), ttl)
}

func (p *Provider) ChangePassword(ctx context.Context, token string, in ports.ChangePasswordInput) error {
	claims, err := p.parseToken(ctx, token)
	if err != nil {
		return err
	}

	account, err := p.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return &ports.ProviderError{
			StatusCode: http.StatusBadRequest,
			Message:    "Current password is incorrect",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := p.accounts.UpdatePassword(ctx, account.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (p *Provider) mintToken(account model.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(p.tokenTTL)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserName: account.UserName,
		Roles:    domainauth.NormalizeRoles(account.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := tok.SignedString(p.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (p *Provider) parseToken(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Missing access token",
		}
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return p.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &ports.ProviderError{
				StatusCode: http.StatusUnauthorized,
				Message:    "Session has expired",
				Cause:      err,
			}
		}
		return nil, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid access token",
			Cause:      err,
		}
	}
	if !parsed.Valid {
		return nil, &ports.ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid access token",
		}
	}

	if p.revoked != nil && claims.ID != "" {
		val, err := p.revoked.Get(ctx, revokedKeyPrefix+claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if val != nil {
			return nil, &ports.ProviderError{
				StatusCode: http.StatusUnauthorized,
				Message:    "Session has been signed out",
			}
		}
	}

	return claims, nil
}

func employeeProfile(emp model.Employee) *domainauth.EmployeeProfile {
	ep := &domainauth.EmployeeProfile{
		ID:       emp.ID,
		FullName: emp.FullName,
	}
	if emp.DepartmentID != nil {
		ep.DepartmentID = *emp.DepartmentID
	}
	if emp.Position != nil {
		ep.Position = *emp.Position
	}
	return ep
}
