package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
	"github.com/corpintra/portal-ui-api/internal/ports"
	"github.com/corpintra/portal-ui-api/internal/service"
)

// AuthServiceInterface defines the auth operations the handlers need.
// Implemented by service.AuthService.
type AuthServiceInterface interface {
	SignIn(ctx context.Context, in service.SignInInput) service.AuthResult
	OAuthSignIn(ctx context.Context, tok ports.SignInToken, query url.Values) service.AuthResult
	SignOut(ctx context.Context, token string) string
	ChangePassword(ctx context.Context, in service.ChangePasswordInput) service.AuthResult
	GetSession(ctx context.Context, token string) (*domainauth.Session, error)
	Rehydrate(ctx context.Context, token string) (*domainauth.Session, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
// Flow is optional: without it the OAuth routes respond 404-equivalent
// errors and only the password path is live.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Flow         ports.OAuthFlow
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// signInRequest is the password sign-in body.
type signInRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// SignIn handles the password sign-in endpoint.
// POST /api/auth/sign-in?redirectUrl=<optional_path>.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.SignIn(r.Context(), service.SignInInput{
		Credentials: ports.Credentials{UserName: req.UserName, Password: req.Password},
		Query:       r.URL.Query(),
	})
	h.writeAuthResult(w, r, result)
}

// SignOut handles the sign-out endpoint.
// POST /api/auth/sign-out.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	redirect := h.Svc.SignOut(r.Context(), token)
	h.clearCookie(w, r, SessionCookieName)

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   string(service.StatusSuccess),
		"redirect": redirect,
	})
}

// changePasswordRequest is the password change body.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePassword handles the password change endpoint.
// POST /api/auth/change-password?redirectUrl=<optional_path>.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.ChangePassword(r.Context(), service.ChangePasswordInput{
		Token: TokenFromRequest(r),
		Values: ports.ChangePasswordInput{
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
			ConfirmPassword: req.ConfirmPassword,
		},
		Query: r.URL.Query(),
	})
	h.writeAuthResult(w, r, result)
}

// Me returns the current authentication status with a freshly
// rehydrated profile. The stored token is the only thing trusted from
// storage; the profile is re-fetched on every status read.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	sess, err := h.Svc.Rehydrate(r.Context(), token)
	if err != nil {
		// Expired or revoked session: drop the stale cookie.
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": sess.Authenticated(),
		"user":          sess.User,
		"expiresAt":     sess.ExpiresAt,
	})
}

// OAuthLogin starts the federated sign-in flow.
// GET /auth/oauth/login?redirectUrl=<optional_path>.
func (h *AuthHandlers) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "oauth_not_configured",
			Err:     errors.New("federated sign-in is not configured"),
		})
		return
	}

	authURL, state, nonce, err := h.Flow.Begin(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	redirect := r.URL.Query().Get(service.RedirectParamKey)
	h.setOAuthCookies(w, r, oauthCookieParams{State: state, Nonce: nonce, RedirectURL: redirect})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback completes the federated sign-in flow.
// GET /auth/oauth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.Flow == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "oauth_not_configured",
			Err:     errors.New("federated sign-in is not configured"),
		})
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce"),
		})
		return
	}

	tok, err := h.Flow.Exchange(r.Context(), code, nonceCookie.Value)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: err})
		return
	}

	query := url.Values{}
	if c, cookieErr := r.Cookie("oauth_redirect"); cookieErr == nil && c.Value != "" {
		query.Set(service.RedirectParamKey, c.Value)
	}

	result := h.Svc.OAuthSignIn(r.Context(), tok, query)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")
	h.clearCookie(w, r, "oauth_redirect")

	if result.Failed() {
		h.logger().WarnContext(r.Context(), "federated sign-in failed", "message", result.Message)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "sign_in_failed",
			Err:     errors.New(result.Message),
		})
		return
	}

	h.setSessionCookie(w, r, result.Token, tok.ExpiresAt)
	http.Redirect(w, r, result.Redirect, http.StatusFound)
}

// writeAuthResult maps a tagged auth result to HTTP: failures become a
// 401 with the resolved message, successes carry the redirect, profile
// and session cookie.
func (h *AuthHandlers) writeAuthResult(w http.ResponseWriter, r *http.Request, result service.AuthResult) {
	if result.Failed() {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"status":  string(result.Status),
			"message": result.Message,
		})
		return
	}

	var expiresAt time.Time
	if sess, err := h.Svc.GetSession(r.Context(), result.Token); err == nil {
		expiresAt = sess.ExpiresAt
	}
	h.setSessionCookie(w, r, result.Token, expiresAt)

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":   string(result.Status),
		"redirect": result.Redirect,
		"user":     result.User,
		"token":    result.Token,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURL string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	const oauthCookieTTL = 600 // 10 minutes

	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieTTL,
		})
	}
	set("oauth_state", p.State)
	set("oauth_nonce", p.Nonce)
	if p.RedirectURL != "" {
		set("oauth_redirect", p.RedirectURL)
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	maxAge := 0
	if !expiresAt.IsZero() {
		maxAge = int(time.Until(expiresAt).Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when
// setting cookies to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
