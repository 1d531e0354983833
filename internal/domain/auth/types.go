package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Role names are always stored lower-cased; see NormalizeRoles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHR    Role = "hr"
	RoleUser  Role = "user"
)

// EmployeeProfile is the employee record attached to a signed-in user,
// when the account is linked to the employee directory.
type EmployeeProfile struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	DepartmentID string `json:"department_id"`
	Position     string `json:"position"`
}

// Profile is the authenticated user's identity as consumed by route
// guards and the header/profile UI. Authority is always lower-cased;
// server-side casing never reaches authorization checks.
type Profile struct {
	ID        string           `json:"id"`
	UserName  string           `json:"user_name"`
	Email     string           `json:"email"`
	Avatar    string           `json:"avatar"`
	Authority []string         `json:"authority"`
	Employee  *EmployeeProfile `json:"employee,omitempty"`
}

// HasRole reports whether the profile carries the given role.
// Authority itself is already normalized, so only the wanted role
// needs folding.
func (p Profile) HasRole(role Role) bool {
	want := strings.ToLower(string(role))
	for _, r := range p.Authority {
		if r == want {
			return true
		}
	}
	return false
}

// NormalizeRoles lower-cases and trims role names, dropping empties.
// Applied once at the point a profile is produced.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Session is the client session record persisted by the session store.
// Token and SignedIn are decoupled on purpose: the token can be cleared
// before the flag so no intermediate state reads "signed in, no token".
type Session struct {
	Token     string    `json:"token"`
	SignedIn  bool      `json:"signed_in"`
	User      *Profile  `json:"user,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated is the single derived read used by every guard:
// true only when a non-empty token and the signed-in flag agree.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.SignedIn
}

// SetToken stores the token; the empty string clears it.
func (s *Session) SetToken(token string) {
	s.Token = token
}

// SetSignedIn flips the signed-in flag independently of the token.
func (s *Session) SetSignedIn(v bool) {
	s.SignedIn = v
}

// SetUser replaces the cached profile wholesale. No partial merge.
func (s *Session) SetUser(p *Profile) {
	s.User = p
}

// Clear resets the session to its anonymous state. The token is
// cleared first, then the flag, then the profile.
func (s *Session) Clear() {
	s.SetToken("")
	s.SetSignedIn(false)
	s.SetUser(nil)
}

// IsAdmin reports whether the session's user carries the admin role.
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.HasRole(RoleAdmin)
}
