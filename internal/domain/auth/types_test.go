package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Authenticated(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		token    string
		signedIn bool
		want     bool
	}{
		{"token and flag", "tok-1", true, true},
		{"token only", "tok-1", false, false},
		{"flag only", "", true, false},
		{"neither", "", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Session{Token: tc.token, SignedIn: tc.signedIn}
			assert.Equal(t, tc.want, s.Authenticated())
		})
	}
}

func TestSession_Authenticated_AnySequence(t *testing.T) {
	t.Parallel()

	var s Session

	s.SetToken("abc")
	assert.False(t, s.Authenticated(), "token alone must not authenticate")

	s.SetSignedIn(true)
	assert.True(t, s.Authenticated())

	// Clearing the token first guarantees no "signed in, no token" read.
	s.SetToken("")
	assert.False(t, s.Authenticated())

	s.SetSignedIn(false)
	assert.False(t, s.Authenticated())

	s.SetSignedIn(true)
	assert.False(t, s.Authenticated(), "flag alone must not authenticate")
}

func TestSession_Clear(t *testing.T) {
	t.Parallel()

	s := Session{Token: "tok", SignedIn: true, User: &Profile{ID: "u1"}}
	s.Clear()

	assert.Empty(t, s.Token)
	assert.False(t, s.SignedIn)
	assert.Nil(t, s.User)
	assert.False(t, s.Authenticated())
}

func TestNormalizeRoles(t *testing.T) {
	t.Parallel()

	got := NormalizeRoles([]string{"Admin", " HR ", "", "user"})
	assert.Equal(t, []string{"admin", "hr", "user"}, got)
}

func TestProfile_HasRole(t *testing.T) {
	t.Parallel()

	p := Profile{Authority: NormalizeRoles([]string{"ADMIN", "User"})}
	assert.True(t, p.HasRole(RoleAdmin))
	assert.True(t, p.HasRole(RoleUser))
	assert.False(t, p.HasRole(RoleHR))
}

func TestSession_SetUser_Wholesale(t *testing.T) {
	t.Parallel()

	s := Session{User: &Profile{ID: "old", Email: "old@corp.example"}}
	s.SetUser(&Profile{ID: "new"})

	assert.Equal(t, "new", s.User.ID)
	assert.Empty(t, s.User.Email, "replacement must not merge prior fields")
}
