package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{host: "localhost", want: false},
		{host: "127.0.0.1", want: false},
		{host: "::1", want: false},
		{host: "db.local", want: false},
		{host: "", want: false},
		{host: "10.20.30.40", want: true},
		{host: "db.prod.example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.want, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestParseAccountFlagsRequiresUser(t *testing.T) {
	_, err := parseAccountFlags("account-disable", nil, false)
	require.ErrorContains(t, err, "--user is required")
}

func TestParseAccountFlagsPasswordLength(t *testing.T) {
	_, err := parseAccountFlags("account-set-password", []string{"-user", "admin", "-password", "short"}, true)
	require.ErrorContains(t, err, "at least 8 characters")

	opts, err := parseAccountFlags("account-set-password", []string{"-user", "admin", "-password", "longenough!"}, true)
	require.NoError(t, err)
	require.Equal(t, "admin", opts.UserName)
}

func TestParseDBResetFlagsRejectsNonPositiveTimeout(t *testing.T) {
	_, err := parseDBResetFlags([]string{"-timeout", "0s"})
	require.ErrorContains(t, err, "greater than zero")
}

func TestParseMigrateFlagsDefaultTimeout(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, opts.Timeout)
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, `"portal"`, quoteIdentifier("portal"))
	require.Equal(t, `"we""ird"`, quoteIdentifier(`we"ird`))
}
