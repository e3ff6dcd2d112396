package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", domain.NormalizeEmail("  Alice@Example.COM "))
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@example.com", "first.last+tag@sub.example.org"} {
		require.True(t, domain.ValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "nope", "a@b", "Alice <a@example.com>", "a@example.", "@example.com"} {
		require.False(t, domain.ValidEmail(bad), bad)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Inc":         "acme-inc",
		"  Acme,  Inc.  ":  "acme-inc",
		"Bus & Coach Co 2": "bus-coach-co-2",
		"Ünïcode Only":     "n-code-only",
		"!!!":              "account",
	}
	for in, want := range cases {
		require.Equal(t, want, domain.Slugify(in), in)
	}
}

func TestSlugCandidate(t *testing.T) {
	require.Equal(t, "acme-inc", domain.SlugCandidate("acme-inc", 1))
	require.Equal(t, "acme-inc-2", domain.SlugCandidate("acme-inc", 2))
	require.Equal(t, "acme-inc-25", domain.SlugCandidate("acme-inc", 25))
}

func TestInvitationIsExpiredAt(t *testing.T) {
	now := time.Now()
	inv := domain.Invitation{Status: domain.InvitationPending, ExpiresAt: now.Add(time.Minute)}
	require.False(t, inv.IsExpiredAt(now))
	require.True(t, inv.IsExpiredAt(now.Add(time.Minute)))

	inv.Status = domain.InvitationRevoked
	require.False(t, inv.IsExpiredAt(now.Add(time.Hour)))
}
