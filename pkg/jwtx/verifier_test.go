package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("super-secret-jwt-token-with-at-least-32-characters")

func TestHS256VerifierRoundTrip(t *testing.T) {
	v := jwtx.NewHS256Verifier(secret, "onboard-idp", []string{"authenticated"})

	claims := jwtx.NewClaims("user-1", "alice@example.com", "onboard-idp", []string{"authenticated"}, time.Hour, time.Now())
	token, err := jwtx.SignHS256(secret, claims)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestHS256VerifierRejects(t *testing.T) {
	v := jwtx.NewHS256Verifier(secret, "onboard-idp", []string{"authenticated"})
	now := time.Now()

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwtx.SignHS256([]byte("another-secret"), jwtx.NewClaims("u", "", "onboard-idp", []string{"authenticated"}, time.Hour, now))
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := jwtx.SignHS256(secret, jwtx.NewClaims("u", "", "onboard-idp", []string{"authenticated"}, time.Hour, now.Add(-3*time.Hour)))
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token, err := jwtx.SignHS256(secret, jwtx.NewClaims("u", "", "someone-else", []string{"authenticated"}, time.Hour, now))
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		token, err := jwtx.SignHS256(secret, jwtx.NewClaims("u", "", "onboard-idp", []string{"anon"}, time.Hour, now))
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := jwtx.SignHS256(secret, jwtx.NewClaims("", "", "onboard-idp", []string{"authenticated"}, time.Hour, now))
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMissingSubject)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtx.NewClaims("u", "", "onboard-idp", []string{"authenticated"}, time.Hour, now)).SignedString(secret)
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.Error(t, err)
	})
}
