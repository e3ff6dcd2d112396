package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims minted by the identity provider. Only
// the fields this service reads are declared.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// NewClaims builds claims valid from now for ttl.
func NewClaims(subject, email, issuer string, audience []string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
}

// check applies the registered-claim rules. An empty issuer or audience
// list skips that rule; exp and nbf tolerate leeway of clock skew.
func (c *Claims) check(issuer string, audience []string, now time.Time, leeway time.Duration) error {
	switch {
	case c.Subject == "":
		return ErrMissingSubject
	case issuer != "" && c.Issuer != issuer:
		return ErrIssuer
	case len(audience) > 0 && !slices.ContainsFunc(audience, func(a string) bool {
		return slices.Contains(c.Audience, a)
	}):
		return ErrAudience
	case c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)):
		return ErrExpired
	case c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)):
		return ErrNotYetValid
	}
	return nil
}
