package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMissingSubject = errors.New("jwtx: missing subject")
	ErrIssuer         = errors.New("jwtx: issuer mismatch")
	ErrAudience       = errors.New("jwtx: audience mismatch")
	ErrExpired        = errors.New("jwtx: token expired")
	ErrNotYetValid    = errors.New("jwtx: token not yet valid")
)

// HS256Verifier validates tokens signed with the identity provider's shared
// JWT secret.
type HS256Verifier struct {
	secret []byte
	issuer string
	aud    []string
	leeway time.Duration
	now    func() time.Time
}

// NewHS256Verifier creates a verifier. Empty issuer or audience disables that check.
func NewHS256Verifier(secret []byte, issuer string, aud []string) *HS256Verifier {
	return &HS256Verifier{
		secret: secret,
		issuer: issuer,
		aud:    aud,
		leeway: 30 * time.Second,
		now:    time.Now,
	}
}

func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(), // exp/nbf checked below with our leeway
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("jwtx: invalid token")
	}

	if err := claims.check(v.issuer, v.aud, v.now().UTC(), v.leeway); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// SignHS256 signs claims with secret. Used by tests and local tooling; in
// production tokens come from the identity provider.
func SignHS256(secret []byte, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
