// Package identity describes the administrative surface of the identity
// provider. The provider owns credentials and email confirmation; this
// service only looks identities up, sends invites and deletes ghosts.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

var (
	ErrNotFound = errors.New("identity: not found")

	// ErrAlreadyRegistered may be wrapped by drivers that can detect the
	// duplicate-registration case structurally.
	ErrAlreadyRegistered = errors.New("identity: email already registered")
)

// Credentials are the fields UpdateCredentials may change. Empty fields are
// left untouched.
type Credentials struct {
	Email    string
	Password string
}

type Gateway interface {
	// ListIdentities returns one page (1-based). A page shorter than
	// perPage is the last one.
	ListIdentities(ctx context.Context, page, perPage int) ([]domain.Identity, error)

	// GetIdentityByID returns ErrNotFound when the id is unknown.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	DeleteIdentity(ctx context.Context, id string) error

	// SendInvite creates an unconfirmed identity and emails an invite link.
	// When the email already has an identity the error message carries an
	// "already registered" signature, see IsAlreadyRegistered.
	SendInvite(ctx context.Context, email, redirectURL string, data map[string]any) error

	ResetPassword(ctx context.Context, email, redirectURL string) error
	UpdateCredentials(ctx context.Context, id string, c Credentials) error
}

// IsAlreadyRegistered reports whether err is the ambiguous duplicate
// registration failure. It may mean a stale ghost or a real account.
func IsAlreadyRegistered(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAlreadyRegistered) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already been registered") ||
		strings.Contains(msg, "already exists")
}
