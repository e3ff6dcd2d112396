package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrPreconditionFailed is returned by guarded writes whose WHERE clause
	// matched no row: the status changed underneath us, or a last-admin
	// guard no longer holds.
	ErrPreconditionFailed = errors.New("store: precondition failed")
)

// Store is the root data access interface. Every method is a single
// statement. There are no multi-table transactions; callers compose
// multi-step writes with compensating actions.
type Store interface {
	Accounts() Accounts
	Profiles() Profiles
	Memberships() Memberships
	Invitations() Invitations
	AuditLog() AuditLog
	SignupAttempts() SignupAttempts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// CreateAccount inserts an account. A taken slug yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// UpdateStatus sets status and archive fields and bumps updated_at.
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus, archivedAt *time.Time, archivedBy string) error

	// DeleteAccount cascades to memberships and invitations.
	DeleteAccount(ctx context.Context, id string) error
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileByEmail matches case-insensitively.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	UpdateEmail(ctx context.Context, id, email string) error
	DeleteProfile(ctx context.Context, id string) error

	// CountPlatformAdmins counts profiles with the PLATFORM_ADMIN global role.
	CountPlatformAdmins(ctx context.Context) (int, error)
}

type Memberships interface {
	// CreateMembership inserts a membership. A second row for the same
	// (account, user) yields ErrAlreadyExists.
	CreateMembership(ctx context.Context, m domain.Membership) error

	GetMembershipByID(ctx context.Context, id string) (domain.Membership, error)
	GetMembership(ctx context.Context, accountID, userID string) (domain.Membership, error)

	// ListActiveByUser returns the user's ACTIVE memberships, oldest first.
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Membership, error)

	// CountActiveAdmins counts ACTIVE ADMIN memberships of an account.
	CountActiveAdmins(ctx context.Context, accountID string) (int, error)

	// UpdateRoleGuarded changes a membership role only if the account has at
	// least minOtherAdmins ACTIVE ADMIN memberships besides this one at the
	// moment of the write. Otherwise it returns ErrPreconditionFailed.
	UpdateRoleGuarded(ctx context.Context, id string, role domain.Role, minOtherAdmins int) error

	// DeleteGuarded deletes a membership with the same guard as UpdateRoleGuarded.
	DeleteGuarded(ctx context.Context, id string, minOtherAdmins int) error

	// DeleteByUser removes every membership the user holds.
	DeleteByUser(ctx context.Context, userID string) error
}

type Invitations interface {
	// CreateInvitation inserts an invitation. A second PENDING row for the
	// same (account, email) yields ErrAlreadyExists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// ListPendingByEmail returns PENDING invitations for an email across
	// all accounts, newest first.
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error)

	// GetPending returns the PENDING invitation for (account, email).
	GetPending(ctx context.Context, accountID, email string) (domain.Invitation, error)

	// TransitionStatus moves an invitation from one status to another and
	// merges patch into its meta, in one conditional statement. If the row
	// is not currently in status from it returns ErrPreconditionFailed.
	TransitionStatus(ctx context.Context, id string, from, to domain.InvitationStatus, patch domain.InvitationMeta) error
}

type AuditLog interface {
	Append(ctx context.Context, e domain.AuditEntry) error
	ListByResource(ctx context.Context, resource, resourceID string) ([]domain.AuditEntry, error)
}

type SignupAttempts interface {
	Record(ctx context.Context, a domain.SignupAttempt) error

	// CountByIPSince counts attempts with ipHash created at or after since.
	CountByIPSince(ctx context.Context, ipHash string, since time.Time) (int, error)

	// CountByEmailSince counts attempts for a normalized email created at or after since.
	CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error)
}
