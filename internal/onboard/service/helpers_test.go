package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity/local"
	"github.com/aussiebroadwan/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/onboard/pkg/cryptox"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

const (
	testInviteURL = "https://app.example.com/auth/accept-invite"
	testResetURL  = "https://app.example.com/auth/reset-password"
)

var errDuplicate = errors.New("A user with this email address has already been registered")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) Sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
}

func (r *sleepRecorder) All() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}

type harness struct {
	ctx    context.Context
	store  *sqlite.Store
	idp    *local.Gateway
	clock  *testClock
	sleeps *sleepRecorder

	authz    *Authorizer
	resolver *TargetResolver
	reaper   *GhostReaper
	sender   *InviteSender
	audit    *Auditor

	invitations *InvitationService
	accounts    *AccountService
	memberships *MembershipService
	users       *UserService
	register    *RegistrationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "onboard.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	h := &harness{
		ctx:    context.Background(),
		store:  st,
		idp:    local.New(cryptox.Pepper("test-pepper")),
		clock:  &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		sleeps: &sleepRecorder{},
	}

	h.authz = &Authorizer{Store: st}
	h.resolver = &TargetResolver{Store: st, Identity: h.idp, Lookup: h.idp}
	h.reaper = &GhostReaper{Store: st, Identity: h.idp}
	h.sender = &InviteSender{
		Identity: h.idp,
		Resolver: h.resolver,
		Reaper:   h.reaper,
		Sleep:    h.sleeps.Sleep,
	}
	h.audit = &Auditor{Store: st, Now: h.clock.Now}

	h.invitations = &InvitationService{
		Store:             st,
		Authz:             h.authz,
		Resolver:          h.resolver,
		Reaper:            h.reaper,
		Sender:            h.sender,
		Audit:             h.audit,
		InviteRedirectURL: testInviteURL,
		Now:               h.clock.Now,
	}
	h.accounts = &AccountService{
		Store:       st,
		Authz:       h.authz,
		Resolver:    h.resolver,
		Invitations: h.invitations,
		Audit:       h.audit,
		Now:         h.clock.Now,
	}
	h.memberships = &MembershipService{Store: st, Authz: h.authz, Audit: h.audit}
	h.users = &UserService{
		Store:            st,
		Authz:            h.authz,
		Identity:         h.idp,
		Audit:            h.audit,
		ResetRedirectURL: testResetURL,
	}
	h.register = &RegistrationService{
		Store:       st,
		Resolver:    h.resolver,
		Reaper:      h.reaper,
		Invitations: h.invitations,
		Audit:       h.audit,
		Pepper:      cryptox.Pepper("test-pepper"),
		Enabled:     true,
		Now:         h.clock.Now,
	}
	return h
}

func (h *harness) seedAccount(t *testing.T, name string) domain.Account {
	t.Helper()
	now := h.clock.Now()
	a := domain.Account{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Status:    domain.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Accounts().CreateAccount(h.ctx, a))
	return a
}

// seedUser creates an identity and a profile sharing its id.
func (h *harness) seedUser(t *testing.T, email string, role domain.GlobalRole, confirmed bool) Caller {
	t.Helper()
	id := h.idp.Seed(email, confirmed)
	now := h.clock.Now()
	require.NoError(t, h.store.Profiles().CreateProfile(h.ctx, domain.Profile{
		ID:         id.ID,
		Email:      id.Email,
		FullName:   email,
		GlobalRole: role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	return Caller{UserID: id.ID, Email: id.Email}
}

func (h *harness) seedMember(t *testing.T, accountID, userID string, role domain.Role) domain.Membership {
	t.Helper()
	now := h.clock.Now()
	m := domain.Membership{
		ID:        idx.NewAt(now).String(),
		AccountID: accountID,
		UserID:    userID,
		Role:      role,
		Status:    domain.MembershipActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Memberships().CreateMembership(h.ctx, m))
	return m
}

// seedAccountAdmin returns an account and a caller holding its only ACTIVE
// ADMIN membership.
func (h *harness) seedAccountAdmin(t *testing.T, name, email string) (domain.Account, Caller, domain.Membership) {
	t.Helper()
	a := h.seedAccount(t, name)
	c := h.seedUser(t, email, domain.GlobalRoleUser, true)
	m := h.seedMember(t, a.ID, c.UserID, domain.RoleAdmin)
	return a, c, m
}

func (h *harness) invitation(t *testing.T, id string) domain.Invitation {
	t.Helper()
	inv, err := h.store.Invitations().GetInvitationByID(h.ctx, id)
	require.NoError(t, err)
	return inv
}

func requireCode(t *testing.T, err error, kind Kind, code domain.Code) *Error {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, code, e.Code, e.Message)
	require.Equal(t, kind, e.Kind)
	return e
}

// localConfirmingHook makes every invite fail as a duplicate of a confirmed
// identity that appeared after the target was checked.
func localConfirmingHook(h *harness) local.Hooks {
	return local.Hooks{SendInvite: func(email string) error {
		h.idp.Seed(email, true)
		return errDuplicate
	}}
}
