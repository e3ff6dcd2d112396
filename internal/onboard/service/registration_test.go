package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/stretchr/testify/require"
)

type recordingLocker struct {
	mu       sync.Mutex
	acquired []string
	released int
	err      error
}

func (l *recordingLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, nil
}

func signup(email string) RegisterInput {
	return RegisterInput{
		FullName:    "Jane Citizen",
		CompanyName: "Acme Inc",
		Email:       email,
		ClientIP:    "203.0.113.7",
		UserAgent:   "test-agent",
	}
}

func TestRegisterSeedsTrialAccount(t *testing.T) {
	h := newHarness(t)
	locker := &recordingLocker{}
	h.register.Locker = locker

	res, err := h.register.Register(h.ctx, signup("Jane@Acme.test"))
	require.NoError(t, err)
	require.Equal(t, domain.CodeRegistrationSeeded, res.Code)
	require.True(t, res.EmailSent)
	require.False(t, res.Replayed)

	acct, err := h.store.Accounts().GetAccountByID(h.ctx, res.AccountID)
	require.NoError(t, err)
	require.Equal(t, "acme-inc", acct.Slug)
	require.Equal(t, "Acme Inc", acct.Name)
	require.Equal(t, domain.TrialActive, acct.TrialState)
	require.True(t, h.clock.Now().Equal(*acct.TrialStartedAt))
	require.True(t, h.clock.Now().Add(14*24*time.Hour).Equal(*acct.TrialEndsAt))

	inv := h.invitation(t, res.InvitationID)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Equal(t, domain.RoleAdmin, inv.Role)
	require.Equal(t, "jane@acme.test", inv.Email)
	require.Equal(t, domain.SourceSelfService, inv.Meta.Source)
	require.Equal(t, "Jane Citizen", inv.Meta.FullName)

	require.Equal(t, []string{"signup:jane@acme.test"}, locker.acquired)
	require.Equal(t, 1, locker.released)

	n, err := h.store.SignupAttempts().CountByEmailSince(h.ctx, "jane@acme.test", h.clock.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRegisterReplayIsIdempotent(t *testing.T) {
	h := newHarness(t)

	first, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	require.NoError(t, err)

	second, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	require.NoError(t, err)
	require.Equal(t, domain.CodeRegistrationSeeded, second.Code)
	require.True(t, second.Replayed)
	require.True(t, second.EmailSent)
	require.Equal(t, first.AccountID, second.AccountID)
	require.Equal(t, first.InvitationID, second.InvitationID)

	// The first invite link died with the reaped ghost; a fresh one went out.
	require.Len(t, h.idp.Invites(), 2)

	_, err = h.store.Accounts().GetAccountByID(h.ctx, first.AccountID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, h.invitation(t, first.InvitationID).Status)
}

func TestRegisterSlugCollision(t *testing.T) {
	h := newHarness(t)

	a, err := h.register.Register(h.ctx, signup("one@acme.test"))
	require.NoError(t, err)
	b, err := h.register.Register(h.ctx, signup("two@acme.test"))
	require.NoError(t, err)
	require.NotEqual(t, a.AccountID, b.AccountID)

	acctA, err := h.store.Accounts().GetAccountByID(h.ctx, a.AccountID)
	require.NoError(t, err)
	acctB, err := h.store.Accounts().GetAccountByID(h.ctx, b.AccountID)
	require.NoError(t, err)
	require.Equal(t, "acme-inc", acctA.Slug)
	require.Equal(t, "acme-inc-2", acctB.Slug)
}

func TestRegisterRateLimitByEmail(t *testing.T) {
	h := newHarness(t)

	for i := range DefaultSignupEmailLimit {
		in := signup("jane@acme.test")
		in.ClientIP = fmt.Sprintf("198.51.100.%d", i+1)
		_, err := h.register.Register(h.ctx, in)
		require.NoError(t, err, "attempt %d", i+1)
	}

	in := signup("jane@acme.test")
	in.ClientIP = "198.51.100.99"
	_, err := h.register.Register(h.ctx, in)
	requireCode(t, err, KindRateLimited, domain.CodeRateLimited)

	h.clock.Advance(DefaultSignupWindow + time.Minute)

	res, err := h.register.Register(h.ctx, in)
	require.NoError(t, err)
	require.Equal(t, domain.CodeRegistrationSeeded, res.Code)
}

func TestRegisterRateLimitByIP(t *testing.T) {
	h := newHarness(t)

	for i := range DefaultSignupIPLimit {
		_, err := h.register.Register(h.ctx, signup(fmt.Sprintf("user%d@acme.test", i)))
		require.NoError(t, err)
	}
	_, err := h.register.Register(h.ctx, signup("late@acme.test"))
	requireCode(t, err, KindRateLimited, domain.CodeRateLimited)

	other := signup("late@acme.test")
	other.ClientIP = "192.0.2.1"
	_, err = h.register.Register(h.ctx, other)
	require.NoError(t, err)
}

func TestRegisterHoneypot(t *testing.T) {
	h := newHarness(t)

	in := signup("bot@acme.test")
	in.Honeypot = "http://spam.example"
	res, err := h.register.Register(h.ctx, in)
	require.NoError(t, err)
	require.Equal(t, domain.CodeRegistrationSeeded, res.Code)
	require.Empty(t, res.AccountID)
	require.Empty(t, h.idp.Invites())

	// Still logged, so bots burn their own rate limit.
	n, err := h.store.SignupAttempts().CountByEmailSince(h.ctx, "bot@acme.test", h.clock.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRegisterValidationIsLogged(t *testing.T) {
	h := newHarness(t)

	in := signup("jane@acme.test")
	in.CompanyName = "A"
	_, err := h.register.Register(h.ctx, in)
	requireCode(t, err, KindValidation, domain.CodeValidationFailed)

	in = signup("not-an-email")
	_, err = h.register.Register(h.ctx, in)
	requireCode(t, err, KindValidation, domain.CodeValidationFailed)

	in = signup("jane@acme.test")
	in.FullName = " "
	_, err = h.register.Register(h.ctx, in)
	requireCode(t, err, KindValidation, domain.CodeValidationFailed)

	n, err := h.store.SignupAttempts().CountByEmailSince(h.ctx, "jane@acme.test", h.clock.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRegisterDisabled(t *testing.T) {
	h := newHarness(t)
	h.register.Enabled = false

	_, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	requireCode(t, err, KindAuthorization, domain.CodeRegistrationDisabled)
}

func TestRegisterRejectsExistingUsers(t *testing.T) {
	h := newHarness(t)
	h.idp.Seed("confirmed@acme.test", true)
	acct, _, _ := h.seedAccountAdmin(t, "Other Co", "member@acme.test")

	_, err := h.register.Register(h.ctx, signup("confirmed@acme.test"))
	requireCode(t, err, KindConflict, domain.CodeEmailAlreadyRegistered)

	_, err = h.register.Register(h.ctx, signup("member@acme.test"))
	requireCode(t, err, KindConflict, domain.CodeEmailAlreadyRegistered)

	_, err = h.store.Accounts().GetAccountByID(h.ctx, acct.ID)
	require.NoError(t, err)
	require.Empty(t, h.idp.Invites())
}

func TestRegisterYieldsToAdminInvitation(t *testing.T) {
	h := newHarness(t)
	acct, admin, _ := h.seedAccountAdmin(t, "Other Co", "admin@acme.test")

	_, err := h.invitations.Create(h.ctx, CreateInvitationInput{Caller: admin, AccountID: acct.ID, Email: "jane@acme.test", Role: domain.RoleViewer})
	require.NoError(t, err)

	_, err = h.register.Register(h.ctx, signup("jane@acme.test"))
	requireCode(t, err, KindConflict, domain.CodeRegistrationConflict)
}

func TestRegisterExpiredSelfServiceInviteSeedsAgain(t *testing.T) {
	h := newHarness(t)

	first, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	require.NoError(t, err)

	h.clock.Advance(DefaultInviteTTL + time.Hour)

	second, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	require.NoError(t, err)
	require.False(t, second.Replayed)
	require.NotEqual(t, first.AccountID, second.AccountID)
	require.Equal(t, domain.InvitationExpired, h.invitation(t, first.InvitationID).Status)
}

func TestRegisterSurvivesLockFailure(t *testing.T) {
	h := newHarness(t)
	h.register.Locker = &recordingLocker{err: errors.New("pg: connection refused")}

	res, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	require.NoError(t, err)
	require.Equal(t, domain.CodeRegistrationSeeded, res.Code)
}

func TestRegisterBlockedSendRemovesAccount(t *testing.T) {
	h := newHarness(t)
	h.idp.SetHooks(localConfirmingHook(h))

	_, err := h.register.Register(h.ctx, signup("jane@acme.test"))
	e := requireCode(t, err, KindConflict, domain.CodeConfirmedUserRequiresManualAction)

	id, ok := e.Details["invitation_id"].(string)
	require.True(t, ok)
	_, err = h.store.Invitations().GetInvitationByID(h.ctx, id)
	require.Error(t, err, "invitation goes with the deleted account")
}
