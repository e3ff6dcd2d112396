package service

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity/local"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestProvisionAccount(t *testing.T) {
	h := newHarness(t)
	ops := h.seedUser(t, "ops@example.com", domain.GlobalRolePlatformAdmin, true)

	res, err := h.accounts.Provision(h.ctx, ProvisionAccountInput{
		Caller:        ops,
		Name:          "Acme Inc",
		AdminEmail:    "Boss@Acme.test",
		AdminFullName: "The Boss",
		Trial:         true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.CodeAccountProvisioned, res.Code)
	require.Equal(t, "acme-inc", res.Account.Slug)
	require.Equal(t, domain.TrialActive, res.Account.TrialState)
	require.Equal(t, h.clock.Now().Add(DefaultTrialLength), *res.Account.TrialEndsAt)
	require.True(t, res.EmailSent)
	require.Empty(t, res.BlockerCode)

	inv := h.invitation(t, res.Invitation.ID)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Equal(t, domain.RoleAdmin, inv.Role)
	require.Equal(t, "boss@acme.test", inv.Email)
	require.Equal(t, domain.SourcePlatformProvisioning, inv.Meta.Source)

	again, err := h.accounts.Provision(h.ctx, ProvisionAccountInput{Caller: ops, Name: "Acme Inc", AdminEmail: "other@acme.test"})
	require.NoError(t, err)
	require.Equal(t, "acme-inc-2", again.Account.Slug)
	require.Equal(t, domain.TrialNone, again.Account.TrialState)
}

func TestProvisionRequiresPlatformAdmin(t *testing.T) {
	h := newHarness(t)
	_, admin, _ := h.seedAccountAdmin(t, "Acct One", "admin@example.com")

	_, err := h.accounts.Provision(h.ctx, ProvisionAccountInput{Caller: admin, Name: "Acme", AdminEmail: "boss@acme.test"})
	requireCode(t, err, KindAuthorization, domain.CodeForbidden)

	_, err = h.accounts.Provision(h.ctx, ProvisionAccountInput{Caller: admin, Name: "A", AdminEmail: "boss@acme.test"})
	requireCode(t, err, KindValidation, domain.CodeValidationFailed)
}

func TestProvisionBlockedKeepsAccount(t *testing.T) {
	h := newHarness(t)
	ops := h.seedUser(t, "ops@example.com", domain.GlobalRolePlatformAdmin, true)
	h.idp.SetHooks(local.Hooks{SendInvite: func(email string) error {
		h.idp.Seed(email, true)
		return errDuplicate
	}})

	res, err := h.accounts.Provision(h.ctx, ProvisionAccountInput{Caller: ops, Name: "Acme", AdminEmail: "boss@acme.test"})
	require.NoError(t, err)
	require.False(t, res.EmailSent)
	require.Equal(t, domain.CodeConfirmedUserRequiresManualAction, res.BlockerCode)
	require.Equal(t, domain.CodeInviteSendBlocked, res.WarningCode)

	_, err = h.store.Accounts().GetAccountByID(h.ctx, res.Account.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationRevoked, h.invitation(t, res.Invitation.ID).Status)
}

func TestProvisionRejectsActiveAdminEmail(t *testing.T) {
	h := newHarness(t)
	ops := h.seedUser(t, "ops@example.com", domain.GlobalRolePlatformAdmin, true)
	h.seedAccountAdmin(t, "Acct One", "admin@example.com")

	_, err := h.accounts.Provision(h.ctx, ProvisionAccountInput{Caller: ops, Name: "Acme", AdminEmail: "admin@example.com"})
	requireCode(t, err, KindConflict, domain.CodeUserAlreadyActiveInAnotherAccount)
}

func TestSetAccountStatus(t *testing.T) {
	h := newHarness(t)
	ops := h.seedUser(t, "ops@example.com", domain.GlobalRolePlatformAdmin, true)
	acct, admin, _ := h.seedAccountAdmin(t, "Acct One", "admin@example.com")

	_, err := h.accounts.SetStatus(h.ctx, SetAccountStatusInput{Caller: admin, AccountID: acct.ID, Status: domain.AccountArchived})
	requireCode(t, err, KindAuthorization, domain.CodeForbidden)

	res, err := h.accounts.SetStatus(h.ctx, SetAccountStatusInput{Caller: ops, AccountID: acct.ID, Status: domain.AccountArchived})
	require.NoError(t, err)
	require.Equal(t, domain.AccountActive, res.PrevStatus)

	got, err := h.store.Accounts().GetAccountByID(h.ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AccountArchived, got.Status)
	require.Equal(t, ops.UserID, got.ArchivedBy)
	require.NotNil(t, got.ArchivedAt)

	_, err = h.invitations.Create(h.ctx, CreateInvitationInput{Caller: admin, AccountID: acct.ID, Email: "new@example.com", Role: domain.RoleViewer})
	requireCode(t, err, KindConflict, domain.CodeAccountNotActive)

	_, err = h.accounts.SetStatus(h.ctx, SetAccountStatusInput{Caller: ops, AccountID: acct.ID, Status: domain.AccountActive})
	require.NoError(t, err)
	got, err = h.store.Accounts().GetAccountByID(h.ctx, acct.ID)
	require.NoError(t, err)
	require.Nil(t, got.ArchivedAt)
	require.Empty(t, got.ArchivedBy)

	_, err = h.accounts.SetStatus(h.ctx, SetAccountStatusInput{Caller: ops, AccountID: "missing", Status: domain.AccountActive})
	requireCode(t, err, KindNotFound, domain.CodeAccountNotFound)

	_, err = h.accounts.SetStatus(h.ctx, SetAccountStatusInput{Caller: ops, AccountID: acct.ID, Status: "GONE"})
	requireCode(t, err, KindValidation, domain.CodeValidationFailed)
}

func TestCreateAccountSlugExhaustion(t *testing.T) {
	h := newHarness(t)
	now := h.clock.Now()
	for n := 1; n <= MaxSlugAttempts; n++ {
		require.NoError(t, h.store.Accounts().CreateAccount(h.ctx, domain.Account{
			ID:     idx.NewAt(now).String(),
			Name:   fmt.Sprintf("Busy %d", n),
			Slug:   domain.SlugCandidate("busy", n),
			Status: domain.AccountActive,
		}))
	}

	_, err := createAccount(h.ctx, h.store.Accounts(), domain.Account{Name: "Busy", Status: domain.AccountActive}, now)
	requireCode(t, err, KindConflict, domain.CodeSlugUnavailable)
}
