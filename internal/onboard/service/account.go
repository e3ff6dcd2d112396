package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

const (
	// MaxSlugAttempts bounds the numeric-suffix search for a free slug.
	MaxSlugAttempts    = 25
	DefaultTrialLength = 14 * 24 * time.Hour
)

type AccountService struct {
	Store       store.Store
	Authz       *Authorizer
	Resolver    *TargetResolver
	Invitations *InvitationService
	Audit       *Auditor

	TrialLength time.Duration
	Now         func() time.Time
}

type ProvisionAccountInput struct {
	Caller        Caller
	Name          string
	AdminEmail    string
	AdminFullName string
	Trial         bool
}

type ProvisionAccountResult struct {
	Code         domain.Code
	Message      string
	Account      domain.Account
	Invitation   domain.Invitation
	EmailSent    bool
	Attempts     int
	DeletedGhost bool
	BlockerCode  domain.Code
	WarningCode  domain.Code
	ErrorMessage string
	AuditError   string
}

type SetAccountStatusInput struct {
	Caller    Caller
	AccountID string
	Status    domain.AccountStatus
}

type AccountStatusResult struct {
	Code       domain.Code
	Message    string
	Account    domain.Account
	PrevStatus domain.AccountStatus
	AuditError string
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AccountService) trialLength() time.Duration {
	if s.TrialLength > 0 {
		return s.TrialLength
	}
	return DefaultTrialLength
}

// Provision creates an account on behalf of a platform administrator and
// invites its first ADMIN.
func (s *AccountService) Provision(ctx context.Context, in ProvisionAccountInput) (ProvisionAccountResult, error) {
	log := slogx.FromContext(ctx)
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.AdminEmail)

	// 1. Validate
	if len(name) < 2 {
		return ProvisionAccountResult{}, validationError(domain.CodeValidationFailed, "Account name must be at least 2 characters.")
	}
	if !domain.ValidEmail(email) {
		return ProvisionAccountResult{}, validationError(domain.CodeValidationFailed, "A valid admin email address is required.")
	}

	// 2. Platform administrators only
	platform, err := s.Authz.IsPlatformAdmin(ctx, in.Caller)
	if err != nil {
		return ProvisionAccountResult{}, internal("Authorisation check failed.", err)
	}
	if !platform {
		log.Warn("account provisioning forbidden", slog.String("caller", in.Caller.UserID))
		return ProvisionAccountResult{}, forbidden("Only platform administrators can provision accounts.")
	}

	audit := func(code domain.Code, accountID string, extra map[string]any) string {
		meta := map[string]any{"name": name, "admin_email": email, "trial": in.Trial, "result": string(code)}
		for k, v := range extra {
			meta[k] = v
		}
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: accountID,
			Action:          domain.AuditAccountProvision,
			Resource:        domain.ResourceAccount,
			ResourceID:      accountID,
			Meta:            meta,
		})
	}

	// 3. The first admin must be invitable somewhere
	target, err := s.Resolver.Resolve(ctx, email)
	if err != nil {
		log.Error("failed to resolve provisioning target", slog.Any("error", err))
		return ProvisionAccountResult{}, transient("Could not check the admin email.", err)
	}
	if blocker := targetBlocker(target, ""); blocker != nil {
		log.Warn("account provisioning rejected", slog.String("code", string(blocker.Code)))
		return ProvisionAccountResult{}, withAudit(blocker, audit(blocker.Code, "", nil))
	}

	// 4. Account with a free slug
	now := s.now()
	acct := domain.Account{Name: name, Status: domain.AccountActive}
	if in.Trial {
		end := now.Add(s.trialLength())
		acct.TrialState = domain.TrialActive
		acct.TrialStartedAt, acct.TrialEndsAt = &now, &end
	}
	acct, aerr := createAccount(ctx, s.Store.Accounts(), acct, now)
	if aerr != nil {
		return ProvisionAccountResult{}, withAudit(aerr, audit(aerr.Code, "", nil))
	}

	// 5. Invitation; the account goes if the row cannot be written
	inv, ierr := s.Invitations.insertPending(ctx, pendingInvitation{
		AccountID: acct.ID,
		Email:     email,
		Role:      domain.RoleAdmin,
		InvitedBy: in.Caller.UserID,
		Meta:      domain.InvitationMeta{Source: domain.SourcePlatformProvisioning, FullName: in.AdminFullName},
	})
	if ierr != nil {
		deleteAccount(ctx, s.Store.Accounts(), acct.ID)
		return ProvisionAccountResult{}, withAudit(ierr, audit(ierr.Code, acct.ID, map[string]any{"rolled_back": true}))
	}

	// 6. Send. A blocked send keeps the account; the invitation is revoked.
	res, derr := s.Invitations.deliver(ctx, inv)
	out := ProvisionAccountResult{
		Code:         domain.CodeAccountProvisioned,
		Message:      "Account provisioned.",
		Account:      acct,
		Invitation:   res.Invitation,
		EmailSent:    res.EmailSent,
		Attempts:     res.Attempts,
		DeletedGhost: res.DeletedGhost,
		WarningCode:  res.WarningCode,
		ErrorMessage: res.ErrorMessage,
	}
	if derr != nil {
		if derr.Kind != KindConflict {
			return ProvisionAccountResult{}, withAudit(derr, audit(derr.Code, acct.ID, deliveryMeta(res)))
		}
		out.BlockerCode = derr.Code
		out.WarningCode = domain.CodeInviteSendBlocked
		out.Message = "Account provisioned, but the admin invitation was blocked: " + derr.Message
	}

	meta := deliveryMeta(res)
	meta["slug"] = acct.Slug
	if out.BlockerCode != "" {
		meta["blocker"] = string(out.BlockerCode)
	}
	out.AuditError = audit(out.Code, acct.ID, meta)

	log.Info("account provisioned",
		slog.String("account_id", acct.ID),
		slog.String("slug", acct.Slug),
		slog.Bool("email_sent", out.EmailSent),
	)
	return out, nil
}

// SetStatus moves an account between ACTIVE, SUSPENDED and ARCHIVED.
func (s *AccountService) SetStatus(ctx context.Context, in SetAccountStatusInput) (AccountStatusResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", in.AccountID))

	if !in.Status.Valid() {
		return AccountStatusResult{}, validationError(domain.CodeValidationFailed, "Status must be ACTIVE, SUSPENDED or ARCHIVED.")
	}

	platform, err := s.Authz.IsPlatformAdmin(ctx, in.Caller)
	if err != nil {
		return AccountStatusResult{}, internal("Authorisation check failed.", err)
	}
	if !platform {
		log.Warn("account status change forbidden", slog.String("caller", in.Caller.UserID))
		return AccountStatusResult{}, forbidden("Only platform administrators can change account status.")
	}

	acct, err := s.Store.Accounts().GetAccountByID(ctx, in.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return AccountStatusResult{}, notFound(domain.CodeAccountNotFound, "Account not found.")
	}
	if err != nil {
		log.Error("failed to load account", slog.Any("error", err))
		return AccountStatusResult{}, internal("Could not load account.", err)
	}

	var (
		archivedAt *time.Time
		archivedBy string
	)
	if in.Status == domain.AccountArchived {
		now := s.now()
		archivedAt, archivedBy = &now, in.Caller.UserID
	}
	err = s.Store.Accounts().UpdateStatus(ctx, acct.ID, in.Status, archivedAt, archivedBy)
	if errors.Is(err, store.ErrNotFound) {
		return AccountStatusResult{}, notFound(domain.CodeAccountNotFound, "Account not found.")
	}
	if err != nil {
		log.Error("failed to update account status", slog.Any("error", err))
		return AccountStatusResult{}, internal("Could not update account status.", err)
	}

	prev := acct.Status
	acct.Status, acct.ArchivedAt, acct.ArchivedBy = in.Status, archivedAt, archivedBy

	auditErr := s.Audit.Record(ctx, domain.AuditEntry{
		AdminUserID:     in.Caller.UserID,
		TargetAccountID: acct.ID,
		Action:          domain.AuditAccountStatus,
		Resource:        domain.ResourceAccount,
		ResourceID:      acct.ID,
		Meta:            map[string]any{"before": string(prev), "after": string(in.Status)},
	})

	log.Info("account status changed", slog.String("from", string(prev)), slog.String("to", string(in.Status)))
	return AccountStatusResult{
		Code:       domain.CodeAccountStatusChanged,
		Message:    "Account status updated.",
		Account:    acct,
		PrevStatus: prev,
		AuditError: auditErr,
	}, nil
}

// createAccount inserts a with a slug derived from its name, trying base,
// base-2, base-3 and so on until one is free.
func createAccount(ctx context.Context, accounts store.Accounts, a domain.Account, now time.Time) (domain.Account, *Error) {
	log := slogx.FromContext(ctx)
	base := domain.Slugify(a.Name)

	a.ID = idx.NewAt(now).String()
	a.CreatedAt, a.UpdatedAt = now, now
	for n := 1; n <= MaxSlugAttempts; n++ {
		a.Slug = domain.SlugCandidate(base, n)
		err := accounts.CreateAccount(ctx, a)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			log.Error("failed to create account", slog.Any("error", err))
			return domain.Account{}, internal("Could not create account.", err)
		}
	}

	log.Warn("no free slug", slog.String("base", base), slog.Int("attempts", MaxSlugAttempts))
	return domain.Account{}, conflict(domain.CodeSlugUnavailable, "No free account slug is available for this name.")
}

// deleteAccount is the compensating action for a half-built account.
func deleteAccount(ctx context.Context, accounts store.Accounts, id string) {
	if err := accounts.DeleteAccount(context.WithoutCancel(ctx), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error("failed to roll back account",
			slog.String("account_id", id),
			slog.Any("error", err),
		)
	}
}
