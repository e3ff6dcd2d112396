package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

const DefaultInviteTTL = 7 * 24 * time.Hour

type InvitationService struct {
	Store    store.Store
	Authz    *Authorizer
	Resolver *TargetResolver
	Reaper   *GhostReaper
	Sender   *InviteSender
	Audit    *Auditor

	// InviteRedirectURL is the validated accept-invite link target.
	InviteRedirectURL string
	InviteTTL         time.Duration
	Now               func() time.Time
}

type CreateInvitationInput struct {
	Caller    Caller
	AccountID string
	Email     string
	Role      domain.Role
	FullName  string
}

type RevokeInvitationInput struct {
	Caller       Caller
	InvitationID string
}

type ResendInvitationInput struct {
	Caller       Caller
	InvitationID string
}

// InvitationResult describes a completed invitation operation. A result
// with WarningCode set succeeded in the store but the email did not go out.
type InvitationResult struct {
	Code         domain.Code
	Message      string
	Invitation   domain.Invitation
	ReplacedID   string // resend: the revoked predecessor
	EmailSent    bool
	Attempts     int
	DeletedGhost bool
	WarningCode  domain.Code
	ErrorMessage string
	AuditError   string
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) ttl() time.Duration {
	if s.InviteTTL > 0 {
		return s.InviteTTL
	}
	return DefaultInviteTTL
}

// Create issues a PENDING invitation and sends the invite email.
func (s *InvitationService) Create(ctx context.Context, in CreateInvitationInput) (InvitationResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", in.AccountID))
	email := domain.NormalizeEmail(in.Email)

	// 1. Validate input
	if !domain.ValidEmail(email) {
		return InvitationResult{}, validationError(domain.CodeValidationFailed, "A valid email address is required.")
	}
	if !in.Role.Valid() {
		return InvitationResult{}, validationError(domain.CodeValidationFailed, "Role must be ADMIN, DISPATCH or VIEWER.")
	}

	audit := func(code domain.Code, inv domain.Invitation, extra map[string]any) string {
		meta := map[string]any{"email": email, "role": string(in.Role), "result": string(code)}
		for k, v := range extra {
			meta[k] = v
		}
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: in.AccountID,
			Action:          domain.AuditInvitationCreate,
			Resource:        domain.ResourceInvitation,
			ResourceID:      inv.ID,
			Meta:            meta,
		})
	}

	// 2. Authorise before touching the account so nothing leaks
	_, ok, err := s.Authz.CanAdminAccount(ctx, in.Caller, in.AccountID)
	if err != nil {
		log.Error("failed to authorise invitation create", slog.Any("error", err))
		ierr := internal("Authorisation check failed.", err)
		return InvitationResult{}, withAudit(ierr, audit(ierr.Code, domain.Invitation{}, nil))
	}
	if !ok {
		log.Warn("invitation create forbidden", slog.String("caller", in.Caller.UserID))
		ferr := forbidden("You cannot invite users to this account.")
		return InvitationResult{}, withAudit(ferr, audit(ferr.Code, domain.Invitation{}, nil))
	}

	// 3. Account must exist and be usable
	if err := s.requireActiveAccount(ctx, in.AccountID); err != nil {
		return InvitationResult{}, withAudit(err, audit(err.Code, domain.Invitation{}, nil))
	}

	// 4. Target must not already be a real user
	target, err := s.Resolver.Resolve(ctx, email)
	if err != nil {
		log.Error("failed to resolve invitation target", slog.Any("error", err))
		terr := transient("Could not check the invited email.", err)
		return InvitationResult{}, withAudit(terr, audit(terr.Code, domain.Invitation{}, nil))
	}
	if blocker := targetBlocker(target, in.AccountID); blocker != nil {
		log.Warn("invitation create rejected", slog.String("code", string(blocker.Code)))
		return InvitationResult{}, withAudit(blocker, audit(blocker.Code, domain.Invitation{}, nil))
	}

	// 5. Write the PENDING row
	inv, cerr := s.insertPending(ctx, pendingInvitation{
		AccountID: in.AccountID,
		Email:     email,
		Role:      in.Role,
		InvitedBy: in.Caller.UserID,
		Meta:      domain.InvitationMeta{Source: domain.SourceAdminInvite, FullName: in.FullName},
	})
	if cerr != nil {
		return InvitationResult{}, withAudit(cerr, audit(cerr.Code, domain.Invitation{}, nil))
	}

	// 6. Send, rolling back on a known-unreachable email
	res, derr := s.deliver(ctx, inv)
	if derr != nil {
		return InvitationResult{}, withAudit(derr, audit(derr.Code, inv, deliveryMeta(res)))
	}
	res.Code = domain.CodeInviteCreated
	res.Message = "Invitation created."
	res.AuditError = audit(res.Code, res.Invitation, deliveryMeta(res))
	return res, nil
}

// Revoke moves a PENDING invitation to REVOKED. Of two concurrent revokes,
// or a revoke racing a resend, exactly one wins.
func (s *InvitationService) Revoke(ctx context.Context, in RevokeInvitationInput) (InvitationResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("invitation_id", in.InvitationID))

	// 1. Load and authorise
	inv, err := s.loadAuthorised(ctx, in.Caller, in.InvitationID)
	if err != nil {
		return InvitationResult{}, s.auditRejected(ctx, in.Caller, domain.AuditInvitationRevoke, in.InvitationID, err)
	}

	audit := func(code domain.Code) string {
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: inv.AccountID,
			Action:          domain.AuditInvitationRevoke,
			Resource:        domain.ResourceInvitation,
			ResourceID:      inv.ID,
			Meta:            map[string]any{"email": inv.Email, "role": string(inv.Role), "result": string(code)},
		})
	}

	// 2. Compare-and-swap on PENDING
	err = s.Store.Invitations().TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationRevoked,
		domain.InvitationMeta{RevokedBy: in.Caller.UserID, RevokeReason: domain.RevokeReasonAdmin})
	if errors.Is(err, store.ErrPreconditionFailed) || errors.Is(err, store.ErrNotFound) {
		log.Warn("revoke lost: invitation not pending")
		cerr := conflict(domain.CodeInviteNotPending, "Invitation is no longer pending.")
		return InvitationResult{}, withAudit(cerr, audit(cerr.Code))
	}
	if err != nil {
		log.Error("failed to revoke invitation", slog.Any("error", err))
		ierr := internal("Could not revoke invitation.", err)
		return InvitationResult{}, withAudit(ierr, audit(ierr.Code))
	}

	inv.Status = domain.InvitationRevoked
	log.Info("invitation revoked", slog.String("by", in.Caller.UserID))
	return InvitationResult{
		Code:       domain.CodeInviteRevoked,
		Message:    "Invitation revoked.",
		Invitation: inv,
		AuditError: audit(domain.CodeInviteRevoked),
	}, nil
}

// Resend revokes a PENDING invitation and issues a fresh one to the same
// email, with the same blocker handling as Create.
func (s *InvitationService) Resend(ctx context.Context, in ResendInvitationInput) (InvitationResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("invitation_id", in.InvitationID))

	// 1. Load and authorise
	old, err := s.loadAuthorised(ctx, in.Caller, in.InvitationID)
	if err != nil {
		return InvitationResult{}, s.auditRejected(ctx, in.Caller, domain.AuditInvitationResend, in.InvitationID, err)
	}

	audit := func(code domain.Code, newID string, extra map[string]any) string {
		meta := map[string]any{"email": old.Email, "role": string(old.Role), "result": string(code), "replaced_id": old.ID}
		for k, v := range extra {
			meta[k] = v
		}
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: old.AccountID,
			Action:          domain.AuditInvitationResend,
			Resource:        domain.ResourceInvitation,
			ResourceID:      newID,
			Meta:            meta,
		})
	}

	if old.Status != domain.InvitationPending {
		cerr := conflict(domain.CodeInviteNotPending, "Only pending invitations can be resent.")
		return InvitationResult{}, withAudit(cerr, audit(cerr.Code, old.ID, nil))
	}
	if err := s.requireActiveAccount(ctx, old.AccountID); err != nil {
		return InvitationResult{}, withAudit(err, audit(err.Code, old.ID, nil))
	}

	// 2. Classify the target once, up front
	target, rerr := s.Resolver.Resolve(ctx, old.Email)
	if rerr != nil {
		log.Error("failed to resolve resend target", slog.Any("error", rerr))
		terr := transient("Could not check the invited email.", rerr)
		return InvitationResult{}, withAudit(terr, audit(terr.Code, old.ID, nil))
	}
	if blocker := targetBlocker(target, old.AccountID); blocker != nil {
		log.Warn("resend blocked", slog.String("code", string(blocker.Code)))
		blocker = blocker.With("email_sent", false)
		return InvitationResult{}, withAudit(blocker, audit(blocker.Code, old.ID, nil))
	}

	// 3. Retire the old row; this is the serialisation point against Revoke
	err = s.Store.Invitations().TransitionStatus(ctx, old.ID, domain.InvitationPending, domain.InvitationRevoked,
		domain.InvitationMeta{RevokedBy: in.Caller.UserID, RevokeReason: domain.RevokeReasonResent})
	if errors.Is(err, store.ErrPreconditionFailed) || errors.Is(err, store.ErrNotFound) {
		log.Warn("resend lost: invitation not pending")
		cerr := conflict(domain.CodeInviteNotPending, "Invitation is no longer pending.")
		return InvitationResult{}, withAudit(cerr, audit(cerr.Code, old.ID, nil))
	}
	if err != nil {
		log.Error("failed to retire invitation", slog.Any("error", err))
		ierr := internal("Could not resend invitation.", err)
		return InvitationResult{}, withAudit(ierr, audit(ierr.Code, old.ID, nil))
	}

	// 4. The previous send left an unconfirmed identity behind; clear it so
	// the provider issues a fresh link instead of failing as a duplicate.
	deletedGhost := false
	if target.CanDeleteGhost {
		deletedGhost, err = s.Reaper.Reap(ctx, target)
		if err != nil {
			terr := transient("Could not clean up the previous invite.", err)
			return InvitationResult{}, withAudit(terr, audit(terr.Code, old.ID, nil))
		}
	}

	// 5. Fresh row, same provenance
	meta := old.Meta
	meta.ResentFrom = old.ID
	meta.ReplacedBy, meta.RevokedBy, meta.RevokeReason = "", "", ""
	meta.BlockerCode, meta.FailureMessage, meta.EmailAttempts = "", "", 0
	inv, cerr := s.insertPending(ctx, pendingInvitation{
		AccountID: old.AccountID,
		Email:     old.Email,
		Role:      old.Role,
		InvitedBy: in.Caller.UserID,
		Meta:      meta,
	})
	if cerr != nil {
		return InvitationResult{}, withAudit(cerr, audit(cerr.Code, old.ID, nil))
	}
	if err := s.Store.Invitations().TransitionStatus(ctx, old.ID, domain.InvitationRevoked, domain.InvitationRevoked,
		domain.InvitationMeta{ReplacedBy: inv.ID}); err != nil {
		log.Warn("failed to link replaced invitation", slog.Any("error", err))
	}

	// 6. Send
	res, derr := s.deliver(ctx, inv)
	res.DeletedGhost = res.DeletedGhost || deletedGhost
	if derr != nil {
		return InvitationResult{}, withAudit(derr.With("replaced_id", old.ID), audit(derr.Code, inv.ID, deliveryMeta(res)))
	}
	res.Code = domain.CodeInviteResent
	res.Message = "Invitation resent."
	res.ReplacedID = old.ID
	res.AuditError = audit(res.Code, inv.ID, deliveryMeta(res))
	return res, nil
}

// auditRejected records a revoke or resend that failed before the
// invitation could be loaded for the caller.
func (s *InvitationService) auditRejected(ctx context.Context, c Caller, action, id string, err error) error {
	e := asError(err)
	return withAudit(e, s.Audit.Record(ctx, domain.AuditEntry{
		AdminUserID: c.UserID,
		Action:      action,
		Resource:    domain.ResourceInvitation,
		ResourceID:  id,
		Meta:        map[string]any{"result": string(e.Code)},
	}))
}

// loadAuthorised fetches an invitation for a caller allowed to administer
// its account. Callers without rights see the same error as for a missing id.
func (s *InvitationService) loadAuthorised(ctx context.Context, c Caller, id string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, notFound(domain.CodeInviteNotFound, "Invitation not found.")
	}
	if err != nil {
		log.Error("failed to load invitation", slog.Any("error", err))
		return domain.Invitation{}, internal("Could not load invitation.", err)
	}

	_, ok, err := s.Authz.CanAdminAccount(ctx, c, inv.AccountID)
	if err != nil {
		return domain.Invitation{}, internal("Authorisation check failed.", err)
	}
	if !ok {
		log.Warn("invitation access forbidden", slog.String("caller", c.UserID), slog.String("invitation_id", id))
		return domain.Invitation{}, notFound(domain.CodeInviteNotFound, "Invitation not found.")
	}
	return inv, nil
}

func (s *InvitationService) requireActiveAccount(ctx context.Context, accountID string) *Error {
	a, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(domain.CodeAccountNotFound, "Account not found.")
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load account", slog.Any("error", err))
		return internal("Could not load account.", err)
	}
	if a.Status != domain.AccountActive {
		return conflict(domain.CodeAccountNotActive, "Account is "+string(a.Status)+".")
	}
	return nil
}

// targetBlocker returns the conflict that stops an invitation of target into
// accountID before any row is written, or nil.
func targetBlocker(t TargetState, accountID string) *Error {
	switch {
	case t.ActiveIn(accountID):
		return conflict(domain.CodeUserAlreadyActiveInAccount, "This user is already an active member of the account.")
	case t.ActiveMembershipCount > 0:
		return conflict(domain.CodeUserAlreadyActiveInAnotherAccount, "This user is already active in another account.")
	case t.IsEmailConfirmed:
		return conflict(domain.CodeConfirmedUserRequiresManualAction, "This email belongs to a confirmed user; add them manually.")
	}
	return nil
}

type pendingInvitation struct {
	AccountID string
	Email     string
	Role      domain.Role
	InvitedBy string
	Meta      domain.InvitationMeta
}

// insertPending writes a PENDING invitation. An expired PENDING row for the
// same pair is retired first; a live one is a conflict.
func (s *InvitationService) insertPending(ctx context.Context, p pendingInvitation) (domain.Invitation, *Error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", p.AccountID))
	now := s.now()

	existing, err := s.Store.Invitations().GetPending(ctx, p.AccountID, p.Email)
	switch {
	case err == nil && existing.IsExpiredAt(now):
		if err := s.expire(ctx, existing.ID); err != nil {
			return domain.Invitation{}, internal("Could not expire the previous invitation.", err)
		}
	case err == nil:
		return domain.Invitation{}, conflict(domain.CodeInviteAlreadyPending, "A pending invitation already exists for this email.").
			With("invitation_id", existing.ID)
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to check pending invitation", slog.Any("error", err))
		return domain.Invitation{}, internal("Could not check pending invitations.", err)
	}

	inv := domain.Invitation{
		ID:        idx.NewAt(now).String(),
		AccountID: p.AccountID,
		Email:     p.Email,
		Role:      p.Role,
		Status:    domain.InvitationPending,
		InvitedBy: p.InvitedBy,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
		UpdatedAt: now,
		Meta:      p.Meta,
	}
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// lost a race with a concurrent create
			return domain.Invitation{}, conflict(domain.CodeInviteAlreadyPending, "A pending invitation already exists for this email.")
		}
		log.Error("failed to create invitation", slog.Any("error", err))
		return domain.Invitation{}, internal("Could not create invitation.", err)
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("source", string(inv.Meta.Source)),
		slog.String("role", string(inv.Role)),
	)
	return inv, nil
}

// expire lazily retires a PENDING row past its expiry. Losing the race to
// another writer is fine.
func (s *InvitationService) expire(ctx context.Context, id string) error {
	err := s.Store.Invitations().TransitionStatus(ctx, id, domain.InvitationPending, domain.InvitationExpired, domain.InvitationMeta{})
	if err != nil && !errors.Is(err, store.ErrPreconditionFailed) {
		return err
	}
	return nil
}

// deliver sends the invite for a PENDING row. When the email is known to be
// unreachable this way the row is rolled back to REVOKED and a conflict is
// returned; any other send failure leaves it PENDING with a warning.
func (s *InvitationService) deliver(ctx context.Context, inv domain.Invitation) (InvitationResult, *Error) {
	log := slogx.FromContext(ctx).With(slog.String("invitation_id", inv.ID))

	send, err := s.Sender.Send(ctx, SendRequest{
		Email:       inv.Email,
		RedirectURL: s.InviteRedirectURL,
		Data: map[string]any{
			"account_id":    inv.AccountID,
			"invitation_id": inv.ID,
			"role":          string(inv.Role),
			"source":        string(inv.Meta.Source),
		},
	})
	res := InvitationResult{
		Invitation:   inv,
		EmailSent:    send.EmailSent,
		Attempts:     send.Attempts,
		DeletedGhost: send.DeletedGhost,
		ErrorMessage: send.ErrorMessage,
	}
	if err != nil {
		// Resolution or cleanup broke mid-send; the row stays retryable.
		log.Error("invite send aborted", slog.Any("error", err))
		res.ErrorMessage = err.Error()
		res.WarningCode = domain.CodeInviteEmailNotSent
		return res, nil
	}

	if send.EmailSent {
		return res, nil
	}

	if !send.Blocked() {
		res.WarningCode = domain.CodeInviteEmailNotSent
		return res, nil
	}

	// Compensate: never leave a PENDING row for an email we know we cannot reach.
	code, msg := send.BlockerCode, send.BlockerMessage
	if code == "" {
		code, msg = domain.CodeEmailAlreadyRegistered, "This email is already registered."
	}
	patch := domain.InvitationMeta{
		RevokeReason:   domain.RevokeReasonSendFailure,
		BlockerCode:    code,
		FailureMessage: send.ErrorMessage,
		EmailAttempts:  send.Attempts,
	}
	if err := s.Store.Invitations().TransitionStatus(ctx, inv.ID, domain.InvitationPending, domain.InvitationRevoked, patch); err != nil &&
		!errors.Is(err, store.ErrPreconditionFailed) {
		log.Error("failed to roll back blocked invitation", slog.Any("error", err))
		return res, internal("Invitation could not be sent or rolled back.", err)
	}
	res.Invitation.Status = domain.InvitationRevoked

	log.Warn("invitation rolled back", slog.String("blocker", string(code)))
	return res, conflict(code, msg).
		With("invitation_id", inv.ID).
		With("email_sent", false).
		With("attempts", send.Attempts).
		With("deleted_ghost", send.DeletedGhost).
		With("error_message", send.ErrorMessage)
}

func deliveryMeta(r InvitationResult) map[string]any {
	m := map[string]any{
		"email_sent":    r.EmailSent,
		"attempts":      r.Attempts,
		"deleted_ghost": r.DeletedGhost,
	}
	if r.WarningCode != "" {
		m["warning"] = string(r.WarningCode)
	}
	if r.ErrorMessage != "" {
		m["error_message"] = r.ErrorMessage
	}
	return m
}
