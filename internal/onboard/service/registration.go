package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/lock"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/cryptox"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

const (
	DefaultSignupIPLimit    = 5
	DefaultSignupEmailLimit = 3
	DefaultSignupWindow     = time.Hour

	minNameLength = 2
	maxUserAgent  = 512
)

// seededMessage is shared by real and decoy successes.
const seededMessage = "Check your inbox to finish setting up your account."

// RegistrationService is the public self-service trial signup.
type RegistrationService struct {
	Store       store.Store
	Resolver    *TargetResolver
	Reaper      *GhostReaper
	Invitations *InvitationService
	Audit       *Auditor

	// Locker is optional; without it registrations for one email are not
	// serialised and the unique indexes are the only guard.
	Locker lock.Locker

	// Pepper keys the IP hashes stored in the attempt log.
	Pepper cryptox.Pepper

	Enabled     bool
	IPLimit     int
	EmailLimit  int
	Window      time.Duration
	TrialLength time.Duration
	Now         func() time.Time
}

type RegisterInput struct {
	FullName    string
	CompanyName string
	Email       string
	Honeypot    string
	ClientIP    string
	UserAgent   string
}

type RegisterResult struct {
	Code         domain.Code
	Message      string
	AccountID    string
	InvitationID string
	EmailSent    bool
	Replayed     bool
	AuditError   string
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func orDefault[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// Register runs the signup gate. Whatever the outcome, one attempt row is
// logged; that log is what the rate limiter counts.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	email := domain.NormalizeEmail(in.Email)
	ipHash := ""
	if in.ClientIP != "" {
		ipHash = s.Pepper.Fingerprint(in.ClientIP)
	}
	log := slogx.FromContext(ctx).With(slog.String("email", email))
	ctx = slogx.WithContext(ctx, log)

	res, attempt, err := s.register(ctx, in, email, ipHash)

	ua := in.UserAgent
	if len(ua) > maxUserAgent {
		ua = ua[:maxUserAgent]
	}
	now := s.now()
	rec := domain.SignupAttempt{
		ID:         idx.NewAt(now).String(),
		EmailNorm:  email,
		IPHash:     ipHash,
		UserAgent:  ua,
		ResultCode: attempt,
		CreatedAt:  now,
	}
	if rerr := s.Store.SignupAttempts().Record(context.WithoutCancel(ctx), rec); rerr != nil {
		log.Error("failed to log signup attempt", slog.String("result", string(attempt)), slog.Any("error", rerr))
	}
	return res, err
}

// register returns the public result, the code to log for the attempt and
// an error. The logged code may differ from the public one.
func (s *RegistrationService) register(ctx context.Context, in RegisterInput, email, ipHash string) (RegisterResult, domain.Code, error) {
	log := slogx.FromContext(ctx)

	if !s.Enabled {
		return RegisterResult{}, domain.CodeRegistrationDisabled,
			&Error{Kind: KindAuthorization, Code: domain.CodeRegistrationDisabled, Message: "Self-service registration is disabled."}
	}

	// 1. Honeypot: look like success, do nothing
	if strings.TrimSpace(in.Honeypot) != "" {
		log.Warn("signup honeypot triggered")
		return RegisterResult{Code: domain.CodeRegistrationSeeded, Message: seededMessage, EmailSent: true}, domain.CodeHoneypot, nil
	}

	// 2. Validate
	fullName, company := strings.TrimSpace(in.FullName), strings.TrimSpace(in.CompanyName)
	switch {
	case len(fullName) < minNameLength:
		return RegisterResult{}, domain.CodeValidationFailed, validationError(domain.CodeValidationFailed, "Full name must be at least 2 characters.")
	case len(company) < minNameLength:
		return RegisterResult{}, domain.CodeValidationFailed, validationError(domain.CodeValidationFailed, "Company name must be at least 2 characters.")
	case !domain.ValidEmail(email):
		return RegisterResult{}, domain.CodeValidationFailed, validationError(domain.CodeValidationFailed, "A valid email address is required.")
	}

	// 3. Durable rate limit over the attempt log
	if err := s.checkRateLimit(ctx, email, ipHash); err != nil {
		return RegisterResult{}, CodeOf(err), err
	}

	// 4. Serialise on the email when we can
	release := s.acquire(ctx, email)
	defer release()

	// 5. Existing real users cannot sign up again
	target, err := s.Resolver.Resolve(ctx, email)
	if err != nil {
		log.Error("failed to resolve signup target", slog.Any("error", err))
		return RegisterResult{}, domain.CodeIdentityError, transient("Could not check this email.", err)
	}
	if target.ActiveMembershipCount > 0 || target.IsEmailConfirmed {
		log.Warn("signup for registered email", slog.Int("active_memberships", target.ActiveMembershipCount))
		return RegisterResult{}, domain.CodeEmailAlreadyRegistered,
			conflict(domain.CodeEmailAlreadyRegistered, "This email is already registered. Try signing in or resetting your password.")
	}

	// 6. Clear a ghost and make sure it is really gone
	if target.CanDeleteGhost {
		if _, err := s.Reaper.Reap(ctx, target); err != nil {
			return RegisterResult{}, domain.CodeIdentityError, transient("Could not clean up a previous signup.", err)
		}
		if target, err = s.Resolver.Resolve(ctx, email); err != nil {
			return RegisterResult{}, domain.CodeIdentityError, transient("Could not check this email.", err)
		}
	}
	if target.HasIdentity() || target.HasProfile() {
		log.Warn("signup target still present after cleanup",
			slog.String("identity_id", target.IdentityID),
			slog.String("profile_id", target.ProfileID),
		)
		return RegisterResult{}, domain.CodeRegistrationConflict,
			conflict(domain.CodeRegistrationConflict, "This email cannot be registered right now.")
	}

	// 7. Pending invitations: stale ones expire, foreign ones win, ours replay
	replay, rerr := s.pendingFor(ctx, email)
	if rerr != nil {
		return RegisterResult{}, rerr.Code, rerr
	}
	if replay != nil {
		return s.replay(ctx, *replay)
	}

	// 8. New account, trial and ADMIN invitation
	return s.seed(ctx, fullName, company, email)
}

func (s *RegistrationService) checkRateLimit(ctx context.Context, email, ipHash string) error {
	log := slogx.FromContext(ctx)
	since := s.now().Add(-orDefault(s.Window, DefaultSignupWindow))

	limited := func(scope string) error {
		log.Warn("signup rate limited", slog.String("scope", scope))
		return &Error{Kind: KindRateLimited, Code: domain.CodeRateLimited, Message: "Too many signup attempts. Try again later."}
	}

	if ipHash != "" {
		n, err := s.Store.SignupAttempts().CountByIPSince(ctx, ipHash, since)
		if err != nil {
			log.Error("failed to count signup attempts", slog.Any("error", err))
			return internal("Could not check signup limits.", err)
		}
		if n >= orDefault(s.IPLimit, DefaultSignupIPLimit) {
			return limited("ip")
		}
	}

	n, err := s.Store.SignupAttempts().CountByEmailSince(ctx, email, since)
	if err != nil {
		log.Error("failed to count signup attempts", slog.Any("error", err))
		return internal("Could not check signup limits.", err)
	}
	if n >= orDefault(s.EmailLimit, DefaultSignupEmailLimit) {
		return limited("email")
	}
	return nil
}

// acquire takes the per-email advisory lock. It never fails; without a lock
// the request carries on unserialised.
func (s *RegistrationService) acquire(ctx context.Context, email string) func() {
	log := slogx.FromContext(ctx)
	if s.Locker == nil {
		log.Warn("no advisory lock configured, signup not serialised")
		return func() {}
	}
	release, err := s.Locker.Acquire(ctx, "signup:"+email)
	if err != nil {
		log.Warn("advisory lock unavailable, signup not serialised", slog.Any("error", err))
		return func() {}
	}
	return release
}

// pendingFor returns the live self-service invitation for email to replay,
// or nil when a fresh signup may proceed.
func (s *RegistrationService) pendingFor(ctx context.Context, email string) (*domain.Invitation, *Error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	pending, err := s.Store.Invitations().ListPendingByEmail(ctx, email)
	if err != nil {
		log.Error("failed to list pending invitations", slog.Any("error", err))
		return nil, internal("Could not check pending invitations.", err)
	}

	var replay *domain.Invitation
	for i := range pending {
		inv := pending[i]
		if inv.IsExpiredAt(now) {
			if err := s.Invitations.expire(ctx, inv.ID); err != nil {
				return nil, internal("Could not expire a stale invitation.", err)
			}
			log.Debug("expired stale invitation", slog.String("invitation_id", inv.ID))
			continue
		}
		if inv.Meta.Source != domain.SourceSelfService {
			log.Warn("signup blocked by pending invitation",
				slog.String("invitation_id", inv.ID),
				slog.String("source", string(inv.Meta.Source)),
			)
			return nil, conflict(domain.CodeRegistrationConflict,
				"This email already has a pending invitation. Check your inbox or ask your administrator.")
		}
		if replay == nil {
			replay = &inv
		}
	}
	return replay, nil
}

// replay re-sends the invite of an earlier signup instead of seeding again.
// The ghost reaped in step 6 invalidated the first link.
func (s *RegistrationService) replay(ctx context.Context, inv domain.Invitation) (RegisterResult, domain.Code, error) {
	log := slogx.FromContext(ctx).With(slog.String("invitation_id", inv.ID))

	res, derr := s.Invitations.deliver(ctx, inv)
	if derr != nil {
		if derr.Kind == KindConflict {
			deleteAccount(ctx, s.Store.Accounts(), inv.AccountID)
		}
		return RegisterResult{}, derr.Code, derr
	}

	auditErr := s.audit(ctx, inv.AccountID, inv.ID, domain.CodeRegistrationReplayed, res)
	log.Info("signup replayed", slog.String("account_id", inv.AccountID), slog.Bool("email_sent", res.EmailSent))
	return RegisterResult{
		Code:         domain.CodeRegistrationSeeded,
		Message:      seededMessage,
		AccountID:    inv.AccountID,
		InvitationID: inv.ID,
		EmailSent:    res.EmailSent,
		Replayed:     true,
		AuditError:   auditErr,
	}, domain.CodeRegistrationReplayed, nil
}

func (s *RegistrationService) seed(ctx context.Context, fullName, company, email string) (RegisterResult, domain.Code, error) {
	log := slogx.FromContext(ctx)
	now := s.now()
	end := now.Add(orDefault(s.TrialLength, DefaultTrialLength))

	acct, aerr := createAccount(ctx, s.Store.Accounts(), domain.Account{
		Name:           company,
		Status:         domain.AccountActive,
		TrialState:     domain.TrialActive,
		TrialStartedAt: &now,
		TrialEndsAt:    &end,
	}, now)
	if aerr != nil {
		return RegisterResult{}, aerr.Code, aerr
	}

	inv, ierr := s.Invitations.insertPending(ctx, pendingInvitation{
		AccountID: acct.ID,
		Email:     email,
		Role:      domain.RoleAdmin,
		Meta:      domain.InvitationMeta{Source: domain.SourceSelfService, FullName: fullName},
	})
	if ierr != nil {
		deleteAccount(ctx, s.Store.Accounts(), acct.ID)
		return RegisterResult{}, ierr.Code, ierr
	}

	res, derr := s.Invitations.deliver(ctx, inv)
	if derr != nil {
		// The invitation is already rolled back; the trial account goes too.
		if derr.Kind == KindConflict {
			deleteAccount(ctx, s.Store.Accounts(), acct.ID)
		}
		auditErr := s.audit(ctx, acct.ID, inv.ID, derr.Code, res)
		return RegisterResult{}, derr.Code, withAudit(derr, auditErr)
	}

	auditErr := s.audit(ctx, acct.ID, inv.ID, domain.CodeRegistrationSeeded, res)
	log.Info("signup seeded",
		slog.String("account_id", acct.ID),
		slog.String("slug", acct.Slug),
		slog.String("invitation_id", inv.ID),
		slog.Bool("email_sent", res.EmailSent),
	)
	return RegisterResult{
		Code:         domain.CodeRegistrationSeeded,
		Message:      seededMessage,
		AccountID:    acct.ID,
		InvitationID: inv.ID,
		EmailSent:    res.EmailSent,
		AuditError:   auditErr,
	}, domain.CodeRegistrationSeeded, nil
}

func (s *RegistrationService) audit(ctx context.Context, accountID, invitationID string, code domain.Code, res InvitationResult) string {
	meta := deliveryMeta(res)
	meta["invitation_id"] = invitationID
	meta["result"] = string(code)
	return s.Audit.Record(ctx, domain.AuditEntry{
		TargetAccountID: accountID,
		Action:          domain.AuditRegistration,
		Resource:        domain.ResourceAccount,
		ResourceID:      accountID,
		Meta:            meta,
	})
}

