package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

const (
	DefaultMaxRetries  = 2
	DefaultBaseBackoff = 250 * time.Millisecond
	DefaultMaxBackoff  = 2 * time.Second
)

type SendRequest struct {
	Email       string
	RedirectURL string
	Data        map[string]any

	// MaxRetries bounds ghost-cleanup retries; zero means DefaultMaxRetries.
	MaxRetries int
}

type SendResult struct {
	EmailSent         bool
	Attempts          int
	ErrorMessage      string
	DeletedGhost      bool
	AlreadyRegistered bool // last failure was the duplicate-registration class
	BlockerCode       domain.Code
	BlockerMessage    string
}

// Blocked reports whether the email cannot be invited without manual action
// or is known to be registered already.
func (r SendResult) Blocked() bool {
	return !r.EmailSent && (r.BlockerCode != "" || r.AlreadyRegistered)
}

// InviteSender sends invite emails. Only a duplicate-registration failure is
// retried, and only after a ghost identity was removed to make room.
type InviteSender struct {
	Identity identity.Gateway
	Resolver *TargetResolver
	Reaper   *GhostReaper

	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Sleep       func(time.Duration)
}

func (s *InviteSender) backoff(retry int) time.Duration {
	base, ceiling := s.BaseBackoff, s.MaxBackoff
	if base <= 0 {
		base = DefaultBaseBackoff
	}
	if ceiling <= 0 {
		ceiling = DefaultMaxBackoff
	}
	d := base << (retry - 1)
	if d <= 0 || d > ceiling {
		d = ceiling
	}
	return d
}

func (s *InviteSender) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Send returns an error only when re-resolving the target or reaping a ghost
// fails; every provider-side send failure is reported in the result.
func (s *InviteSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("email", req.Email))

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var res SendResult
	for {
		res.Attempts++

		// 1. Try the provider
		err := s.Identity.SendInvite(ctx, req.Email, req.RedirectURL, req.Data)
		if err == nil {
			res.EmailSent = true
			res.ErrorMessage = ""
			res.AlreadyRegistered = false
			log.Debug("invite email sent", slog.Int("attempts", res.Attempts))
			return res, nil
		}
		res.ErrorMessage = err.Error()

		// 2. Anything but a duplicate registration will not improve on retry
		if !identity.IsAlreadyRegistered(err) {
			log.Warn("invite send failed", slog.Int("attempts", res.Attempts), slog.Any("error", err))
			return res, nil
		}
		res.AlreadyRegistered = true

		// 3. Work out what the duplicate actually is
		state, err := s.Resolver.Resolve(ctx, req.Email)
		if err != nil {
			return res, err
		}
		if state.ActiveMembershipCount > 0 {
			res.BlockerCode = domain.CodeActiveMembershipExists
			res.BlockerMessage = "This email already has active access to an account."
			log.Warn("invite blocked", slog.String("blocker", string(res.BlockerCode)))
			return res, nil
		}
		if state.IsEmailConfirmed {
			res.BlockerCode = domain.CodeConfirmedUserRequiresManualAction
			res.BlockerMessage = "This email belongs to a confirmed user who is not linked to an account; add them manually."
			log.Warn("invite blocked", slog.String("blocker", string(res.BlockerCode)))
			return res, nil
		}

		retry := res.Attempts
		if retry > maxRetries || !state.CanDeleteGhost {
			log.Warn("invite send gave up",
				slog.Int("attempts", res.Attempts),
				slog.Bool("ghost", state.CanDeleteGhost),
			)
			return res, nil
		}

		// 4. Stale unconfirmed identity: remove it and try again
		deleted, err := s.Reaper.Reap(ctx, state)
		if err != nil {
			return res, err
		}
		if !deleted {
			return res, nil
		}
		res.DeletedGhost = true

		d := s.backoff(retry)
		log.Debug("ghost reaped, retrying invite", slog.Int("attempt", res.Attempts), slog.Duration("backoff", d))
		s.sleep(d)
	}
}
