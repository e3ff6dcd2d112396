package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

// ErrNotGhost is returned when the reaper is handed a target that is not
// provably safe to delete. It signals a caller bug.
var ErrNotGhost = errors.New("service: target is not a deletable ghost")

// GhostReaper deletes unconfirmed, unused identities along with their
// relational leftovers.
type GhostReaper struct {
	Store    store.Store
	Identity identity.Gateway
}

// Reap reports whether an identity was deleted. An identity that vanished
// before the delete is not an error. Any other delete failure is.
func (r *GhostReaper) Reap(ctx context.Context, t TargetState) (bool, error) {
	log := slogx.FromContext(ctx)

	if !t.CanDeleteGhost {
		log.Error("refusing to reap non-ghost identity",
			slog.String("email", t.Email),
			slog.String("identity_id", t.IdentityID),
			slog.Bool("confirmed", t.IsEmailConfirmed),
			slog.Int("active_memberships", t.ActiveMembershipCount),
		)
		return false, ErrNotGhost
	}

	// 1. Identity first; without it the leftovers are unreachable anyway.
	if err := r.Identity.DeleteIdentity(ctx, t.IdentityID); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			log.Debug("ghost identity already gone", slog.String("identity_id", t.IdentityID))
			return false, nil
		}
		log.Error("failed to delete ghost identity",
			slog.String("identity_id", t.IdentityID),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("delete ghost identity %s: %w", t.IdentityID, err)
	}

	// 2. Non-active memberships and the mirrored profile.
	if err := r.Store.Memberships().DeleteByUser(ctx, t.IdentityID); err != nil {
		return true, fmt.Errorf("delete ghost memberships: %w", err)
	}
	profiles := []string{t.IdentityID}
	if t.ProfileID != "" && t.ProfileID != t.IdentityID {
		profiles = append(profiles, t.ProfileID)
	}
	for _, id := range profiles {
		if err := r.Store.Profiles().DeleteProfile(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return true, fmt.Errorf("delete ghost profile: %w", err)
		}
	}

	log.Info("ghost identity reaped",
		slog.String("email", t.Email),
		slog.String("identity_id", t.IdentityID),
	)
	return true, nil
}
