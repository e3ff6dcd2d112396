package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
)

// TargetState is a consolidated view of one email across the identity
// provider and the relational store.
type TargetState struct {
	Email                      string
	ProfileID                  string
	IdentityID                 string
	IsEmailConfirmed           bool
	ActiveMembershipCount      int
	ActiveMembershipAccountID  string   // first active membership, oldest
	ActiveMembershipAccountIDs []string // every active membership
	CanDeleteGhost             bool
}

func (t TargetState) HasIdentity() bool { return t.IdentityID != "" }
func (t TargetState) HasProfile() bool  { return t.ProfileID != "" }

// ActiveIn reports whether the target holds an ACTIVE membership in accountID.
func (t TargetState) ActiveIn(accountID string) bool {
	return slices.Contains(t.ActiveMembershipAccountIDs, accountID)
}

// UserID is the identity id when known, else the profile id.
func (t TargetState) UserID() string {
	if t.IdentityID != "" {
		return t.IdentityID
	}
	return t.ProfileID
}

// canDeleteGhost holds only for an existing, unconfirmed identity that
// nobody actively uses.
func canDeleteGhost(hasIdentity, confirmed bool, activeMemberships int) bool {
	return hasIdentity && !confirmed && activeMemberships == 0
}

// TargetResolver builds TargetState. It has no side effects.
type TargetResolver struct {
	Store    store.Store
	Identity identity.Gateway
	Lookup   identity.EmailLookup
}

// Resolve expects a normalized email. Missing profiles or identities are
// absence, not errors; any other lookup failure is returned.
func (r *TargetResolver) Resolve(ctx context.Context, email string) (TargetState, error) {
	st := TargetState{Email: email}

	// 1. Profile by case-insensitive email
	p, err := r.Store.Profiles().GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		st.ProfileID = p.ID
	case !errors.Is(err, store.ErrNotFound):
		return TargetState{}, fmt.Errorf("resolve profile: %w", err)
	}

	// 2. Identity by profile id, else by scanning for the email
	if st.ProfileID != "" {
		id, err := r.Identity.GetIdentityByID(ctx, st.ProfileID)
		switch {
		case err == nil:
			st.IdentityID = id.ID
			st.IsEmailConfirmed = id.IsConfirmed()
		case !errors.Is(err, identity.ErrNotFound):
			return TargetState{}, fmt.Errorf("resolve identity %s: %w", st.ProfileID, err)
		}
	}
	if st.IdentityID == "" {
		lookup := r.Lookup
		if lookup == nil {
			lookup = identity.LookupFor(r.Identity)
		}
		id, err := lookup.FindByEmail(ctx, email)
		switch {
		case err == nil:
			st.IdentityID = id.ID
			st.IsEmailConfirmed = id.IsConfirmed()
		case !errors.Is(err, identity.ErrNotFound):
			return TargetState{}, fmt.Errorf("resolve identity by email: %w", err)
		}
	}

	// 3. Active memberships of whoever we found
	if uid := st.UserID(); uid != "" {
		ms, err := r.Store.Memberships().ListActiveByUser(ctx, uid)
		if err != nil {
			return TargetState{}, fmt.Errorf("resolve memberships: %w", err)
		}
		for _, m := range ms {
			st.ActiveMembershipAccountIDs = append(st.ActiveMembershipAccountIDs, m.AccountID)
		}
		st.ActiveMembershipCount = len(ms)
		if len(ms) > 0 {
			st.ActiveMembershipAccountID = ms[0].AccountID
		}
	}

	st.CanDeleteGhost = canDeleteGhost(st.HasIdentity(), st.IsEmailConfirmed, st.ActiveMembershipCount)
	return st, nil
}
