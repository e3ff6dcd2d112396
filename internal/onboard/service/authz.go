package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
)

// Caller is the authenticated principal behind an administrative request.
type Caller struct {
	UserID string
	Email  string
}

// Authorizer answers the two questions every administrative operation asks.
// OwnerEmail, when set, is always treated as a platform administrator.
type Authorizer struct {
	Store      store.Store
	OwnerEmail string
}

func (a *Authorizer) IsPlatformAdmin(ctx context.Context, c Caller) (bool, error) {
	if c.UserID == "" {
		return false, nil
	}
	if a.OwnerEmail != "" && c.Email != "" && domain.NormalizeEmail(c.Email) == domain.NormalizeEmail(a.OwnerEmail) {
		return true, nil
	}

	p, err := a.Store.Profiles().GetProfileByID(ctx, c.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsPlatformAdmin(), nil
}

// CanAdminAccount reports whether c is a platform administrator or holds an
// ACTIVE ADMIN membership in accountID.
func (a *Authorizer) CanAdminAccount(ctx context.Context, c Caller, accountID string) (platform bool, ok bool, err error) {
	platform, err = a.IsPlatformAdmin(ctx, c)
	if err != nil || platform {
		return platform, platform, err
	}

	m, err := a.Store.Memberships().GetMembership(ctx, accountID, c.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return false, m.IsActiveAdmin(), nil
}
