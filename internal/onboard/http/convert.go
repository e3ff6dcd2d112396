package http

import (
	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
)

func toAccount(a domain.Account) onboardsdk.Account {
	return onboardsdk.Account{
		ID:             a.ID,
		Name:           a.Name,
		Slug:           a.Slug,
		Status:         string(a.Status),
		TrialState:     string(a.TrialState),
		TrialStartedAt: a.TrialStartedAt,
		TrialEndsAt:    a.TrialEndsAt,
		ArchivedAt:     a.ArchivedAt,
		ArchivedBy:     a.ArchivedBy,
		CreatedAt:      a.CreatedAt,
	}
}

func toInvitation(inv domain.Invitation) onboardsdk.Invitation {
	return onboardsdk.Invitation{
		ID:         inv.ID,
		AccountID:  inv.AccountID,
		Email:      inv.Email,
		Role:       string(inv.Role),
		Status:     string(inv.Status),
		Source:     string(inv.Meta.Source),
		InvitedBy:  inv.InvitedBy,
		ResentFrom: inv.Meta.ResentFrom,
		ExpiresAt:  inv.ExpiresAt,
		CreatedAt:  inv.CreatedAt,
	}
}

func toMembership(m domain.Membership) onboardsdk.Membership {
	return onboardsdk.Membership{
		ID:        m.ID,
		AccountID: m.AccountID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Status:    string(m.Status),
	}
}
