package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

type MembershipService struct {
	Store store.Store
	Authz *Authorizer
	Audit *Auditor
}

type ChangeRoleInput struct {
	Caller       Caller
	MembershipID string
	Role         domain.Role
	Override     bool
}

type RemoveMembershipInput struct {
	Caller       Caller
	MembershipID string
	Override     bool
}

type MembershipResult struct {
	Code       domain.Code
	Message    string
	Membership domain.Membership
	PrevRole   domain.Role
	Overridden bool
	AuditError string
}

func (s *MembershipService) ChangeRole(ctx context.Context, in ChangeRoleInput) (MembershipResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("membership_id", in.MembershipID))

	if !in.Role.Valid() {
		return MembershipResult{}, validationError(domain.CodeValidationFailed, "Role must be ADMIN, DISPATCH or VIEWER.")
	}

	// 1. Load, authorise and evaluate the rules
	change, err := s.prepare(ctx, in.Caller, in.MembershipID, in.Override)
	if err != nil {
		return MembershipResult{}, err
	}
	change.NewRole = in.Role
	m := change.Target
	prev := m.Role

	audit := func(code domain.Code) string {
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: m.AccountID,
			Action:          domain.AuditMembershipRole,
			Resource:        domain.ResourceMembership,
			ResourceID:      m.ID,
			Meta: map[string]any{
				"user_id":     m.UserID,
				"before_role": string(prev),
				"after_role":  string(in.Role),
				"override":    change.overrides(),
				"result":      string(code),
			},
		})
	}

	if err := CheckMembershipChange(change); err != nil {
		log.Warn("role change rejected", slog.String("code", string(CodeOf(err))))
		return MembershipResult{}, withAudit(asError(err), audit(CodeOf(err)))
	}

	// 2. Guarded write re-checks the admin count atomically
	err = s.Store.Memberships().UpdateRoleGuarded(ctx, m.ID, in.Role, MinOtherAdmins(change))
	switch {
	case errors.Is(err, store.ErrPreconditionFailed):
		log.Warn("role change lost last-admin race")
		return MembershipResult{}, withAudit(lastAccountAdmin(), audit(domain.CodeLastAccountAdminForbidden))
	case errors.Is(err, store.ErrNotFound):
		return MembershipResult{}, notFound(domain.CodeMembershipNotFound, "Membership not found.")
	case err != nil:
		log.Error("failed to update membership role", slog.Any("error", err))
		return MembershipResult{}, internal("Could not update membership.", err)
	}

	if change.overrides() && change.RemovesAdmin() && change.OtherAdmins == 0 {
		log.Warn("last account admin demoted by platform override", slog.String("account_id", m.AccountID))
	}

	m.Role = in.Role
	log.Info("membership role changed", slog.String("from", string(prev)), slog.String("to", string(in.Role)))
	return MembershipResult{
		Code:       domain.CodeMembershipUpdated,
		Message:    "Membership updated.",
		Membership: m,
		PrevRole:   prev,
		Overridden: change.overrides(),
		AuditError: audit(domain.CodeMembershipUpdated),
	}, nil
}

func (s *MembershipService) Remove(ctx context.Context, in RemoveMembershipInput) (MembershipResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("membership_id", in.MembershipID))

	change, err := s.prepare(ctx, in.Caller, in.MembershipID, in.Override)
	if err != nil {
		return MembershipResult{}, err
	}
	m := change.Target

	audit := func(code domain.Code) string {
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID:     in.Caller.UserID,
			TargetAccountID: m.AccountID,
			Action:          domain.AuditMembershipRemove,
			Resource:        domain.ResourceMembership,
			ResourceID:      m.ID,
			Meta: map[string]any{
				"user_id":     m.UserID,
				"before_role": string(m.Role),
				"override":    change.overrides(),
				"result":      string(code),
			},
		})
	}

	if err := CheckMembershipChange(change); err != nil {
		log.Warn("membership removal rejected", slog.String("code", string(CodeOf(err))))
		return MembershipResult{}, withAudit(asError(err), audit(CodeOf(err)))
	}

	err = s.Store.Memberships().DeleteGuarded(ctx, m.ID, MinOtherAdmins(change))
	switch {
	case errors.Is(err, store.ErrPreconditionFailed):
		log.Warn("membership removal lost last-admin race")
		return MembershipResult{}, withAudit(lastAccountAdmin(), audit(domain.CodeLastAccountAdminForbidden))
	case errors.Is(err, store.ErrNotFound):
		return MembershipResult{}, notFound(domain.CodeMembershipNotFound, "Membership not found.")
	case err != nil:
		log.Error("failed to delete membership", slog.Any("error", err))
		return MembershipResult{}, internal("Could not remove membership.", err)
	}

	log.Info("membership removed", slog.String("account_id", m.AccountID), slog.String("user_id", m.UserID))
	return MembershipResult{
		Code:       domain.CodeMembershipRemoved,
		Message:    "Membership removed.",
		Membership: m,
		PrevRole:   m.Role,
		Overridden: change.overrides(),
		AuditError: audit(domain.CodeMembershipRemoved),
	}, nil
}

// prepare loads the membership, checks the caller may administer its
// account and gathers the counts the guardrails need.
func (s *MembershipService) prepare(ctx context.Context, c Caller, id string, override bool) (MembershipChange, error) {
	log := slogx.FromContext(ctx)

	m, err := s.Store.Memberships().GetMembershipByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return MembershipChange{}, notFound(domain.CodeMembershipNotFound, "Membership not found.")
	}
	if err != nil {
		log.Error("failed to load membership", slog.Any("error", err))
		return MembershipChange{}, internal("Could not load membership.", err)
	}

	platform, ok, err := s.Authz.CanAdminAccount(ctx, c, m.AccountID)
	if err != nil {
		return MembershipChange{}, internal("Authorisation check failed.", err)
	}
	if !ok {
		log.Warn("membership access forbidden", slog.String("caller", c.UserID))
		return MembershipChange{}, notFound(domain.CodeMembershipNotFound, "Membership not found.")
	}

	targetPlatform := false
	p, err := s.Store.Profiles().GetProfileByID(ctx, m.UserID)
	switch {
	case err == nil:
		targetPlatform = p.IsPlatformAdmin()
	case !errors.Is(err, store.ErrNotFound):
		return MembershipChange{}, internal("Could not load member profile.", err)
	}

	admins, err := s.Store.Memberships().CountActiveAdmins(ctx, m.AccountID)
	if err != nil {
		return MembershipChange{}, internal("Could not count administrators.", err)
	}
	others := admins
	if m.IsActiveAdmin() {
		others--
	}

	return MembershipChange{
		Target:                m,
		OtherAdmins:           others,
		TargetIsPlatformAdmin: targetPlatform,
		CallerIsPlatformAdmin: platform,
		Override:              override,
	}, nil
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internal("Unexpected error.", err)
}
