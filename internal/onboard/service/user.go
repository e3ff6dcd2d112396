package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

const MinPasswordLength = 8

type UserService struct {
	Store    store.Store
	Authz    *Authorizer
	Identity identity.Gateway
	Audit    *Auditor

	// ResetRedirectURL is the validated reset-password link target.
	ResetRedirectURL string
}

type DeleteUserInput struct {
	Caller   Caller
	UserID   string
	Override bool // skip the last-account-admin rule
}

type ResetPasswordInput struct {
	Caller Caller
	Email  string
}

type UpdateCredentialsInput struct {
	Caller   Caller
	UserID   string
	Email    string
	Password string
}

type UserResult struct {
	Code        domain.Code
	Message     string
	UserID      string
	Email       string
	WarningCode domain.Code
	AuditError  string
}

// Delete removes a user from the identity provider and the relational store.
func (s *UserService) Delete(ctx context.Context, in DeleteUserInput) (UserResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("user_id", in.UserID))

	// 1. Platform administrators only
	platform, err := s.Authz.IsPlatformAdmin(ctx, in.Caller)
	if err != nil {
		return UserResult{}, internal("Authorisation check failed.", err)
	}
	if !platform {
		log.Warn("user delete forbidden", slog.String("caller", in.Caller.UserID))
		return UserResult{}, forbidden("Only platform administrators can delete users.")
	}

	audit := func(code domain.Code, email string) string {
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID: in.Caller.UserID,
			Action:      domain.AuditUserDelete,
			Resource:    domain.ResourceUser,
			ResourceID:  in.UserID,
			Meta:        map[string]any{"email": email, "override": in.Override, "result": string(code)},
		})
	}

	// 2. Find what exists of the user on both sides
	profile, hasProfile, err := s.profile(ctx, in.UserID)
	if err != nil {
		return UserResult{}, err
	}
	ident, err := s.Identity.GetIdentityByID(ctx, in.UserID)
	hasIdentity := err == nil
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		log.Error("failed to load identity", slog.Any("error", err))
		return UserResult{}, transient("Could not load the identity.", err)
	}
	if !hasProfile && !hasIdentity {
		return UserResult{}, notFound(domain.CodeUserNotFound, "User not found.")
	}
	email := profile.Email
	if email == "" {
		email = ident.Email
	}

	// 3. Guardrails
	if hasProfile && profile.IsPlatformAdmin() {
		n, err := s.Store.Profiles().CountPlatformAdmins(ctx)
		if err != nil {
			return UserResult{}, internal("Could not count platform administrators.", err)
		}
		if err := CheckPlatformAdminDeletion(true, n); err != nil {
			log.Warn("refusing to delete last platform admin")
			return UserResult{}, withAudit(asError(err), audit(CodeOf(err), email))
		}
	}
	memberships, err := s.Store.Memberships().ListActiveByUser(ctx, in.UserID)
	if err != nil {
		return UserResult{}, internal("Could not list memberships.", err)
	}
	var adminOf []MembershipChange
	for _, m := range memberships {
		if !m.IsActiveAdmin() {
			continue
		}
		admins, err := s.Store.Memberships().CountActiveAdmins(ctx, m.AccountID)
		if err != nil {
			return UserResult{}, internal("Could not count administrators.", err)
		}
		change := MembershipChange{
			Target:                m,
			OtherAdmins:           admins - 1,
			TargetIsPlatformAdmin: hasProfile && profile.IsPlatformAdmin(),
			CallerIsPlatformAdmin: true,
			Override:              in.Override,
		}
		if err := CheckMembershipChange(change); err != nil {
			log.Warn("refusing to delete last account admin", slog.String("account_id", m.AccountID))
			return UserResult{}, withAudit(asError(err).With("account_id", m.AccountID), audit(CodeOf(err), email))
		}
		adminOf = append(adminOf, change)
	}

	// 4. Admin memberships go first through the guarded delete, which
	// re-counts the other admins at the moment of the write.
	var removed []domain.Membership
	for _, c := range adminOf {
		err := s.Store.Memberships().DeleteGuarded(ctx, c.Target.ID, MinOtherAdmins(c))
		switch {
		case errors.Is(err, store.ErrNotFound):
			continue
		case errors.Is(err, store.ErrPreconditionFailed):
			log.Warn("user delete lost last-admin race", slog.String("account_id", c.Target.AccountID))
			s.restore(ctx, removed)
			return UserResult{}, withAudit(lastAccountAdmin().With("account_id", c.Target.AccountID),
				audit(domain.CodeLastAccountAdminForbidden, email))
		case err != nil:
			log.Error("failed to delete admin membership", slog.Any("error", err))
			s.restore(ctx, removed)
			return UserResult{}, internal("Could not delete memberships.", err)
		}
		removed = append(removed, c.Target)
	}

	// 5. Identity, then the remaining relational rows
	if hasIdentity {
		if err := s.Identity.DeleteIdentity(ctx, in.UserID); err != nil && !errors.Is(err, identity.ErrNotFound) {
			log.Error("failed to delete identity", slog.Any("error", err))
			s.restore(ctx, removed)
			return UserResult{}, transient("Could not delete the identity.", err)
		}
	}
	if err := s.Store.Memberships().DeleteByUser(ctx, in.UserID); err != nil {
		log.Error("failed to delete memberships", slog.Any("error", err))
		return UserResult{}, internal("Identity deleted but memberships remain.", err)
	}
	if hasProfile {
		if err := s.Store.Profiles().DeleteProfile(ctx, in.UserID); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to delete profile", slog.Any("error", err))
			return UserResult{}, internal("Identity deleted but profile remains.", err)
		}
	}

	log.Info("user deleted", slog.String("by", in.Caller.UserID))
	return UserResult{
		Code:       domain.CodeUserDeleted,
		Message:    "User deleted.",
		UserID:     in.UserID,
		Email:      email,
		AuditError: audit(domain.CodeUserDeleted, email),
	}, nil
}

// restore re-inserts admin memberships removed by a Delete that could not
// finish.
func (s *UserService) restore(ctx context.Context, removed []domain.Membership) {
	log := slogx.FromContext(ctx)
	for _, m := range removed {
		if err := s.Store.Memberships().CreateMembership(ctx, m); err != nil {
			log.Error("failed to restore membership",
				slog.String("membership_id", m.ID),
				slog.String("account_id", m.AccountID),
				slog.Any("error", err))
		}
	}
}

// ResetPassword asks the identity provider to email a reset link. Allowed
// for platform administrators, for the user themselves, and for admins of
// an account the user is active in.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) (UserResult, error) {
	log := slogx.FromContext(ctx)
	email := domain.NormalizeEmail(in.Email)

	if !domain.ValidEmail(email) {
		return UserResult{}, validationError(domain.CodeValidationFailed, "A valid email address is required.")
	}

	// 1. Authorise
	var targetID string
	p, err := s.Store.Profiles().GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		targetID = p.ID
	case !errors.Is(err, store.ErrNotFound):
		return UserResult{}, internal("Could not load profile.", err)
	}
	ok, err := s.canReset(ctx, in.Caller, email, targetID)
	if err != nil {
		return UserResult{}, internal("Authorisation check failed.", err)
	}
	if !ok {
		log.Warn("password reset forbidden", slog.String("caller", in.Caller.UserID))
		return UserResult{}, forbidden("You cannot reset this user's password.")
	}

	audit := func(code domain.Code) string {
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID: in.Caller.UserID,
			Action:      domain.AuditUserPasswordReset,
			Resource:    domain.ResourceUser,
			ResourceID:  targetID,
			Meta:        map[string]any{"email": email, "result": string(code)},
		})
	}

	// 2. Ask the provider
	if err := s.Identity.ResetPassword(ctx, email, s.ResetRedirectURL); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			nerr := notFound(domain.CodeUserNotFound, "User not found.")
			return UserResult{}, withAudit(nerr, audit(nerr.Code))
		}
		log.Error("password reset failed", slog.Any("error", err))
		terr := transient("Could not send the password reset email.", err)
		return UserResult{}, withAudit(terr, audit(terr.Code))
	}

	log.Info("password reset sent", slog.String("by", in.Caller.UserID))
	return UserResult{
		Code:       domain.CodePasswordResetSent,
		Message:    "Password reset email sent.",
		UserID:     targetID,
		Email:      email,
		AuditError: audit(domain.CodePasswordResetSent),
	}, nil
}

func (s *UserService) canReset(ctx context.Context, c Caller, email, targetID string) (bool, error) {
	if c.UserID == "" {
		return false, nil
	}
	if c.Email != "" && domain.NormalizeEmail(c.Email) == email {
		return true, nil
	}
	platform, err := s.Authz.IsPlatformAdmin(ctx, c)
	if err != nil || platform {
		return platform, err
	}
	if targetID == "" {
		return false, nil
	}
	memberships, err := s.Store.Memberships().ListActiveByUser(ctx, targetID)
	if err != nil {
		return false, err
	}
	for _, m := range memberships {
		_, ok, err := s.Authz.CanAdminAccount(ctx, c, m.AccountID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// UpdateCredentials changes a user's email and/or password at the identity
// provider. The profile email follows; if that sync fails the change stands
// and the result carries a warning.
func (s *UserService) UpdateCredentials(ctx context.Context, in UpdateCredentialsInput) (UserResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("user_id", in.UserID))
	email := domain.NormalizeEmail(in.Email)

	// 1. Validate
	if email == "" && in.Password == "" {
		return UserResult{}, validationError(domain.CodeValidationFailed, "Provide an email, a password or both.")
	}
	if email != "" && !domain.ValidEmail(email) {
		return UserResult{}, validationError(domain.CodeValidationFailed, "A valid email address is required.")
	}
	if in.Password != "" && len(in.Password) < MinPasswordLength {
		return UserResult{}, validationError(domain.CodeValidationFailed, "Password must be at least 8 characters.")
	}

	// 2. Platform administrators or the user themselves
	if in.Caller.UserID != in.UserID {
		platform, err := s.Authz.IsPlatformAdmin(ctx, in.Caller)
		if err != nil {
			return UserResult{}, internal("Authorisation check failed.", err)
		}
		if !platform {
			log.Warn("credentials update forbidden", slog.String("caller", in.Caller.UserID))
			return UserResult{}, forbidden("You cannot change this user's credentials.")
		}
	}

	audit := func(code domain.Code, warning domain.Code) string {
		meta := map[string]any{
			"email_changed":    email != "",
			"password_changed": in.Password != "",
			"result":           string(code),
		}
		if email != "" {
			meta["email"] = email
		}
		if warning != "" {
			meta["warning"] = string(warning)
		}
		return s.Audit.Record(ctx, domain.AuditEntry{
			AdminUserID: in.Caller.UserID,
			Action:      domain.AuditUserCredentials,
			Resource:    domain.ResourceUser,
			ResourceID:  in.UserID,
			Meta:        meta,
		})
	}

	// 3. Provider first
	err := s.Identity.UpdateCredentials(ctx, in.UserID, identity.Credentials{Email: email, Password: in.Password})
	switch {
	case errors.Is(err, identity.ErrNotFound):
		nerr := notFound(domain.CodeUserNotFound, "User not found.")
		return UserResult{}, withAudit(nerr, audit(nerr.Code, ""))
	case identity.IsAlreadyRegistered(err):
		cerr := conflict(domain.CodeEmailAlreadyRegistered, "This email is already registered.")
		return UserResult{}, withAudit(cerr, audit(cerr.Code, ""))
	case err != nil:
		log.Error("credentials update failed", slog.Any("error", err))
		terr := transient("Could not update credentials.", err)
		return UserResult{}, withAudit(terr, audit(terr.Code, ""))
	}

	// 4. Mirror an email change into the profile
	res := UserResult{
		Code:    domain.CodeCredentialsUpdated,
		Message: "Credentials updated.",
		UserID:  in.UserID,
		Email:   email,
	}
	if email != "" {
		err := s.Store.Profiles().UpdateEmail(ctx, in.UserID, email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to sync profile email", slog.Any("error", err))
			res.WarningCode = domain.CodeProfileSyncFailed
			res.Message = "Credentials updated, but the profile email could not be synced."
		}
	}

	log.Info("credentials updated",
		slog.Bool("email_changed", email != ""),
		slog.Bool("password_changed", in.Password != ""),
	)
	res.AuditError = audit(res.Code, res.WarningCode)
	return res, nil
}

func (s *UserService) profile(ctx context.Context, id string) (domain.Profile, bool, error) {
	p, err := s.Store.Profiles().GetProfileByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load profile", slog.Any("error", err))
		return domain.Profile{}, false, internal("Could not load profile.", err)
	}
	return p, true, nil
}
