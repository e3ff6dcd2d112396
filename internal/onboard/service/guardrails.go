package service

import "github.com/aussiebroadwan/onboard/internal/onboard/domain"

// MembershipChange is everything the last-admin rules need to know about a
// proposed role change or removal.
type MembershipChange struct {
	Target      domain.Membership
	NewRole     domain.Role // empty for a removal
	OtherAdmins int         // ACTIVE ADMIN memberships of the account besides Target

	TargetIsPlatformAdmin bool
	CallerIsPlatformAdmin bool
	Override              bool
}

// RemovesAdmin reports whether the change takes an ACTIVE ADMIN seat away.
func (c MembershipChange) RemovesAdmin() bool {
	return c.Target.IsActiveAdmin() && c.NewRole != domain.RoleAdmin
}

// overrides is true only for a platform administrator asking for it.
func (c MembershipChange) overrides() bool {
	return c.Override && c.CallerIsPlatformAdmin
}

// CheckMembershipChange applies the last-admin and platform-admin rules. It
// returns nil or an *Error.
func CheckMembershipChange(c MembershipChange) error {
	if c.TargetIsPlatformAdmin && !c.CallerIsPlatformAdmin {
		return &Error{
			Kind:    KindAuthorization,
			Code:    domain.CodePlatformAdminProtected,
			Message: "Platform administrators can only be changed by a platform administrator.",
		}
	}
	if c.Override && !c.CallerIsPlatformAdmin {
		return forbidden("Only platform administrators may override the last-admin rule.")
	}
	if c.RemovesAdmin() && c.OtherAdmins < 1 && !c.overrides() {
		return lastAccountAdmin()
	}
	return nil
}

// MinOtherAdmins is the guard handed to the store so the rule is re-checked
// by the write itself.
func MinOtherAdmins(c MembershipChange) int {
	if c.RemovesAdmin() && !c.overrides() {
		return 1
	}
	return 0
}

// CheckPlatformAdminDeletion forbids deleting the last platform administrator,
// with no override.
func CheckPlatformAdminDeletion(targetIsPlatformAdmin bool, platformAdmins int) error {
	if targetIsPlatformAdmin && platformAdmins <= 1 {
		return conflict(domain.CodeLastPlatformAdminForbidden, "The last platform administrator cannot be deleted.")
	}
	return nil
}

func lastAccountAdmin() *Error {
	return conflict(domain.CodeLastAccountAdminForbidden, "An account must keep at least one active administrator.")
}
