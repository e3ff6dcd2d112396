package domain

// Code is a stable, machine-readable result code returned to callers.
type Code string

const (
	CodeInviteCreated         Code = "INVITE_CREATED"
	CodeInviteRevoked         Code = "INVITE_REVOKED"
	CodeInviteResent          Code = "INVITE_RESENT"
	CodeInviteAlreadyPending  Code = "INVITE_ALREADY_PENDING"
	CodeInviteNotPending      Code = "INVITE_NOT_PENDING"
	CodeInviteNotFound        Code = "INVITE_NOT_FOUND"
	CodeInviteEmailNotSent    Code = "INVITE_EMAIL_NOT_SENT"
	CodeInviteSendBlocked     Code = "INVITE_SEND_BLOCKED"

	CodeEmailAlreadyRegistered Code = "EMAIL_ALREADY_REGISTERED"

	CodeUserAlreadyActiveInAccount        Code = "USER_ALREADY_ACTIVE_IN_ACCOUNT"
	CodeUserAlreadyActiveInAnotherAccount Code = "USER_ALREADY_ACTIVE_IN_ANOTHER_ACCOUNT"
	CodeConfirmedUserRequiresManualAction Code = "CONFIRMED_USER_REQUIRES_MANUAL_ACTION"
	CodeActiveMembershipExists            Code = "ACTIVE_MEMBERSHIP_EXISTS"

	CodeAccountProvisioned   Code = "ACCOUNT_PROVISIONED"
	CodeAccountStatusChanged Code = "ACCOUNT_STATUS_CHANGED"
	CodeAccountNotFound      Code = "ACCOUNT_NOT_FOUND"
	CodeAccountNotActive     Code = "ACCOUNT_NOT_ACTIVE"
	CodeSlugUnavailable      Code = "SLUG_UNAVAILABLE"

	CodeRegistrationSeeded   Code = "REGISTRATION_SEEDED"
	CodeRegistrationReplayed Code = "REGISTRATION_REPLAYED"
	CodeRegistrationConflict Code = "REGISTRATION_CONFLICT"
	CodeRegistrationDisabled Code = "REGISTRATION_DISABLED"
	CodeHoneypot             Code = "HONEYPOT"
	CodeRateLimited          Code = "RATE_LIMITED"

	CodeMembershipUpdated          Code = "MEMBERSHIP_UPDATED"
	CodeMembershipRemoved          Code = "MEMBERSHIP_REMOVED"
	CodeMembershipNotFound         Code = "MEMBERSHIP_NOT_FOUND"
	CodeLastAccountAdminForbidden  Code = "LAST_ACCOUNT_ADMIN_FORBIDDEN"
	CodeLastPlatformAdminForbidden Code = "LAST_PLATFORM_ADMIN_FORBIDDEN"
	CodePlatformAdminProtected     Code = "PLATFORM_ADMIN_PROTECTED"

	CodeUserDeleted        Code = "USER_DELETED"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodePasswordResetSent  Code = "PASSWORD_RESET_SENT"
	CodeCredentialsUpdated Code = "CREDENTIALS_UPDATED"
	CodeProfileSyncFailed  Code = "PROFILE_SYNC_FAILED"

	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeIdentityError    Code = "IDENTITY_PROVIDER_ERROR"
	CodeInternal         Code = "INTERNAL_ERROR"
)
