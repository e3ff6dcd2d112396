package domain

import "time"

// AuditEntry is an append-only record of a state-changing operation.
type AuditEntry struct {
	ID              string
	AdminUserID     string // empty for public flows
	TargetAccountID string
	Action          string
	Resource        string
	ResourceID      string
	Meta            map[string]any
	CreatedAt       time.Time
}

// Audit actions.
const (
	AuditInvitationCreate  = "invitation.create"
	AuditInvitationRevoke  = "invitation.revoke"
	AuditInvitationResend  = "invitation.resend"
	AuditRegistration      = "registration.self_service"
	AuditAccountProvision  = "account.provision"
	AuditAccountStatus     = "account.status"
	AuditMembershipRole    = "membership.role"
	AuditMembershipRemove  = "membership.remove"
	AuditUserDelete        = "user.delete"
	AuditUserPasswordReset = "user.password_reset"
	AuditUserCredentials   = "user.credentials"
)

// Audit resources.
const (
	ResourceInvitation = "invitation"
	ResourceAccount    = "account"
	ResourceMembership = "membership"
	ResourceUser       = "user"
)
