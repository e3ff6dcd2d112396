package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRevoked  InvitationStatus = "REVOKED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// InvitationSource tags where an invitation came from.
type InvitationSource string

const (
	SourceAdminInvite          InvitationSource = "admin_invite"
	SourceSelfService          InvitationSource = "self_service"
	SourcePlatformProvisioning InvitationSource = "platform_provisioning"
)

// Invitation is an offer of a role in an account, addressed to an email.
// At most one PENDING row exists per (AccountID, Email).
type Invitation struct {
	ID        string
	AccountID string
	Email     string // normalized
	Role      Role
	Status    InvitationStatus
	InvitedBy string // empty for self-service
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Meta      InvitationMeta
}

// IsExpiredAt reports whether a PENDING invitation has passed its expiry.
func (i Invitation) IsExpiredAt(now time.Time) bool {
	return i.Status == InvitationPending && !now.Before(i.ExpiresAt)
}

// InvitationMeta is stored as JSON next to the row. Patches are merged, so
// every field is omitempty.
type InvitationMeta struct {
	Source         InvitationSource `json:"source,omitempty"`
	ResentFrom     string           `json:"resent_from,omitempty"`
	ReplacedBy     string           `json:"replaced_by,omitempty"`
	RevokedBy      string           `json:"revoked_by,omitempty"`
	RevokeReason   string           `json:"revoke_reason,omitempty"`
	BlockerCode    Code             `json:"blocker_code,omitempty"`
	FailureMessage string           `json:"failure_message,omitempty"`
	EmailAttempts  int              `json:"email_attempts,omitempty"`
	FullName       string           `json:"full_name,omitempty"`
}

// Revoke reasons recorded in InvitationMeta.RevokeReason.
const (
	RevokeReasonAdmin       = "admin_revoked"
	RevokeReasonResent      = "resent"
	RevokeReasonSendFailure = "send_failed"
	RevokeReasonRollback    = "rollback"
)
