package onboardsdk

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleDispatch = "DISPATCH"
	RoleViewer   = "VIEWER"

	AccountActive    = "ACTIVE"
	AccountSuspended = "SUSPENDED"
	AccountArchived  = "ARCHIVED"
)

// ErrorResponse is the body of every failed request. Operation-specific
// fields, such as invitation_id or audit_error, sit next to code and message.
type ErrorResponse struct {
	Code    string `json:"code" example:"INVITE_ALREADY_PENDING"`
	Message string `json:"message" example:"A pending invitation already exists for this email."`
}

type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime" example:"1h2m3s"`
	Version string        `json:"version" example:"0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database" example:"ok"`
}

// ============================================================================
// Registration
// ============================================================================

type RegisterRequest struct {
	FullName    string `json:"full_name" example:"Jane Citizen"`
	CompanyName string `json:"company_name" example:"Acme Inc"`
	Email       string `json:"email" example:"jane@acme.test"`

	// Website is a honeypot; humans never see or fill it.
	Website string `json:"website,omitempty"`
}

// RegisterResponse carries no ids. Decoy and real successes are identical.
type RegisterResponse struct {
	Code      string `json:"code" example:"REGISTRATION_SEEDED"`
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

// ============================================================================
// Accounts
// ============================================================================

type Account struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Status         string     `json:"status"`
	TrialState     string     `json:"trial_state,omitempty"`
	TrialStartedAt *time.Time `json:"trial_started_at,omitempty"`
	TrialEndsAt    *time.Time `json:"trial_ends_at,omitempty"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	ArchivedBy     string     `json:"archived_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ProvisionAccountRequest struct {
	Name          string `json:"name" example:"Acme Inc"`
	AdminEmail    string `json:"admin_email" example:"boss@acme.test"`
	AdminFullName string `json:"admin_full_name,omitempty"`
	Trial         bool   `json:"trial,omitempty"`
}

type ProvisionAccountResponse struct {
	Code         string     `json:"code" example:"ACCOUNT_PROVISIONED"`
	Message      string     `json:"message"`
	Account      Account    `json:"account"`
	Invitation   Invitation `json:"invitation"`
	EmailSent    bool       `json:"email_sent"`
	Attempts     int        `json:"attempts"`
	DeletedGhost bool       `json:"deleted_ghost"`
	BlockerCode  string     `json:"blocker_code,omitempty"`
	WarningCode  string     `json:"warning_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	AuditError   string     `json:"audit_error,omitempty"`
}

type SetAccountStatusRequest struct {
	Status string `json:"status" example:"SUSPENDED"`
}

type AccountStatusResponse struct {
	Code           string  `json:"code" example:"ACCOUNT_STATUS_CHANGED"`
	Message        string  `json:"message"`
	Account        Account `json:"account"`
	PreviousStatus string  `json:"previous_status"`
	AuditError     string  `json:"audit_error,omitempty"`
}

// ============================================================================
// Invitations
// ============================================================================

type Invitation struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	Source     string    `json:"source,omitempty"`
	InvitedBy  string    `json:"invited_by,omitempty"`
	ResentFrom string    `json:"resent_from,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateInvitationRequest struct {
	Email    string `json:"email" example:"new@example.com"`
	Role     string `json:"role" example:"VIEWER"`
	FullName string `json:"full_name,omitempty"`
}

type InvitationResponse struct {
	Code         string     `json:"code" example:"INVITE_CREATED"`
	Message      string     `json:"message"`
	Invitation   Invitation `json:"invitation"`
	ReplacedID   string     `json:"replaced_id,omitempty"`
	EmailSent    bool       `json:"email_sent"`
	Attempts     int        `json:"attempts"`
	DeletedGhost bool       `json:"deleted_ghost"`
	WarningCode  string     `json:"warning_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	AuditError   string     `json:"audit_error,omitempty"`
}

// ============================================================================
// Memberships
// ============================================================================

type Membership struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" example:"DISPATCH"`

	// Override lets a platform administrator demote an account's last admin.
	Override bool `json:"override,omitempty"`
}

type MembershipResponse struct {
	Code         string     `json:"code" example:"MEMBERSHIP_UPDATED"`
	Message      string     `json:"message"`
	Membership   Membership `json:"membership"`
	PreviousRole string     `json:"previous_role"`
	Overridden   bool       `json:"overridden"`
	AuditError   string     `json:"audit_error,omitempty"`
}

// ============================================================================
// Users
// ============================================================================

type PasswordResetRequest struct {
	Email string `json:"email" example:"jane@acme.test"`
}

type UpdateCredentialsRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type UserResponse struct {
	Code        string `json:"code" example:"USER_DELETED"`
	Message     string `json:"message"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	WarningCode string `json:"warning_code,omitempty"`
	AuditError  string `json:"audit_error,omitempty"`
}
