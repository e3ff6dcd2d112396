package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDispatch Role = "DISPATCH"
	RoleViewer   Role = "VIEWER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDispatch, RoleViewer:
		return true
	}
	return false
}

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "ACTIVE"
	MembershipInvited MembershipStatus = "INVITED"
)

// Membership links a user to an account. At most one per (AccountID, UserID).
type Membership struct {
	ID        string
	AccountID string
	UserID    string
	Role      Role
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Membership) IsActiveAdmin() bool {
	return m.Status == MembershipActive && m.Role == RoleAdmin
}
