package domain

import "time"

type GlobalRole string

const (
	GlobalRoleUser          GlobalRole = "USER"
	GlobalRolePlatformAdmin GlobalRole = "PLATFORM_ADMIN"
)

// Profile is the relational mirror of an identity. ID equals the identity id.
type Profile struct {
	ID         string
	Email      string
	FullName   string
	GlobalRole GlobalRole
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Profile) IsPlatformAdmin() bool {
	return p.GlobalRole == GlobalRolePlatformAdmin
}

// Identity is an identity-provider record. It is only ever read or deleted
// by this service.
type Identity struct {
	ID               string
	Email            string
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
}

func (i Identity) IsConfirmed() bool {
	return i.EmailConfirmedAt != nil
}
