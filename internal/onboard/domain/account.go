package domain

import "time"

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountArchived  AccountStatus = "ARCHIVED"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountArchived:
		return true
	}
	return false
}

type TrialState string

const (
	TrialNone       TrialState = ""
	TrialActive     TrialState = "TRIAL_ACTIVE"
	TrialSubscribed TrialState = "SUBSCRIBED"
)

// Account is a tenant. Slug is unique across all accounts.
type Account struct {
	ID             string
	Name           string
	Slug           string
	Status         AccountStatus
	TrialState     TrialState
	TrialStartedAt *time.Time
	TrialEndsAt    *time.Time
	ArchivedAt     *time.Time
	ArchivedBy     string // empty unless archived
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
