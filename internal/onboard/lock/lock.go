// Package lock defines the optional advisory lock used to serialise
// concurrent self-service registrations for the same email.
package lock

import "context"

// Locker acquires a named advisory lock. The returned release func must be
// called exactly once. Callers treat an absent Locker, or an Acquire error,
// as degraded concurrency safety rather than failure.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
