// Package idx generates the sortable row identifiers used by the relational
// store (accounts, memberships, invitations, audit entries, signup attempts).
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a canonical 26-character ULID string.
type ID string

func (id ID) String() string { return string(id) }

var source = struct {
	sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

// New returns a ULID for the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns a ULID stamped with t. IDs minted within the same
// millisecond still sort in creation order.
func NewAt(t time.Time) ID {
	source.Lock()
	defer source.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), source.entropy).String())
}
