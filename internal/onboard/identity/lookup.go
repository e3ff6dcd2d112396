package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

// EmailLookup finds an identity by email. Implementations return
// ErrNotFound when no identity matches.
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (domain.Identity, error)
}

// DefaultPerPage is the page size used by LookupFor when it falls back to
// scanning.
const DefaultPerPage = 200

// ScanLookup finds identities by walking ListIdentities page by page. Use it
// only when the provider offers no indexed lookup.
type ScanLookup struct {
	gw       Gateway
	perPage  int
	maxPages int
}

func NewScanLookup(gw Gateway, perPage int) *ScanLookup {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &ScanLookup{gw: gw, perPage: perPage, maxPages: 10_000}
}

func (l *ScanLookup) FindByEmail(ctx context.Context, email string) (domain.Identity, error) {
	for page := 1; page <= l.maxPages; page++ {
		users, err := l.gw.ListIdentities(ctx, page, l.perPage)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("identity: list page %d: %w", page, err)
		}
		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				return u, nil
			}
		}
		if len(users) < l.perPage {
			break
		}
	}
	return domain.Identity{}, ErrNotFound
}

// LookupFor returns gw itself when it can look up by email directly, and a
// ScanLookup over it otherwise.
func LookupFor(gw Gateway) EmailLookup {
	if l, ok := gw.(EmailLookup); ok {
		return l
	}
	return NewScanLookup(gw, DefaultPerPage)
}
