package identity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/stretchr/testify/require"
)

// pagedGateway serves a fixed identity list and counts page requests.
type pagedGateway struct {
	identity.Gateway
	all   []domain.Identity
	calls int
	fail  error
}

func (g *pagedGateway) ListIdentities(_ context.Context, page, perPage int) ([]domain.Identity, error) {
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	start := (page - 1) * perPage
	if start >= len(g.all) {
		return nil, nil
	}
	end := min(start+perPage, len(g.all))
	return g.all[start:end], nil
}

func identities(n int) []domain.Identity {
	out := make([]domain.Identity, n)
	for i := range out {
		out[i] = domain.Identity{ID: fmt.Sprintf("id-%d", i), Email: fmt.Sprintf("user%d@example.com", i)}
	}
	return out
}

func TestScanLookupFindsAcrossPages(t *testing.T) {
	gw := &pagedGateway{all: identities(25)}
	l := identity.NewScanLookup(gw, 10)

	got, err := l.FindByEmail(context.Background(), "USER23@example.com")
	require.NoError(t, err)
	require.Equal(t, "id-23", got.ID)
	require.Equal(t, 3, gw.calls)
}

func TestScanLookupStopsOnShortPage(t *testing.T) {
	gw := &pagedGateway{all: identities(25)}
	l := identity.NewScanLookup(gw, 10)

	_, err := l.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, identity.ErrNotFound)
	require.Equal(t, 3, gw.calls)
}

func TestScanLookupExactPageMultiple(t *testing.T) {
	gw := &pagedGateway{all: identities(20)}
	l := identity.NewScanLookup(gw, 10)

	_, err := l.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, identity.ErrNotFound)
	require.Equal(t, 3, gw.calls, "third empty page terminates the scan")
}

func TestScanLookupPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	gw := &pagedGateway{fail: boom}

	_, err := identity.NewScanLookup(gw, 10).FindByEmail(context.Background(), "a@example.com")
	require.ErrorIs(t, err, boom)
}

type directGateway struct {
	pagedGateway
}

func (g *directGateway) FindByEmail(context.Context, string) (domain.Identity, error) {
	return domain.Identity{ID: "direct"}, nil
}

func TestLookupForPrefersDirectLookup(t *testing.T) {
	got, err := identity.LookupFor(&directGateway{}).FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "direct", got.ID)

	_, ok := identity.LookupFor(&pagedGateway{}).(*identity.ScanLookup)
	require.True(t, ok)
}

func TestIsAlreadyRegistered(t *testing.T) {
	yes := []error{
		errors.New("A user with this email address has already been registered"),
		errors.New("gotrue: 422: Email already registered"),
		errors.New("user already exists"),
		fmt.Errorf("wrapped: %w", identity.ErrAlreadyRegistered),
	}
	for _, err := range yes {
		require.True(t, identity.IsAlreadyRegistered(err), err.Error())
	}

	no := []error{nil, errors.New("smtp: connection refused"), identity.ErrNotFound}
	for _, err := range no {
		require.False(t, identity.IsAlreadyRegistered(err))
	}
}
