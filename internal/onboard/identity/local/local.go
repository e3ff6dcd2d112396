// Package local is an in-process identity provider for development and
// tests. Invites are recorded instead of emailed.
package local

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
	"github.com/aussiebroadwan/onboard/pkg/cryptox"
	"github.com/google/uuid"
)

// Message returned by SendInvite and UpdateCredentials for a taken email.
const alreadyRegisteredMsg = "A user with this email address has already been registered"

// Hooks inject failures. A non-nil return aborts the call with that error.
type Hooks struct {
	SendInvite func(email string) error
	Delete     func(id string) error
	Get        func(id string) error
	List       func(page int) error
}

// Invite is a recorded SendInvite call.
type Invite struct {
	Email       string
	RedirectURL string
	Data        map[string]any
	IdentityID  string
	SentAt      time.Time
}

// Reset is a recorded ResetPassword call.
type Reset struct {
	Email       string
	RedirectURL string
}

type user struct {
	identity     domain.Identity
	passwordHash string
}

type Gateway struct {
	mu     sync.Mutex
	users  map[string]*user // by id
	order  []string         // insertion order for paging
	hooks  Hooks
	pepper cryptox.Pepper
	now    func() time.Time

	invites []Invite
	resets  []Reset
}

var (
	_ identity.Gateway     = (*Gateway)(nil)
	_ identity.EmailLookup = (*Gateway)(nil)
)

func New(pepper cryptox.Pepper) *Gateway {
	return &Gateway{
		users:  make(map[string]*user),
		pepper: pepper,
		now:    time.Now,
	}
}

// SetHooks replaces the fault injection hooks.
func (g *Gateway) SetHooks(h Hooks) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = h
}

// Hooks run without the lock held so they may call back into the gateway.
func (g *Gateway) currentHooks() Hooks {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hooks
}

// Seed adds an identity directly, optionally already confirmed.
func (g *Gateway) Seed(email string, confirmed bool) domain.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := g.insertLocked(email)
	if confirmed {
		now := g.now().UTC()
		u.identity.EmailConfirmedAt = &now
	}
	return u.identity
}

// Confirm marks the identity holding email as confirmed, as if its owner had
// followed the invite link.
func (g *Gateway) Confirm(email string) (domain.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := g.byEmailLocked(email)
	if u == nil {
		return domain.Identity{}, identity.ErrNotFound
	}
	now := g.now().UTC()
	u.identity.EmailConfirmedAt = &now
	return u.identity, nil
}

// Invites returns every recorded invite, oldest first.
func (g *Gateway) Invites() []Invite {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.invites)
}

// Resets returns every recorded password reset, oldest first.
func (g *Gateway) Resets() []Reset {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.resets)
}

// VerifyPassword checks a password set through UpdateCredentials.
func (g *Gateway) VerifyPassword(id, password string) error {
	g.mu.Lock()
	u, ok := g.users[id]
	g.mu.Unlock()
	if !ok || u.passwordHash == "" {
		return identity.ErrNotFound
	}
	return cryptox.VerifyPassword(password, u.passwordHash, g.pepper)
}

func (g *Gateway) ListIdentities(_ context.Context, page, perPage int) ([]domain.Identity, error) {
	if h := g.currentHooks().List; h != nil {
		if err := h(page); err != nil {
			return nil, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("local: invalid page %d/%d", page, perPage)
	}

	start := (page - 1) * perPage
	if start >= len(g.order) {
		return nil, nil
	}
	end := min(start+perPage, len(g.order))

	out := make([]domain.Identity, 0, end-start)
	for _, id := range g.order[start:end] {
		out = append(out, g.users[id].identity)
	}
	return out, nil
}

func (g *Gateway) GetIdentityByID(_ context.Context, id string) (domain.Identity, error) {
	if h := g.currentHooks().Get; h != nil {
		if err := h(id); err != nil {
			return domain.Identity{}, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[id]
	if !ok {
		return domain.Identity{}, identity.ErrNotFound
	}
	return u.identity, nil
}

func (g *Gateway) FindByEmail(_ context.Context, email string) (domain.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := g.byEmailLocked(email)
	if u == nil {
		return domain.Identity{}, identity.ErrNotFound
	}
	return u.identity, nil
}

func (g *Gateway) DeleteIdentity(_ context.Context, id string) error {
	if h := g.currentHooks().Delete; h != nil {
		if err := h(id); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.users[id]; !ok {
		return identity.ErrNotFound
	}
	delete(g.users, id)
	g.order = slices.DeleteFunc(g.order, func(v string) bool { return v == id })
	return nil
}

func (g *Gateway) SendInvite(_ context.Context, email, redirectURL string, data map[string]any) error {
	if h := g.currentHooks().SendInvite; h != nil {
		if err := h(email); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.byEmailLocked(email) != nil {
		return fmt.Errorf("local: %s", alreadyRegisteredMsg)
	}

	u := g.insertLocked(email)
	g.invites = append(g.invites, Invite{
		Email:       u.identity.Email,
		RedirectURL: redirectURL,
		Data:        maps.Clone(data),
		IdentityID:  u.identity.ID,
		SentAt:      g.now().UTC(),
	})
	return nil
}

func (g *Gateway) ResetPassword(_ context.Context, email, redirectURL string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Unknown emails succeed silently, like a real provider.
	g.resets = append(g.resets, Reset{Email: strings.ToLower(email), RedirectURL: redirectURL})
	return nil
}

func (g *Gateway) UpdateCredentials(_ context.Context, id string, c identity.Credentials) error {
	// Hash outside the lock; argon2 is slow.
	var hash string
	if c.Password != "" {
		var err error
		if hash, err = cryptox.HashPassword(c.Password, g.pepper); err != nil {
			return fmt.Errorf("local: hash password: %w", err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[id]
	if !ok {
		return identity.ErrNotFound
	}
	if c.Email != "" {
		if other := g.byEmailLocked(c.Email); other != nil && other.identity.ID != id {
			return fmt.Errorf("local: %s", alreadyRegisteredMsg)
		}
		u.identity.Email = strings.ToLower(c.Email)
	}
	if hash != "" {
		u.passwordHash = hash
	}
	return nil
}

func (g *Gateway) insertLocked(email string) *user {
	u := &user{identity: domain.Identity{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: g.now().UTC(),
	}}
	g.users[u.identity.ID] = u
	g.order = append(g.order, u.identity.ID)
	return u
}

func (g *Gateway) byEmailLocked(email string) *user {
	for _, id := range g.order {
		if u := g.users[id]; strings.EqualFold(u.identity.Email, strings.TrimSpace(email)) {
			return u
		}
	}
	return nil
}
