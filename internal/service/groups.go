package service

import (
	"errors"
	"sync"

	"github.com/sofra-eats/sofra/internal/models"
)

// ErrUnknownShareToken means no open group order carries the token.
var ErrUnknownShareToken = errors.New("unknown share token")

// GroupRegistry holds group orders that are still being assembled,
// keyed by share token. Submitted group orders move to the store and
// leave the registry.
type GroupRegistry struct {
	mu     sync.Mutex
	groups map[string]*models.GroupOrder
}

// NewGroupRegistry returns an empty registry.
func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{groups: make(map[string]*models.GroupOrder)}
}

// Create opens a new group order hosted by the given user and returns
// it. The share token is the registry key.
func (r *GroupRegistry) Create(hostID string) *models.GroupOrder {
	g := models.NewGroupOrder(hostID, nil)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.ShareToken] = g
	return g
}

// Do runs fn with the open group order for token while holding the
// registry lock. Returns ErrUnknownShareToken when no such order is
// open.
func (r *GroupRegistry) Do(token string, fn func(g *models.GroupOrder) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[token]
	if !ok {
		return ErrUnknownShareToken
	}
	return fn(g)
}

// Remove closes the group order for token, typically after submit.
func (r *GroupRegistry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, token)
}
