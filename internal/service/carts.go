package service

import (
	"sync"

	"github.com/sofra-eats/sofra/internal/cart"
)

// CartRegistry owns one cart per authenticated user. The cart itself is
// single-owner state; the registry serializes access so concurrent RPCs
// from the same session cannot interleave mutations.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

// NewCartRegistry returns an empty registry.
func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[string]*cart.Cart)}
}

// Do runs fn with the user's cart (created on first use) while holding
// the registry lock. The cart must not escape fn.
func (r *CartRegistry) Do(userID string, fn func(c *cart.Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		c = cart.New()
		r.carts[userID] = c
	}
	return fn(c)
}

// Drop discards the user's cart, e.g. on logout.
func (r *CartRegistry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
}
