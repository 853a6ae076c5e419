// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/sofra-eats/sofra/internal/models"
)

// Store is the persistence collaborator for the ordering core. The core
// treats it as atomic: an order either lands with all of its lines or the
// call reports failure. Swapping backends (SQLite, Postgres) must not
// touch the service layer.
type Store interface {
	// CreateRestaurant persists a restaurant and assigns its ID.
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error

	// ListRestaurants returns all restaurants.
	ListRestaurants(ctx context.Context) ([]*models.Restaurant, error)

	// CreateMenuItem persists a menu item and assigns its ID.
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error

	// GetMenuItem retrieves one menu item by its catalog ID.
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)

	// ListMenu returns the menu of one restaurant.
	ListMenu(ctx context.Context, restaurantID int64) ([]*models.MenuItem, error)

	// CreateOrder persists an order with its lines and returns the
	// generated positive order ID. Any error means nothing was written.
	CreateOrder(ctx context.Context, o *models.Order) (int64, error)

	// GetOrder retrieves an order with its lines. Reloaded orders carry
	// no payment capability.
	GetOrder(ctx context.Context, id int64) (*models.Order, error)

	// UpdateOrderStatus writes an already-validated status.
	UpdateOrderStatus(ctx context.Context, id int64, status models.Status) error

	// CreateGroupOrder persists a group order, its lines, and the
	// per-contributor assignments, returning the generated order ID.
	CreateGroupOrder(ctx context.Context, g *models.GroupOrder) (int64, error)

	// GetGroupOrderByToken retrieves a group order by its share token.
	GetGroupOrderByToken(ctx context.Context, token string) (*models.GroupOrder, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, u *models.User) error

	// GetUserByEmail retrieves a user by login email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
