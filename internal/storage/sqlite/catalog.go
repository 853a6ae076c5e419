package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sofra-eats/sofra/internal/models"
)

// CreateRestaurant inserts a restaurant and populates its ID.
func (s *SQLiteStore) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO restaurants (name, cuisine, city, created_at) VALUES (?, ?, ?, ?)",
		r.Name, r.Cuisine, r.City, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read restaurant id: %w", err)
	}
	r.ID = id
	return nil
}

// ListRestaurants returns all restaurants ordered by name.
func (s *SQLiteStore) ListRestaurants(ctx context.Context) ([]*models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, cuisine, city, created_at FROM restaurants ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var out []*models.Restaurant
	for rows.Next() {
		r := &models.Restaurant{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Cuisine, &r.City, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate restaurants: %w", err)
	}
	return out, nil
}

// CreateMenuItem inserts a menu item and populates its ID.
func (s *SQLiteStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO menu_items (restaurant_id, name, description, price, available, image_url) VALUES (?, ?, ?, ?, ?, ?)",
		item.RestaurantID, item.Name, item.Description, item.Price, item.Available, item.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read menu item id: %w", err)
	}
	item.ID = id
	return nil
}

// GetMenuItem retrieves one menu item by ID.
func (s *SQLiteStore) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, restaurant_id, name, description, price, available, image_url FROM menu_items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Available, &item.ImageURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("menu item not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

// ListMenu returns a restaurant's menu ordered by name.
func (s *SQLiteStore) ListMenu(ctx context.Context, restaurantID int64) ([]*models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, restaurant_id, name, description, price, available, image_url FROM menu_items WHERE restaurant_id = ? ORDER BY name",
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	defer rows.Close()

	var out []*models.MenuItem
	for rows.Next() {
		item := &models.MenuItem{}
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Available, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return out, nil
}
