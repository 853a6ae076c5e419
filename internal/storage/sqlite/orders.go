package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sofra-eats/sofra/internal/models"
)

// insertOrder writes the order row and its lines inside tx, returning the
// generated order ID and the generated ID of each line (in order).
func insertOrder(ctx context.Context, tx *sql.Tx, o *models.Order, shareToken sql.NullString) (int64, []int64, error) {
	if o.CreatedAt == 0 {
		o.CreatedAt = time.Now().Unix()
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, status, total, street, city, phone, share_token, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		o.UserID, string(o.Status), o.TotalAmount, o.Street, o.City, o.Phone, shareToken, o.CreatedAt,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read order id: %w", err)
	}

	itemIDs := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		var menuItemID int64
		var name string
		if item.Item != nil {
			menuItemID = item.Item.ID
			name = item.Item.Name
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, menu_item_id, name, quantity, price_at_purchase) VALUES (?, ?, ?, ?, ?)",
			orderID, menuItemID, name, item.Quantity, item.PriceAtPurchase(),
		)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read order item id: %w", err)
		}
		itemIDs = append(itemIDs, itemID)
	}
	return orderID, itemIDs, nil
}

// CreateOrder persists an order with its lines, returning the generated
// positive order ID. The write is transactional: on error nothing lands.
func (s *SQLiteStore) CreateOrder(ctx context.Context, o *models.Order) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderID, _, err := insertOrder(ctx, tx, o, sql.NullString{})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return orderID, nil
}

// loadOrderItems returns the lines of an order keyed by their row IDs.
// The menu item reference is rebuilt from the stored display snapshot;
// it is never used for pricing.
func (s *SQLiteStore) loadOrderItems(ctx context.Context, orderID int64) ([]int64, []*models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, menu_item_id, name, quantity, price_at_purchase FROM order_items WHERE order_id = ? ORDER BY id",
		orderID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var items []*models.OrderItem
	for rows.Next() {
		var (
			id, menuItemID int64
			name           string
			quantity       int
			price          float64
		)
		if err := rows.Scan(&id, &menuItemID, &name, &quantity, &price); err != nil {
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		ref := &models.MenuItem{ID: menuItemID, Name: name}
		ids = append(ids, id)
		items = append(items, models.NewOrderItem(ref, quantity, price))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate order items: %w", err)
	}
	return ids, items, nil
}

// GetOrder retrieves an order with its lines. Reloaded orders carry no
// payment capability, so Pay on them fails deterministically.
func (s *SQLiteStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o := &models.Order{}
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, status, total, street, city, phone, created_at FROM orders WHERE id = ?",
		id,
	).Scan(&o.ID, &o.UserID, &status, &o.TotalAmount, &o.Street, &o.City, &o.Phone, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	o.Status = models.Status(status)

	_, items, err := s.loadOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// UpdateOrderStatus writes a status already validated by the domain.
func (s *SQLiteStore) UpdateOrderStatus(ctx context.Context, id int64, status models.Status) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order not found: %d", id)
	}
	return nil
}

// CreateGroupOrder persists a group order with its lines and the
// per-contributor assignments.
func (s *SQLiteStore) CreateGroupOrder(ctx context.Context, g *models.GroupOrder) (int64, error) {
	if g.ShareToken == "" {
		g.ShareToken = models.NewShareToken()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderID, itemIDs, err := insertOrder(ctx, tx, &g.Order, sql.NullString{String: g.ShareToken, Valid: true})
	if err != nil {
		return 0, err
	}

	// Contributions reference lines by position in the order's own
	// collection, which insertOrder preserved.
	lineID := make(map[*models.OrderItem]int64, len(g.Items))
	for i, item := range g.Items {
		lineID[item] = itemIDs[i]
	}
	for customer, items := range g.Contributions {
		for _, item := range items {
			id, ok := lineID[item]
			if !ok {
				return 0, fmt.Errorf("contribution by %s references a line missing from the order", customer)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO order_contributions (order_item_id, customer) VALUES (?, ?)",
				id, customer,
			); err != nil {
				return 0, fmt.Errorf("failed to insert contribution: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return orderID, nil
}

// GetGroupOrderByToken retrieves a group order, its lines, and who
// contributed each of them.
func (s *SQLiteStore) GetGroupOrderByToken(ctx context.Context, token string) (*models.GroupOrder, error) {
	g := &models.GroupOrder{
		Contributions: make(map[string][]*models.OrderItem),
		ShareToken:    token,
	}
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, status, total, street, city, phone, created_at FROM orders WHERE share_token = ?",
		token,
	).Scan(&g.ID, &g.UserID, &status, &g.TotalAmount, &g.Street, &g.City, &g.Phone, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group order not found: %s", token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group order: %w", err)
	}
	g.Status = models.Status(status)

	ids, items, err := s.loadOrderItems(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Items = items

	byLineID := make(map[int64]*models.OrderItem, len(items))
	for i, id := range ids {
		byLineID[id] = items[i]
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.order_item_id, c.customer
		 FROM order_contributions c
		 JOIN order_items i ON i.id = c.order_item_id
		 WHERE i.order_id = ?
		 ORDER BY c.order_item_id`,
		g.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var customer string
		if err := rows.Scan(&itemID, &customer); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		if item, ok := byLineID[itemID]; ok {
			g.Contributions[customer] = append(g.Contributions[customer], item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return g, nil
}
