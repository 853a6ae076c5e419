// Package cart implements the per-session shopping cart.
//
// A Cart belongs to exactly one session and is mutated synchronously by
// its owner; it is not safe for concurrent use. Callers that share carts
// across goroutines (the RPC layer does) must serialize access themselves.
package cart

import (
	"sort"

	"github.com/sofra-eats/sofra/internal/models"
)

// Line is one cart entry: the last-fetched menu item plus a quantity.
// Lines are keyed by the item's stable catalog ID, never by struct
// identity, so a re-fetched MenuItem value lands on the same entry.
type Line struct {
	Item     *models.MenuItem
	Quantity int
}

// Cart tracks selected items for a single session. All items belong to
// one restaurant at a time: while the cart is non-empty, adds from other
// restaurants are rejected.
type Cart struct {
	lines        map[int64]*Line
	restaurantID int64 // 0 while no restaurant is selected
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[int64]*Line)}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// RestaurantID returns the active restaurant, or 0 when unset.
func (c *Cart) RestaurantID() int64 { return c.restaurantID }

// CanAdd reports whether the item may be added: always for an empty cart,
// otherwise only when the item belongs to the active restaurant.
func (c *Cart) CanAdd(item *models.MenuItem) bool {
	if len(c.lines) == 0 {
		return true
	}
	return item.RestaurantID == c.restaurantID
}

// Add puts one unit of the item in the cart. A cross-restaurant add is a
// rejected operation, not an error: the cart is left untouched and false
// is returned so the caller can surface a "different restaurant" warning.
func (c *Cart) Add(item *models.MenuItem) bool {
	if !c.CanAdd(item) {
		return false
	}
	if len(c.lines) == 0 {
		c.restaurantID = item.RestaurantID
	}
	if line, ok := c.lines[item.ID]; ok {
		// Keep the freshest catalog value so Subtotal prices live.
		line.Item = item
		line.Quantity++
		return true
	}
	c.lines[item.ID] = &Line{Item: item, Quantity: 1}
	return true
}

// Remove deletes the item's line entirely, regardless of quantity.
func (c *Cart) Remove(itemID int64) {
	delete(c.lines, itemID)
}

// SetQuantity sets the item's quantity to n, inserting the line if
// absent. n <= 0 is equivalent to Remove. Inserting a cross-restaurant
// item is rejected the same way Add rejects it.
func (c *Cart) SetQuantity(item *models.MenuItem, n int) bool {
	if n <= 0 {
		c.Remove(item.ID)
		return true
	}
	if line, ok := c.lines[item.ID]; ok {
		line.Item = item
		line.Quantity = n
		return true
	}
	if !c.CanAdd(item) {
		return false
	}
	if len(c.lines) == 0 {
		c.restaurantID = item.RestaurantID
	}
	c.lines[item.ID] = &Line{Item: item, Quantity: n}
	return true
}

// QuantityOf returns the item's quantity, 0 if absent.
func (c *Cart) QuantityOf(itemID int64) int {
	if line, ok := c.lines[itemID]; ok {
		return line.Quantity
	}
	return 0
}

// Subtotal sums live price × quantity over all lines. Prices are not yet
// snapshots here; freezing happens only at checkout materialization.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, line := range c.lines {
		sum += line.Item.Price * float64(line.Quantity)
	}
	return sum
}

// Lines returns the cart entries ordered by item ID for stable display.
func (c *Cart) Lines() []*Line {
	out := make([]*Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out
}

// Clear empties the cart and resets the restaurant selection.
func (c *Cart) Clear() {
	c.lines = make(map[int64]*Line)
	c.restaurantID = 0
}
