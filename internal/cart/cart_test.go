package cart

import (
	"math"
	"testing"

	"github.com/sofra-eats/sofra/internal/models"
)

func koshary() *models.MenuItem {
	return &models.MenuItem{ID: 1, RestaurantID: 10, Name: "Koshary", Price: 85, Available: true}
}

func tahini() *models.MenuItem {
	return &models.MenuItem{ID: 2, RestaurantID: 10, Name: "Tahini Salad", Price: 30, Available: true}
}

func sushi() *models.MenuItem {
	return &models.MenuItem{ID: 3, RestaurantID: 20, Name: "Salmon Roll", Price: 140, Available: true}
}

func TestAddSetsRestaurant(t *testing.T) {
	c := New()
	if c.RestaurantID() != 0 {
		t.Fatalf("new cart restaurant = %d, want 0", c.RestaurantID())
	}
	if !c.Add(koshary()) {
		t.Fatal("Add into empty cart rejected")
	}
	if c.RestaurantID() != 10 {
		t.Errorf("restaurant = %d, want 10", c.RestaurantID())
	}
	if got := c.QuantityOf(1); got != 1 {
		t.Errorf("QuantityOf(1) = %d, want 1", got)
	}
}

func TestCrossRestaurantAddRejected(t *testing.T) {
	c := New()
	c.Add(koshary())

	if c.Add(sushi()) {
		t.Error("cross-restaurant Add accepted")
	}
	if got := c.QuantityOf(3); got != 0 {
		t.Errorf("rejected item has quantity %d", got)
	}
	if !c.IsEmpty() && c.RestaurantID() != 10 {
		t.Errorf("restaurant changed to %d on rejected add", c.RestaurantID())
	}

	// Every remaining line must match the active restaurant.
	for _, line := range c.Lines() {
		if line.Item.RestaurantID != c.RestaurantID() {
			t.Errorf("line %q from restaurant %d in cart for %d",
				line.Item.Name, line.Item.RestaurantID, c.RestaurantID())
		}
	}
}

func TestAddIncrementsQuantity(t *testing.T) {
	c := New()
	c.Add(koshary())
	c.Add(koshary())
	c.Add(koshary())
	if got := c.QuantityOf(1); got != 3 {
		t.Errorf("QuantityOf = %d, want 3", got)
	}
}

func TestRefetchedItemKeepsQuantity(t *testing.T) {
	// The catalog returns a fresh MenuItem value on every fetch; the cart
	// must key by ID so quantities survive across screens.
	c := New()
	c.Add(koshary())

	refetched := koshary()
	refetched.Price = 90
	c.Add(refetched)

	if got := c.QuantityOf(1); got != 2 {
		t.Errorf("QuantityOf = %d after re-fetched add, want 2", got)
	}
	if got := c.Subtotal(); math.Abs(got-180) > 1e-9 {
		t.Errorf("Subtotal = %v, want 180 (priced from latest fetch)", got)
	}
}

func TestSetQuantity(t *testing.T) {
	c := New()
	item := koshary()

	if !c.SetQuantity(item, 4) {
		t.Fatal("SetQuantity insert rejected")
	}
	if got := c.QuantityOf(1); got != 4 {
		t.Errorf("QuantityOf = %d, want 4", got)
	}

	// Zero is equivalent to Remove.
	c.SetQuantity(item, 0)
	if got := c.QuantityOf(1); got != 0 {
		t.Errorf("QuantityOf after SetQuantity(0) = %d, want 0", got)
	}
	if !c.IsEmpty() {
		t.Error("cart not empty after SetQuantity(0) on its only line")
	}

	// Cross-restaurant insert through SetQuantity is rejected too.
	c.Add(koshary())
	if c.SetQuantity(sushi(), 2) {
		t.Error("cross-restaurant SetQuantity insert accepted")
	}
}

func TestSubtotalUsesLivePrices(t *testing.T) {
	c := New()
	item := koshary()
	c.Add(item)
	c.Add(item)
	c.Add(tahini())

	if got := c.Subtotal(); math.Abs(got-200) > 1e-9 {
		t.Errorf("Subtotal = %v, want 200", got)
	}

	// The cart prices from the live value it holds.
	item.Price = 100
	if got := c.Subtotal(); math.Abs(got-230) > 1e-9 {
		t.Errorf("Subtotal after live change = %v, want 230", got)
	}
}

func TestClearResetsRestaurant(t *testing.T) {
	c := New()
	c.Add(koshary())
	c.Clear()

	if !c.IsEmpty() {
		t.Error("cart not empty after Clear")
	}
	if c.RestaurantID() != 0 {
		t.Errorf("restaurant = %d after Clear, want 0", c.RestaurantID())
	}
	if !c.Add(sushi()) {
		t.Error("add from another restaurant rejected after Clear")
	}
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	c := New()
	c.Add(koshary())
	c.Add(koshary())
	c.Remove(1)
	if got := c.QuantityOf(1); got != 0 {
		t.Errorf("QuantityOf after Remove = %d, want 0", got)
	}
}
