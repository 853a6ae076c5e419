package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/sofra-eats/sofra/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCatalogRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := &models.Restaurant{Name: "Abou Tarek", Cuisine: "Egyptian", City: "Cairo"}
	if err := store.CreateRestaurant(ctx, r); err != nil {
		t.Fatalf("CreateRestaurant failed: %v", err)
	}
	if r.ID <= 0 {
		t.Fatalf("restaurant ID = %d, want positive", r.ID)
	}

	item := &models.MenuItem{
		RestaurantID: r.ID,
		Name:         "Koshary",
		Description:  "Rice, lentils, pasta, crispy onions",
		Price:        85,
		Available:    true,
	}
	if err := store.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("CreateMenuItem failed: %v", err)
	}

	got, err := store.GetMenuItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetMenuItem failed: %v", err)
	}
	if got.Name != "Koshary" || math.Abs(got.Price-85) > 1e-9 || !got.Available {
		t.Errorf("GetMenuItem = %+v", got)
	}

	menu, err := store.ListMenu(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListMenu failed: %v", err)
	}
	if len(menu) != 1 {
		t.Errorf("ListMenu returned %d items, want 1", len(menu))
	}

	restaurants, err := store.ListRestaurants(ctx)
	if err != nil {
		t.Fatalf("ListRestaurants failed: %v", err)
	}
	if len(restaurants) != 1 || restaurants[0].ID != r.ID {
		t.Errorf("ListRestaurants = %+v", restaurants)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := &models.MenuItem{ID: 7, Name: "Fattah", Price: 85}
	o := models.NewOrder("user-1", nil)
	o.AddItem(models.NewOrderItem(item, 2, item.Price))
	o.TotalAmount = 253
	o.Street, o.City, o.Phone = "12 Tahrir St", "Cairo", "01001234567"

	id, err := store.CreateOrder(ctx, o)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("generated order id = %d, want positive", id)
	}

	got, err := store.GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.UserID != "user-1" || got.Status != models.StatusPending {
		t.Errorf("reloaded order = %+v", got)
	}
	if len(got.Items) != 1 {
		t.Fatalf("reloaded order has %d items, want 1", len(got.Items))
	}
	line := got.Items[0]
	if math.Abs(line.PriceAtPurchase()-85) > 1e-9 || line.Quantity != 2 {
		t.Errorf("reloaded line = qty %d price %v", line.Quantity, line.PriceAtPurchase())
	}
	if line.Item == nil || line.Item.Name != "Fattah" {
		t.Errorf("reloaded line lost its display snapshot: %+v", line.Item)
	}
	// A reloaded order has no payment capability attached.
	if got.Pay() {
		t.Error("Pay() on reloaded order = true, want false")
	}
}

func TestOrderStatusUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := models.NewOrder("user-1", nil)
	o.TotalAmount = 100
	id, err := store.CreateOrder(ctx, o)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := store.UpdateOrderStatus(ctx, id, models.StatusPreparing); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	got, err := store.GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.Status != models.StatusPreparing {
		t.Errorf("status = %q, want preparing", got.Status)
	}

	if err := store.UpdateOrderStatus(ctx, 99999, models.StatusPreparing); err == nil {
		t.Error("UpdateOrderStatus on missing order succeeded")
	}
}

func TestEmptyOrderFallsBackToStoredTotal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := models.NewOrder("user-1", nil)
	o.TotalAmount = 199.5
	id, err := store.CreateOrder(ctx, o)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := store.GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if math.Abs(got.Total()-199.5) > 1e-9 {
		t.Errorf("Total() = %v, want stored 199.5", got.Total())
	}
}

func TestGroupOrderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pizza := &models.MenuItem{ID: 1, Name: "Margherita", Price: 120}
	wings := &models.MenuItem{ID: 2, Name: "Wings", Price: 75}

	g := models.NewGroupOrder("host-1", nil)
	g.AddContribution("Amr", models.NewOrderItem(pizza, 1, pizza.Price))
	g.AddContribution("Salma", models.NewOrderItem(wings, 2, wings.Price))
	g.TotalAmount = g.Total()

	id, err := store.CreateGroupOrder(ctx, g)
	if err != nil {
		t.Fatalf("CreateGroupOrder failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("generated order id = %d", id)
	}

	got, err := store.GetGroupOrderByToken(ctx, g.ShareToken)
	if err != nil {
		t.Fatalf("GetGroupOrderByToken failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("reloaded group order has %d items, want 2", len(got.Items))
	}
	if len(got.Contributions["Amr"]) != 1 || len(got.Contributions["Salma"]) != 1 {
		t.Fatalf("reloaded contributions = %+v", got.Contributions)
	}

	// Split-sum consistency must survive a round trip.
	var sum float64
	for _, share := range got.SplitBill() {
		sum += share
	}
	if math.Abs(sum-got.Total()) > 1e-9 {
		t.Errorf("sum of shares = %v, total = %v", sum, got.Total())
	}
	if math.Abs(got.SplitBill()["Salma"]-150) > 1e-9 {
		t.Errorf("Salma share = %v, want 150", got.SplitBill()["Salma"])
	}
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := models.NewUser("amr@example.com", "Amr", "hash")
	if err := store.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "amr@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail ID = %q, want %q", byEmail.ID, u.ID)
	}

	byID, err := store.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("GetUserByID email = %q", byID.Email)
	}

	// Duplicate email is rejected by the unique constraint.
	dup := models.NewUser("amr@example.com", "Other", "hash2")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("CreateUser with duplicate email succeeded")
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err == nil {
		t.Error("GetUserByEmail for missing user succeeded")
	}
}
