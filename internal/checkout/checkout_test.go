package checkout

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sofra-eats/sofra/internal/cart"
	"github.com/sofra-eats/sofra/internal/models"
	"github.com/sofra-eats/sofra/internal/payment"
)

// fakeStore records CreateOrder calls and returns a canned result.
type fakeStore struct {
	nextID int64
	err    error
	orders []*models.Order
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order) (int64, error) {
	f.orders = append(f.orders, o)
	if f.err != nil {
		return 0, f.err
	}
	return f.nextID, nil
}

// recordingMethod tracks charges and refunds.
type recordingMethod struct {
	payOK    bool
	refundOK bool
	charged  []float64
	refunded []float64
}

func (m *recordingMethod) Pay(amount float64) bool {
	m.charged = append(m.charged, amount)
	return m.payOK
}

func (m *recordingMethod) Refund(amount float64) bool {
	m.refunded = append(m.refunded, amount)
	return m.refundOK
}

func validAddress() Address {
	return Address{Street: "12 Tahrir St", City: "Cairo", Phone: "01001234567"}
}

// twoHundredCart builds the reference cart: 2× item priced 85 plus
// 1× item priced 30, subtotal 200.
func twoHundredCart() *cart.Cart {
	c := cart.New()
	fattah := &models.MenuItem{ID: 1, RestaurantID: 10, Name: "Fattah", Price: 85, Available: true}
	tahini := &models.MenuItem{ID: 2, RestaurantID: 10, Name: "Tahini", Price: 30, Available: true}
	c.Add(fattah)
	c.Add(fattah)
	c.Add(tahini)
	return c
}

func TestCheckoutSuccess(t *testing.T) {
	store := &fakeStore{nextID: 42}
	svc := NewService(store, nil)
	c := twoHundredCart()

	got, err := svc.Checkout(context.Background(), "user-1", c, validAddress(), payment.CashOnDelivery{})
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	// Subtotal 200 → vat 28, delivery 25 (boundary-inclusive middle
	// tier), total 253.
	if got.OrderID != 42 {
		t.Errorf("OrderID = %d, want 42", got.OrderID)
	}
	if math.Abs(got.Subtotal-200) > 1e-9 {
		t.Errorf("Subtotal = %v, want 200", got.Subtotal)
	}
	if math.Abs(got.VAT-28) > 1e-9 {
		t.Errorf("VAT = %v, want 28", got.VAT)
	}
	if math.Abs(got.Delivery-25) > 1e-9 {
		t.Errorf("Delivery = %v, want 25", got.Delivery)
	}
	if math.Abs(got.Total-253) > 1e-9 {
		t.Errorf("Total = %v, want 253", got.Total)
	}

	if !c.IsEmpty() {
		t.Error("cart not cleared after successful checkout")
	}
	if c.RestaurantID() != 0 {
		t.Error("restaurant selection not cleared after successful checkout")
	}

	if len(store.orders) != 1 {
		t.Fatalf("store received %d orders, want 1", len(store.orders))
	}
	persisted := store.orders[0]
	if persisted.UserID != "user-1" || persisted.Status != models.StatusPending {
		t.Errorf("persisted order = %+v", persisted)
	}
	if len(persisted.Items) != 2 {
		t.Errorf("persisted order has %d lines, want 2", len(persisted.Items))
	}
	if math.Abs(persisted.TotalAmount-253) > 1e-9 {
		t.Errorf("persisted TotalAmount = %v, want 253", persisted.TotalAmount)
	}
}

func TestCheckoutSnapshotsPricesAtMaterialization(t *testing.T) {
	store := &fakeStore{nextID: 1}
	svc := NewService(store, nil)

	c := cart.New()
	item := &models.MenuItem{ID: 1, RestaurantID: 10, Name: "Koshary", Price: 85, Available: true}
	c.Add(item)

	if _, err := svc.Checkout(context.Background(), "user-1", c, validAddress(), payment.CashOnDelivery{}); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	// A later merchant price change must not reach the persisted line.
	item.Price = 999
	line := store.orders[0].Items[0]
	if math.Abs(line.PriceAtPurchase()-85) > 1e-9 {
		t.Errorf("PriceAtPurchase = %v after live change, want 85", line.PriceAtPurchase())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := &fakeStore{nextID: 1}
	svc := NewService(store, nil)

	_, err := svc.Checkout(context.Background(), "user-1", cart.New(), validAddress(), payment.CashOnDelivery{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if len(store.orders) != 0 {
		t.Error("store invoked for empty cart")
	}
}

func TestCheckoutAddressValidation(t *testing.T) {
	svc := NewService(&fakeStore{nextID: 1}, nil)

	tests := []struct {
		name  string
		addr  Address
		field string
	}{
		{"missing street", Address{City: "Cairo", Phone: "0100"}, "street"},
		{"blank street", Address{Street: "   ", City: "Cairo", Phone: "0100"}, "street"},
		{"missing city", Address{Street: "12 Tahrir St", Phone: "0100"}, "city"},
		{"missing phone", Address{Street: "12 Tahrir St", City: "Cairo", Phone: " \t"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := twoHundredCart()
			_, err := svc.Checkout(context.Background(), "user-1", c, tt.addr, payment.CashOnDelivery{})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if c.IsEmpty() {
				t.Error("cart mutated on validation failure")
			}
		})
	}
}

func TestCheckoutUnauthenticated(t *testing.T) {
	svc := NewService(&fakeStore{nextID: 1}, nil)
	c := twoHundredCart()

	_, err := svc.Checkout(context.Background(), "  ", c, validAddress(), payment.CashOnDelivery{})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if c.IsEmpty() {
		t.Error("cart mutated on auth failure")
	}
}

func TestCheckoutNoPaymentMethod(t *testing.T) {
	svc := NewService(&fakeStore{nextID: 1}, nil)

	_, err := svc.Checkout(context.Background(), "user-1", twoHundredCart(), validAddress(), nil)
	if !errors.Is(err, ErrNoPaymentMethod) {
		t.Fatalf("err = %v, want ErrNoPaymentMethod", err)
	}
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	store := &fakeStore{nextID: 1}
	svc := NewService(store, nil)
	c := twoHundredCart()
	method := &recordingMethod{payOK: false}

	_, err := svc.Checkout(context.Background(), "user-1", c, validAddress(), method)
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}
	// The store must never be invoked after a declined payment.
	if len(store.orders) != 0 {
		t.Error("store invoked after declined payment")
	}
	if c.IsEmpty() {
		t.Error("cart mutated on payment failure")
	}
	// The charge attempt was for the frozen item sum.
	if len(method.charged) != 1 || math.Abs(method.charged[0]-200) > 1e-9 {
		t.Errorf("charged %v, want [200]", method.charged)
	}
}

func TestCheckoutPersistFailureRefunds(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	svc := NewService(store, nil)
	c := twoHundredCart()
	method := &recordingMethod{payOK: true, refundOK: true}

	_, err := svc.Checkout(context.Background(), "user-1", c, validAddress(), method)
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistError", err)
	}
	if !perr.Refunded {
		t.Error("Refunded = false, want true")
	}
	// The compensating refund reverses exactly what was charged.
	if len(method.refunded) != 1 || math.Abs(method.refunded[0]-200) > 1e-9 {
		t.Errorf("refunded %v, want [200]", method.refunded)
	}
	// Cart stays intact so the user can retry.
	if c.IsEmpty() {
		t.Error("cart cleared on persistence failure")
	}
}

func TestCheckoutInvalidStoreID(t *testing.T) {
	// A non-positive ID is the store's failure sentinel.
	store := &fakeStore{nextID: 0}
	svc := NewService(store, nil)
	method := &recordingMethod{payOK: true, refundOK: true}

	_, err := svc.Checkout(context.Background(), "user-1", twoHundredCart(), validAddress(), method)
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistError", err)
	}
	if len(method.refunded) != 1 {
		t.Errorf("refund attempts = %d, want 1", len(method.refunded))
	}
}

type recordingNotifier struct {
	orders []int64
}

func (n *recordingNotifier) OrderPlaced(ctx context.Context, o *models.Order, subtotal, vat, delivery float64) error {
	n.orders = append(n.orders, o.ID)
	return nil
}

func TestCheckoutNotifiesOnSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(&fakeStore{nextID: 7}, notifier)

	_, err := svc.Checkout(context.Background(), "user-1", twoHundredCart(), validAddress(), payment.CashOnDelivery{})
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if len(notifier.orders) != 1 || notifier.orders[0] != 7 {
		t.Errorf("notifier saw %v, want [7]", notifier.orders)
	}
}
