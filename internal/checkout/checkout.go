// Package checkout turns a cart into a persisted order.
//
// The orchestration runs a fixed sequence, each step short-circuiting on
// failure: validate cart and address, resolve the acting user, price the
// subtotal, freeze cart lines into order items (the snapshot boundary),
// charge the payment capability, persist, then clear the cart. Every
// failure is an explicit returned value; nothing here panics on user
// input.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sofra-eats/sofra/internal/cart"
	"github.com/sofra-eats/sofra/internal/models"
	"github.com/sofra-eats/sofra/internal/pricing"
)

var (
	// ErrEmptyCart rejects checkout before any side effect.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotAuthenticated means the session collaborator produced no
	// user; recoverable by logging in again.
	ErrNotAuthenticated = errors.New("no authenticated user")

	// ErrNoPaymentMethod is a caller bug: checkout was reached without
	// selecting a payment capability.
	ErrNoPaymentMethod = errors.New("no payment method selected")

	// ErrPaymentFailed means the capability declined the charge;
	// recoverable by retrying. The store is never touched.
	ErrPaymentFailed = errors.New("payment declined")
)

// ValidationError reports a missing delivery-address field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("delivery address: %s is required", e.Field)
}

// PersistError means the store rejected an already-paid order. The cart
// is deliberately left intact so the user can retry; Refunded reports
// whether the compensating refund went through.
type PersistError struct {
	Err      error
	Refunded bool
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("order could not be saved (refunded=%v): %v", e.Refunded, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Address is the delivery destination. All three fields are required
// after trimming whitespace.
type Address struct {
	Street string
	City   string
	Phone  string
}

// Trim strips surrounding whitespace from every field in place.
func (a *Address) Trim() {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.Phone = strings.TrimSpace(a.Phone)
}

// Validate reports the first missing field, ignoring whitespace.
func (a Address) Validate() error {
	a.Trim()
	switch {
	case a.Street == "":
		return &ValidationError{Field: "street"}
	case a.City == "":
		return &ValidationError{Field: "city"}
	case a.Phone == "":
		return &ValidationError{Field: "phone"}
	}
	return nil
}

// Breakdown is the price summary reported to the caller on success.
type Breakdown struct {
	OrderID  int64
	Subtotal float64
	VAT      float64
	Delivery float64
	Total    float64
}

// OrderStore is the slice of the persistence collaborator checkout
// needs. The returned ID must be positive; anything else is a failure.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) (int64, error)
}

// Notifier receives a successfully placed order, e.g. for publishing an
// event. Failures are logged, never surfaced: the order already exists.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *models.Order, subtotal, vat, delivery float64) error
}

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sofra_orders_placed_total",
		Help: "Orders successfully paid and persisted.",
	})
	paymentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sofra_payment_failures_total",
		Help: "Checkout attempts declined by the payment capability.",
	})
)

// Service orchestrates checkout against a store and an optional
// notifier.
type Service struct {
	store    OrderStore
	notifier Notifier
}

// NewService creates a checkout service. notifier may be nil.
func NewService(store OrderStore, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Checkout materializes the cart into an order for userID, charges it,
// and persists it. On success the cart is cleared and the price
// breakdown returned. On any failure the cart is untouched.
//
// The cart belongs to a single session; the caller must serialize access
// to it for the duration of the call.
func (s *Service) Checkout(ctx context.Context, userID string, c *cart.Cart, addr Address, method models.PaymentMethod) (*Breakdown, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthenticated
	}
	if method == nil {
		return nil, ErrNoPaymentMethod
	}

	subtotal := c.Subtotal()
	vat := pricing.VAT(subtotal)
	delivery := pricing.DeliveryFee(subtotal)

	// The snapshot boundary: from here on the order prices from frozen
	// values, never from the catalog.
	order := models.NewOrder(userID, method)
	addr.Trim()
	order.Street, order.City, order.Phone = addr.Street, addr.City, addr.Phone
	for _, line := range c.Lines() {
		order.AddItem(models.NewOrderItem(line.Item, line.Quantity, line.Item.Price))
	}
	order.TotalAmount = order.Total() + vat + delivery

	if !order.Pay() {
		paymentFailures.Inc()
		return nil, ErrPaymentFailed
	}

	id, err := s.store.CreateOrder(ctx, order)
	if err != nil || id <= 0 {
		if err == nil {
			err = fmt.Errorf("store returned invalid order id %d", id)
		}
		// Payment already went through; compensate when the capability
		// can reverse the exact amount it charged.
		refunded := false
		if r, ok := method.(models.Refunder); ok {
			refunded = r.Refund(order.Total())
		}
		slog.Error("order persistence failed after payment",
			"user_id", userID,
			"refunded", refunded,
			"error", err,
		)
		return nil, &PersistError{Err: err, Refunded: refunded}
	}
	order.ID = id

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order, subtotal, vat, delivery); err != nil {
			slog.Warn("order event publish failed", "order_id", id, "error", err)
		}
	}

	c.Clear()
	ordersPlaced.Inc()
	slog.Info("order placed",
		"order_id", id,
		"user_id", userID,
		"subtotal", subtotal,
		"total", order.TotalAmount,
	)

	return &Breakdown{
		OrderID:  id,
		Subtotal: subtotal,
		VAT:      vat,
		Delivery: delivery,
		Total:    order.TotalAmount,
	}, nil
}
