package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

// nextStatus is the full transition table: strictly forward, no skips.
var nextStatus = map[Status]Status{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the single legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return nextStatus[s] == next
}

// InvalidTransitionError is returned when an order status update is not
// the next step in the pending → preparing → ready → delivered chain.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// PaymentMethod is the capability an order charges through.
type PaymentMethod interface {
	// Pay charges the given amount, reporting success.
	Pay(amount float64) bool
}

// Refunder is the optional compensation capability of a payment method.
// Checkout uses it to reverse a charge when persistence fails after a
// successful payment.
type Refunder interface {
	Refund(amount float64) bool
}

// OrderItem is one line of an order.
//
// priceAtPurchase is set exactly once, by NewOrderItem, and there is
// deliberately no setter: later catalog price changes never reach a
// recorded line. The MenuItem reference is kept for display attributes
// only and is never consulted for pricing.
type OrderItem struct {
	// Item is the originating menu item, display use only.
	Item *MenuItem

	// Quantity is the ordered count, always positive.
	Quantity int

	priceAtPurchase float64
}

// NewOrderItem freezes priceAtPurchase for the lifetime of the line.
// The caller picks the snapshot moment; checkout passes the item's live
// price at materialization time.
func NewOrderItem(item *MenuItem, quantity int, priceAtPurchase float64) *OrderItem {
	return &OrderItem{
		Item:            item,
		Quantity:        quantity,
		priceAtPurchase: priceAtPurchase,
	}
}

// PriceAtPurchase returns the frozen unit price.
func (i *OrderItem) PriceAtPurchase() float64 { return i.priceAtPurchase }

// Total returns the frozen unit price times quantity.
func (i *OrderItem) Total() float64 {
	return i.priceAtPurchase * float64(i.Quantity)
}

// Order is the snapshot aggregate produced by checkout and handed to the
// store. After persistence the store owns the durable copy.
type Order struct {
	// ID is assigned by the store; zero until persisted.
	ID int64

	// UserID is the placing user.
	UserID string

	// Status is the current lifecycle state.
	Status Status

	// Items are the order lines, in the order they were added.
	Items []*OrderItem

	// Payment is the attached payment capability. May be nil for orders
	// reloaded from the store; Pay then fails deterministically.
	Payment PaymentMethod

	// TotalAmount is the grand total (line totals + VAT + delivery fee).
	// It also serves as the stored total for orders reloaded without
	// their line items.
	TotalAmount float64

	// Delivery address, validated by checkout.
	Street string
	City   string
	Phone  string

	// CreatedAt is the Unix timestamp when the order was constructed.
	CreatedAt int64
}

// NewOrder constructs a pending order for the given user.
func NewOrder(userID string, payment PaymentMethod) *Order {
	return &Order{
		UserID:    userID,
		Status:    StatusPending,
		Payment:   payment,
		CreatedAt: time.Now().Unix(),
	}
}

// AddItem appends a line to the order.
func (o *Order) AddItem(item *OrderItem) {
	o.Items = append(o.Items, item)
}

// Total returns the sum of the frozen line totals. Orders reloaded from
// the store without line items fall back to the stored TotalAmount.
func (o *Order) Total() float64 {
	if len(o.Items) == 0 {
		return o.TotalAmount
	}
	var sum float64
	for _, item := range o.Items {
		sum += item.Total()
	}
	return sum
}

// Pay charges the frozen item sum through the attached payment method.
// Returns false when no method is attached.
func (o *Order) Pay() bool {
	if o.Payment == nil {
		return false
	}
	return o.Payment.Pay(o.Total())
}

// SetStatus advances the order to next, rejecting anything that is not
// the immediate successor of the current status.
func (o *Order) SetStatus(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	return nil
}

// CanReview reports whether the customer may leave a review: only once
// the order has been delivered.
func (o *Order) CanReview() bool {
	return o.Status == StatusDelivered
}
