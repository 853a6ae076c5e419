// Package payment provides the concrete payment capabilities consumed by
// orders. Real gateway integration is out of scope; the Gateway adapter
// delegates to injectable functions.
package payment

import "github.com/sofra-eats/sofra/internal/models"

// CashOnDelivery settles when the courier hands over the order. Nothing
// is charged up front, so Pay always succeeds and Refund has nothing to
// reverse.
type CashOnDelivery struct{}

func (CashOnDelivery) Pay(amount float64) bool    { return true }
func (CashOnDelivery) Refund(amount float64) bool { return true }

// Gateway adapts an external card processor. Charge and Return are the
// processor calls; leaving either nil makes the corresponding operation
// fail, which surfaces as a payment failure rather than a panic.
type Gateway struct {
	Charge func(amount float64) bool
	Return func(amount float64) bool
}

func (g *Gateway) Pay(amount float64) bool {
	if g.Charge == nil {
		return false
	}
	return g.Charge(amount)
}

func (g *Gateway) Refund(amount float64) bool {
	if g.Return == nil {
		return false
	}
	return g.Return(amount)
}

var (
	_ models.PaymentMethod = CashOnDelivery{}
	_ models.Refunder      = CashOnDelivery{}
	_ models.PaymentMethod = (*Gateway)(nil)
	_ models.Refunder      = (*Gateway)(nil)
)
