// Package pricing holds the pure fee computations applied to a cart
// subtotal at checkout. All inputs are non-negative by precondition;
// checkout rejects empty carts before pricing runs.
package pricing

// VATRate is the flat value-added tax applied to the subtotal.
const VATRate = 0.14

// Delivery fee tiers. The boundaries 100 and 200 belong to the middle
// tier.
const (
	smallOrderFee  = 35.0
	mediumOrderFee = 25.0
	largeOrderFee  = 15.0

	mediumOrderMin = 100.0
	mediumOrderMax = 200.0
)

// VAT returns the tax on the given subtotal.
func VAT(subtotal float64) float64 {
	return subtotal * VATRate
}

// DeliveryFee returns the tiered fee: 35 below 100, 25 from 100 through
// 200 inclusive, 15 above 200.
func DeliveryFee(subtotal float64) float64 {
	switch {
	case subtotal < mediumOrderMin:
		return smallOrderFee
	case subtotal <= mediumOrderMax:
		return mediumOrderFee
	default:
		return largeOrderFee
	}
}

// Total returns subtotal + VAT + delivery fee.
func Total(subtotal float64) float64 {
	return subtotal + VAT(subtotal) + DeliveryFee(subtotal)
}
