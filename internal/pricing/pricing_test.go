package pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVAT(t *testing.T) {
	tests := []struct {
		subtotal float64
		want     float64
	}{
		{100, 14},
		{0, 0},
		{200, 28},
		{85, 11.9},
	}
	for _, tt := range tests {
		if got := VAT(tt.subtotal); !almostEqual(got, tt.want) {
			t.Errorf("VAT(%v) = %v, want %v", tt.subtotal, got, tt.want)
		}
	}
}

func TestDeliveryFeeTiers(t *testing.T) {
	tests := []struct {
		subtotal float64
		want     float64
	}{
		{0, 35},
		{50, 35},
		{99.99, 35},
		{100, 25}, // lower boundary belongs to the middle tier
		{150, 25},
		{200, 25}, // upper boundary belongs to the middle tier
		{200.01, 15},
		{1000, 15},
	}
	for _, tt := range tests {
		if got := DeliveryFee(tt.subtotal); !almostEqual(got, tt.want) {
			t.Errorf("DeliveryFee(%v) = %v, want %v", tt.subtotal, got, tt.want)
		}
	}
}

func TestTotal(t *testing.T) {
	// Subtotal 200: vat 28, delivery 25 (boundary-inclusive middle tier).
	if got := Total(200); !almostEqual(got, 253) {
		t.Errorf("Total(200) = %v, want 253", got)
	}
	if got := Total(50); !almostEqual(got, 50+7+35) {
		t.Errorf("Total(50) = %v, want 92", got)
	}
	if got := Total(300); !almostEqual(got, 300+42+15) {
		t.Errorf("Total(300) = %v, want 357", got)
	}
}
