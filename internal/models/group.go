package models

import "github.com/google/uuid"

// GroupOrder is an Order with multiple contributors. Every item lives in
// two places at once: the contributor's own list and the underlying
// order's item collection. AddContribution maintains both, which is what
// keeps SplitBill summing to exactly the order total.
type GroupOrder struct {
	Order

	// Contributions maps each contributor to the lines they added.
	Contributions map[string][]*OrderItem

	// ShareToken is the random token contributors join with.
	ShareToken string
}

// NewGroupOrder creates an empty group order hosted by the given user,
// with a freshly generated share token.
func NewGroupOrder(hostID string, payment PaymentMethod) *GroupOrder {
	g := &GroupOrder{
		Order:         *NewOrder(hostID, payment),
		Contributions: make(map[string][]*OrderItem),
		ShareToken:    NewShareToken(),
	}
	return g
}

// NewShareToken returns a collision-resistant random share token.
func NewShareToken() string {
	return uuid.NewString()
}

// AddContribution records an item under the contributor and appends it to
// the order's item collection.
func (g *GroupOrder) AddContribution(customer string, item *OrderItem) {
	g.Contributions[customer] = append(g.Contributions[customer], item)
	g.AddItem(item)
}

// SplitBill returns each contributor's share: the sum of the frozen line
// totals of the items they added. The shares sum to Total() by
// construction.
func (g *GroupOrder) SplitBill() map[string]float64 {
	shares := make(map[string]float64, len(g.Contributions))
	for customer, items := range g.Contributions {
		var sum float64
		for _, item := range items {
			sum += item.Total()
		}
		shares[customer] = sum
	}
	return shares
}
