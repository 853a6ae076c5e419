package models

// Restaurant is a merchant in the catalog.
type Restaurant struct {
	// ID is the stable catalog identifier, assigned by the store.
	ID int64

	// Name is the display name of the restaurant.
	Name string

	// Cuisine is the primary cuisine tag (e.g. "Egyptian", "Pizza").
	Cuisine string

	// City is the city the restaurant delivers in.
	City string

	// CreatedAt is the Unix timestamp when the restaurant was added.
	CreatedAt int64
}

// MenuItem is a single dish on a restaurant's menu.
//
// Price is the live price: the catalog may change it after the item has
// been ordered. Anything that must survive such changes (an order line)
// snapshots the price instead of referencing it.
type MenuItem struct {
	// ID is the stable catalog identifier, assigned by the store.
	// Carts key their entries by this ID, never by struct identity,
	// so a re-fetched MenuItem keeps its cart quantity.
	ID int64

	// RestaurantID is the owning restaurant.
	RestaurantID int64

	// Name is the display name of the dish.
	Name string

	// Description is the menu blurb.
	Description string

	// Price is the current price. Mutable, merchant-controlled.
	Price float64

	// Available reports whether the dish can currently be ordered.
	Available bool

	// ImageURL is an optional asset reference for the UI.
	ImageURL string
}

// Priceable is the display-and-pricing capability shared by menu items
// and anything that decorates them.
type Priceable interface {
	DisplayName() string
	CurrentPrice() float64
}

// DisplayName returns the dish name.
func (m *MenuItem) DisplayName() string { return m.Name }

// CurrentPrice returns the live catalog price.
func (m *MenuItem) CurrentPrice() float64 { return m.Price }

// ToppingDecorator adds a topping to a wrapped Priceable by composition.
// It wraps the base item rather than extending it, so decorators stack
// (item + cheese + extra sauce) without touching catalog entities.
type ToppingDecorator struct {
	// Base is the wrapped item or decorator.
	Base Priceable

	// Topping is the display name of the addition.
	Topping string

	// Surcharge is added on top of the base price.
	Surcharge float64
}

// DisplayName returns the base name with the topping appended.
func (d *ToppingDecorator) DisplayName() string {
	return d.Base.DisplayName() + " + " + d.Topping
}

// CurrentPrice returns the base price plus the topping surcharge.
func (d *ToppingDecorator) CurrentPrice() float64 {
	return d.Base.CurrentPrice() + d.Surcharge
}

var (
	_ Priceable = (*MenuItem)(nil)
	_ Priceable = (*ToppingDecorator)(nil)
)
