// Package factories generates realistic catalog data for the seed
// command and local development.
package factories

import (
	"github.com/jaswdr/faker"

	"github.com/sofra-eats/sofra/internal/models"
)

var fake = faker.New()

var dishesByCuisine = map[string][]string{
	"Egyptian":      {"Koshary", "Fattah", "Molokhia", "Hawawshi", "Mahshi"},
	"Pizza":         {"Margherita", "Pepperoni", "Veggie Supreme", "Quattro Formaggi"},
	"Burgers":       {"Classic Cheeseburger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Grill":         {"Grilled Chicken", "Mixed Grill Platter", "Kofta Skewers"},
	"Lebanese":      {"Shawarma", "Falafel Wrap", "Hummus Plate", "Tabbouleh"},
	"Italian":       {"Spaghetti Carbonara", "Lasagna", "Penne Arrabbiata", "Tiramisu"},
	"Japanese":      {"Salmon Roll", "Ramen", "Tempura", "Miso Soup"},
	"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Biryani", "Naan Bread"},
	"Mediterranean": {"Greek Salad", "Grilled Halloumi", "Moussaka"},
}

var cuisines = func() []string {
	out := make([]string, 0, len(dishesByCuisine))
	for c := range dishesByCuisine {
		out = append(out, c)
	}
	return out
}()

// CatalogFactory builds restaurants and menu items with fake data.
type CatalogFactory struct{}

// Restaurant generates a restaurant with a random cuisine.
func (f *CatalogFactory) Restaurant() *models.Restaurant {
	cuisine := cuisines[fake.IntBetween(0, len(cuisines)-1)]
	return &models.Restaurant{
		Name:    fake.Company().Name(),
		Cuisine: cuisine,
		City:    fake.Address().City(),
	}
}

// MenuItem generates a dish matching the restaurant's cuisine. Prices
// land in the 20–250 range so seeded carts exercise every delivery-fee
// tier.
func (f *CatalogFactory) MenuItem(r *models.Restaurant) *models.MenuItem {
	return &models.MenuItem{
		RestaurantID: r.ID,
		Name:         f.dishName(r.Cuisine),
		Description:  fake.Lorem().Sentence(8),
		Price:        fake.Float64(2, 20, 250),
		Available:    fake.Bool(),
		ImageURL:     fake.Internet().URL(),
	}
}

func (f *CatalogFactory) dishName(cuisine string) string {
	dishes, ok := dishesByCuisine[cuisine]
	if !ok {
		return "Special of the Day"
	}
	return dishes[fake.IntBetween(0, len(dishes)-1)]
}
