package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/sofra-eats/sofra/internal/models"
	"github.com/sofra-eats/sofra/internal/storage"
)

// Procedure names for the catalog service.
const (
	CatalogListRestaurantsProcedure = "/sofra.v1.CatalogService/ListRestaurants"
	CatalogGetMenuProcedure         = "/sofra.v1.CatalogService/GetMenu"
)

type ListRestaurantsRequest struct{}

type ListRestaurantsResponse struct {
	Restaurants []*Restaurant `json:"restaurants"`
}

type GetMenuRequest struct {
	RestaurantID int64 `json:"restaurant_id"`
}

type GetMenuResponse struct {
	Items []*MenuItem `json:"items"`
}

// Restaurant is the wire shape of a catalog restaurant.
type Restaurant struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	City    string `json:"city"`
}

// MenuItem is the wire shape of a dish. Price is the live catalog price
// at the time of the call.
type MenuItem struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
	ImageURL     string  `json:"image_url,omitempty"`
}

func toWireMenuItem(m *models.MenuItem) *MenuItem {
	return &MenuItem{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Available:    m.Available,
		ImageURL:     m.ImageURL,
	}
}

// CatalogService serves the read-only restaurant and menu surface.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates the catalog service.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListRestaurants returns every restaurant in the catalog.
func (s *CatalogService) ListRestaurants(ctx context.Context, _ *connect.Request[ListRestaurantsRequest]) (*connect.Response[ListRestaurantsResponse], error) {
	restaurants, err := s.store.ListRestaurants(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, &Restaurant{ID: r.ID, Name: r.Name, Cuisine: r.Cuisine, City: r.City})
	}
	return connect.NewResponse(&ListRestaurantsResponse{Restaurants: out}), nil
}

// GetMenu returns the menu of one restaurant.
func (s *CatalogService) GetMenu(ctx context.Context, req *connect.Request[GetMenuRequest]) (*connect.Response[GetMenuResponse], error) {
	items, err := s.store.ListMenu(ctx, req.Msg.RestaurantID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*MenuItem, 0, len(items))
	for _, m := range items {
		out = append(out, toWireMenuItem(m))
	}
	return connect.NewResponse(&GetMenuResponse{Items: out}), nil
}

// NewCatalogServiceHandler mounts the catalog procedures.
func NewCatalogServiceHandler(s *CatalogService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CatalogListRestaurantsProcedure, newUnaryHandler(CatalogListRestaurantsProcedure, s.ListRestaurants, opts))
	mux.Handle(CatalogGetMenuProcedure, newUnaryHandler(CatalogGetMenuProcedure, s.GetMenu, opts))
	return "/sofra.v1.CatalogService/", mux
}
