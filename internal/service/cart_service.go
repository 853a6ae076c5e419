package service

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/sofra-eats/sofra/internal/cart"
	"github.com/sofra-eats/sofra/internal/middleware"
	"github.com/sofra-eats/sofra/internal/pricing"
	"github.com/sofra-eats/sofra/internal/storage"
)

// Procedure names for the cart service.
const (
	CartAddItemProcedure     = "/sofra.v1.CartService/AddItem"
	CartRemoveItemProcedure  = "/sofra.v1.CartService/RemoveItem"
	CartSetQuantityProcedure = "/sofra.v1.CartService/SetQuantity"
	CartGetProcedure         = "/sofra.v1.CartService/GetCart"
)

var errItemUnavailable = errors.New("item is not available")

type AddItemRequest struct {
	ItemID int64 `json:"item_id"`
}

// AddItemResponse reports the outcome of an add. A cross-restaurant add
// is not an error: Added is false and Warning explains why, so the UI
// can offer to clear the cart.
type AddItemResponse struct {
	Added    bool   `json:"added"`
	Warning  string `json:"warning,omitempty"`
	Quantity int    `json:"quantity"`
}

type RemoveItemRequest struct {
	ItemID int64 `json:"item_id"`
}

type SetQuantityRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type CartMutationResponse struct {
	Quantity int `json:"quantity"`
}

type GetCartRequest struct{}

// CartLine is the wire shape of one cart entry, priced live.
type CartLine struct {
	Item      *MenuItem `json:"item"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"line_total"`
}

// GetCartResponse carries the cart contents plus a fee preview. The
// preview uses live prices and is advisory; the binding numbers come
// from checkout.
type GetCartResponse struct {
	RestaurantID int64       `json:"restaurant_id"`
	Lines        []*CartLine `json:"lines"`
	Subtotal     float64     `json:"subtotal"`
	VAT          float64     `json:"vat"`
	DeliveryFee  float64     `json:"delivery_fee"`
	Total        float64     `json:"total"`
}

// CartService is the per-user cart surface. All procedures require an
// authenticated session.
type CartService struct {
	store storage.Store
	carts *CartRegistry
}

// NewCartService creates the cart service.
func NewCartService(store storage.Store, carts *CartRegistry) *CartService {
	return &CartService{store: store, carts: carts}
}

// AddItem fetches the live item and adds one unit to the user's cart.
func (s *CartService) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	item, err := s.store.GetMenuItem(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !item.Available {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errItemUnavailable)
	}

	res := &AddItemResponse{}
	err = s.carts.Do(userID, func(c *cart.Cart) error {
		if !c.Add(item) {
			res.Warning = "cart holds items from a different restaurant"
			return nil
		}
		res.Added = true
		res.Quantity = c.QuantityOf(item.ID)
		return nil
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// RemoveItem drops the item's line entirely.
func (s *CartService) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[CartMutationResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	_ = s.carts.Do(userID, func(c *cart.Cart) error {
		c.Remove(req.Msg.ItemID)
		return nil
	})
	return connect.NewResponse(&CartMutationResponse{Quantity: 0}), nil
}

// SetQuantity sets the item's quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, req *connect.Request[SetQuantityRequest]) (*connect.Response[CartMutationResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	if req.Msg.Quantity <= 0 {
		return s.RemoveItem(ctx, connect.NewRequest(&RemoveItemRequest{ItemID: req.Msg.ItemID}))
	}

	item, err := s.store.GetMenuItem(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	res := &CartMutationResponse{}
	err = s.carts.Do(userID, func(c *cart.Cart) error {
		if !c.SetQuantity(item, req.Msg.Quantity) {
			return connect.NewError(connect.CodeFailedPrecondition,
				errors.New("cart holds items from a different restaurant"))
		}
		res.Quantity = c.QuantityOf(item.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(res), nil
}

// GetCart returns the cart priced at current catalog prices. The fee
// preview is only computed for a non-empty cart; an empty cart reports
// all zeroes.
func (s *CartService) GetCart(ctx context.Context, _ *connect.Request[GetCartRequest]) (*connect.Response[GetCartResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	res := &GetCartResponse{Lines: []*CartLine{}}
	_ = s.carts.Do(userID, func(c *cart.Cart) error {
		res.RestaurantID = c.RestaurantID()
		for _, line := range c.Lines() {
			res.Lines = append(res.Lines, &CartLine{
				Item:      toWireMenuItem(line.Item),
				Quantity:  line.Quantity,
				LineTotal: line.Item.Price * float64(line.Quantity),
			})
		}
		if !c.IsEmpty() {
			res.Subtotal = c.Subtotal()
			res.VAT = pricing.VAT(res.Subtotal)
			res.DeliveryFee = pricing.DeliveryFee(res.Subtotal)
			res.Total = pricing.Total(res.Subtotal)
		}
		return nil
	})
	return connect.NewResponse(res), nil
}

// NewCartServiceHandler mounts the cart procedures.
func NewCartServiceHandler(s *CartService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CartAddItemProcedure, newUnaryHandler(CartAddItemProcedure, s.AddItem, opts))
	mux.Handle(CartRemoveItemProcedure, newUnaryHandler(CartRemoveItemProcedure, s.RemoveItem, opts))
	mux.Handle(CartSetQuantityProcedure, newUnaryHandler(CartSetQuantityProcedure, s.SetQuantity, opts))
	mux.Handle(CartGetProcedure, newUnaryHandler(CartGetProcedure, s.GetCart, opts))
	return "/sofra.v1.CartService/", mux
}
