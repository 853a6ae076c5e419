package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/sofra-eats/sofra/internal/cart"
	"github.com/sofra-eats/sofra/internal/checkout"
	"github.com/sofra-eats/sofra/internal/middleware"
	"github.com/sofra-eats/sofra/internal/models"
	"github.com/sofra-eats/sofra/internal/payment"
	"github.com/sofra-eats/sofra/internal/storage"
)

// Procedure names for the order service.
const (
	OrderCheckoutProcedure     = "/sofra.v1.OrderService/Checkout"
	OrderGetProcedure          = "/sofra.v1.OrderService/GetOrder"
	OrderUpdateStatusProcedure = "/sofra.v1.OrderService/UpdateStatus"
)

type CheckoutRequest struct {
	Street        string `json:"street"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"` // "cash" or "card"
}

// CheckoutResponse is the price breakdown of the placed order.
type CheckoutResponse struct {
	OrderID     int64   `json:"order_id"`
	Subtotal    float64 `json:"subtotal"`
	VAT         float64 `json:"vat"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

type GetOrderRequest struct {
	OrderID int64 `json:"order_id"`
}

// OrderLine is the wire shape of a persisted order line: frozen unit
// price, never the live catalog one.
type OrderLine struct {
	Name            string  `json:"name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Total           float64 `json:"total"`
}

type OrderResponse struct {
	OrderID   int64        `json:"order_id"`
	Status    string       `json:"status"`
	Lines     []*OrderLine `json:"lines"`
	Total     float64      `json:"total"`
	Street    string       `json:"street"`
	City      string       `json:"city"`
	Phone     string       `json:"phone"`
	CanReview bool         `json:"can_review"`
	CreatedAt int64        `json:"created_at"`
}

type UpdateStatusRequest struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

type UpdateStatusResponse struct {
	Status string `json:"status"`
}

func toOrderResponse(o *models.Order) *OrderResponse {
	lines := make([]*OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, &OrderLine{
			Name:            item.Item.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase(),
			Total:           item.Total(),
		})
	}
	return &OrderResponse{
		OrderID:   o.ID,
		Status:    string(o.Status),
		Lines:     lines,
		Total:     o.TotalAmount,
		Street:    o.Street,
		City:      o.City,
		Phone:     o.Phone,
		CanReview: o.CanReview(),
		CreatedAt: o.CreatedAt,
	}
}

// OrderService places and tracks orders. All procedures require an
// authenticated session.
type OrderService struct {
	store       storage.Store
	carts       *CartRegistry
	checkout    *checkout.Service
	cardGateway models.PaymentMethod
}

// NewOrderService creates the order service. cardGateway backs the
// "card" payment option; nil means cards are unavailable.
func NewOrderService(store storage.Store, carts *CartRegistry, co *checkout.Service, cardGateway models.PaymentMethod) *OrderService {
	return &OrderService{store: store, carts: carts, checkout: co, cardGateway: cardGateway}
}

func (s *OrderService) paymentFor(name string) (models.PaymentMethod, error) {
	switch name {
	case "cash":
		return payment.CashOnDelivery{}, nil
	case "card":
		if s.cardGateway == nil {
			return nil, errors.New("card payments are not configured")
		}
		return s.cardGateway, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", name)
	}
}

// Checkout places the user's cart as an order.
func (s *OrderService) Checkout(ctx context.Context, req *connect.Request[CheckoutRequest]) (*connect.Response[CheckoutResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, checkout.ErrNotAuthenticated)
	}

	method, err := s.paymentFor(req.Msg.PaymentMethod)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	addr := checkout.Address{Street: req.Msg.Street, City: req.Msg.City, Phone: req.Msg.Phone}

	var breakdown *checkout.Breakdown
	err = s.carts.Do(userID, func(c *cart.Cart) error {
		breakdown, err = s.checkout.Checkout(ctx, userID, c, addr, method)
		return err
	})
	if err != nil {
		return nil, checkoutError(err)
	}

	return connect.NewResponse(&CheckoutResponse{
		OrderID:     breakdown.OrderID,
		Subtotal:    breakdown.Subtotal,
		VAT:         breakdown.VAT,
		DeliveryFee: breakdown.Delivery,
		Total:       breakdown.Total,
	}), nil
}

// checkoutError maps checkout failures onto connect codes.
func checkoutError(err error) error {
	var validation *checkout.ValidationError
	var persist *checkout.PersistError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.As(err, &validation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, checkout.ErrPaymentFailed):
		return connect.NewError(connect.CodeAborted, err)
	case errors.As(err, &persist), errors.Is(err, checkout.ErrNoPaymentMethod):
		return connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// GetOrder returns one of the caller's orders.
func (s *OrderService) GetOrder(ctx context.Context, req *connect.Request[GetOrderRequest]) (*connect.Response[OrderResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, checkout.ErrNotAuthenticated)
	}

	order, err := s.store.GetOrder(ctx, req.Msg.OrderID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if order.UserID != userID {
		// Hide other users' orders entirely.
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("order %d not found", req.Msg.OrderID))
	}
	return connect.NewResponse(toOrderResponse(order)), nil
}

// UpdateStatus advances an order through its lifecycle. Skipping a step
// or moving backwards is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, req *connect.Request[UpdateStatusRequest]) (*connect.Response[UpdateStatusResponse], error) {
	next := models.Status(req.Msg.Status)
	if !next.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown status %q", req.Msg.Status))
	}

	order, err := s.store.GetOrder(ctx, req.Msg.OrderID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	if err := order.SetStatus(next); err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	if err := s.store.UpdateOrderStatus(ctx, order.ID, next); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&UpdateStatusResponse{Status: string(next)}), nil
}

// NewOrderServiceHandler mounts the order procedures.
func NewOrderServiceHandler(s *OrderService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(OrderCheckoutProcedure, newUnaryHandler(OrderCheckoutProcedure, s.Checkout, opts))
	mux.Handle(OrderGetProcedure, newUnaryHandler(OrderGetProcedure, s.GetOrder, opts))
	mux.Handle(OrderUpdateStatusProcedure, newUnaryHandler(OrderUpdateStatusProcedure, s.UpdateStatus, opts))
	return "/sofra.v1.OrderService/", mux
}
