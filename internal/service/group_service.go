package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/sofra-eats/sofra/internal/checkout"
	"github.com/sofra-eats/sofra/internal/middleware"
	"github.com/sofra-eats/sofra/internal/models"
	"github.com/sofra-eats/sofra/internal/storage"
)

// Procedure names for the group-order service.
const (
	GroupCreateProcedure  = "/sofra.v1.GroupService/Create"
	GroupAddItemProcedure = "/sofra.v1.GroupService/AddItem"
	GroupGetProcedure     = "/sofra.v1.GroupService/Get"
	GroupSplitProcedure   = "/sofra.v1.GroupService/Split"
	GroupSubmitProcedure  = "/sofra.v1.GroupService/Submit"
)

type CreateGroupRequest struct{}

type CreateGroupResponse struct {
	ShareToken string `json:"share_token"`
	HostID     string `json:"host_id"`
}

type GroupAddItemRequest struct {
	ShareToken string `json:"share_token"`
	ItemID     int64  `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

type GroupAddItemResponse struct {
	// LineTotal is the frozen total of the added line.
	LineTotal float64 `json:"line_total"`
}

type GetGroupRequest struct {
	ShareToken string `json:"share_token"`
}

// GroupContribution is one contributor's lines and running share.
type GroupContribution struct {
	UserID string       `json:"user_id"`
	Lines  []*OrderLine `json:"lines"`
	Share  float64      `json:"share"`
}

type GetGroupResponse struct {
	ShareToken    string               `json:"share_token"`
	HostID        string               `json:"host_id"`
	OrderID       int64                `json:"order_id,omitempty"`
	Status        string               `json:"status"`
	Contributions []*GroupContribution `json:"contributions"`
	Total         float64              `json:"total"`
	Submitted     bool                 `json:"submitted"`
}

type SplitGroupRequest struct {
	ShareToken string `json:"share_token"`
}

type SplitGroupResponse struct {
	Shares map[string]float64 `json:"shares"`
	Total  float64            `json:"total"`
}

type SubmitGroupRequest struct {
	ShareToken string `json:"share_token"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
}

type SubmitGroupResponse struct {
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}

// GroupService is the collaborative-order surface. Orders being
// assembled live in the registry; Submit persists them and closes the
// session, after which Get serves the durable copy.
type GroupService struct {
	store  storage.Store
	groups *GroupRegistry
}

// NewGroupService creates the group-order service.
func NewGroupService(store storage.Store, groups *GroupRegistry) *GroupService {
	return &GroupService{store: store, groups: groups}
}

// Create opens a new group order hosted by the caller.
func (s *GroupService) Create(ctx context.Context, _ *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	g := s.groups.Create(userID)
	return connect.NewResponse(&CreateGroupResponse{ShareToken: g.ShareToken, HostID: g.UserID}), nil
}

// AddItem contributes an item to an open group order. The unit price is
// frozen at this moment, so everyone's share stays stable even when the
// catalog changes before submission.
func (s *GroupService) AddItem(ctx context.Context, req *connect.Request[GroupAddItemRequest]) (*connect.Response[GroupAddItemResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}
	if req.Msg.Quantity <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("quantity must be positive, got %d", req.Msg.Quantity))
	}

	item, err := s.store.GetMenuItem(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !item.Available {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errItemUnavailable)
	}

	res := &GroupAddItemResponse{}
	err = s.groups.Do(req.Msg.ShareToken, func(g *models.GroupOrder) error {
		line := models.NewOrderItem(item, req.Msg.Quantity, item.Price)
		g.AddContribution(userID, line)
		res.LineTotal = line.Total()
		return nil
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewResponse(res), nil
}

func toGroupResponse(g *models.GroupOrder, submitted bool) *GetGroupResponse {
	shares := g.SplitBill()
	contributions := make([]*GroupContribution, 0, len(g.Contributions))
	for userID, items := range g.Contributions {
		lines := make([]*OrderLine, 0, len(items))
		for _, item := range items {
			lines = append(lines, &OrderLine{
				Name:            item.Item.Name,
				Quantity:        item.Quantity,
				PriceAtPurchase: item.PriceAtPurchase(),
				Total:           item.Total(),
			})
		}
		contributions = append(contributions, &GroupContribution{
			UserID: userID,
			Lines:  lines,
			Share:  shares[userID],
		})
	}
	return &GetGroupResponse{
		ShareToken:    g.ShareToken,
		HostID:        g.UserID,
		OrderID:       g.ID,
		Status:        string(g.Status),
		Contributions: contributions,
		Total:         g.Total(),
		Submitted:     submitted,
	}
}

// Get returns the group order for a share token: the open one when the
// session is still being assembled, otherwise the persisted copy.
func (s *GroupService) Get(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	var res *GetGroupResponse
	err := s.groups.Do(req.Msg.ShareToken, func(g *models.GroupOrder) error {
		res = toGroupResponse(g, false)
		return nil
	})
	if errors.Is(err, ErrUnknownShareToken) {
		g, storeErr := s.store.GetGroupOrderByToken(ctx, req.Msg.ShareToken)
		if storeErr != nil {
			return nil, connect.NewError(connect.CodeNotFound, ErrUnknownShareToken)
		}
		return connect.NewResponse(toGroupResponse(g, true)), nil
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// Split returns each contributor's share of the bill.
func (s *GroupService) Split(ctx context.Context, req *connect.Request[SplitGroupRequest]) (*connect.Response[SplitGroupResponse], error) {
	res := &SplitGroupResponse{}
	err := s.groups.Do(req.Msg.ShareToken, func(g *models.GroupOrder) error {
		res.Shares = g.SplitBill()
		res.Total = g.Total()
		return nil
	})
	if errors.Is(err, ErrUnknownShareToken) {
		g, storeErr := s.store.GetGroupOrderByToken(ctx, req.Msg.ShareToken)
		if storeErr != nil {
			return nil, connect.NewError(connect.CodeNotFound, ErrUnknownShareToken)
		}
		res.Shares = g.SplitBill()
		res.Total = g.Total()
		return connect.NewResponse(res), nil
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// Submit persists an open group order and closes the session. Only the
// host may submit, and the order must have at least one item. Settling
// between contributors is whatever Split reports; no charge is made
// here.
func (s *GroupService) Submit(ctx context.Context, req *connect.Request[SubmitGroupRequest]) (*connect.Response[SubmitGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("login required"))
	}

	addr := checkout.Address{Street: req.Msg.Street, City: req.Msg.City, Phone: req.Msg.Phone}

	res := &SubmitGroupResponse{}
	err := s.groups.Do(req.Msg.ShareToken, func(g *models.GroupOrder) error {
		if g.UserID != userID {
			return connect.NewError(connect.CodePermissionDenied, errors.New("only the host may submit the group order"))
		}
		if len(g.Items) == 0 {
			return connect.NewError(connect.CodeInvalidArgument, errors.New("group order has no items"))
		}
		if err := addr.Validate(); err != nil {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
		addr.Trim()
		g.Street, g.City, g.Phone = addr.Street, addr.City, addr.Phone
		g.TotalAmount = g.Total()

		id, err := s.store.CreateGroupOrder(ctx, g)
		if err != nil {
			return connect.NewError(connect.CodeInternal, err)
		}
		g.ID = id
		res.OrderID = id
		res.Total = g.TotalAmount
		return nil
	})
	if errors.Is(err, ErrUnknownShareToken) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	s.groups.Remove(req.Msg.ShareToken)
	return connect.NewResponse(res), nil
}

// NewGroupServiceHandler mounts the group-order procedures.
func NewGroupServiceHandler(s *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(GroupCreateProcedure, newUnaryHandler(GroupCreateProcedure, s.Create, opts))
	mux.Handle(GroupAddItemProcedure, newUnaryHandler(GroupAddItemProcedure, s.AddItem, opts))
	mux.Handle(GroupGetProcedure, newUnaryHandler(GroupGetProcedure, s.Get, opts))
	mux.Handle(GroupSplitProcedure, newUnaryHandler(GroupSplitProcedure, s.Split, opts))
	mux.Handle(GroupSubmitProcedure, newUnaryHandler(GroupSubmitProcedure, s.Submit, opts))
	return "/sofra.v1.GroupService/", mux
}
