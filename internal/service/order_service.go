package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"
	ws "mobileopsconnect/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}

type OrderResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name,omitempty"`
	Quantity       int     `json:"quantity"`
	EstimatedCost  string  `json:"estimated_cost"`
	RequesterID    string  `json:"requester_id"`
	RequesterEmail string  `json:"requester_email,omitempty"`
	Status         string  `json:"status"`
	ApproverID     *string `json:"approver_id"`
	ApproverEmail  string  `json:"approver_email,omitempty"`
	Notes          string  `json:"notes"`
	RequestedAt    string  `json:"requested_at"`
	ProcessedAt    *string `json:"processed_at"`
}

// OrderService implements the purchase order workflow. Warehouse staff
// raise orders against catalog products; higher-ranked staff resolve them.
// Approval books the estimated cost into accounting as an expense.
type OrderService interface {
	Create(ctx context.Context, actor Actor, req CreateOrderRequest, ip string) (OrderResponse, error)
	Approve(ctx context.Context, actor Actor, id, ip string) (OrderResponse, error)
	Reject(ctx context.Context, actor Actor, id, ip string) (OrderResponse, error)
	Delete(ctx context.Context, actor Actor, id, ip string) error
	List(ctx context.Context, actor Actor) ([]OrderResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	accounting repository.AccountingRepository
	audit      AuditService
	notifier   NotificationService
	hub        *ws.Hub
}

// NewOrderService creates a new OrderService instance
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	accounting repository.AccountingRepository,
	audit AuditService,
	notifier NotificationService,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orders:     orders,
		products:   products,
		accounting: accounting,
		audit:      audit,
		notifier:   notifier,
		hub:        hub,
	}
}

// --- Implementation ---

// Create raises a purchase order. Only warehouse staff submit orders; the
// estimated cost is snapshotted from the current catalog price so later
// price changes never move an order already in flight.
func (s *orderService) Create(ctx context.Context, actor Actor, req CreateOrderRequest, ip string) (OrderResponse, error) {
	if actor.Role != model.RoleWarehouseStaff {
		return OrderResponse{}, apperr.Authorization("only warehouse staff can raise purchase orders")
	}
	if req.Quantity <= 0 {
		return OrderResponse{}, apperr.Validation("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperr.NotFound("product not found")
		}
		return OrderResponse{}, apperr.Unavailable(err, "failed to fetch product")
	}

	order := model.PurchaseOrder{
		ProductID:     product.ID,
		Quantity:      req.Quantity,
		EstimatedCost: product.Price.Mul(decimalFromInt(req.Quantity)),
		RequesterID:   actor.ID,
		Status:        model.StatusPending,
		Notes:         req.Notes,
		RequestedAt:   time.Now(),
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		return OrderResponse{}, apperr.Unavailable(err, "failed to create purchase order")
	}

	s.audit.Record(ctx, actor, model.ActionCreate,
		fmt.Sprintf("Raised purchase order %s for %d x %s (est. %s).",
			order.ID, req.Quantity, product.Name, order.EstimatedCost.StringFixed(2)), ip)

	s.notifier.PushToRoles(
		"New Purchase Order",
		fmt.Sprintf("%s requested %d x %s (est. %s).", actor.Email, req.Quantity, product.Name, order.EstimatedCost.StringFixed(2)),
		model.RoleSuperAdmin, model.RoleSystemAdmin, model.RoleDepartmentManager,
	)

	loaded, err := s.orders.GetByID(ctx, order.ID.String())
	if err != nil {
		return OrderResponse{}, apperr.Unavailable(err, "failed to reload purchase order")
	}
	return toOrderResponse(*loaded), nil
}

func (s *orderService) Approve(ctx context.Context, actor Actor, id, ip string) (OrderResponse, error) {
	return s.process(ctx, actor, id, ip, model.StatusApproved)
}

func (s *orderService) Reject(ctx context.Context, actor Actor, id, ip string) (OrderResponse, error) {
	return s.process(ctx, actor, id, ip, model.StatusRejected)
}

// process resolves a Pending order. Approvers must strictly outrank the
// requester, same as leave approval, so warehouse staff can never resolve
// each other's orders and nobody can resolve their own. The write is a
// conditional update so a concurrent double-process loses cleanly.
func (s *orderService) process(ctx context.Context, actor Actor, id, ip, to string) (OrderResponse, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}

	requesterRole := model.RoleWarehouseStaff
	if order.Requester != nil {
		requesterRole = order.Requester.Role
	}
	if !CanApprove(actor, requesterRole) {
		return OrderResponse{}, apperr.Authorization("approver must outrank the order requester")
	}
	if order.Status != model.StatusPending {
		return OrderResponse{}, apperr.Conflict("purchase order has already been %s", order.Status)
	}

	now := time.Now()
	ok, err := s.orders.TransitionStatus(ctx, order.ID, to, actor.ID, now)
	if err != nil {
		return OrderResponse{}, apperr.Unavailable(err, "failed to update purchase order")
	}
	if !ok {
		return OrderResponse{}, apperr.Conflict("purchase order has already been processed")
	}

	action := model.ActionApprove
	pastTense := "approved"
	if to == model.StatusRejected {
		action = model.ActionReject
		pastTense = "rejected"
	}

	if to == model.StatusApproved {
		// Book the spend. Failure here must not undo the approval, so it
		// is logged through audit instead of propagated.
		entry := model.AccountingEntry{
			TransactionDate: now,
			Type:            model.EntryTypeExpense,
			Category:        "Purchase Order",
			Description:     fmt.Sprintf("Purchase order %s: %d x %s", order.ID, order.Quantity, productName(order)),
			Amount:          order.EstimatedCost,
			ReferenceNumber: fmt.Sprintf("PO-%s", order.ID.String()[:8]),
			PurchaseOrderID: &order.ID,
			RecordedByID:    actor.ID,
		}
		if err := s.accounting.Create(ctx, &entry); err != nil {
			s.audit.RecordCritical(ctx, actor, model.ActionApprove,
				fmt.Sprintf("Failed to book accounting entry for purchase order %s: %v", order.ID, err), ip)
		}
	}

	s.audit.Record(ctx, actor, action,
		fmt.Sprintf("%s purchase order %s raised by %s.", capitalize(pastTense), order.ID, requesterEmail(order)), ip)

	if order.Requester != nil {
		s.notifier.PushToUser(order.RequesterID,
			"Purchase Order "+capitalize(pastTense),
			fmt.Sprintf("Your order for %d x %s has been %s.", order.Quantity, productName(order), pastTense))
	}
	s.notifier.PushToAll("Purchase Order "+capitalize(pastTense),
		fmt.Sprintf("Order for %d x %s raised by %s was %s.",
			order.Quantity, productName(order), requesterEmail(order), pastTense))

	s.hub.Publish(ws.EventOrderProcessed, map[string]interface{}{
		"order_id":  order.ID.String(),
		"status":    to,
		"requester": requesterEmail(order),
	})

	loaded, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return OrderResponse{}, apperr.Unavailable(err, "failed to reload purchase order")
	}
	return toOrderResponse(*loaded), nil
}

// Delete removes an order. Allowed for the requester while Pending and
// for anyone allowed to approve it.
func (s *orderService) Delete(ctx context.Context, actor Actor, id, ip string) error {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}

	requesterRole := model.RoleWarehouseStaff
	if order.Requester != nil {
		requesterRole = order.Requester.Role
	}
	isOwner := order.RequesterID == actor.ID
	if !isOwner && !CanApprove(actor, requesterRole) {
		return apperr.Authorization("not permitted to delete this purchase order")
	}
	if isOwner && order.Status != model.StatusPending {
		return apperr.Conflict("only pending purchase orders can be deleted by the requester")
	}

	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return apperr.Unavailable(err, "failed to delete purchase order")
	}

	s.audit.Record(ctx, actor, model.ActionDelete,
		fmt.Sprintf("Deleted purchase order %s raised by %s.", order.ID, requesterEmail(order)), ip)
	return nil
}

// List scopes visibility by role: warehouse staff see their own orders,
// everyone else with access sees all of them.
func (s *orderService) List(ctx context.Context, actor Actor) ([]OrderResponse, error) {
	var (
		orders []model.PurchaseOrder
		err    error
	)
	if actor.Role == model.RoleWarehouseStaff {
		orders, err = s.orders.ListByRequester(ctx, actor.ID)
	} else {
		orders, err = s.orders.ListAll(ctx)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch purchase orders")
	}

	res := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	return res, nil
}

// --- Helpers ---

func (s *orderService) getOrder(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("invalid purchase order id")
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase order not found")
		}
		return nil, apperr.Unavailable(err, "failed to fetch purchase order")
	}
	return order, nil
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func requesterEmail(order *model.PurchaseOrder) string {
	if order.Requester != nil {
		return order.Requester.Email
	}
	return order.RequesterID.String()
}

func productName(order *model.PurchaseOrder) string {
	if order.Product != nil {
		return order.Product.Name
	}
	return order.ProductID.String()
}

func toOrderResponse(o model.PurchaseOrder) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID.String(),
		ProductID:     o.ProductID.String(),
		Quantity:      o.Quantity,
		EstimatedCost: o.EstimatedCost.StringFixed(2),
		RequesterID:   o.RequesterID.String(),
		Status:        o.Status,
		Notes:         o.Notes,
		RequestedAt:   o.RequestedAt.Format(time.RFC3339),
	}
	if o.Product != nil {
		resp.ProductName = o.Product.Name
	}
	if o.Requester != nil {
		resp.RequesterEmail = o.Requester.Email
	}
	if o.ApproverID != nil {
		id := o.ApproverID.String()
		resp.ApproverID = &id
	}
	if o.Approver != nil {
		resp.ApproverEmail = o.Approver.Email
	}
	if o.ProcessedAt != nil {
		t := o.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &t
	}
	return resp
}
