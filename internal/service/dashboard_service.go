package service

import (
	"context"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"
)

type DashboardResponse struct {
	PendingLeaves int64 `json:"pending_leaves"`
	PendingOrders int64 `json:"pending_orders"`
	OnLeaveToday  int64 `json:"on_leave_today"`
	LowStockItems int64 `json:"low_stock_items"`
}

// DashboardService aggregates the operational counters shown on the
// management landing screen.
type DashboardService interface {
	Summary(ctx context.Context, actor Actor) (*DashboardResponse, error)
}

type dashboardService struct {
	leaves   repository.LeaveRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	settings repository.SettingsRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	leaves repository.LeaveRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	settings repository.SettingsRepository,
) DashboardService {
	return &dashboardService{leaves: leaves, orders: orders, products: products, settings: settings}
}

func (s *dashboardService) Summary(ctx context.Context, actor Actor) (*DashboardResponse, error) {
	if !model.IsBoss(actor.Role) {
		return nil, apperr.Authorization("dashboard requires a management role")
	}

	pendingLeaves, err := s.leaves.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to count pending leaves")
	}
	pendingOrders, err := s.orders.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to count pending orders")
	}
	onLeave, err := s.leaves.CountOnLeave(ctx, time.Now())
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to count staff on leave")
	}

	threshold := 10
	if settings, err := s.settings.Get(ctx); err == nil {
		threshold = settings.LowStockThreshold
	}
	lowStock, err := s.products.CountLowStock(ctx, threshold)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to count low stock items")
	}

	return &DashboardResponse{
		PendingLeaves: pendingLeaves,
		PendingOrders: pendingOrders,
		OnLeaveToday:  onLeave,
		LowStockItems: lowStock,
	}, nil
}
