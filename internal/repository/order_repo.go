package repository

import (
	"context"
	"time"

	"mobileopsconnect/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the data access for purchase orders. The status
// transition uses the same conditional-write shape as leave requests.
type OrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error)
	ListAll(ctx context.Context) ([]model.PurchaseOrder, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.PurchaseOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TransitionStatus(ctx context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a new instance of OrderRepository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Product").Preload("Requester").Preload("Approver").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Requester").Preload("Approver").
		Order("requested_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Requester").Preload("Approver").
		Where("requester_id = ?", requesterID).
		Order("requested_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PurchaseOrder{}).Error
}

// TransitionStatus resolves a Pending order with a single conditional
// UPDATE; a false return means the order was already processed (or missing).
func (r *orderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":       to,
			"approver_id":  approverID,
			"processed_at": processedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
