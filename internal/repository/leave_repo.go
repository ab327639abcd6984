package repository

import (
	"context"
	"time"

	"mobileopsconnect/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRepository defines the data access for leave requests. The
// Pending → terminal transition is a conditional write so that two
// concurrent approvers can never both resolve the same request.
type LeaveRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListAll(ctx context.Context) ([]model.LeaveRequest, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.LeaveRequest, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	TransitionStatus(ctx context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status string) (int64, error)
	CountOnLeave(ctx context.Context, day time.Time) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository returns a new instance of LeaveRepository
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := r.db.WithContext(ctx).Preload("Owner").Preload("Approver").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) ListAll(ctx context.Context) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Owner").Preload("Approver").
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Owner").Preload("Approver").
		Where("owner_id = ?", ownerID).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *leaveRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.LeaveRequest{}).Where("id = ?", id).Updates(fields).Error
}

func (r *leaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LeaveRequest{}).Error
}

// TransitionStatus performs the compare-and-swap out of Pending. Status,
// approver and processing time are written in a single conditional UPDATE;
// a false return means the request was no longer Pending (or missing).
func (r *leaveRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
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

func (r *leaveRepository) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	return count, err
}

func (r *leaveRepository) CountOnLeave(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", model.StatusApproved, day, day).
		Count(&count).Error
	return count, err
}

func (r *leaveRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
