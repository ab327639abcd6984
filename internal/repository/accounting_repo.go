package repository

import (
	"context"

	"mobileopsconnect/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountingRepository defines the data access for ledger entries
type AccountingRepository interface {
	Create(ctx context.Context, entry *model.AccountingEntry) error
	List(ctx context.Context, entryType string, offset, limit int) ([]model.AccountingEntry, int64, error)
	SumByType(ctx context.Context, entryType string) (decimal.Decimal, error)
}

type accountingRepository struct {
	db *gorm.DB
}

// NewAccountingRepository returns a new instance of AccountingRepository
func NewAccountingRepository(db *gorm.DB) AccountingRepository {
	return &accountingRepository{db: db}
}

func (r *accountingRepository) Create(ctx context.Context, entry *model.AccountingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *accountingRepository) List(ctx context.Context, entryType string, offset, limit int) ([]model.AccountingEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AccountingEntry{})
	if entryType != "" {
		query = query.Where("type = ?", entryType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AccountingEntry
	if err := query.
		Preload("RecordedBy").
		Order("transaction_date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *accountingRepository) SumByType(ctx context.Context, entryType string) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).Model(&model.AccountingEntry{}).
		Where("type = ?", entryType).
		Select("SUM(amount)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
