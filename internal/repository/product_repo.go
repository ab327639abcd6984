package repository

import (
	"context"
	"errors"

	"mobileopsconnect/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a stock-out would drive the level negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the data access for products and stock movements
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, search string) ([]model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, movement *model.StockMovement) (*model.Product, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a new instance of ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, search string) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).Order("name")
	if search != "" {
		query = query.Where("name LIKE ? OR sku LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock_level <= ?", threshold).
		Order("stock_level").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}

// AdjustStock applies a stock movement inside a transaction with the
// product row locked, records the movement, and returns the updated
// product. Stock can never go negative.
func (r *productRepository) AdjustStock(ctx context.Context, movement *model.StockMovement) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", movement.ProductID).Error; err != nil {
			return err
		}

		delta := movement.Quantity
		if movement.Direction == model.StockOut {
			if product.StockLevel < movement.Quantity {
				return ErrInsufficientStock
			}
			delta = -movement.Quantity
		}

		product.StockLevel += delta
		if err := tx.Model(&product).Update("stock_level", product.StockLevel).Error; err != nil {
			return err
		}

		movement.StockAfter = product.StockLevel
		return tx.Create(movement).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("stock_level <= ?", threshold).
		Count(&count).Error
	return count, err
}
