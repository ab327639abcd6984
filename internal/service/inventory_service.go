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

// DTOs for Request validation
type CreateProductRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Price        string `json:"price" binding:"required"`
	StockLevel   int    `json:"stock_level" binding:"gte=0"`
	ReorderPoint int    `json:"reorder_point" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	ReorderPoint *int   `json:"reorder_point"`
}

type StockAdjustmentRequest struct {
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	StockLevel   int    `json:"stock_level"`
	ReorderPoint int    `json:"reorder_point"`
	LowStock     bool   `json:"low_stock"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// InventoryService covers the product catalog and warehouse stock moves.
type InventoryService interface {
	CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest, ip string) (*ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
	ListProducts(ctx context.Context, search string) ([]ProductResponse, error)
	UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest, ip string) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, actor Actor, id, ip string) error
	StockIn(ctx context.Context, actor Actor, id string, req StockAdjustmentRequest, ip string) (*ProductResponse, error)
	StockOut(ctx context.Context, actor Actor, id string, req StockAdjustmentRequest, ip string) (*ProductResponse, error)
	LowStock(ctx context.Context, threshold int) ([]ProductResponse, error)
}

type inventoryService struct {
	products repository.ProductRepository
	settings repository.SettingsRepository
	audit    AuditService
	hub      *ws.Hub
}

// NewInventoryService creates a new InventoryService instance
func NewInventoryService(
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	audit AuditService,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{products: products, settings: settings, audit: audit, hub: hub}
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest, ip string) (*ProductResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, apperr.Validation("price must be a non-negative decimal")
	}

	product := &model.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Price:        price,
		StockLevel:   req.StockLevel,
		ReorderPoint: req.ReorderPoint,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperr.Unavailable(err, "failed to create product")
	}

	s.audit.Record(ctx, actor, model.ActionCreate,
		fmt.Sprintf("Added product %s (%s).", product.Name, product.SKU), ip)

	return s.respond(ctx, product)
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, product)
}

func (s *inventoryService) ListProducts(ctx context.Context, search string) ([]ProductResponse, error) {
	products, err := s.products.List(ctx, search)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to list products")
	}
	threshold := s.threshold(ctx)

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p, threshold))
	}
	return responses, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest, ip string) (*ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return nil, apperr.Validation("price must be a non-negative decimal")
		}
		product.Price = price
	}
	if req.ReorderPoint != nil {
		if *req.ReorderPoint < 0 {
			return nil, apperr.Validation("reorder point must not be negative")
		}
		product.ReorderPoint = *req.ReorderPoint
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperr.Unavailable(err, "failed to update product")
	}

	s.audit.Record(ctx, actor, model.ActionUpdate,
		fmt.Sprintf("Updated product %s (%s).", product.Name, product.SKU), ip)

	return s.respond(ctx, product)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor Actor, id, ip string) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		return apperr.Unavailable(err, "failed to delete product")
	}

	s.audit.Record(ctx, actor, model.ActionDelete,
		fmt.Sprintf("Removed product %s (%s).", product.Name, product.SKU), ip)
	return nil
}

func (s *inventoryService) StockIn(ctx context.Context, actor Actor, id string, req StockAdjustmentRequest, ip string) (*ProductResponse, error) {
	return s.adjust(ctx, actor, id, req, ip, model.StockIn)
}

func (s *inventoryService) StockOut(ctx context.Context, actor Actor, id string, req StockAdjustmentRequest, ip string) (*ProductResponse, error) {
	return s.adjust(ctx, actor, id, req, ip, model.StockOut)
}

// adjust records a stock movement. The repository applies it under a row
// lock and refuses to take stock below zero.
func (s *inventoryService) adjust(ctx context.Context, actor Actor, id string, req StockAdjustmentRequest, ip, direction string) (*ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	movement := &model.StockMovement{
		ProductID:   product.ID,
		Direction:   direction,
		Quantity:    req.Quantity,
		PerformedBy: &actor.ID,
		Notes:       req.Notes,
	}
	updated, err := s.products.AdjustStock(ctx, movement)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperr.Conflict("insufficient stock: %d available", product.StockLevel)
		}
		return nil, apperr.Unavailable(err, "failed to adjust stock")
	}

	action := model.ActionStockIn
	verb := "Received"
	if direction == model.StockOut {
		action = model.ActionStockOut
		verb = "Issued"
	}
	s.audit.Record(ctx, actor, action,
		fmt.Sprintf("%s %d x %s (%s), stock now %d.", verb, req.Quantity, updated.Name, updated.SKU, updated.StockLevel), ip)

	s.hub.Publish(ws.EventStockUpdated, map[string]interface{}{
		"product_id":  updated.ID.String(),
		"sku":         updated.SKU,
		"stock_level": updated.StockLevel,
		"direction":   direction,
	})

	return s.respond(ctx, updated)
}

// LowStock lists products at or below the threshold. A zero threshold
// falls back to the system-wide setting.
func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]ProductResponse, error) {
	if threshold <= 0 {
		threshold = s.threshold(ctx)
	}
	products, err := s.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to list low stock products")
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p, threshold))
	}
	return responses, nil
}

// --- Helpers ---

func (s *inventoryService) getProduct(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("invalid product id")
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Unavailable(err, "failed to fetch product")
	}
	return product, nil
}

func (s *inventoryService) threshold(ctx context.Context) int {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 10
	}
	return settings.LowStockThreshold
}

func (s *inventoryService) respond(ctx context.Context, product *model.Product) (*ProductResponse, error) {
	resp := toProductResponse(*product, s.threshold(ctx))
	return &resp, nil
}

func toProductResponse(p model.Product, threshold int) ProductResponse {
	if p.ReorderPoint > 0 {
		threshold = p.ReorderPoint
	}
	return ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Price:        p.Price.StringFixed(2),
		StockLevel:   p.StockLevel,
		ReorderPoint: p.ReorderPoint,
		LowStock:     p.StockLevel <= threshold,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
