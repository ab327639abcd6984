package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is an item tracked by the warehouse
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	StockLevel   int             `gorm:"type:int;default:0;not null" json:"stock_level"`
	ReorderPoint int             `gorm:"type:int;default:0;not null" json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockMovement direction constants
const (
	StockIn  = "IN"
	StockOut = "OUT"
)

// StockMovement records every stock adjustment against a product
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product   `gorm:"foreignKey:ProductID" json:"-"`
	Direction   string     `gorm:"type:varchar(10);not null" json:"direction"` // IN, OUT
	Quantity    int        `gorm:"type:int;not null" json:"quantity"`
	StockAfter  int        `gorm:"type:int;not null" json:"stock_after"`
	PerformedBy *uuid.UUID `gorm:"type:uuid;index" json:"performed_by"`
	Notes       string     `gorm:"type:varchar(500)" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}
