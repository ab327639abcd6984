package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is a warehouse restock request following the same
// Pending → Approved/Rejected workflow as leave requests. Only
// WarehouseStaff submit purchase orders; only boss roles resolve them.
type PurchaseOrder struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int             `gorm:"type:int;not null" json:"quantity"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"estimated_cost"`
	RequesterID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester     *User           `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ApproverID    *uuid.UUID      `gorm:"type:uuid" json:"approver_id"`
	Approver      *User           `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	Notes         string          `gorm:"type:varchar(500)" json:"notes"`
	RequestedAt   time.Time       `gorm:"not null" json:"requested_at"`
	ProcessedAt   *time.Time      `json:"processed_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
