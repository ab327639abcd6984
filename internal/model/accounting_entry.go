package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry type constants
const (
	EntryTypeIncome  = "Income"
	EntryTypeExpense = "Expense"
)

// AccountingEntry is a ledger line. Entries created from an approved
// purchase order keep a link back to it.
type AccountingEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	Type            string          `gorm:"type:varchar(20);not null" json:"type"` // Income, Expense
	Category        string          `gorm:"type:varchar(50);not null" json:"category"`
	Description     string          `gorm:"type:varchar(200);not null" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	ReferenceNumber string          `gorm:"type:varchar(50)" json:"reference_number"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index" json:"purchase_order_id"`
	PurchaseOrder   *PurchaseOrder  `gorm:"foreignKey:PurchaseOrderID" json:"-"`
	RecordedByID    uuid.UUID       `gorm:"type:uuid;not null" json:"recorded_by_id"`
	RecordedBy      *User           `gorm:"foreignKey:RecordedByID" json:"recorded_by,omitempty"`
	Notes           string          `gorm:"type:varchar(500)" json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}
