package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemSettings is a single-row configuration table (always row #1).
type SystemSettings struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CompanyName       string          `gorm:"type:varchar(255);not null;default:'MobileOps Hardware'" json:"company_name"`
	SupportEmail      string          `gorm:"type:varchar(255);not null;default:'support@mobileops.com'" json:"support_email"`
	LowStockThreshold int             `gorm:"not null;default:10" json:"low_stock_threshold"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,2);not null;default:12.00" json:"tax_rate"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
