package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	ActionLogin        = "LOGIN"
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionApprove      = "APPROVE"
	ActionReject       = "REJECT"
	ActionStockIn      = "STOCK_IN"
	ActionStockOut     = "STOCK_OUT"
	ActionSecurity     = "SECURITY"
	ActionNotification = "NOTIFICATION"
)

// AuditLog tracks who did what and when. Append-only. Entries flagged
// IsCritical are security events visible only to SuperAdmin readers.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	ActorEmail string     `gorm:"type:varchar(255)" json:"actor_email"`
	ActorRole  string     `gorm:"type:varchar(50)" json:"actor_role"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	Details    string     `gorm:"type:varchar(1000)" json:"details"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address"`
	IsCritical bool       `gorm:"default:false;index" json:"is_critical"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
