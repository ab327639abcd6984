package model

import (
	"time"

	"github.com/google/uuid"
)

// Request status constants shared by leave requests and purchase orders.
// Pending is the only non-terminal state: once a request is Approved or
// Rejected it can never transition again.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// LeaveRequest is an employee leave application moving through the
// Pending → Approved/Rejected workflow. Only the owner may edit it, and
// only while it is still Pending; only a strictly higher-ranked user may
// resolve it.
type LeaveRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	LeaveType   string     `gorm:"type:varchar(50);not null" json:"leave_type"` // e.g. Sick, Vacation
	StartDate   time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time  `gorm:"type:date;not null" json:"end_date"`
	Reason      string     `gorm:"type:text;not null" json:"reason"`
	Status      string     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ApproverID  *uuid.UUID `gorm:"type:uuid" json:"approver_id"`
	Approver    *User      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
