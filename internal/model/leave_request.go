package model

import (
	"time"

	"github.com/google/uuid"
)

// Leave types
const (
	LeaveVacation  = "vacation"
	LeaveSick      = "sick"
	LeavePersonal  = "personal"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
)

// Status values shared by leave requests and expenses
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusReimbursed = "reimbursed"
)

// LeaveRequest goes through pending -> approved | rejected
type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID    string     `gorm:"type:varchar(30);not null;index" json:"employee_id"`
	LeaveType     string     `gorm:"type:varchar(20);not null" json:"leave_type"`
	StartDate     time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time  `gorm:"type:date;not null" json:"end_date"`
	DaysRequested int        `gorm:"not null" json:"days_requested"`
	Reason        string     `gorm:"type:text" json:"reason"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedBy    *string    `gorm:"type:varchar(64)" json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
	Comments      string     `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
