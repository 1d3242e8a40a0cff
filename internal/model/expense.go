package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense types
const (
	ExpenseTravel    = "travel"
	ExpenseMeals     = "meals"
	ExpenseEquipment = "equipment"
	ExpenseTraining  = "training"
	ExpenseOther     = "other"
)

// Expense is a reimbursement claim: pending -> approved | rejected -> reimbursed
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID  string          `gorm:"type:varchar(30);not null;index" json:"employee_id"`
	ExpenseType string          `gorm:"type:varchar(30);not null" json:"expense_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Description string          `gorm:"type:text" json:"description"`
	ExpenseDate time.Time       `gorm:"type:date;not null" json:"expense_date"`
	ReceiptURL  string          `gorm:"type:text" json:"receipt_url"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedBy  *string         `gorm:"type:varchar(64)" json:"approved_by"`
	ApprovedAt  *time.Time      `json:"approved_at"`
	Comments    string          `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
