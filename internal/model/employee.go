package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee status values
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
	EmployeeOnLeave  = "on_leave"
)

// Employee is an HR record. EmployeeID is the human facing code (EMP001) used across tables.
type Employee struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID       string           `gorm:"type:varchar(30);uniqueIndex;not null" json:"employee_id"`
	FirstName        string           `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string           `gorm:"type:varchar(100);not null" json:"last_name"`
	Email            string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone            string           `gorm:"type:varchar(20)" json:"phone"`
	Department       string           `gorm:"type:varchar(100);not null;index" json:"department"`
	Position         string           `gorm:"type:varchar(100);not null" json:"position"`
	HireDate         time.Time        `gorm:"type:date;not null" json:"hire_date"`
	Salary           *decimal.Decimal `gorm:"type:decimal(18,2)" json:"salary,omitempty"`
	Status           string           `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ManagerID        *uuid.UUID       `gorm:"type:uuid" json:"manager_id"`
	Address          string           `gorm:"type:text" json:"address"`
	EmergencyContact string           `gorm:"type:varchar(255)" json:"emergency_contact"`
	EmergencyPhone   string           `gorm:"type:varchar(20)" json:"emergency_phone"`
	CreatedBy        *uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}
