package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile joins an auth user to its HR attributes. ID equals the auth user id.
type Profile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"type:varchar(255);not null" json:"email"`
	FirstName  string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100)" json:"last_name"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone"`
	Role       string    `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	Department string    `gorm:"type:varchar(100)" json:"department"`
	Position   string    `gorm:"type:varchar(100)" json:"position"`
	EmployeeID string    `gorm:"type:varchar(30);index" json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
