package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attendance status values
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half_day"
)

// Attendance is one employee-day record
type Attendance struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID string           `gorm:"type:varchar(30);not null;index" json:"employee_id"`
	Date       time.Time        `gorm:"type:date;not null;index" json:"date"`
	ClockIn    *time.Time       `json:"clock_in"`
	ClockOut   *time.Time       `json:"clock_out"`
	BreakStart *time.Time       `json:"break_start"`
	BreakEnd   *time.Time       `json:"break_end"`
	TotalHours *decimal.Decimal `gorm:"type:decimal(6,2)" json:"total_hours"`
	Status     string           `gorm:"type:varchar(20);not null" json:"status"`
	Notes      string           `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
