package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats aggregates the HR figures shown on the management dashboards
type DashboardStats struct {
	Date                 time.Time         `json:"date"`
	TotalEmployees       int64             `json:"total_employees"`
	ActiveEmployees      int64             `json:"active_employees"`
	PresentToday         int64             `json:"present_today"`
	OnLeaveToday         int64             `json:"on_leave_today"`
	PendingLeaveRequests int64             `json:"pending_leave_requests"`
	PendingExpenses      int64             `json:"pending_expenses"`
	PendingExpenseAmount decimal.Decimal   `json:"pending_expense_amount"`
	Departments          []DepartmentCount `json:"departments"`
}

// DepartmentCount is the active headcount of one department
type DepartmentCount struct {
	Department string `json:"department"`
	Headcount  int64  `json:"headcount"`
}
