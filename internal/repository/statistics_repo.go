package repository

import (
	"context"
	"fmt"
	"time"

	"hrsuite/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountEmployees(ctx context.Context, status string) (int64, error)
	HeadcountByDepartment(ctx context.Context) ([]model.DepartmentCount, error)
	CountPresent(ctx context.Context, day time.Time) (int64, error)
	CountOnLeave(ctx context.Context, day time.Time) (int64, error)
	CountPendingLeave(ctx context.Context) (int64, error)
	PendingExpenses(ctx context.Context) (count int64, amount string, err error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

// CountEmployees counts employees, all of them when status is empty
func (r *statisticsRepository) CountEmployees(ctx context.Context, status string) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func (r *statisticsRepository) HeadcountByDepartment(ctx context.Context) ([]model.DepartmentCount, error) {
	var rows []model.DepartmentCount
	if err := GetDB(ctx, r.db).Model(&model.Employee{}).
		Select("department, COUNT(*) as headcount").
		Where("status = ?", model.EmployeeActive).
		Group("department").
		Order("headcount DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query headcount: %w", err)
	}
	return rows, nil
}

// CountPresent counts attendance rows for day that are not absences
func (r *statisticsRepository) CountPresent(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Attendance{}).
		Where("date = ? AND status IN ?", day.Format("2006-01-02"),
			[]string{model.AttendancePresent, model.AttendanceLate, model.AttendanceHalfDay}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// CountOnLeave counts approved leave covering day
func (r *statisticsRepository) CountOnLeave(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	d := day.Format("2006-01-02")
	if err := GetDB(ctx, r.db).Model(&model.LeaveRequest{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", model.StatusApproved, d, d).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count leave: %w", err)
	}
	return count, nil
}

func (r *statisticsRepository) CountPendingLeave(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.LeaveRequest{}).
		Where("status = ?", model.StatusPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending leave: %w", err)
	}
	return count, nil
}

// PendingExpenses returns the number of pending claims and their total as a decimal string
func (r *statisticsRepository) PendingExpenses(ctx context.Context) (int64, string, error) {
	var result struct {
		Count  int64
		Amount string
	}
	if err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("COUNT(*) as count, COALESCE(CAST(SUM(amount) AS TEXT), '0') as amount").
		Where("status = ?", model.StatusPending).
		Scan(&result).Error; err != nil {
		return 0, "", fmt.Errorf("failed to sum pending expenses: %w", err)
	}
	return result.Count, result.Amount, nil
}
