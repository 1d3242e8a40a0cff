package service

import (
	"context"
	"fmt"
	"time"

	"hrsuite/internal/model"
	"hrsuite/internal/repository"

	"github.com/shopspring/decimal"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, day time.Time) (model.DashboardStats, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics collects the dashboard figures for day
func (s *statisticsService) GetStatistics(ctx context.Context, day time.Time) (model.DashboardStats, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	stats := model.DashboardStats{Date: day, Departments: []model.DepartmentCount{}}

	var err error
	if stats.TotalEmployees, err = s.repo.CountEmployees(ctx, ""); err != nil {
		return stats, err
	}
	if stats.ActiveEmployees, err = s.repo.CountEmployees(ctx, model.EmployeeActive); err != nil {
		return stats, err
	}
	if stats.PresentToday, err = s.repo.CountPresent(ctx, day); err != nil {
		return stats, err
	}
	if stats.OnLeaveToday, err = s.repo.CountOnLeave(ctx, day); err != nil {
		return stats, err
	}
	if stats.PendingLeaveRequests, err = s.repo.CountPendingLeave(ctx); err != nil {
		return stats, err
	}

	count, amount, err := s.repo.PendingExpenses(ctx)
	if err != nil {
		return stats, err
	}
	stats.PendingExpenses = count
	if stats.PendingExpenseAmount, err = decimal.NewFromString(amount); err != nil {
		return stats, fmt.Errorf("failed to parse pending expense total %q: %w", amount, err)
	}

	departments, err := s.repo.HeadcountByDepartment(ctx)
	if err != nil {
		return stats, err
	}
	if departments != nil {
		stats.Departments = departments
	}
	return stats, nil
}
