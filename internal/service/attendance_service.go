package service

import (
	"context"
	"fmt"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"

	"github.com/shopspring/decimal"
)

type RecordAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date" binding:"required"` // YYYY-MM-DD
	ClockIn    *string `json:"clock_in"`                // RFC3339
	ClockOut   *string `json:"clock_out"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Status     string  `json:"status" binding:"required,oneof=present absent late half_day"`
	Notes      string  `json:"notes"`
}

type UpdateAttendanceRequest struct {
	ClockIn    *string `json:"clock_in"`
	ClockOut   *string `json:"clock_out"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Status     *string `json:"status" binding:"omitempty,oneof=present absent late half_day"`
	Notes      *string `json:"notes"`
}

type AttendanceService interface {
	List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.Attendance, int64, error)
	Record(ctx context.Context, actor *auth.Identity, req RecordAttendanceRequest) (*model.Attendance, error)
	Update(ctx context.Context, actor *auth.Identity, id string, req UpdateAttendanceRequest) (*model.Attendance, error)
}

type attendanceService struct {
	txManager      repository.TransactionManager
	attendanceRepo repository.AttendanceRepository
	auditRepo      repository.AuditRepository
}

func NewAttendanceService(txManager repository.TransactionManager, attendanceRepo repository.AttendanceRepository, auditRepo repository.AuditRepository) AttendanceService {
	return &attendanceService{txManager: txManager, attendanceRepo: attendanceRepo, auditRepo: auditRepo}
}

func (s *attendanceService) List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.Attendance, int64, error) {
	filter, err := scope(actor, permission.ModuleAttendance, filter)
	if err != nil {
		return nil, 0, err
	}
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

func (s *attendanceService) Record(ctx context.Context, actor *auth.Identity, req RecordAttendanceRequest) (*model.Attendance, error) {
	employeeID, err := owner(actor, permission.ModuleAttendance, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	record := model.Attendance{
		EmployeeID: employeeID,
		Date:       date,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if err := setClock(&record, req.ClockIn, req.ClockOut, req.BreakStart, req.BreakEnd); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.attendanceRepo.Create(txCtx, &record); err != nil {
			return fmt.Errorf("failed to record attendance: %w", err)
		}
		audit := auditEntry(actor, model.ActionRecordAttendance, record.ID.String(), record.EmployeeID, map[string]interface{}{
			"date":   req.Date,
			"status": record.Status,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *attendanceService) Update(ctx context.Context, actor *auth.Identity, id string, req UpdateAttendanceRequest) (*model.Attendance, error) {
	if actor == nil {
		return nil, auth.ErrNotSignedIn
	}
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "attendance record")
	}
	if ownRowsOnly(actor, permission.ModuleAttendance) && record.EmployeeID != actor.EmployeeID {
		return nil, ErrForbidden
	}

	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	if err := setClock(record, req.ClockIn, req.ClockOut, req.BreakStart, req.BreakEnd); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.attendanceRepo.Update(txCtx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		audit := auditEntry(actor, model.ActionUpdateAttendance, record.ID.String(), record.EmployeeID, req)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// setClock overwrites the given timestamps and recomputes TotalHours
func setClock(record *model.Attendance, clockIn, clockOut, breakStart, breakEnd *string) error {
	fields := []struct {
		name  string
		value *string
		dst   **time.Time
	}{
		{"clock_in", clockIn, &record.ClockIn},
		{"clock_out", clockOut, &record.ClockOut},
		{"break_start", breakStart, &record.BreakStart},
		{"break_end", breakEnd, &record.BreakEnd},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		t, err := parseOptionalTime(f.name, f.value)
		if err != nil {
			return err
		}
		*f.dst = t
	}

	record.TotalHours = nil
	if record.ClockIn == nil || record.ClockOut == nil {
		return nil
	}
	worked := record.ClockOut.Sub(*record.ClockIn)
	if worked < 0 {
		return fmt.Errorf("%w: clock_out is before clock_in", ErrInvalid)
	}
	if record.BreakStart != nil && record.BreakEnd != nil && record.BreakEnd.After(*record.BreakStart) {
		worked -= record.BreakEnd.Sub(*record.BreakStart)
	}
	if worked < 0 {
		worked = 0
	}
	hours := decimal.NewFromFloat(worked.Hours()).Round(2)
	record.TotalHours = &hours
	return nil
}
