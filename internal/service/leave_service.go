package service

import (
	"context"
	"fmt"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=vacation sick personal maternity paternity"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

// DecisionRequest is the body of approve/reject calls
type DecisionRequest struct {
	Comments string `json:"comments"`
}

type LeaveService interface {
	List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.LeaveRequest, int64, error)
	Create(ctx context.Context, actor *auth.Identity, req CreateLeaveRequest) (*model.LeaveRequest, error)
	Approve(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.LeaveRequest, error)
	Reject(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.LeaveRequest, error)
}

type leaveService struct {
	txManager repository.TransactionManager
	leaveRepo repository.LeaveRepository
	auditRepo repository.AuditRepository
	now       func() time.Time
}

func NewLeaveService(txManager repository.TransactionManager, leaveRepo repository.LeaveRepository, auditRepo repository.AuditRepository) LeaveService {
	return &leaveService{txManager: txManager, leaveRepo: leaveRepo, auditRepo: auditRepo, now: time.Now}
}

func (s *leaveService) List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.LeaveRequest, int64, error) {
	filter, err := scope(actor, permission.ModuleLeave, filter)
	if err != nil {
		return nil, 0, err
	}
	reqs, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return reqs, total, nil
}

func (s *leaveService) Create(ctx context.Context, actor *auth.Identity, req CreateLeaveRequest) (*model.LeaveRequest, error) {
	employeeID, err := owner(actor, permission.ModuleLeave, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalid)
	}

	leave := model.LeaveRequest{
		EmployeeID:    employeeID,
		LeaveType:     req.LeaveType,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: int(end.Sub(start).Hours()/24) + 1,
		Reason:        req.Reason,
		Status:        model.StatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.Create(txCtx, &leave); err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		audit := auditEntry(actor, model.ActionCreateLeaveRequest, leave.ID.String(), leave.EmployeeID, map[string]interface{}{
			"leave_type": leave.LeaveType,
			"days":       leave.DaysRequested,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (s *leaveService) Approve(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.LeaveRequest, error) {
	return s.decide(ctx, actor, id, model.StatusApproved, req.Comments)
}

func (s *leaveService) Reject(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.LeaveRequest, error) {
	return s.decide(ctx, actor, id, model.StatusRejected, req.Comments)
}

func (s *leaveService) decide(ctx context.Context, actor *auth.Identity, id, status, comments string) (*model.LeaveRequest, error) {
	if actor == nil {
		return nil, auth.ErrNotSignedIn
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid leave request id", ErrInvalid)
	}

	var leave *model.LeaveRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.leaveRepo.FindByIDForUpdate(txCtx, leaveID)
		if err != nil {
			return notFound(err, "leave request")
		}
		if found.Status != model.StatusPending {
			return fmt.Errorf("leave request is already %s: %w", found.Status, ErrNotPending)
		}

		now := s.now()
		approver := actor.ID
		found.Status = status
		found.ApprovedBy = &approver
		found.ApprovedAt = &now
		found.Comments = comments
		if err := s.leaveRepo.Update(txCtx, found); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		action := model.ActionApproveRequest
		if status == model.StatusRejected {
			action = model.ActionRejectRequest
		}
		audit := auditEntry(actor, action, found.ID.String(), "leave_request", map[string]interface{}{
			"employee_id": found.EmployeeID,
			"comments":    comments,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		leave = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leave, nil
}
