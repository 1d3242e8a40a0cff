package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	EmployeeID  string `json:"employee_id"`
	ExpenseType string `json:"expense_type" binding:"required,oneof=travel meals equipment training other"`
	Amount      string `json:"amount" binding:"required"` // Decimal string
	Currency    string `json:"currency"`
	Description string `json:"description"`
	ExpenseDate string `json:"expense_date" binding:"required"`
	ReceiptURL  string `json:"receipt_url"`
}

// --- Interface ---

type ExpenseService interface {
	List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.Expense, int64, error)
	Create(ctx context.Context, actor *auth.Identity, req CreateExpenseRequest) (*model.Expense, error)
	Approve(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.Expense, error)
	Reject(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.Expense, error)
}

type expenseService struct {
	txManager   repository.TransactionManager
	expenseRepo repository.ExpenseRepository
	auditRepo   repository.AuditRepository
	now         func() time.Time
}

func NewExpenseService(txManager repository.TransactionManager, expenseRepo repository.ExpenseRepository, auditRepo repository.AuditRepository) ExpenseService {
	return &expenseService{txManager: txManager, expenseRepo: expenseRepo, auditRepo: auditRepo, now: time.Now}
}

// --- Implementation ---

func (s *expenseService) List(ctx context.Context, actor *auth.Identity, filter repository.ListFilter) ([]model.Expense, int64, error) {
	filter, err := scope(actor, permission.ModuleExpenses, filter)
	if err != nil {
		return nil, 0, err
	}
	expenses, total, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, total, nil
}

func (s *expenseService) Create(ctx context.Context, actor *auth.Identity, req CreateExpenseRequest) (*model.Expense, error) {
	employeeID, err := owner(actor, permission.ModuleExpenses, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	}
	date, err := parseDate("expense_date", req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	expense := model.Expense{
		EmployeeID:  employeeID,
		ExpenseType: req.ExpenseType,
		Amount:      amount.Round(2),
		Currency:    currency,
		Description: req.Description,
		ExpenseDate: date,
		ReceiptURL:  req.ReceiptURL,
		Status:      model.StatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		audit := auditEntry(actor, model.ActionCreateExpense, expense.ID.String(), expense.EmployeeID, map[string]interface{}{
			"expense_type": expense.ExpenseType,
			"amount":       expense.Amount.String(),
			"currency":     expense.Currency,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *expenseService) Approve(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.Expense, error) {
	return s.decide(ctx, actor, id, model.StatusApproved, req.Comments)
}

func (s *expenseService) Reject(ctx context.Context, actor *auth.Identity, id string, req DecisionRequest) (*model.Expense, error) {
	return s.decide(ctx, actor, id, model.StatusRejected, req.Comments)
}

func (s *expenseService) decide(ctx context.Context, actor *auth.Identity, id, status, comments string) (*model.Expense, error) {
	if actor == nil {
		return nil, auth.ErrNotSignedIn
	}
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalid)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.expenseRepo.FindByIDForUpdate(txCtx, expenseID)
		if err != nil {
			return notFound(err, "expense")
		}
		if found.Status != model.StatusPending {
			return fmt.Errorf("expense is already %s: %w", found.Status, ErrNotPending)
		}

		now := s.now()
		approver := actor.ID
		found.Status = status
		found.ApprovedBy = &approver
		found.ApprovedAt = &now
		found.Comments = comments
		if err := s.expenseRepo.Update(txCtx, found); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		action := model.ActionApproveRequest
		if status == model.StatusRejected {
			action = model.ActionRejectRequest
		}
		audit := auditEntry(actor, action, found.ID.String(), "expense", map[string]interface{}{
			"employee_id": found.EmployeeID,
			"amount":      found.Amount.String(),
			"comments":    comments,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		expense = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}
