package service

import (
	"context"
	"fmt"
	"strings"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Department       string `json:"department" binding:"required"`
	Position         string `json:"position" binding:"required"`
	HireDate         string `json:"hire_date" binding:"required"` // YYYY-MM-DD
	Salary           string `json:"salary"`                       // Decimal string
	ManagerID        string `json:"manager_id"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
}

// UpdateEmployeeRequest changes only the fields that are set
type UpdateEmployeeRequest struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Phone            *string `json:"phone"`
	Department       *string `json:"department"`
	Position         *string `json:"position"`
	Salary           *string `json:"salary"`
	Status           *string `json:"status" binding:"omitempty,oneof=active inactive on_leave"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact"`
	EmergencyPhone   *string `json:"emergency_phone"`
}

type EmployeeFilter struct {
	Department string
	Status     string
	Page       int
	Limit      int
}

// --- Interface ---

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
	Create(ctx context.Context, actor *auth.Identity, req CreateEmployeeRequest) (*model.Employee, error)
	Update(ctx context.Context, actor *auth.Identity, id string, req UpdateEmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, actor *auth.Identity, id string) error
}

type employeeService struct {
	txManager    repository.TransactionManager
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
}

func NewEmployeeService(txManager repository.TransactionManager, employeeRepo repository.EmployeeRepository, auditRepo repository.AuditRepository) EmployeeService {
	return &employeeService{txManager: txManager, employeeRepo: employeeRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *employeeService) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, repository.ListFilter{
		Department: filter.Department,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid employee id", ErrInvalid)
	}
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "employee")
	}
	return employee, nil
}

func (s *employeeService) Create(ctx context.Context, actor *auth.Identity, req CreateEmployeeRequest) (*model.Employee, error) {
	hireDate, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return nil, err
	}

	employee := model.Employee{
		EmployeeID:       strings.ToUpper(strings.TrimSpace(req.EmployeeID)),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            req.Phone,
		Department:       req.Department,
		Position:         req.Position,
		HireDate:         hireDate,
		Status:           model.EmployeeActive,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
	}

	if req.Salary != "" {
		salary, err := parseAmount("salary", req.Salary)
		if err != nil {
			return nil, err
		}
		employee.Salary = &salary
	}
	if req.ManagerID != "" {
		managerID, err := uuid.Parse(req.ManagerID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid manager_id", ErrInvalid)
		}
		employee.ManagerID = &managerID
	}
	if actor != nil {
		if createdBy, err := uuid.Parse(actor.ID); err == nil {
			employee.CreatedBy = &createdBy
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Create(txCtx, &employee); err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		audit := auditEntry(actor, model.ActionCreateEmployee, employee.ID.String(), employee.EmployeeID, map[string]interface{}{
			"email":      employee.Email,
			"department": employee.Department,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &employee, nil
}

func (s *employeeService) Update(ctx context.Context, actor *auth.Identity, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&employee.FirstName, req.FirstName)
	apply(&employee.LastName, req.LastName)
	apply(&employee.Phone, req.Phone)
	apply(&employee.Department, req.Department)
	apply(&employee.Position, req.Position)
	apply(&employee.Status, req.Status)
	apply(&employee.Address, req.Address)
	apply(&employee.EmergencyContact, req.EmergencyContact)
	apply(&employee.EmergencyPhone, req.EmergencyPhone)

	if req.Salary != nil {
		if *req.Salary == "" {
			employee.Salary = nil
		} else {
			salary, err := parseAmount("salary", *req.Salary)
			if err != nil {
				return nil, err
			}
			employee.Salary = &salary
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		audit := auditEntry(actor, model.ActionUpdateEmployee, employee.ID.String(), employee.EmployeeID, req)
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		audit := auditEntry(actor, model.ActionDeleteEmployee, id, employee.EmployeeID, map[string]interface{}{
			"email": employee.Email,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must be a non-negative decimal", ErrInvalid, field)
	}
	return amount, nil
}
