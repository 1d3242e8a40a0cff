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

// DTOs for Request validation
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserResponse is a profile as shown in the user administration screen
type UserResponse struct {
	ID         uuid.UUID       `json:"id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Role       permission.Role `json:"role"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	EmployeeID string          `json:"employee_id"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// UserService administers the role attached to each account profile
type UserService interface {
	ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	UpdateUserRole(ctx context.Context, actor *auth.Identity, id string, req UpdateRoleRequest) (*UserResponse, error)
}

type userService struct {
	txManager   repository.TransactionManager
	profileRepo repository.ProfileRepository
	auditRepo   repository.AuditRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(txManager repository.TransactionManager, profileRepo repository.ProfileRepository, auditRepo repository.AuditRepository) UserService {
	return &userService{txManager: txManager, profileRepo: profileRepo, auditRepo: auditRepo}
}

// validateRole accepts only roles of the permission matrix
func validateRole(role string) (permission.Role, error) {
	r, err := permission.ParseRole(role)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return r, nil
}

func mapToResponse(p *model.Profile) *UserResponse {
	// Stored roles outside the matrix are shown as employee, matching resolution
	role, err := permission.ParseRole(p.Role)
	if err != nil {
		role = permission.RoleEmployee
	}
	return &UserResponse{
		ID:         p.ID,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Role:       role,
		Department: p.Department,
		Position:   p.Position,
		EmployeeID: p.EmployeeID,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error) {
	if role != "" {
		if _, err := validateRole(role); err != nil {
			return nil, 0, err
		}
	}

	profiles, total, err := s.profileRepo.List(ctx, role, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]UserResponse, 0, len(profiles))
	for i := range profiles {
		res = append(res, *mapToResponse(&profiles[i]))
	}
	return res, total, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalid)
	}
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return mapToResponse(profile), nil
}

// UpdateUserRole assigns a new role. Only a master may grant master, and
// nobody changes their own role.
func (s *userService) UpdateUserRole(ctx context.Context, actor *auth.Identity, id string, req UpdateRoleRequest) (*UserResponse, error) {
	if actor == nil {
		return nil, auth.ErrNotSignedIn
	}
	role, err := validateRole(req.Role)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalid)
	}
	if id == actor.ID {
		return nil, fmt.Errorf("cannot change your own role: %w", ErrForbidden)
	}
	if role == permission.RoleMaster && actor.Role != permission.RoleMaster {
		return nil, fmt.Errorf("only a master can grant master: %w", ErrForbidden)
	}

	var updated *model.Profile
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		profile, err := s.profileRepo.GetByID(txCtx, id)
		if err != nil {
			return notFound(err, "user")
		}
		previous := profile.Role
		profile.Role = string(role)
		if err := s.profileRepo.Update(txCtx, profile); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		entry := auditEntry(actor, model.ActionChangeRole, profile.ID.String(), profile.Email,
			map[string]string{"from": previous, "to": string(role)})
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(updated), nil
}
