package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrsuite/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter repository.AuditFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, filter repository.AuditFilter) ([]AuditLogResponse, int64, error) {
	filter.Action = strings.ToUpper(strings.TrimSpace(filter.Action))
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, 0, fmt.Errorf("%w: from must be before to", ErrInvalid)
	}

	logs, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		res = append(res, AuditLogResponse{
			ID:         log.ID.String(),
			ActorID:    log.ActorID,
			ActorEmail: log.ActorEmail,
			Action:     log.Action,
			EntityID:   log.EntityID,
			EntityName: log.EntityName,
			Details:    log.Details,
			CreatedAt:  log.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
