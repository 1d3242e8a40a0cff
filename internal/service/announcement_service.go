package service

import (
	"context"
	"fmt"

	"hrsuite/internal/auth"
	"hrsuite/internal/model"
	"hrsuite/internal/repository"
)

// EventAnnouncementCreated is pushed to websocket clients
const EventAnnouncementCreated = "announcement.created"

const defaultAnnouncementLimit = 20

type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type" binding:"omitempty,oneof=general policy event urgent"`
	Priority string `json:"priority" binding:"omitempty,oneof=low normal high"`
}

type AnnouncementService interface {
	List(ctx context.Context, limit int) ([]model.Announcement, error)
	Create(ctx context.Context, actor *auth.Identity, req CreateAnnouncementRequest) (*model.Announcement, error)
}

type announcementService struct {
	txManager        repository.TransactionManager
	announcementRepo repository.AnnouncementRepository
	auditRepo        repository.AuditRepository
	hub              Broadcaster // optional websocket hub
}

func NewAnnouncementService(txManager repository.TransactionManager, announcementRepo repository.AnnouncementRepository, auditRepo repository.AuditRepository, hub Broadcaster) AnnouncementService {
	return &announcementService{txManager: txManager, announcementRepo: announcementRepo, auditRepo: auditRepo, hub: hub}
}

func (s *announcementService) List(ctx context.Context, limit int) ([]model.Announcement, error) {
	if limit <= 0 {
		limit = defaultAnnouncementLimit
	}
	list, err := s.announcementRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return list, nil
}

func (s *announcementService) Create(ctx context.Context, actor *auth.Identity, req CreateAnnouncementRequest) (*model.Announcement, error) {
	if actor == nil {
		return nil, auth.ErrNotSignedIn
	}

	announcement := model.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		Priority:  req.Priority,
		CreatedBy: actor.ID,
	}
	if announcement.Type == "" {
		announcement.Type = "general"
	}
	if announcement.Priority == "" {
		announcement.Priority = "normal"
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.announcementRepo.Create(txCtx, &announcement); err != nil {
			return fmt.Errorf("failed to create announcement: %w", err)
		}
		audit := auditEntry(actor, model.ActionCreateAnnouncement, announcement.ID.String(), announcement.Title, map[string]interface{}{
			"type":     announcement.Type,
			"priority": announcement.Priority,
		})
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(EventAnnouncementCreated, announcement)
	}
	return &announcement, nil
}
