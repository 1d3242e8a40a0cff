package repository

import (
	"context"
	"errors"
	"time"

	"hrsuite/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows the audit trail. Empty fields are ignored.
type AuditFilter struct {
	ActorID  string
	Action   string
	EntityID string
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	Page     int
	Limit    int
}

func (f AuditFilter) apply(db *gorm.DB) *gorm.DB {
	if f.ActorID != "" {
		db = db.Where("actor_id = ?", f.ActorID)
	}
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("created_at < ?", *f.To)
	}
	return db
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log writes entry inside the caller's transaction when ctx carries one
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.Action == "" {
		return errors.New("audit entry has no action")
	}
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.AuditLog{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := ListFilter{Page: filter.Page, Limit: filter.Limit}
	if err := page.paginate(db.Order("created_at desc")).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
