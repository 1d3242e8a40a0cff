package repository

import (
	"context"

	"hrsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]model.LeaveRequest, int64, error)
	Update(ctx context.Context, req *model.LeaveRequest) error
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, req *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

// FindByIDForUpdate locks the row so concurrent approvals serialize
func (r *leaveRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) List(ctx context.Context, filter ListFilter) ([]model.LeaveRequest, int64, error) {
	var reqs []model.LeaveRequest
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.LeaveRequest{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := filter.paginate(db.Order("created_at desc")).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *leaveRepository) Update(ctx context.Context, req *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}
