package repository

import (
	"context"

	"hrsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter ListFilter) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ListFilter) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.Expense{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := filter.paginate(db.Order("created_at desc")).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}
