package repository

import (
	"context"

	"hrsuite/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository reads and writes the profiles table joined to auth users
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	List(ctx context.Context, role string, page, limit int) ([]model.Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "employee_id = ?", employeeID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Create(profile).Error
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

// List pages through profiles, optionally narrowed to one role
func (r *profileRepository) List(ctx context.Context, role string, page, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Profile{})
	if role != "" {
		db = db.Where("role = ?", role)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	filter := ListFilter{Page: page, Limit: limit}
	if err := filter.paginate(db.Order("email asc")).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
