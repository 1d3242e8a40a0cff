package repository

import (
	"context"

	"hrsuite/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]model.Attendance, int64, error)
	Update(ctx context.Context, record *model.Attendance) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.Attendance) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var record model.Attendance
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter ListFilter) ([]model.Attendance, int64, error) {
	var records []model.Attendance
	var total int64

	db := filter.apply(GetDB(ctx, r.db).Model(&model.Attendance{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := filter.paginate(db.Order("date desc")).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record *model.Attendance) error {
	return GetDB(ctx, r.db).Save(record).Error
}
