package repository

import "gorm.io/gorm"

// ListFilter narrows list queries. Empty fields are ignored.
type ListFilter struct {
	EmployeeID string
	Status     string
	Department string // employees only
	Page       int
	Limit      int
}

func (f ListFilter) apply(db *gorm.DB) *gorm.DB {
	if f.EmployeeID != "" {
		db = db.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Department != "" {
		db = db.Where("department = ?", f.Department)
	}
	return db
}

func (f ListFilter) paginate(db *gorm.DB) *gorm.DB {
	if f.Limit <= 0 {
		return db
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * f.Limit).Limit(f.Limit)
}
