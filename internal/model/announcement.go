package model

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a company-wide notice shown on every dashboard
type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"type:varchar(30);not null;default:'general'" json:"type"`
	Priority  string    `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	CreatedBy string    `gorm:"type:varchar(64)" json:"created_by"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
