package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is a community owner account (the paying customer of the platform).
type Owner struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"size:20;default:'owner'" json:"role"`
	TelegramID   *int64         `gorm:"index" json:"telegram_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
