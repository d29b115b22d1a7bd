package models

import (
	"time"

	"github.com/google/uuid"
)

// Community is a monetized Telegram group/channel. It is the tenancy unit:
// plans, members, payment methods and logs are all scoped to one community.
type Community struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name           string    `gorm:"not null;size:255;index" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	TelegramChatID int64     `gorm:"index" json:"telegram_chat_id"`
	CustomLink     string    `gorm:"size:100;uniqueIndex" json:"custom_link"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Owner          Owner     `gorm:"foreignKey:OwnerID" json:"-"`
}
