package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is one Telegram user's relationship to one community.
// Rows are never hard-deleted: expiry and manual removal flip
// SubscriptionStatus to false and the row persists as history.
type Member struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_members_community_tg" json:"community_id"`
	TelegramUserID        int64      `gorm:"not null;uniqueIndex:idx_members_community_tg" json:"telegram_user_id"`
	TelegramUsername      string     `gorm:"size:255" json:"telegram_username"`
	SubscriptionPlanID    *uuid.UUID `gorm:"type:uuid;index" json:"subscription_plan_id"`
	SubscriptionStatus    bool       `gorm:"not null;default:false;index" json:"subscription_status"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `gorm:"index" json:"subscription_end_date"`
	JoinedAt              time.Time  `json:"joined_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Community             Community  `gorm:"foreignKey:CommunityID" json:"-"`
}

func (Member) TableName() string {
	return "telegram_chat_members"
}
