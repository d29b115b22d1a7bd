package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event types recorded in community_logs.
const (
	EventSubscriptionCheck      = "subscription_check"
	EventSubscriptionCheckError = "subscription_check_error"
	EventMessageSent            = "message_sent"
	EventMemberRemoved          = "member_removed"
)

// CommunityLog is an append-only audit/analytics row. CommunityID is nil for
// platform-wide events such as an all-communities expiry scan.
type CommunityLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID    *uuid.UUID     `gorm:"type:uuid;index" json:"community_id"`
	EventType      string         `gorm:"not null;size:50;index" json:"event_type"`
	ProcessedCount int            `json:"processed_count"`
	Details        string         `gorm:"type:text" json:"details"`
	Metadata       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
}

func (CommunityLog) TableName() string {
	return "community_logs"
}
