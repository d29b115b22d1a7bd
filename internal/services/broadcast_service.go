package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/clock"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/telegram"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmptyMessage      = errors.New("broadcast message must not be empty")
	ErrSenderUnavailable = errors.New("messaging integration is not configured")
)

// BroadcastService sends an owner-composed message to a filtered subset of a
// community's members. Sends are sequential with a fixed inter-send pause to
// stay inside the Telegram rate limit; a single failed delivery never aborts
// the batch.
type BroadcastService struct {
	db        *gorm.DB
	sender    telegram.Sender
	clk       clock.Clock
	sendDelay time.Duration
}

func NewBroadcastService(db *gorm.DB, sender telegram.Sender, clk clock.Clock, sendDelay time.Duration) *BroadcastService {
	return &BroadcastService{db: db, sender: sender, clk: clk, sendDelay: sendDelay}
}

// Dispatch validates the request, resolves recipients and delivers the
// message one by one. Recipient resolution failures and validation problems
// return an error; individual delivery failures are only counted.
func (s *BroadcastService) Dispatch(ctx context.Context, communityID uuid.UUID, req *dto.BroadcastRequest) (*dto.BroadcastResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	scope, err := memberFilterScope(req.FilterType, req.SubscriptionPlanID)
	if err != nil {
		return nil, err
	}

	if s.sender == nil {
		return nil, ErrSenderUnavailable
	}

	var recipients []models.Member
	if err := s.db.WithContext(ctx).
		Scopes(tenant.ForCommunity(communityID), scope).
		Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}

	result := &dto.BroadcastResult{TotalRecipients: len(recipients)}
	if len(recipients) == 0 {
		return result, nil
	}

	for i, m := range recipients {
		if err := s.sender.SendMessage(ctx, m.TelegramUserID, req.Message); err != nil {
			result.FailureCount++
			slog.Warn("broadcast delivery failed",
				"community_id", communityID.String(),
				"telegram_user_id", m.TelegramUserID,
				"error", err)
		} else {
			result.SuccessCount++
		}

		if s.sendDelay > 0 && i < len(recipients)-1 {
			select {
			case <-time.After(s.sendDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}
	}

	s.writeAnalytics(communityID, result)
	return result, nil
}

func (s *BroadcastService) writeAnalytics(communityID uuid.UUID, result *dto.BroadcastResult) {
	meta, _ := json.Marshal(result)
	logRow := models.CommunityLog{
		ID:             uuid.New(),
		CommunityID:    &communityID,
		EventType:      models.EventMessageSent,
		ProcessedCount: result.TotalRecipients,
		Metadata:       datatypes.JSON(meta),
		CreatedAt:      s.clk.Now().UTC(),
	}
	if err := s.db.Create(&logRow).Error; err != nil {
		slog.Error("failed to write broadcast analytics log", "community_id", communityID.String(), "error", err)
	}
}
