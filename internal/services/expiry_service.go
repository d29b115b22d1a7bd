package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/cache"
	"github.com/membify/membify-backend/internal/clock"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"github.com/membify/membify-backend/internal/tenant"
	"gorm.io/gorm"
)

const cronStatusKey = "cron_status"

// ExpiryService flips lapsed subscriptions to inactive. The update is a
// conditional row transition, so overlapping scans (scheduled tick plus a
// manual trigger) are safe to run concurrently.
type ExpiryService struct {
	db          *gorm.DB
	clk         clock.Clock
	statusCache *cache.TTL[dto.CronJobStatus]

	// newBackOff builds the retry policy for one scan. Replaced in tests
	// to avoid real delays.
	newBackOff func() backoff.BackOff
}

func NewExpiryService(db *gorm.DB, clk clock.Clock, statusTTL time.Duration) *ExpiryService {
	return &ExpiryService{
		db:          db,
		clk:         clk,
		statusCache: cache.NewTTL[dto.CronJobStatus](clk, statusTTL),
		newBackOff:  scanBackOff,
	}
}

// scanBackOff retries a transient failure up to 3 times, waiting 1s, 2s, 4s.
func scanBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = 4 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, 3)
}

// Scan deactivates every member whose subscription end date is strictly in
// the past. A nil communityID scans all communities. The member's plan and
// end date are deliberately left in place as history; only explicit manual
// removal clears them.
//
// Exactly one community log row is written per invocation: a
// subscription_check row with the processed count, or a
// subscription_check_error row if the update failed after all retries.
func (s *ExpiryService) Scan(ctx context.Context, communityID *uuid.UUID) (int, error) {
	now := s.clk.Now().UTC()

	var processed int64
	op := func() error {
		q := s.db.WithContext(ctx).Model(&models.Member{}).
			Where("subscription_status = ?", true).
			Where("subscription_end_date IS NOT NULL AND subscription_end_date < ?", now)
		if communityID != nil {
			q = q.Scopes(tenant.ForCommunity(*communityID))
		}

		result := q.Update("subscription_status", false)
		if result.Error != nil {
			return result.Error
		}
		processed = result.RowsAffected
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		s.writeLog(communityID, models.EventSubscriptionCheckError, 0, err.Error())
		return 0, fmt.Errorf("subscription check failed: %w", err)
	}

	s.writeLog(communityID, models.EventSubscriptionCheck, int(processed), "")
	s.statusCache.Invalidate(cronStatusKey)
	return int(processed), nil
}

func (s *ExpiryService) writeLog(communityID *uuid.UUID, eventType string, processed int, details string) {
	logRow := models.CommunityLog{
		ID:             uuid.New(),
		CommunityID:    communityID,
		EventType:      eventType,
		ProcessedCount: processed,
		Details:        details,
		CreatedAt:      s.clk.Now().UTC(),
	}
	if err := s.db.Create(&logRow).Error; err != nil {
		slog.Error("failed to write subscription check log", "event_type", eventType, "error", err)
	}
}

// Status reports the health of the expiry scan, derived from the most recent
// subscription check logs and cached to bound read load.
func (s *ExpiryService) Status(ctx context.Context) (dto.CronJobStatus, error) {
	if st, ok := s.statusCache.Get(cronStatusKey); ok {
		return st, nil
	}

	var last models.CommunityLog
	err := s.db.WithContext(ctx).
		Where("event_type IN ?", []string{models.EventSubscriptionCheck, models.EventSubscriptionCheckError}).
		Order("created_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st := dto.CronJobStatus{CronStatus: dto.CronStatusNotFound}
		s.statusCache.Set(cronStatusKey, st)
		return st, nil
	}
	if err != nil {
		return dto.CronJobStatus{}, fmt.Errorf("failed to read check logs: %w", err)
	}

	st := dto.CronJobStatus{
		LastCheckTime:    &last.CreatedAt,
		CronStatus:       dto.CronStatusActive,
		ProcessedMembers: last.ProcessedCount,
	}
	if last.EventType == models.EventSubscriptionCheckError {
		st.CronStatus = dto.CronStatusError
		st.LatestRunError = last.Details
	} else {
		var lastErr models.CommunityLog
		err := s.db.WithContext(ctx).
			Where("event_type = ?", models.EventSubscriptionCheckError).
			Order("created_at DESC").
			First(&lastErr).Error
		if err == nil {
			st.LatestRunError = lastErr.Details
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CronJobStatus{}, fmt.Errorf("failed to read error logs: %w", err)
		}
	}

	s.statusCache.Set(cronStatusKey, st)
	return st, nil
}
