package services

import (
	"context"
	"errors"
	"testing"

	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/models"
	"gorm.io/gorm"
)

// fakeSender records calls and fails on scripted call indexes (1-based).
type fakeSender struct {
	calls  []int64
	failOn map[int]bool
}

func (s *fakeSender) SendMessage(_ context.Context, telegramUserID int64, _ string) error {
	s.calls = append(s.calls, telegramUserID)
	if s.failOn[len(s.calls)] {
		return errors.New("telegram: forbidden")
	}
	return nil
}

func newBroadcastFixture(t *testing.T) (*BroadcastService, *fakeSender, *gorm.DB, *models.Community) {
	t.Helper()
	db := newTestDB(t)
	sender := &fakeSender{failOn: map[int]bool{}}
	svc := NewBroadcastService(db, sender, newFakeClock(), 0)

	owner := seedOwner(t, db)
	community := seedCommunity(t, db, owner.ID, "Trading Group")
	return svc, sender, db, community
}

func TestDispatchCountsPartialFailures(t *testing.T) {
	svc, sender, db, c := newBroadcastFixture(t)

	for i := int64(1); i <= 5; i++ {
		seedMember(t, db, c.ID, i, true, nil, nil)
	}
	sender.failOn[3] = true

	result, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "hello",
		FilterType: FilterActive,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if result.TotalRecipients != 5 || result.SuccessCount != 4 || result.FailureCount != 1 {
		t.Fatalf("want {5,4,1}, got {%d,%d,%d}",
			result.TotalRecipients, result.SuccessCount, result.FailureCount)
	}
	if len(sender.calls) != 5 {
		t.Fatalf("want 5 send attempts, got %d", len(sender.calls))
	}
}

func TestDispatchZeroRecipientsSkipsSender(t *testing.T) {
	svc, sender, db, c := newBroadcastFixture(t)

	plan := seedPlan(t, db, c.ID, true)
	emptyPlan := seedPlan(t, db, c.ID, true)
	seedMember(t, db, c.ID, 1, true, &plan.ID, nil)

	result, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:            "hi",
		FilterType:         FilterPlan,
		SubscriptionPlanID: &emptyPlan.ID,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if result.TotalRecipients != 0 || result.SuccessCount != 0 || result.FailureCount != 0 {
		t.Fatalf("want zero result, got %+v", result)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("sender was invoked %d times for an empty audience", len(sender.calls))
	}
}

func TestDispatchFilterSemantics(t *testing.T) {
	svc, sender, db, c := newBroadcastFixture(t)

	plan := seedPlan(t, db, c.ID, true)
	seedMember(t, db, c.ID, 1, true, nil, nil)             // A: active
	seedMember(t, db, c.ID, 2, false, nil, nil)            // B: inactive
	seedMember(t, db, c.ID, 3, true, &plan.ID, nil)        // C: active on plan

	result, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:            "plan news",
		FilterType:         FilterPlan,
		SubscriptionPlanID: &plan.ID,
	})
	if err != nil {
		t.Fatalf("plan dispatch: %v", err)
	}
	if result.TotalRecipients != 1 || sender.calls[0] != 3 {
		t.Fatalf("plan filter matched wrong members: %+v calls=%v", result, sender.calls)
	}

	sender.calls = nil
	result, err = svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "come back",
		FilterType: FilterExpired,
	})
	if err != nil {
		t.Fatalf("expired dispatch: %v", err)
	}
	if result.TotalRecipients != 1 || sender.calls[0] != 2 {
		t.Fatalf("expired filter matched wrong members: %+v calls=%v", result, sender.calls)
	}

	sender.calls = nil
	result, err = svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "everyone",
		FilterType: FilterAll,
	})
	if err != nil {
		t.Fatalf("all dispatch: %v", err)
	}
	if result.TotalRecipients != 3 {
		t.Fatalf("all filter: want 3 recipients, got %d", result.TotalRecipients)
	}
}

func TestDispatchRejectsInvalidInput(t *testing.T) {
	svc, sender, db, c := newBroadcastFixture(t)
	seedMember(t, db, c.ID, 1, true, nil, nil)

	_, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "   ",
		FilterType: FilterAll,
	})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("want ErrEmptyMessage, got %v", err)
	}

	_, err = svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "hi",
		FilterType: FilterPlan,
	})
	if !errors.Is(err, ErrPlanRequired) {
		t.Fatalf("want ErrPlanRequired, got %v", err)
	}

	_, err = svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "hi",
		FilterType: "vip",
	})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("want ErrInvalidFilter, got %v", err)
	}

	if len(sender.calls) != 0 {
		t.Fatal("invalid input reached the sender")
	}
}

func TestDispatchWithoutSenderFailsWholeBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewBroadcastService(db, nil, newFakeClock(), 0)

	owner := seedOwner(t, db)
	c := seedCommunity(t, db, owner.ID, "No Bot Community")
	seedMember(t, db, c.ID, 1, true, nil, nil)

	_, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "hi",
		FilterType: FilterAll,
	})
	if !errors.Is(err, ErrSenderUnavailable) {
		t.Fatalf("want ErrSenderUnavailable, got %v", err)
	}
}

func TestDispatchWritesAnalyticsLog(t *testing.T) {
	svc, _, db, c := newBroadcastFixture(t)
	seedMember(t, db, c.ID, 1, true, nil, nil)
	seedMember(t, db, c.ID, 2, true, nil, nil)

	if _, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "announcement",
		FilterType: FilterActive,
	}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var logRow models.CommunityLog
	if err := db.Where("event_type = ?", models.EventMessageSent).First(&logRow).Error; err != nil {
		t.Fatalf("load analytics log: %v", err)
	}
	if logRow.CommunityID == nil || *logRow.CommunityID != c.ID {
		t.Fatal("analytics log has wrong community")
	}
	if logRow.ProcessedCount != 2 {
		t.Fatalf("want processed_count 2, got %d", logRow.ProcessedCount)
	}
}

func TestDispatchScopedToCommunity(t *testing.T) {
	svc, sender, db, c := newBroadcastFixture(t)

	owner2 := seedOwner(t, db)
	other := seedCommunity(t, db, owner2.ID, "Other")
	seedMember(t, db, c.ID, 1, true, nil, nil)
	seedMember(t, db, other.ID, 99, true, nil, nil)

	result, err := svc.Dispatch(context.Background(), c.ID, &dto.BroadcastRequest{
		Message:    "ours only",
		FilterType: FilterAll,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.TotalRecipients != 1 || len(sender.calls) != 1 || sender.calls[0] != 1 {
		t.Fatalf("broadcast leaked across communities: %+v calls=%v", result, sender.calls)
	}
}
