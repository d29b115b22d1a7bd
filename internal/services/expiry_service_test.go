package services

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/models"
	"gorm.io/gorm"
)

func newExpiryFixture(t *testing.T) (*ExpiryService, *fakeClock, *gorm.DB, *models.Community) {
	t.Helper()
	db := newTestDB(t)
	clk := newFakeClock()
	svc := NewExpiryService(db, clk, 2*time.Minute)

	owner := seedOwner(t, db)
	community := seedCommunity(t, db, owner.ID, "Crypto Signals")
	return svc, clk, db, community
}

func TestScanDeactivatesLapsedMembers(t *testing.T) {
	svc, clk, db, c := newExpiryFixture(t)

	yesterday := clk.Now().Add(-24 * time.Hour)
	nextWeek := clk.Now().Add(7 * 24 * time.Hour)
	plan := seedPlan(t, db, c.ID, true)

	lapsed := seedMember(t, db, c.ID, 100, true, &plan.ID, timePtr(yesterday))
	seedMember(t, db, c.ID, 101, true, &plan.ID, timePtr(nextWeek))
	seedMember(t, db, c.ID, 102, true, nil, nil) // lifetime, no end date

	processed, err := svc.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if processed != 1 {
		t.Fatalf("want 1 processed, got %d", processed)
	}

	var got models.Member
	if err := db.First(&got, "id = ?", lapsed.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if got.SubscriptionStatus {
		t.Fatal("lapsed member still active")
	}
	// Automatic expiry keeps the plan and end date as history.
	if got.SubscriptionPlanID == nil || *got.SubscriptionPlanID != plan.ID {
		t.Fatal("expiry cleared subscription_plan_id")
	}
	if got.SubscriptionEndDate == nil {
		t.Fatal("expiry cleared subscription_end_date")
	}

	var logRow models.CommunityLog
	if err := db.Where("event_type = ?", models.EventSubscriptionCheck).First(&logRow).Error; err != nil {
		t.Fatalf("load check log: %v", err)
	}
	if logRow.ProcessedCount != 1 {
		t.Fatalf("want processed_count 1 in log, got %d", logRow.ProcessedCount)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	svc, clk, db, c := newExpiryFixture(t)

	yesterday := clk.Now().Add(-24 * time.Hour)
	seedMember(t, db, c.ID, 100, true, nil, timePtr(yesterday))
	seedMember(t, db, c.ID, 101, true, nil, timePtr(yesterday))

	first, err := svc.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if first != 2 {
		t.Fatalf("want 2 on first scan, got %d", first)
	}

	second, err := svc.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second != 0 {
		t.Fatalf("want 0 on second scan, got %d", second)
	}

	var inactive int64
	db.Model(&models.Member{}).Where("subscription_status = ?", false).Count(&inactive)
	if inactive != 2 {
		t.Fatalf("want 2 inactive members, got %d", inactive)
	}

	var logCount int64
	db.Model(&models.CommunityLog{}).Where("event_type = ?", models.EventSubscriptionCheck).Count(&logCount)
	if logCount != 2 {
		t.Fatalf("want one log row per scan, got %d", logCount)
	}
}

func TestScanEndDateBoundaryIsStrict(t *testing.T) {
	svc, clk, db, c := newExpiryFixture(t)

	// End date exactly equal to "now" must NOT count as expired.
	seedMember(t, db, c.ID, 100, true, nil, timePtr(clk.Now().UTC()))

	processed, err := svc.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if processed != 0 {
		t.Fatalf("member expiring exactly now was processed, want 0 got %d", processed)
	}

	// One tick later it has lapsed.
	clk.Advance(time.Second)
	processed, err = svc.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if processed != 1 {
		t.Fatalf("want 1 after clock advance, got %d", processed)
	}
}

func TestScanScopedToOneCommunity(t *testing.T) {
	svc, clk, db, c := newExpiryFixture(t)

	owner2 := seedOwner(t, db)
	other := seedCommunity(t, db, owner2.ID, "Other Community")

	yesterday := clk.Now().Add(-24 * time.Hour)
	seedMember(t, db, c.ID, 100, true, nil, timePtr(yesterday))
	outOfScope := seedMember(t, db, other.ID, 200, true, nil, timePtr(yesterday))

	processed, err := svc.Scan(context.Background(), &c.ID)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if processed != 1 {
		t.Fatalf("want 1 processed in scoped scan, got %d", processed)
	}

	var got models.Member
	db.First(&got, "id = ?", outOfScope.ID)
	if !got.SubscriptionStatus {
		t.Fatal("scoped scan touched a member of another community")
	}
}

func TestScanPersistentFailureWritesErrorLog(t *testing.T) {
	svc, _, db, _ := newExpiryFixture(t)
	svc.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}

	if err := db.Exec("DROP TABLE telegram_chat_members").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := svc.Scan(context.Background(), nil); err == nil {
		t.Fatal("want error after persistent failure")
	}

	var logRow models.CommunityLog
	if err := db.Where("event_type = ?", models.EventSubscriptionCheckError).First(&logRow).Error; err != nil {
		t.Fatalf("load error log: %v", err)
	}
	if logRow.Details == "" {
		t.Fatal("error log has no details")
	}

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CronStatus != "error" {
		t.Fatalf("want cron_status error, got %q", status.CronStatus)
	}
	if status.LatestRunError == "" {
		t.Fatal("latest_run_error is empty")
	}
}

func TestScanBackOffIntervals(t *testing.T) {
	b := scanBackOff()

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		got := b.NextBackOff()
		if got != w {
			t.Fatalf("interval %d: want %v, got %v", i, w, got)
		}
	}
	if got := b.NextBackOff(); got != backoff.Stop {
		t.Fatalf("want Stop after 3 retries, got %v", got)
	}
}

func TestStatusNotFoundBeforeFirstScan(t *testing.T) {
	svc, _, _, _ := newExpiryFixture(t)

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CronStatus != "not_found" {
		t.Fatalf("want not_found, got %q", status.CronStatus)
	}
	if status.LastCheckTime != nil {
		t.Fatal("want nil last_check_time before first scan")
	}
}

func TestStatusIsCachedForTwoMinutes(t *testing.T) {
	svc, clk, db, _ := newExpiryFixture(t)

	if _, err := svc.Scan(context.Background(), nil); err != nil {
		t.Fatalf("scan: %v", err)
	}

	first, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if first.CronStatus != "active" {
		t.Fatalf("want active, got %q", first.CronStatus)
	}

	// A log row written behind the cache's back does not show up until the
	// TTL elapses.
	clk.Advance(30 * time.Second)
	newer := models.CommunityLog{
		ID:             uuid.New(),
		EventType:      models.EventSubscriptionCheck,
		ProcessedCount: 42,
		CreatedAt:      clk.Now().UTC(),
	}
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("insert log: %v", err)
	}

	cached, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("cached status: %v", err)
	}
	if cached.ProcessedMembers == 42 {
		t.Fatal("status served fresh data inside the cache TTL")
	}

	clk.Advance(2 * time.Minute)
	refreshed, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("refreshed status: %v", err)
	}
	if refreshed.ProcessedMembers != 42 {
		t.Fatalf("want refreshed processed_members 42, got %d", refreshed.ProcessedMembers)
	}
}
