package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Owner{},
		&models.Community{},
		&models.Plan{},
		&models.Member{},
		&models.PaymentMethod{},
		&models.PlatformSubscription{},
		&models.CommunityLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func seedOwner(t *testing.T, db *gorm.DB) *models.Owner {
	t.Helper()
	owner := models.Owner{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     "owner",
	}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return &owner
}

func seedCommunity(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.Community {
	t.Helper()
	community := models.Community{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       name,
		CustomLink: uuid.NewString(),
		IsActive:   true,
	}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("seed community: %v", err)
	}
	return &community
}

func seedPlan(t *testing.T, db *gorm.DB, communityID uuid.UUID, active bool) *models.Plan {
	t.Helper()
	plan := models.Plan{
		ID:          uuid.New(),
		CommunityID: communityID,
		Name:        "Premium",
		Price:       9.99,
		Interval:    models.IntervalMonthly,
		Features:    datatypes.JSON(`["chat access"]`),
		IsActive:    active,
	}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	// A plain Create omits zero-valued fields that carry a gorm default
	// tag, so is_active=false must be persisted explicitly.
	if err := db.Model(&plan).Update("is_active", active).Error; err != nil {
		t.Fatalf("seed plan active flag: %v", err)
	}
	return &plan
}

func seedMember(t *testing.T, db *gorm.DB, communityID uuid.UUID, tgID int64, active bool, planID *uuid.UUID, endDate *time.Time) *models.Member {
	t.Helper()
	member := models.Member{
		ID:                  uuid.New(),
		CommunityID:         communityID,
		TelegramUserID:      tgID,
		SubscriptionPlanID:  planID,
		SubscriptionStatus:  active,
		SubscriptionEndDate: endDate,
		JoinedAt:            time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return &member
}

func seedPaymentMethod(t *testing.T, db *gorm.DB, communityID uuid.UUID, active bool) {
	t.Helper()
	pm := models.PaymentMethod{
		ID:          uuid.New(),
		CommunityID: communityID,
		Provider:    models.ProviderStripe,
		IsActive:    active,
	}
	if err := db.Create(&pm).Error; err != nil {
		t.Fatalf("seed payment method: %v", err)
	}
}

func seedPlatformSubscription(t *testing.T, db *gorm.DB, ownerID uuid.UUID, status string) *models.PlatformSubscription {
	t.Helper()
	sub := models.PlatformSubscription{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  status,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed platform subscription: %v", err)
	}
	return &sub
}

func timePtr(ts time.Time) *time.Time { return &ts }
