// Package testutil provides sqlite-backed fixtures for service tests.
package testutil

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/db"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/tool"
	"github.com/fatflowers/pledge/pkg/types"
)

// NewDB opens a migrated sqlite database in a temp dir that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "pledge.db") + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(zap.NewNop().Sugar(), gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// SeedCampaign inserts an active campaign with one reward.
func SeedCampaign(t testing.TB, gdb *gorm.DB) (*models.Campaign, *models.Reward) {
	t.Helper()
	c := &models.Campaign{ID: tool.GenerateUUIDV7(), Title: "Test Campaign", State: types.CampaignStateActive}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	r := &models.Reward{ID: tool.GenerateUUIDV7(), CampaignID: c.ID, Title: "Signed copy", Minimum: money.FromInt(25)}
	if err := gdb.Create(r).Error; err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	return c, r
}

// SeedPayment inserts a donation for campaign with a payment in state.
func SeedPayment(t testing.TB, gdb *gorm.DB, campaignID string, amount money.Money, state types.PaymentState) *models.Payment {
	t.Helper()
	d := &models.Donation{
		ID:         tool.GenerateUUIDV7(),
		Email:      "backer@example.com",
		Amount:     amount,
		CampaignID: campaignID,
		IPAddress:  "127.0.0.1",
		UserAgent:  "go-test",
	}
	if err := gdb.Create(d).Error; err != nil {
		t.Fatalf("seed donation: %v", err)
	}
	p := &models.Payment{
		ID:         tool.GenerateUUIDV7(),
		DonationID: d.ID,
		Amount:     amount,
		Currency:   "USD",
		State:      state,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}
