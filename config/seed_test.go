package config

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vietcom/vietcom-backend/models"
)

func seedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Mission{}, &models.Badge{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestSeedGamification(t *testing.T) {
	db := seedTestDB(t)

	if err := SeedGamification(db); err != nil {
		t.Fatalf("SeedGamification() failed: %v", err)
	}

	var missionCount int64
	db.Model(&models.Mission{}).Count(&missionCount)
	if missionCount != int64(len(defaultMissions)) {
		t.Errorf("expected %d missions, got %d", len(defaultMissions), missionCount)
	}

	var badgeCount int64
	db.Model(&models.Badge{}).Count(&badgeCount)
	if badgeCount != int64(len(defaultBadges)) {
		t.Errorf("expected %d badges, got %d", len(defaultBadges), badgeCount)
	}

	var daily models.Mission
	if err := db.Where("mission_type = ?", models.MissionDailyLogin).First(&daily).Error; err != nil {
		t.Fatalf("daily login mission missing: %v", err)
	}
	if daily.Frequency != models.FrequencyDaily {
		t.Errorf("daily login mission should be daily, got %q", daily.Frequency)
	}
	if !daily.IsActive {
		t.Error("seeded missions should be active")
	}
}

func TestSeedGamificationIdempotent(t *testing.T) {
	db := seedTestDB(t)

	if err := SeedGamification(db); err != nil {
		t.Fatalf("first SeedGamification() failed: %v", err)
	}
	if err := SeedGamification(db); err != nil {
		t.Fatalf("second SeedGamification() failed: %v", err)
	}

	var missionCount int64
	db.Model(&models.Mission{}).Count(&missionCount)
	if missionCount != int64(len(defaultMissions)) {
		t.Errorf("re-seeding must not duplicate missions, got %d", missionCount)
	}

	var badgeCount int64
	db.Model(&models.Badge{}).Count(&badgeCount)
	if badgeCount != int64(len(defaultBadges)) {
		t.Errorf("re-seeding must not duplicate badges, got %d", badgeCount)
	}
}

func TestSeedGamificationRefreshesCatalog(t *testing.T) {
	db := seedTestDB(t)

	if err := SeedGamification(db); err != nil {
		t.Fatalf("SeedGamification() failed: %v", err)
	}

	// Simulate a stale title from an older catalog version.
	if err := db.Model(&models.Mission{}).
		Where("mission_type = ? AND target_count = ?", models.MissionFirstLogin, 1).
		Update("title", "Old Title").Error; err != nil {
		t.Fatalf("failed to stale the title: %v", err)
	}

	if err := SeedGamification(db); err != nil {
		t.Fatalf("re-seed failed: %v", err)
	}

	var mission models.Mission
	if err := db.Where("mission_type = ?", models.MissionFirstLogin).First(&mission).Error; err != nil {
		t.Fatalf("mission missing: %v", err)
	}
	if mission.Title == "Old Title" {
		t.Error("re-seeding should refresh catalog fields")
	}
}
