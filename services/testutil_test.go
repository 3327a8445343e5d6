package services

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vietcom/vietcom-backend/models"
)

// newTestDB opens a throwaway sqlite database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Message{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Event{},
		&models.EventParticipation{},
		&models.Mission{},
		&models.UserMission{},
		&models.PointsEntry{},
		&models.Badge{},
		&models.UserBadge{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		FullName: "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func createTestMission(t *testing.T, db *gorm.DB, missionType string, target, reward int) *models.Mission {
	t.Helper()
	mission := models.Mission{
		Title:        missionType + " mission",
		MissionType:  missionType,
		TargetCount:  target,
		PointsReward: reward,
		Frequency:    models.FrequencyOnce,
		IsActive:     true,
	}
	if err := db.Create(&mission).Error; err != nil {
		t.Fatalf("failed to create mission %s: %v", missionType, err)
	}
	return &mission
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return &user
}

func loadProgress(t *testing.T, db *gorm.DB, userID, missionID uint) *models.UserMission {
	t.Helper()
	var um models.UserMission
	if err := db.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&um).Error; err != nil {
		t.Fatalf("failed to load progress for user %d mission %d: %v", userID, missionID, err)
	}
	return &um
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func countLedger(t *testing.T, db *gorm.DB, userID uint, action string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.PointsEntry{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count ledger entries: %v", err)
	}
	return count
}
