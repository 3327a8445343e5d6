package services

import (
	"testing"

	"github.com/vietcom/vietcom-backend/models"
)

func TestTrackPostCreatedFiresBothEffects(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "poster@example.com")
	mission := createTestMission(t, db, models.MissionCreatePost, 3, 10)

	if err := svc.TrackPostCreated(user.ID); err != nil {
		t.Fatalf("TrackPostCreated() failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 3 {
		t.Errorf("creating a post awards 3 points, got %d", got.Points)
	}

	um := loadProgress(t, db, user.ID, mission.ID)
	if um.CurrentCount != 1 {
		t.Errorf("mission counter should be 1, got %d", um.CurrentCount)
	}

	if n := countLedger(t, db, user.ID, models.ActionPostCreate); n != 1 {
		t.Errorf("expected one post_create ledger entry, got %d", n)
	}
}

func TestTrackActionsAwardFixedValues(t *testing.T) {
	cases := []struct {
		name   string
		track  func(*GamificationService, uint) error
		action string
		points int
	}{
		{"friend added", (*GamificationService).TrackFriendAdded, models.ActionFriendAdd, 2},
		{"message sent", (*GamificationService).TrackMessageSent, models.ActionMessageSend, 1},
		{"post liked", (*GamificationService).TrackPostLiked, models.ActionPostLike, 1},
		{"post commented", (*GamificationService).TrackPostCommented, models.ActionPostComment, 2},
		{"avatar uploaded", (*GamificationService).TrackAvatarUploaded, models.ActionAvatarUpload, 5},
		{"event created", (*GamificationService).TrackEventCreated, models.ActionEventCreate, 5},
		{"event joined", (*GamificationService).TrackEventJoined, models.ActionEventJoin, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewGamificationService(db)
			user := createTestUser(t, db, tc.action+"@example.com")

			if err := tc.track(svc, user.ID); err != nil {
				t.Fatalf("tracking failed: %v", err)
			}

			got := reloadUser(t, db, user.ID)
			if got.Points != tc.points {
				t.Errorf("expected %d points, got %d", tc.points, got.Points)
			}

			var entry models.PointsEntry
			if err := db.Where("user_id = ? AND action = ?", user.ID, tc.action).First(&entry).Error; err != nil {
				t.Fatalf("ledger entry missing: %v", err)
			}
			if entry.Points != tc.points {
				t.Errorf("ledger entry has %d points, want %d", entry.Points, tc.points)
			}
		})
	}
}

func TestTrackLoginFirstAndDaily(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "login@example.com")

	firstLogin := createTestMission(t, db, models.MissionFirstLogin, 1, 10)
	daily := createTestMission(t, db, models.MissionDailyLogin, 1, 5)
	if err := db.Model(&models.Mission{}).Where("id = ?", daily.ID).
		Update("frequency", models.FrequencyDaily).Error; err != nil {
		t.Fatalf("failed to mark mission daily: %v", err)
	}

	if err := svc.TrackLogin(user.ID); err != nil {
		t.Fatalf("TrackLogin() failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.LastLoginAt == nil {
		t.Error("LastLoginAt should be stamped on login")
	}
	if got.Points != 2 {
		t.Errorf("daily login awards 2 points, got %d", got.Points)
	}

	if fp := loadProgress(t, db, user.ID, firstLogin.ID); fp.Status != models.MissionCompleted {
		t.Errorf("first_login mission should be completed, got %q", fp.Status)
	}
	if dp := loadProgress(t, db, user.ID, daily.ID); dp.Status != models.MissionCompleted {
		t.Errorf("daily_login mission should be completed, got %q", dp.Status)
	}
}

func TestTrackLoginDedupsSameDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "dedup@example.com")
	createTestMission(t, db, models.MissionDailyLogin, 1, 5)

	for i := 0; i < 3; i++ {
		if err := svc.TrackLogin(user.ID); err != nil {
			t.Fatalf("TrackLogin() run %d failed: %v", i+1, err)
		}
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 2 {
		t.Errorf("repeated same-day logins must award once, expected 2 points, got %d", got.Points)
	}
	if n := countLedger(t, db, user.ID, models.ActionLogin); n != 1 {
		t.Errorf("expected exactly one login ledger entry, got %d", n)
	}
}

func TestTrackProfileCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "profile@example.com")
	mission := createTestMission(t, db, models.MissionCompleteProfile, 1, 20)

	// Profile is incomplete: no mission progress should appear.
	if err := svc.TrackProfileCompleted(user.ID); err != nil {
		t.Fatalf("TrackProfileCompleted() failed: %v", err)
	}
	var rows int64
	db.Model(&models.UserMission{}).Where("user_id = ?", user.ID).Count(&rows)
	if rows != 0 {
		t.Errorf("incomplete profile must not advance the mission, found %d rows", rows)
	}

	dob := mustParseDate(t, "1995-04-12")
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"date_of_birth": dob,
		"gender":        models.GenderFemale,
		"bio":           "Loves hiking and board games",
	}).Error; err != nil {
		t.Fatalf("failed to fill profile: %v", err)
	}

	if err := svc.TrackProfileCompleted(user.ID); err != nil {
		t.Fatalf("TrackProfileCompleted() failed: %v", err)
	}
	if got := loadProgress(t, db, user.ID, mission.ID); got.Status != models.MissionCompleted {
		t.Errorf("complete_profile mission should be completed, got %q", got.Status)
	}

	// No direct award: the mission reward is claimed separately.
	if got := reloadUser(t, db, user.ID); got.Points != 0 {
		t.Errorf("profile completion awards no direct points, got %d", got.Points)
	}
}
