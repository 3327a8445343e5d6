package services

import (
	"math"
	"testing"

	"github.com/vietcom/vietcom-backend/models"
)

func TestPointsRequiredForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 10},
		{2, 20},
		{3, 40},
		{4, 80},
		{5, 160},
		{0, 10},
		{-3, 10},
	}
	for _, tc := range cases {
		if got := PointsRequiredForLevel(tc.level); got != tc.want {
			t.Errorf("PointsRequiredForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestTotalPointsAtLevelStart(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 0},
		{2, 10},
		{3, 20},
		{4, 40},
		{0, 0},
	}
	for _, tc := range cases {
		if got := TotalPointsAtLevelStart(tc.level); got != tc.want {
			t.Errorf("TotalPointsAtLevelStart(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestProgressToNextLevel(t *testing.T) {
	cases := []struct {
		name   string
		level  int
		points int
		want   float64
	}{
		{"fresh level one", 1, 0, 0},
		{"halfway through level one", 1, 5, 50},
		{"level three after a jump", 3, 25, 25},
		{"clamped above hundred", 2, 100, 100},
		{"clamped below zero", 3, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &models.User{Level: tc.level, Points: tc.points}
			got := ProgressToNextLevel(user)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ProgressToNextLevel(level=%d points=%d) = %v, want %v", tc.level, tc.points, got, tc.want)
			}
		})
	}
}

func TestAwardPointsSingleLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "single@example.com")

	if _, err := svc.AwardPoints(db, user.ID, 5); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 5 {
		t.Errorf("expected 5 points, got %d", got.Points)
	}
	if got.Level != 1 {
		t.Errorf("expected level 1, got %d", got.Level)
	}
}

func TestAwardPointsMultiLevelJump(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "jump@example.com")

	// 25 points clears the level 1 threshold (10) and the level 2 threshold (20).
	if _, err := svc.AwardPoints(db, user.ID, 25); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 25 {
		t.Errorf("expected 25 points, got %d", got.Points)
	}
	if got.Level != 3 {
		t.Errorf("expected level 3, got %d", got.Level)
	}
}

func TestAwardPointsExactThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "exact@example.com")

	// Landing exactly on the threshold advances the level.
	if _, err := svc.AwardPoints(db, user.ID, 10); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Level != 2 {
		t.Errorf("expected level 2 at exactly 10 points, got %d", got.Level)
	}
}

func TestAwardPointsNegativeDeltaKeepsLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "deduct@example.com")

	if _, err := svc.AwardPoints(db, user.ID, 15); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}
	if _, err := svc.AwardPoints(db, user.ID, -10); err != nil {
		t.Fatalf("AwardPoints() with negative delta failed: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 5 {
		t.Errorf("expected 5 points after deduction, got %d", got.Points)
	}
	if got.Level != 2 {
		t.Errorf("level must not drop on deduction, expected 2, got %d", got.Level)
	}
}

func TestAwardPointsSweepsBadges(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "badge@example.com")

	badge := models.Badge{Name: "Newcomer", Category: models.BadgeSpecial, RequiredPoints: 5, IsActive: true}
	if err := db.Create(&badge).Error; err != nil {
		t.Fatalf("failed to create badge: %v", err)
	}

	if _, err := svc.AwardPoints(db, user.ID, 6); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	var held int64
	db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).Count(&held)
	if held != 1 {
		t.Errorf("expected badge to be auto-awarded, found %d grants", held)
	}

	// A second award past the threshold must not duplicate the grant.
	if _, err := svc.AwardPoints(db, user.ID, 1); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}
	db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).Count(&held)
	if held != 1 {
		t.Errorf("expected a single badge grant, found %d", held)
	}
}
