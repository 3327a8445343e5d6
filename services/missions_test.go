package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
)

func TestGetOrCreateProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "progress@example.com")
	mission := createTestMission(t, db, models.MissionCreatePost, 3, 10)

	first, err := svc.GetOrCreateProgress(db, user.ID, mission.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress() failed: %v", err)
	}
	if first.Status != models.MissionInProgress {
		t.Errorf("new progress row should be in_progress, got %q", first.Status)
	}
	if first.CurrentCount != 0 {
		t.Errorf("new progress row should start at 0, got %d", first.CurrentCount)
	}

	second, err := svc.GetOrCreateProgress(db, user.ID, mission.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress() failed on second call: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same progress row, got ids %d and %d", first.ID, second.ID)
	}

	var total int64
	db.Model(&models.UserMission{}).Where("user_id = ?", user.ID).Count(&total)
	if total != 1 {
		t.Errorf("expected exactly one progress row, found %d", total)
	}
}

func TestIncrementProgressCompletesAtTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "increment@example.com")
	mission := createTestMission(t, db, models.MissionLikePost, 3, 10)

	um, err := svc.GetOrCreateProgress(db, user.ID, mission.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress() failed: %v", err)
	}

	done, err := svc.IncrementProgress(db, um, mission, 1)
	if err != nil {
		t.Fatalf("IncrementProgress() failed: %v", err)
	}
	if done {
		t.Error("mission should not complete at 1/3")
	}

	done, err = svc.IncrementProgress(db, um, mission, 2)
	if err != nil {
		t.Fatalf("IncrementProgress() failed: %v", err)
	}
	if !done {
		t.Error("mission should complete at 3/3")
	}

	got := loadProgress(t, db, user.ID, mission.ID)
	if got.Status != models.MissionCompleted {
		t.Errorf("expected status completed, got %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt should be set on completion")
	}
}

func TestCheckCompletionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "idempotent@example.com")
	mission := createTestMission(t, db, models.MissionSendMessage, 1, 5)

	um, err := svc.GetOrCreateProgress(db, user.ID, mission.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress() failed: %v", err)
	}
	if _, err := svc.IncrementProgress(db, um, mission, 1); err != nil {
		t.Fatalf("IncrementProgress() failed: %v", err)
	}

	first := loadProgress(t, db, user.ID, mission.ID)
	if first.Status != models.MissionCompleted || first.CompletedAt == nil {
		t.Fatalf("mission should be completed with a timestamp")
	}

	// Re-evaluation of an already completed mission must change nothing.
	done, err := svc.CheckCompletion(db, first, mission)
	if err != nil {
		t.Fatalf("CheckCompletion() failed: %v", err)
	}
	if done {
		t.Error("CheckCompletion on a completed mission should report false")
	}

	second := loadProgress(t, db, user.ID, mission.ID)
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Error("CompletedAt must not move on re-evaluation")
	}
}

func TestUpdateMissionProgressFanOut(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "fanout@example.com")

	short := createTestMission(t, db, models.MissionCreatePost, 1, 5)
	long := createTestMission(t, db, models.MissionCreatePost, 5, 25)
	inactive := createTestMission(t, db, models.MissionCreatePost, 1, 5)
	if err := db.Model(&models.Mission{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate mission: %v", err)
	}

	if err := svc.UpdateMissionProgress(db, user, models.MissionCreatePost, 1); err != nil {
		t.Fatalf("UpdateMissionProgress() failed: %v", err)
	}

	if got := loadProgress(t, db, user.ID, short.ID); got.Status != models.MissionCompleted {
		t.Errorf("one-post mission should be completed, got %q", got.Status)
	}
	if got := loadProgress(t, db, user.ID, long.ID); got.CurrentCount != 1 || got.Status != models.MissionInProgress {
		t.Errorf("five-post mission should be at 1/5 in_progress, got %d %q", got.CurrentCount, got.Status)
	}

	var inactiveRows int64
	db.Model(&models.UserMission{}).Where("user_id = ? AND mission_id = ?", user.ID, inactive.ID).Count(&inactiveRows)
	if inactiveRows != 0 {
		t.Error("inactive missions must not get progress rows")
	}
}

func TestThresholdMissionsCompleteOnAward(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "threshold@example.com")

	levelMission := createTestMission(t, db, models.MissionLevelUp, 2, 10)
	pointsMission := createTestMission(t, db, models.MissionEarnPoints, 20, 5)

	// 25 points puts the user at level 3, clearing both thresholds.
	if _, err := svc.AwardPoints(db, user.ID, 25); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	lp := loadProgress(t, db, user.ID, levelMission.ID)
	if lp.Status != models.MissionCompleted {
		t.Errorf("level_up mission should be completed, got %q", lp.Status)
	}
	if lp.CurrentCount != levelMission.TargetCount {
		t.Errorf("level_up counter should be forced to target %d, got %d", levelMission.TargetCount, lp.CurrentCount)
	}

	pp := loadProgress(t, db, user.ID, pointsMission.ID)
	if pp.Status != models.MissionCompleted {
		t.Errorf("earn_points mission should be completed, got %q", pp.Status)
	}
}

func TestThresholdMissionsBelowTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "belowthreshold@example.com")

	mission := createTestMission(t, db, models.MissionEarnPoints, 100, 50)

	if _, err := svc.AwardPoints(db, user.ID, 5); err != nil {
		t.Fatalf("AwardPoints() failed: %v", err)
	}

	got := loadProgress(t, db, user.ID, mission.ID)
	if got.Status != models.MissionInProgress {
		t.Errorf("mission below threshold should stay in_progress, got %q", got.Status)
	}
	if got.CurrentCount != 0 {
		t.Errorf("counter should stay at 0 below threshold, got %d", got.CurrentCount)
	}
}

func TestClaimReward(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "claim@example.com")
	mission := createTestMission(t, db, models.MissionCreatePost, 1, 15)

	if err := svc.UpdateMissionProgress(db, user, models.MissionCreatePost, 1); err != nil {
		t.Fatalf("UpdateMissionProgress() failed: %v", err)
	}

	claimed, err := svc.ClaimReward(user.ID, mission.ID)
	if err != nil {
		t.Fatalf("ClaimReward() failed: %v", err)
	}
	if !claimed {
		t.Fatal("expected the completed mission to be claimable")
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 15 {
		t.Errorf("expected 15 points after claim, got %d", got.Points)
	}
	if got.Level != 2 {
		t.Errorf("15 points should advance to level 2, got %d", got.Level)
	}

	um := loadProgress(t, db, user.ID, mission.ID)
	if um.Status != models.MissionClaimed {
		t.Errorf("expected status claimed, got %q", um.Status)
	}
	if um.ClaimedAt == nil {
		t.Error("ClaimedAt should be set on claim")
	}

	if n := countLedger(t, db, user.ID, models.ActionMissionComplete); n != 1 {
		t.Errorf("expected one mission_complete ledger entry, got %d", n)
	}
}

func TestClaimRewardOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "claimtwice@example.com")
	mission := createTestMission(t, db, models.MissionLikePost, 1, 10)

	if err := svc.UpdateMissionProgress(db, user, models.MissionLikePost, 1); err != nil {
		t.Fatalf("UpdateMissionProgress() failed: %v", err)
	}
	if _, err := svc.ClaimReward(user.ID, mission.ID); err != nil {
		t.Fatalf("ClaimReward() failed: %v", err)
	}

	claimed, err := svc.ClaimReward(user.ID, mission.ID)
	if err != nil {
		t.Fatalf("second ClaimReward() failed: %v", err)
	}
	if claimed {
		t.Error("a claimed mission must not be claimable again")
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 10 {
		t.Errorf("double claim must not award twice, expected 10 points, got %d", got.Points)
	}
	if n := countLedger(t, db, user.ID, models.ActionMissionComplete); n != 1 {
		t.Errorf("expected a single ledger entry, got %d", n)
	}
}

func TestClaimRewardNotCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "notdone@example.com")
	mission := createTestMission(t, db, models.MissionCreatePost, 5, 25)

	if err := svc.UpdateMissionProgress(db, user, models.MissionCreatePost, 1); err != nil {
		t.Fatalf("UpdateMissionProgress() failed: %v", err)
	}

	claimed, err := svc.ClaimReward(user.ID, mission.ID)
	if err != nil {
		t.Fatalf("ClaimReward() failed: %v", err)
	}
	if claimed {
		t.Error("an in-progress mission must not be claimable")
	}

	got := reloadUser(t, db, user.ID)
	if got.Points != 0 {
		t.Errorf("no points should be awarded, got %d", got.Points)
	}
}

func TestClaimRewardWithoutProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db)
	user := createTestUser(t, db, "norow@example.com")
	mission := createTestMission(t, db, models.MissionCreateEvent, 1, 20)

	_, err := svc.ClaimReward(user.ID, mission.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for a mission never started, got %v", err)
	}
}
