package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietcom/vietcom-backend/models"
)

// GetOrCreateProgress returns the progress row for (user, mission), creating
// it lazily on first use. The unique index keeps concurrent creators from
// producing duplicates; on conflict the existing row is re-read.
func (s *GamificationService) GetOrCreateProgress(tx *gorm.DB, userID, missionID uint) (*models.UserMission, error) {
	var um models.UserMission
	err := tx.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&um).Error
	if err == nil {
		return &um, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	um = models.UserMission{
		UserID:    userID,
		MissionID: missionID,
		Status:    models.MissionInProgress,
	}
	if createErr := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&um).Error; createErr != nil {
		return nil, createErr
	}
	if um.ID == 0 {
		// Lost the creation race; load the winner's row.
		if err := tx.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&um).Error; err != nil {
			return nil, err
		}
	}
	return &um, nil
}

// CheckCompletion transitions an in-progress mission to completed once the
// counter reaches the target. Re-invoking on a completed or claimed mission is
// a no-op returning false and leaves CompletedAt untouched.
func (s *GamificationService) CheckCompletion(tx *gorm.DB, um *models.UserMission, mission *models.Mission) (bool, error) {
	if um.Status != models.MissionInProgress {
		return false, nil
	}
	if um.CurrentCount < mission.TargetCount {
		return false, nil
	}

	now := time.Now()
	um.Status = models.MissionCompleted
	um.CompletedAt = &now
	if err := tx.Model(&models.UserMission{}).Where("id = ?", um.ID).
		Updates(map[string]interface{}{"status": um.Status, "completed_at": um.CompletedAt}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// IncrementProgress adds count to the mission counter, persists it, then
// evaluates the completion transition. Returns whether this call completed
// the mission.
func (s *GamificationService) IncrementProgress(tx *gorm.DB, um *models.UserMission, mission *models.Mission, count int) (bool, error) {
	if um.Status != models.MissionInProgress {
		return false, nil
	}
	um.CurrentCount += count
	if err := tx.Model(&models.UserMission{}).Where("id = ?", um.ID).
		Update("current_count", um.CurrentCount).Error; err != nil {
		return false, err
	}
	return s.CheckCompletion(tx, um, mission)
}

// UpdateMissionProgress is the single entry point event producers use to
// advance missions: it fans out over all active missions of the given type,
// lazily creating progress rows and incrementing those still in progress.
// Threshold mission types (level_up, earn_points) compare the user's state
// against the target instead of counting events.
func (s *GamificationService) UpdateMissionProgress(tx *gorm.DB, user *models.User, missionType string, count int) error {
	var missions []models.Mission
	if err := tx.Where("mission_type = ? AND is_active = ?", missionType, true).Find(&missions).Error; err != nil {
		return err
	}

	for i := range missions {
		mission := &missions[i]
		um, err := s.GetOrCreateProgress(tx, user.ID, mission.ID)
		if err != nil {
			return err
		}
		if um.Status != models.MissionInProgress {
			continue
		}

		switch missionType {
		case models.MissionLevelUp:
			if user.Level >= mission.TargetCount {
				um.CurrentCount = mission.TargetCount
				if err := tx.Model(&models.UserMission{}).Where("id = ?", um.ID).
					Update("current_count", um.CurrentCount).Error; err != nil {
					return err
				}
				if _, err := s.CheckCompletion(tx, um, mission); err != nil {
					return err
				}
			}
		case models.MissionEarnPoints:
			if user.Points >= mission.TargetCount {
				um.CurrentCount = mission.TargetCount
				if err := tx.Model(&models.UserMission{}).Where("id = ?", um.ID).
					Update("current_count", um.CurrentCount).Error; err != nil {
					return err
				}
				if _, err := s.CheckCompletion(tx, um, mission); err != nil {
					return err
				}
			}
		default:
			if _, err := s.IncrementProgress(tx, um, mission, count); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckThresholdMissions re-evaluates level_up and earn_points missions
// against the user's current state. Runs after every point award because
// those targets are state thresholds, not event counts.
func (s *GamificationService) CheckThresholdMissions(tx *gorm.DB, user *models.User) error {
	if err := s.UpdateMissionProgress(tx, user, models.MissionLevelUp, 0); err != nil {
		return err
	}
	return s.UpdateMissionProgress(tx, user, models.MissionEarnPoints, 0)
}

// ClaimReward moves a completed mission to claimed, awarding its point reward
// through the leveling engine together with a mission_complete ledger entry.
// Returns false without error when the mission is not currently completed, so
// callers can show a user-facing message instead of failing the request.
func (s *GamificationService) ClaimReward(userID, missionID uint) (bool, error) {
	claimed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var um models.UserMission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND mission_id = ?", userID, missionID).First(&um).Error; err != nil {
			return err
		}
		if um.Status != models.MissionCompleted {
			return nil
		}

		var mission models.Mission
		if err := tx.First(&mission, missionID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.UserMission{}).Where("id = ?", um.ID).
			Updates(map[string]interface{}{"status": models.MissionClaimed, "claimed_at": &now}).Error; err != nil {
			return err
		}

		desc := fmt.Sprintf("Reward for mission %q", mission.Title)
		if _, err := s.awardWithLedger(tx, userID, mission.PointsReward, models.ActionMissionComplete, desc); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}
