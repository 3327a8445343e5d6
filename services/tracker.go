package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/utils"
)

// Fixed per-action award values. Mission progress and the direct award are
// independent effects and both fire for every tracked action.
const (
	pointsFriendAdd    = 2
	pointsMessageSend  = 1
	pointsPostCreate   = 3
	pointsPostLike     = 1
	pointsPostComment  = 2
	pointsAvatarUpload = 5
	pointsDailyLogin   = 2
	pointsEventCreate  = 5
	pointsEventJoin    = 3
)

// track runs the standard producer sequence in one transaction: advance
// missions of the given type for the user's current state, then apply the
// fixed point award with its ledger entry.
func (s *GamificationService) track(userID uint, missionType, action string, points int, description string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		if err := s.UpdateMissionProgress(tx, &user, missionType, 1); err != nil {
			return err
		}
		_, err := s.awardWithLedger(tx, userID, points, action, description)
		return err
	})
}

// TrackFriendAdded advances add_friend missions and awards points. Called for
// both sides of an accepted friend request.
func (s *GamificationService) TrackFriendAdded(userID uint) error {
	return s.track(userID, models.MissionAddFriend, models.ActionFriendAdd, pointsFriendAdd, "Connected with a new friend")
}

// TrackMessageSent advances send_message missions and awards points.
func (s *GamificationService) TrackMessageSent(userID uint) error {
	return s.track(userID, models.MissionSendMessage, models.ActionMessageSend, pointsMessageSend, "Sent a message")
}

// TrackPostCreated advances create_post missions and awards points.
func (s *GamificationService) TrackPostCreated(userID uint) error {
	return s.track(userID, models.MissionCreatePost, models.ActionPostCreate, pointsPostCreate, "Created a new post")
}

// TrackPostLiked advances like_post missions and awards points.
func (s *GamificationService) TrackPostLiked(userID uint) error {
	return s.track(userID, models.MissionLikePost, models.ActionPostLike, pointsPostLike, "Liked a post")
}

// TrackPostCommented advances comment_post missions and awards points.
func (s *GamificationService) TrackPostCommented(userID uint) error {
	return s.track(userID, models.MissionCommentPost, models.ActionPostComment, pointsPostComment, "Commented on a post")
}

// TrackAvatarUploaded advances upload_avatar missions and awards points.
func (s *GamificationService) TrackAvatarUploaded(userID uint) error {
	return s.track(userID, models.MissionUploadAvatar, models.ActionAvatarUpload, pointsAvatarUpload, "Uploaded a profile picture")
}

// TrackEventCreated advances create_event missions and awards points.
func (s *GamificationService) TrackEventCreated(userID uint) error {
	return s.track(userID, models.MissionCreateEvent, models.ActionEventCreate, pointsEventCreate, "Created an event")
}

// TrackEventJoined advances join_event missions and awards points.
func (s *GamificationService) TrackEventJoined(userID uint) error {
	return s.track(userID, models.MissionJoinEvent, models.ActionEventJoin, pointsEventJoin, "Joined an event")
}

// TrackProfileCompleted advances complete_profile missions once the profile
// fields are all filled in. No direct point award; the mission reward covers it.
func (s *GamificationService) TrackProfileCompleted(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if !user.ProfileComplete() {
			return nil
		}
		return s.UpdateMissionProgress(tx, &user, models.MissionCompleteProfile, 1)
	})
}

// TrackLogin handles the login-driven missions: first_login on the first ever
// sign-in and daily_login at most once per calendar day. The daily dedup check
// runs after taking the user row lock so concurrent logins for the same user
// serialize instead of double-awarding.
func (s *GamificationService) TrackLogin(userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}

		if user.LastLoginAt == nil || !s.hasClaimedFirstLogin(tx, userID) {
			if err := s.UpdateMissionProgress(tx, &user, models.MissionFirstLogin, 1); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("last_login_at", &now).Error; err != nil {
			return err
		}

		awarded, err := s.loginAwardedToday(tx, userID, now)
		if err != nil {
			return err
		}
		if awarded {
			// Duplicate daily award is silently skipped, not an error.
			return nil
		}

		if err := s.UpdateMissionProgress(tx, &user, models.MissionDailyLogin, 1); err != nil {
			return err
		}
		_, err = s.awardWithLedger(tx, userID, pointsDailyLogin, models.ActionLogin, "Daily login")
		return err
	})
	if err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("login tracking failed user=%d err=%v", userID, err)
	}
	return err
}

// loginAwardedToday reports whether a login ledger entry already exists for
// the given calendar day.
func (s *GamificationService) loginAwardedToday(tx *gorm.DB, userID uint, now time.Time) (bool, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := tx.Model(&models.PointsEntry{}).
		Where("user_id = ? AND action = ? AND created_at >= ? AND created_at < ?",
			userID, models.ActionLogin, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GamificationService) hasClaimedFirstLogin(tx *gorm.DB, userID uint) bool {
	var count int64
	err := tx.Model(&models.UserMission{}).
		Joins("JOIN missions ON missions.id = user_missions.mission_id").
		Where("user_missions.user_id = ? AND missions.mission_type = ? AND user_missions.status = ?",
			userID, models.MissionFirstLogin, models.MissionClaimed).
		Count(&count).Error
	return err == nil && count > 0
}
