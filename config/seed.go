package config

import (
	"log"

	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
)

// defaultMissions is the mission catalog loaded at boot. Keyed by
// (mission_type, target_count, frequency); existing rows are refreshed so
// catalog edits here reach running deployments on restart.
var defaultMissions = []models.Mission{
	{Title: "Welcome to VietCom!", Description: "First login to the system", MissionType: models.MissionFirstLogin, TargetCount: 1, PointsReward: 5, Frequency: models.FrequencyOnce, Icon: "👋", DisplayOrder: 1},
	{Title: "Complete Profile", Description: "Update full personal information (name, birthday, gender, bio)", MissionType: models.MissionCompleteProfile, TargetCount: 1, PointsReward: 10, Frequency: models.FrequencyOnce, Icon: "📝", DisplayOrder: 2},
	{Title: "Upload Avatar", Description: "Upload profile picture for your account", MissionType: models.MissionUploadAvatar, TargetCount: 1, PointsReward: 5, Frequency: models.FrequencyOnce, Icon: "📸", DisplayOrder: 3},
	{Title: "First Friend", Description: "Connect with 1 other user", MissionType: models.MissionAddFriend, TargetCount: 1, PointsReward: 5, Frequency: models.FrequencyOnce, Icon: "👥", DisplayOrder: 4},
	{Title: "Expand Network", Description: "Connect with 3 users", MissionType: models.MissionAddFriend, TargetCount: 3, PointsReward: 10, Frequency: models.FrequencyOnce, Icon: "🤝", DisplayOrder: 5},
	{Title: "Build Community", Description: "Connect with 5 users", MissionType: models.MissionAddFriend, TargetCount: 5, PointsReward: 15, Frequency: models.FrequencyOnce, Icon: "👫", DisplayOrder: 6},
	{Title: "Super Connector", Description: "Connect with 10 users", MissionType: models.MissionAddFriend, TargetCount: 10, PointsReward: 25, Frequency: models.FrequencyOnce, Icon: "🌟", DisplayOrder: 7},
	{Title: "First Message", Description: "Send your first message to friends", MissionType: models.MissionSendMessage, TargetCount: 1, PointsReward: 3, Frequency: models.FrequencyOnce, Icon: "💬", DisplayOrder: 8},
	{Title: "Active Conversation", Description: "Send 10 messages", MissionType: models.MissionSendMessage, TargetCount: 10, PointsReward: 8, Frequency: models.FrequencyOnce, Icon: "📱", DisplayOrder: 9},
	{Title: "First Post", Description: "Create your first post", MissionType: models.MissionCreatePost, TargetCount: 1, PointsReward: 5, Frequency: models.FrequencyOnce, Icon: "✍️", DisplayOrder: 10},
	{Title: "Content Creator", Description: "Create 5 posts", MissionType: models.MissionCreatePost, TargetCount: 5, PointsReward: 15, Frequency: models.FrequencyOnce, Icon: "📄", DisplayOrder: 11},
	{Title: "First Like", Description: "Like 1 post", MissionType: models.MissionLikePost, TargetCount: 1, PointsReward: 2, Frequency: models.FrequencyOnce, Icon: "❤️", DisplayOrder: 12},
	{Title: "Activity Lover", Description: "Like 20 posts", MissionType: models.MissionLikePost, TargetCount: 20, PointsReward: 10, Frequency: models.FrequencyOnce, Icon: "💖", DisplayOrder: 13},
	{Title: "First Comment", Description: "Comment on 1 post", MissionType: models.MissionCommentPost, TargetCount: 1, PointsReward: 3, Frequency: models.FrequencyOnce, Icon: "💭", DisplayOrder: 14},
	{Title: "Join First Event", Description: "Join 1 event", MissionType: models.MissionJoinEvent, TargetCount: 1, PointsReward: 8, Frequency: models.FrequencyOnce, Icon: "🎪", DisplayOrder: 15},
	{Title: "Event Organizer", Description: "Create your first event", MissionType: models.MissionCreateEvent, TargetCount: 1, PointsReward: 15, Frequency: models.FrequencyOnce, Icon: "🎉", DisplayOrder: 16},
	{Title: "First Level Up", Description: "Reach level 2", MissionType: models.MissionLevelUp, TargetCount: 2, PointsReward: 10, Frequency: models.FrequencyOnce, Icon: "⬆️", DisplayOrder: 17},
	{Title: "Expert", Description: "Reach level 5", MissionType: models.MissionLevelUp, TargetCount: 5, PointsReward: 25, Frequency: models.FrequencyOnce, Icon: "🏆", DisplayOrder: 18},
	{Title: "Points Achievement", Description: "Accumulate 100 points", MissionType: models.MissionEarnPoints, TargetCount: 100, PointsReward: 20, Frequency: models.FrequencyOnce, Icon: "💎", DisplayOrder: 19},
	{Title: "Daily Login", Description: "Login to the system daily", MissionType: models.MissionDailyLogin, TargetCount: 1, PointsReward: 2, Frequency: models.FrequencyDaily, Icon: "📅", DisplayOrder: 20},
}

// defaultBadges are point-milestone badges granted by the auto-award sweep.
var defaultBadges = []models.Badge{
	{Name: "Newcomer", Description: "Earned your first points", Category: models.BadgeActivity, Icon: "🌱", RequiredPoints: 5},
	{Name: "Socializer", Description: "Reached 50 points", Category: models.BadgeSocial, Icon: "🦋", RequiredPoints: 50},
	{Name: "Community Pillar", Description: "Reached 150 points", Category: models.BadgeSocial, Icon: "🏛️", RequiredPoints: 150},
	{Name: "Legend", Description: "Reached 500 points", Category: models.BadgeSpecial, Icon: "👑", RequiredPoints: 500},
}

// SeedGamification upserts the default mission and badge catalogs. Safe to run
// on every boot.
func SeedGamification(db *gorm.DB) error {
	for _, m := range defaultMissions {
		var existing models.Mission
		err := db.Where("mission_type = ? AND target_count = ? AND frequency = ?",
			m.MissionType, m.TargetCount, m.Frequency).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			m.IsActive = true
			if err := db.Create(&m).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		existing.Title = m.Title
		existing.Description = m.Description
		existing.PointsReward = m.PointsReward
		existing.Icon = m.Icon
		existing.DisplayOrder = m.DisplayOrder
		if err := db.Save(&existing).Error; err != nil {
			return err
		}
	}

	for _, b := range defaultBadges {
		var existing models.Badge
		err := db.Where("name = ?", b.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			b.IsActive = true
			if err := db.Create(&b).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	log.Printf("gamification catalog seeded: %d missions, %d badges", len(defaultMissions), len(defaultBadges))
	return nil
}
