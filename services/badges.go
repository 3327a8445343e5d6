package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietcom/vietcom-backend/models"
)

// AutoAwardBadges grants every active badge whose point requirement the user
// now meets and does not hold yet. Runs after each point award; the unique
// (user, badge) index makes repeat sweeps harmless.
func (s *GamificationService) AutoAwardBadges(tx *gorm.DB, user *models.User) error {
	var badges []models.Badge
	if err := tx.Where("is_active = ? AND required_points <= ?", true, user.Points).Find(&badges).Error; err != nil {
		return err
	}
	if len(badges) == 0 {
		return nil
	}

	var held []models.UserBadge
	if err := tx.Where("user_id = ?", user.ID).Find(&held).Error; err != nil {
		return err
	}
	heldSet := make(map[uint]bool, len(held))
	for _, ub := range held {
		heldSet[ub.BadgeID] = true
	}

	for _, badge := range badges {
		if heldSet[badge.ID] {
			continue
		}
		grant := models.UserBadge{UserID: user.ID, BadgeID: badge.ID, AwardedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}
