package models

import "time"

// Badge categories.
const (
	BadgeSocial   = "social"
	BadgeEvent    = "event"
	BadgeActivity = "activity"
	BadgeSpecial  = "special"
)

// Badge is a catalog entry granted automatically once a user's accumulated
// points reach RequiredPoints.
type Badge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Category       string    `gorm:"size:20;default:'activity'" json:"category"`
	Icon           string    `gorm:"size:50" json:"icon"`
	RequiredPoints int       `gorm:"default:0" json:"required_points"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserBadge records a badge grant. Unique per (user, badge).
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uniq_user_badge;not null" json:"user_id"`
	BadgeID   uint      `gorm:"uniqueIndex:uniq_user_badge;not null" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
	Badge     Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"badge"`
}
