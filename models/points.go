package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Ledger action tags. Each tracked domain action writes its own entry with a
// fixed point value; mission rewards use ActionMissionComplete.
const (
	ActionLogin           = "login"
	ActionFriendAdd       = "friend_add"
	ActionMessageSend     = "message_send"
	ActionPostCreate      = "post_create"
	ActionPostLike        = "post_like"
	ActionPostComment     = "post_comment"
	ActionAvatarUpload    = "avatar_upload"
	ActionProfileComplete = "profile_complete"
	ActionEventCreate     = "event_create"
	ActionEventJoin       = "event_join"
	ActionMissionComplete = "mission_complete"
)

// PointsEntry is one immutable row of the points ledger. Entries are created
// exactly once per award and never updated or deleted.
type PointsEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Action      string    `gorm:"size:20;index;not null" json:"action"`
	Points      int       `gorm:"not null" json:"points"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate rejects zero-point entries. Deltas may be negative for
// administrative deductions but never zero.
func (p *PointsEntry) BeforeCreate(tx *gorm.DB) error {
	if p.Points == 0 {
		return errors.New("points cannot be zero")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
