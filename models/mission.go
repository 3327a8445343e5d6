package models

import "time"

// Mission type tags. Producers advance event-count missions through the
// tracker; level_up and earn_points are threshold missions re-checked after
// every point award.
const (
	MissionFirstLogin      = "first_login"
	MissionCompleteProfile = "complete_profile"
	MissionUploadAvatar    = "upload_avatar"
	MissionAddFriend       = "add_friend"
	MissionSendMessage     = "send_message"
	MissionCreatePost      = "create_post"
	MissionLikePost        = "like_post"
	MissionCommentPost     = "comment_post"
	MissionJoinEvent       = "join_event"
	MissionCreateEvent     = "create_event"
	MissionLevelUp         = "level_up"
	MissionEarnPoints      = "earn_points"
	MissionDailyLogin      = "daily_login"
)

// Mission frequencies.
const (
	FrequencyOnce  = "once"
	FrequencyDaily = "daily"
)

// Mission is a catalog entry describing an achievement with a target count and
// point reward. Rows are seeded at boot and only changed administratively.
type Mission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	MissionType  string    `gorm:"size:32;index;not null" json:"mission_type"`
	TargetCount  int       `gorm:"not null" json:"target_count"`
	PointsReward int       `gorm:"not null" json:"points_reward"`
	Frequency    string    `gorm:"size:10;default:'once'" json:"frequency"`
	Icon         string    `gorm:"size:50" json:"icon"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserMission states. Transitions are forward-only:
// in_progress -> completed -> claimed.
const (
	MissionInProgress = "in_progress"
	MissionCompleted  = "completed"
	MissionClaimed    = "claimed"
)

// UserMission ties one user to one mission. At most one progress row exists
// per (user, mission) pair; rows are created lazily on the first relevant event.
type UserMission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex:uniq_user_mission;not null" json:"user_id"`
	MissionID    uint       `gorm:"uniqueIndex:uniq_user_mission;not null" json:"mission_id"`
	CurrentCount int        `gorm:"default:0" json:"current_count"`
	Status       string     `gorm:"size:15;default:'in_progress'" json:"status"`
	CompletedAt  *time.Time `json:"completed_at"`
	ClaimedAt    *time.Time `json:"claimed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Mission      Mission    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"mission"`
}
