package models

import "time"

// Message content types.
const (
	MessageText     = "text"
	MessageImage    = "image"
	MessageSticker  = "sticker"
	MessageLocation = "location"
)

// Message is a direct or group chat message. Exactly one of ReceiverID or
// GroupID is set.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	ReceiverID *uint     `gorm:"index" json:"receiver_id"`
	GroupID    *string   `gorm:"index;size:36" json:"group_id"`
	Content    string    `gorm:"type:text" json:"content"`
	Type       string    `gorm:"size:10;default:'text'" json:"type"`
	ImageURL   string    `gorm:"size:512" json:"image_url"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
	Sender     User      `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
}

// Group is a multi-user conversation. IDs are UUIDs so they can be handed to
// clients before the row commits.
type Group struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Topic     string    `gorm:"size:255" json:"topic"`
	CreatorID uint      `gorm:"index;not null" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Group membership roles.
const (
	GroupRoleMember = "member"
	GroupRoleAdmin  = "admin"
)

// GroupMembership ties a user to a group. Unique per (group, user).
type GroupMembership struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  string    `gorm:"uniqueIndex:uniq_group_member;size:36;not null" json:"group_id"`
	UserID   uint      `gorm:"uniqueIndex:uniq_group_member;not null" json:"user_id"`
	Role     string    `gorm:"size:10;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
