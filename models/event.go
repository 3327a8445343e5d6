package models

import "time"

// Event is a user-organized gathering. Time must be in the future at creation;
// the check lives in the controller so stored past events stay readable.
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Time         time.Time `gorm:"index;not null" json:"time"`
	LocationDesc string    `gorm:"size:255" json:"location_desc"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatorID    uint      `gorm:"index;not null" json:"creator_id"`
	CreatedAt    time.Time `json:"created_at"`
	Creator      User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
}

// IsPast reports whether the event already happened.
func (e *Event) IsPast() bool {
	return !e.Time.After(time.Now())
}

// Participation states.
const (
	ParticipationJoined     = "joined"
	ParticipationInterested = "interested"
)

// EventParticipation records a user joining or marking interest in an event.
// Unique per (event, user); the creator cannot participate in their own event.
type EventParticipation struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	EventID  uint      `gorm:"uniqueIndex:uniq_event_user;not null" json:"event_id"`
	UserID   uint      `gorm:"uniqueIndex:uniq_event_user;not null" json:"user_id"`
	Status   string    `gorm:"size:10;default:'joined'" json:"status"`
	JoinedAt time.Time `json:"joined_at"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}
