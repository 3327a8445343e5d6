package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Friend request lifecycle states.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// FriendRequest is a directed request between two distinct users. At most one
// request exists per (sender, receiver) pair.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"uniqueIndex:uniq_friend_request;not null" json:"sender_id"`
	ReceiverID uint      `gorm:"uniqueIndex:uniq_friend_request;not null" json:"receiver_id"`
	Status     string    `gorm:"size:10;default:'pending'" json:"status"`
	Message    string    `gorm:"type:text" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	Sender     User      `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	Receiver   User      `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"receiver"`
}

// BeforeCreate rejects self-requests.
func (fr *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if fr.SenderID == fr.ReceiverID {
		return errors.New("cannot send friend request to yourself")
	}
	if fr.Status == "" {
		fr.Status = RequestPending
	}
	return nil
}

// Friendship is an undirected edge between two distinct users, created only
// from an accepted FriendRequest. Rows are stored with User1ID < User2ID so
// the unique index covers both directions.
type Friendship struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	User1ID uint      `gorm:"uniqueIndex:uniq_friendship;not null" json:"user1_id"`
	User2ID uint      `gorm:"uniqueIndex:uniq_friendship;not null" json:"user2_id"`
	Since   time.Time `json:"since"`
	User1   User      `gorm:"foreignKey:User1ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User2   User      `gorm:"foreignKey:User2ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate normalizes the pair ordering and rejects self-friendship.
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.User1ID == f.User2ID {
		return errors.New("cannot be friends with yourself")
	}
	if f.User1ID > f.User2ID {
		f.User1ID, f.User2ID = f.User2ID, f.User1ID
	}
	if f.Since.IsZero() {
		f.Since = time.Now()
	}
	return nil
}
