package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender values accepted on user profiles.
const (
	GenderMale         = "male"
	GenderFemale       = "female"
	GenderOther        = "other"
	GenderNotSpecified = "not_specified"
)

// Presence status values.
const (
	StatusOnline    = "online"
	StatusOffline   = "offline"
	StatusBusy      = "busy"
	StatusAway      = "away"
	StatusAvailable = "available"
)

// User represents an account in the network. Passwords are stored as bcrypt hashes only.
// Points accumulate through the gamification ledger; Level is derived from points
// by the leveling engine but cached here so reads never recompute it.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"size:17" json:"phone"`
	FullName     string         `gorm:"size:100;not null" json:"full_name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Hometown     string         `gorm:"size:255" json:"hometown"`
	DateOfBirth  *time.Time     `json:"date_of_birth"`
	Gender       string         `gorm:"size:20;default:'not_specified'" json:"gender"`
	Bio          string         `gorm:"size:500" json:"bio"`
	Status       string         `gorm:"size:20;default:'offline'" json:"status"`
	Interests    string         `gorm:"type:text" json:"interests"` // JSON array of tags
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	SearchRadius float64        `gorm:"default:50" json:"search_radius"`
	Points       int            `gorm:"default:0" json:"points"`
	Level        int            `gorm:"default:1" json:"level"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `json:"-"`
}

// HasLocation reports whether the user shared coordinates. Users without
// location are excluded from proximity search entirely.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// ProfileComplete reports whether the profile fields that count toward the
// complete_profile mission are all filled in.
func (u *User) ProfileComplete() bool {
	return u.FullName != "" && u.DateOfBirth != nil && u.Gender != GenderNotSpecified && u.Bio != ""
}

// BeforeCreate hook ensures timestamps and defaults are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level < 1 {
		u.Level = 1
	}
	if u.Gender == "" {
		u.Gender = GenderNotSpecified
	}
	if u.Status == "" {
		u.Status = StatusOffline
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
