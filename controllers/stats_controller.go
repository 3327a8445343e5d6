package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/utils"
)

// StatsController provides community statistics such as counts and daily active users.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the community.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var postCount int64
	var commentCount int64
	var friendshipCount int64
	var eventCount int64
	var dailyActive int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		postCount = 0
	}

	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	if err := s.db.Model(&models.Friendship{}).Count(&friendshipCount).Error; err != nil {
		friendshipCount = 0
	}

	if err := s.db.Model(&models.Event{}).Where("time >= ?", time.Now()).Count(&eventCount).Error; err != nil {
		eventCount = 0
	}

	// Daily active: users whose last login fell on the current calendar day.
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.User{}).
		Where("last_login_at >= ?", dayStart).
		Count(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"post_count":         postCount,
		"comment_count":      commentCount,
		"friendship_count":   friendshipCount,
		"upcoming_events":    eventCount,
		"daily_active_count": dailyActive,
	})
}
