package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

// EventController handles events and participation.
type EventController struct {
	db           *gorm.DB
	gamification *services.GamificationService
}

// NewEventController creates a new controller instance.
func NewEventController(db *gorm.DB, gamification *services.GamificationService) *EventController {
	return &EventController{db: db, gamification: gamification}
}

// CreateEvent creates a future event owned by the caller.
func (e *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name         string   `json:"name" binding:"required,min=1,max=255"`
		Time         string   `json:"time" binding:"required"` // RFC 3339
		LocationDesc string   `json:"location_desc"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		Description  string   `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}

	when, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40091, "invalid event time, expected RFC 3339")
		return
	}
	if !when.After(time.Now()) {
		utils.Error(ctx, http.StatusBadRequest, 40092, "event time must be in the future")
		return
	}

	event := models.Event{
		Name:         utils.Sanitize(strings.TrimSpace(req.Name)),
		Time:         when,
		LocationDesc: strings.TrimSpace(req.LocationDesc),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Description:  utils.Sanitize(req.Description),
		CreatorID:    userID,
	}
	if err := e.db.Create(&event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to create event")
		return
	}

	_ = e.gamification.TrackEventCreated(userID)

	utils.Success(ctx, gin.H{"event": event})
}

// ListEvents returns upcoming events, soonest first.
func (e *EventController) ListEvents(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	q := e.db.Where("time > ?", time.Now())

	var total int64
	if err := q.Model(&models.Event{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to count events")
		return
	}

	var events []models.Event
	if err := q.Preload("Creator").Order("time ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&events).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to list events")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      events,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// GetEvent returns an event with participant counts.
func (e *EventController) GetEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")
	var event models.Event
	if err := e.db.Preload("Creator").First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "event not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to load event")
		return
	}

	var joined, interested int64
	_ = e.db.Model(&models.EventParticipation{}).Where("event_id = ? AND status = ?", event.ID, models.ParticipationJoined).Count(&joined).Error
	_ = e.db.Model(&models.EventParticipation{}).Where("event_id = ? AND status = ?", event.ID, models.ParticipationInterested).Count(&interested).Error

	utils.Success(ctx, gin.H{
		"event":             event,
		"participant_count": joined,
		"interested_count":  interested,
		"is_past":           event.IsPast(),
	})
}

// JoinEvent records participation or interest. Past events and the creator's
// own events are rejected; re-joining is rejected by the unique pair index.
func (e *EventController) JoinEvent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	_ = ctx.ShouldBindJSON(&req)
	status := req.Status
	if status == "" {
		status = models.ParticipationJoined
	}
	if status != models.ParticipationJoined && status != models.ParticipationInterested {
		utils.Error(ctx, http.StatusBadRequest, 40093, "invalid participation status")
		return
	}

	eventID := ctx.Param("id")
	var event models.Event
	if err := e.db.First(&event, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "event not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to load event")
		return
	}

	if event.IsPast() {
		utils.Error(ctx, http.StatusBadRequest, 40094, "cannot join past events")
		return
	}
	if event.CreatorID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40095, "event creator cannot participate in their own event")
		return
	}

	var existing models.EventParticipation
	if err := e.db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40096, "already participating in this event")
		return
	}

	participation := models.EventParticipation{
		EventID:  event.ID,
		UserID:   userID,
		Status:   status,
		JoinedAt: time.Now(),
	}
	if err := e.db.Create(&participation).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to join event")
		return
	}

	if status == models.ParticipationJoined {
		_ = e.gamification.TrackEventJoined(userID)
	}

	utils.Success(ctx, gin.H{"participation": participation})
}

// LeaveEvent removes the caller's participation.
func (e *EventController) LeaveEvent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	eventID := ctx.Param("id")
	res := e.db.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.EventParticipation{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to leave event")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40431, "not participating in this event")
		return
	}
	utils.Success(ctx, gin.H{"message": "left event"})
}
