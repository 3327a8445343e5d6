package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

// MessageController handles direct and group messaging.
type MessageController struct {
	db           *gorm.DB
	gamification *services.GamificationService
}

// NewMessageController creates a new controller instance.
func NewMessageController(db *gorm.DB, gamification *services.GamificationService) *MessageController {
	return &MessageController{db: db, gamification: gamification}
}

// SendMessage delivers a message either to a user or to a group the caller
// belongs to. Exactly one of receiver_id / group_id must be set.
func (m *MessageController) SendMessage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ReceiverID *uint    `json:"receiver_id"`
		GroupID    *string  `json:"group_id"`
		Content    string   `json:"content"`
		Type       string   `json:"type"`
		ImageURL   string   `json:"image_url"`
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	if (req.ReceiverID == nil) == (req.GroupID == nil) {
		utils.Error(ctx, http.StatusBadRequest, 40081, "exactly one of receiver_id or group_id is required")
		return
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageText
	}
	switch msgType {
	case models.MessageText, models.MessageImage, models.MessageSticker, models.MessageLocation:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid message type")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if msgType == models.MessageText && content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40083, "content cannot be empty")
		return
	}
	if msgType == models.MessageLocation && (req.Latitude == nil || req.Longitude == nil) {
		utils.Error(ctx, http.StatusBadRequest, 40084, "location messages require coordinates")
		return
	}

	if req.ReceiverID != nil {
		if *req.ReceiverID == userID {
			utils.Error(ctx, http.StatusBadRequest, 40085, "cannot message yourself")
			return
		}
		var receiver models.User
		if err := m.db.First(&receiver, *req.ReceiverID).Error; err != nil {
			utils.Error(ctx, http.StatusNotFound, 40412, "user not found")
			return
		}
	} else {
		var membership models.GroupMembership
		if err := m.db.Where("group_id = ? AND user_id = ?", *req.GroupID, userID).First(&membership).Error; err != nil {
			utils.Error(ctx, http.StatusForbidden, 40340, "not a member of this group")
			return
		}
	}

	message := models.Message{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		GroupID:    req.GroupID,
		Content:    content,
		Type:       msgType,
		ImageURL:   req.ImageURL,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if err := m.db.Create(&message).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to send message")
		return
	}

	_ = m.gamification.TrackMessageSent(userID)

	utils.Success(ctx, gin.H{"message": message})
}

// ListConversation returns the direct message history between the caller and
// another user, most recent first.
func (m *MessageController) ListConversation(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	otherID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || otherID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid user id")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	q := m.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID)

	var total int64
	if err := q.Model(&models.Message{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to count messages")
		return
	}

	var messages []models.Message
	if err := q.Preload("Sender").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&messages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to list messages")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      messages,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// CreateGroup creates a group conversation with the caller as admin.
func (m *MessageController) CreateGroup(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Topic     string `json:"topic" binding:"required,min=1,max=255"`
		MemberIDs []uint `json:"member_ids"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid request payload")
		return
	}

	group := models.Group{
		ID:        uuid.NewString(),
		Topic:     utils.Sanitize(strings.TrimSpace(req.Topic)),
		CreatorID: userID,
		CreatedAt: time.Now(),
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		memberships := []models.GroupMembership{
			{GroupID: group.ID, UserID: userID, Role: models.GroupRoleAdmin, JoinedAt: time.Now()},
		}
		for _, id := range utils.UniqueUint(req.MemberIDs) {
			if id == userID {
				continue
			}
			memberships = append(memberships, models.GroupMembership{
				GroupID: group.ID, UserID: id, Role: models.GroupRoleMember, JoinedAt: time.Now(),
			})
		}
		return tx.Create(&memberships).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to create group")
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}

// ListGroupMessages returns messages for a group the caller belongs to.
func (m *MessageController) ListGroupMessages(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	groupID := strings.TrimSpace(ctx.Param("id"))
	var membership models.GroupMembership
	if err := m.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error; err != nil {
		utils.Error(ctx, http.StatusForbidden, 40340, "not a member of this group")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := m.db.Model(&models.Message{}).Where("group_id = ?", groupID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to count messages")
		return
	}

	var messages []models.Message
	if err := m.db.Preload("Sender").Where("group_id = ?", groupID).Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&messages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to list messages")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      messages,
		"pagination": paginationPayload(page, pageSize, total),
	})
}
