package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

// FriendController handles friend requests and friendships.
type FriendController struct {
	db           *gorm.DB
	gamification *services.GamificationService
}

// NewFriendController creates a new controller instance.
func NewFriendController(db *gorm.DB, gamification *services.GamificationService) *FriendController {
	return &FriendController{db: db, gamification: gamification}
}

// SendRequest creates a pending friend request toward another user. At most
// one outstanding request exists per pair, in either direction.
func (f *FriendController) SendRequest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Message    string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if req.ReceiverID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40041, "cannot send friend request to yourself")
		return
	}

	var receiver models.User
	if err := f.db.First(&receiver, req.ReceiverID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "user not found")
		return
	}

	if f.areFriends(userID, req.ReceiverID) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "already friends")
		return
	}

	var existing models.FriendRequest
	err := f.db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
		userID, req.ReceiverID, req.ReceiverID, userID, models.RequestPending).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "a pending request already exists")
		return
	}

	fr := models.FriendRequest{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Message:    utils.Sanitize(strings.TrimSpace(req.Message)),
		Status:     models.RequestPending,
	}
	if err := f.db.Create(&fr).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to send friend request")
		return
	}

	utils.Success(ctx, gin.H{"request": fr})
}

// AcceptRequest accepts a pending request addressed to the caller, creating
// the friendship edge. Both users get add_friend mission progress and points
// after the friendship commits.
func (f *FriendController) AcceptRequest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	requestID := ctx.Param("id")
	var fr models.FriendRequest
	if err := f.db.First(&fr, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40413, "friend request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load friend request")
		return
	}

	if fr.ReceiverID != userID {
		utils.Error(ctx, http.StatusForbidden, 40330, "only the receiver can accept the request")
		return
	}
	if fr.Status != models.RequestPending {
		utils.Error(ctx, http.StatusBadRequest, 40044, "request is not pending")
		return
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FriendRequest{}).Where("id = ?", fr.ID).
			Update("status", models.RequestAccepted).Error; err != nil {
			return err
		}
		friendship := models.Friendship{User1ID: fr.SenderID, User2ID: fr.ReceiverID}
		return tx.Create(&friendship).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to accept friend request")
		return
	}

	_ = f.gamification.TrackFriendAdded(fr.SenderID)
	_ = f.gamification.TrackFriendAdded(fr.ReceiverID)

	utils.Success(ctx, gin.H{"message": "friend request accepted"})
}

// RejectRequest rejects a pending request addressed to the caller.
func (f *FriendController) RejectRequest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	requestID := ctx.Param("id")
	var fr models.FriendRequest
	if err := f.db.First(&fr, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40413, "friend request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load friend request")
		return
	}

	if fr.ReceiverID != userID {
		utils.Error(ctx, http.StatusForbidden, 40331, "only the receiver can reject the request")
		return
	}
	if fr.Status != models.RequestPending {
		utils.Error(ctx, http.StatusBadRequest, 40044, "request is not pending")
		return
	}

	if err := f.db.Model(&models.FriendRequest{}).Where("id = ?", fr.ID).
		Update("status", models.RequestRejected).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to reject friend request")
		return
	}
	utils.Success(ctx, gin.H{"message": "friend request rejected"})
}

// CancelRequest lets the sender withdraw a pending request.
func (f *FriendController) CancelRequest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	requestID := ctx.Param("id")
	res := f.db.Where("id = ? AND sender_id = ? AND status = ?", requestID, userID, models.RequestPending).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to cancel friend request")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40413, "friend request not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "friend request cancelled"})
}

// ListRequests returns pending requests sent and received by the caller.
func (f *FriendController) ListRequests(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var sent, received []models.FriendRequest
	if err := f.db.Preload("Receiver").Where("sender_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").Find(&sent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to list friend requests")
		return
	}
	if err := f.db.Preload("Sender").Where("receiver_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").Find(&received).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to list friend requests")
		return
	}

	utils.Success(ctx, gin.H{"sent": sent, "received": received})
}

// ListFriends returns the caller's friends.
func (f *FriendController) ListFriends(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var friendships []models.Friendship
	if err := f.db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("since DESC").Find(&friendships).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to list friends")
		return
	}

	friendIDs := make([]uint, 0, len(friendships))
	sinceByID := make(map[uint]string, len(friendships))
	for _, fs := range friendships {
		other := fs.User1ID
		if other == userID {
			other = fs.User2ID
		}
		friendIDs = append(friendIDs, other)
		sinceByID[other] = fs.Since.Format("2006-01-02")
	}

	var friends []models.User
	if len(friendIDs) > 0 {
		if err := f.db.Find(&friends, friendIDs).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to list friends")
			return
		}
	}

	items := make([]gin.H, 0, len(friends))
	for _, friend := range friends {
		items = append(items, gin.H{
			"user":  publicUserPayload(friend),
			"since": sinceByID[friend.ID],
		})
	}

	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// Unfriend removes the friendship edge between the caller and another user.
func (f *FriendController) Unfriend(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	otherID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || otherID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid user id")
		return
	}

	lo, hi := userID, uint(otherID)
	if lo > hi {
		lo, hi = hi, lo
	}
	res := f.db.Where("user1_id = ? AND user2_id = ?", lo, hi).Delete(&models.Friendship{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to unfriend")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40414, "friendship not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "unfriended"})
}

func (f *FriendController) areFriends(a, b uint) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	var count int64
	err := f.db.Model(&models.Friendship{}).Where("user1_id = ? AND user2_id = ?", lo, hi).Count(&count).Error
	return err == nil && count > 0
}
