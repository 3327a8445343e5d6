package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

// MissionController exposes the mission list, reward claiming and the user's
// gamification progress.
type MissionController struct {
	db           *gorm.DB
	gamification *services.GamificationService
}

// NewMissionController creates a new controller instance.
func NewMissionController(db *gorm.DB, gamification *services.GamificationService) *MissionController {
	return &MissionController{db: db, gamification: gamification}
}

// ListMissions returns the active mission catalog with the caller's progress
// rows and leveling stats.
func (m *MissionController) ListMissions(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := m.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	var missions []models.Mission
	if err := m.db.Where("is_active = ?", true).
		Order("display_order ASC, points_reward ASC").Find(&missions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to list missions")
		return
	}

	var progress []models.UserMission
	if err := m.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to load mission progress")
		return
	}
	progressByMission := make(map[uint]models.UserMission, len(progress))
	completedOrClaimed := 0
	for _, um := range progress {
		progressByMission[um.MissionID] = um
		if um.Status != models.MissionInProgress {
			completedOrClaimed++
		}
	}

	items := make([]gin.H, 0, len(missions))
	for _, mission := range missions {
		item := gin.H{"mission": mission}
		if um, ok := progressByMission[mission.ID]; ok {
			item["progress"] = um
		}
		items = append(items, item)
	}

	utils.Success(ctx, gin.H{
		"missions": items,
		"stats": gin.H{
			"total_points":           user.Points,
			"level":                  user.Level,
			"points_for_next_level":  services.PointsRequiredForLevel(user.Level),
			"progress_to_next_level": services.ProgressToNextLevel(&user),
			"completed_missions":     completedOrClaimed,
			"total_missions":         len(missions),
		},
	})
}

// ClaimReward claims the point reward for a completed mission. Claiming a
// mission that is not completed answers 400 without mutating anything.
func (m *MissionController) ClaimReward(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	missionID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || missionID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40100, "invalid mission id")
		return
	}

	var mission models.Mission
	if err := m.db.Where("id = ? AND is_active = ?", missionID, true).First(&mission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "mission not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to load mission")
		return
	}

	claimed, err := m.gamification.ClaimReward(userID, uint(missionID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40441, "no progress for this mission")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50103, "failed to claim reward")
		return
	}
	if !claimed {
		utils.Error(ctx, http.StatusBadRequest, 40101, "mission is not completed or reward already claimed")
		return
	}

	var user models.User
	_ = m.db.First(&user, userID).Error

	utils.Success(ctx, gin.H{
		"message":        "reward claimed",
		"points_awarded": mission.PointsReward,
		"total_points":   user.Points,
		"level":          user.Level,
	})
}

// UserProgress returns the caller's recent ledger entries, badges and
// aggregate mission statistics.
func (m *MissionController) UserProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := m.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	var recentPoints []models.PointsEntry
	if err := m.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(10).Find(&recentPoints).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to load points history")
		return
	}

	var badges []models.UserBadge
	if err := m.db.Preload("Badge").Where("user_id = ?", userID).Order("awarded_at DESC").Find(&badges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50105, "failed to load badges")
		return
	}

	var totalMissions int64
	_ = m.db.Model(&models.Mission{}).Where("is_active = ?", true).Count(&totalMissions).Error
	var completed int64
	_ = m.db.Model(&models.UserMission{}).Where("user_id = ? AND status IN ?", userID,
		[]string{models.MissionCompleted, models.MissionClaimed}).Count(&completed).Error
	var claimed int64
	_ = m.db.Model(&models.UserMission{}).Where("user_id = ? AND status = ?", userID, models.MissionClaimed).Count(&claimed).Error

	completionRate := 0.0
	if totalMissions > 0 {
		completionRate = float64(completed) / float64(totalMissions) * 100
	}

	utils.Success(ctx, gin.H{
		"recent_points": recentPoints,
		"badges":        badges,
		"stats": gin.H{
			"total_points":          user.Points,
			"current_level":         user.Level,
			"points_for_next_level": services.PointsRequiredForLevel(user.Level),
			"progress_percentage":   services.ProgressToNextLevel(&user),
			"completed_missions":    completed,
			"claimed_missions":      claimed,
			"total_missions":        totalMissions,
			"completion_rate":       completionRate,
		},
	})
}

// PointsHistory returns the caller's full paginated ledger.
func (m *MissionController) PointsHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := m.db.Model(&models.PointsEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50106, "failed to count points history")
		return
	}

	var entries []models.PointsEntry
	if err := m.db.Where("user_id = ?", userID).Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50107, "failed to list points history")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      entries,
		"pagination": paginationPayload(page, pageSize, total),
	})
}
