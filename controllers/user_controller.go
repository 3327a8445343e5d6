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

// UserController serves user discovery: the nearby search and location updates.
type UserController struct {
	db  *gorm.DB
	geo *services.GeoService
}

// NewUserController creates a new controller instance.
func NewUserController(db *gorm.DB, geo *services.GeoService) *UserController {
	return &UserController{db: db, geo: geo}
}

type updateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// UpdateLocation stores the caller's last known coordinates.
func (u *UserController) UpdateLocation(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req updateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40120, "latitude and longitude are required")
		return
	}

	if err := u.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
	}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to update location")
		return
	}

	utils.Success(ctx, gin.H{"message": "location updated"})
}

type updateSearchRadiusRequest struct {
	Radius float64 `json:"radius" binding:"required"`
}

// UpdateSearchRadius stores the caller's preferred search radius. The nearby
// search itself uses the level-scaled radius; this value is a profile setting.
func (u *UserController) UpdateSearchRadius(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req updateSearchRadiusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Radius < 1 || req.Radius > 100 {
		utils.Error(ctx, http.StatusBadRequest, 40122, "radius must be between 1 and 100 km")
		return
	}

	if err := u.db.Model(&models.User{}).Where("id = ?", userID).
		Update("search_radius", req.Radius).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50115, "failed to update search radius")
		return
	}

	utils.Success(ctx, gin.H{"search_radius": req.Radius})
}

// NearbyUsers returns up to 20 located users inside the caller's level-scaled
// search radius, closest first, each annotated with friendship status.
func (u *UserController) NearbyUsers(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if !user.HasLocation() {
		utils.Error(ctx, http.StatusBadRequest, 40121, "set your location before searching nearby")
		return
	}

	nearby, err := u.geo.FindNearbyUsers(&user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50111, "nearby search failed")
		return
	}

	items := make([]gin.H, 0, len(nearby))
	for _, n := range nearby {
		item := gin.H{
			"user":          publicUserPayload(n.User),
			"distance_km":   n.DistanceKm,
			"friend_status": n.FriendStatus,
		}
		if n.RequestID != nil {
			item["request_id"] = *n.RequestID
		}
		items = append(items, item)
	}

	utils.Success(ctx, gin.H{
		"users":            items,
		"search_radius_km": services.SearchRadiusForLevel(user.Level),
	})
}

// ListUsers returns a paginated public user directory, optionally filtered by
// a name search term.
func (u *UserController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := ctx.Query("search")

	query := u.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR hometown LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50112, "failed to count users")
		return
	}

	var users []models.User
	if err := query.Order("points DESC, id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50113, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, publicUserPayload(users[i]))
	}

	utils.Success(ctx, gin.H{
		"items":      items,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// Leaderboard returns the highest-scoring users.
func (u *UserController) Leaderboard(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var users []models.User
	if err := u.db.Order("points DESC, id ASC").Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50114, "failed to load leaderboard")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		entry := publicUserPayload(users[i])
		entry["rank"] = i + 1
		items = append(items, entry)
	}

	utils.Success(ctx, gin.H{"leaderboard": items})
}
