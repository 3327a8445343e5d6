package controllers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/middleware"
	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

const tokenDuration = 72 * time.Hour

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// AuthController handles registration, login and profile management.
type AuthController struct {
	db           *gorm.DB
	gamification *services.GamificationService
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB, gamification *services.GamificationService) *AuthController {
	return &AuthController{db: db, gamification: gamification}
}

// Register creates a new account and returns a token. Registration counts as
// the first login, so login-driven missions fire here too.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required"`
		FullName string `json:"full_name" binding:"required,min=1,max=100"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if !phonePattern.MatchString(phone) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid phone number format")
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to process password")
		return
	}

	user := models.User{
		Email:        email,
		Phone:        phone,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create user")
		return
	}

	// Fire-and-forget after the account committed.
	_ = a.gamification.TrackLogin(user.ID)

	token, err := utils.GenerateToken(user.ID, user.Email, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials, issues a token and fires login missions.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	_ = a.gamification.TrackLogin(user.ID)

	token, err := utils.GenerateToken(user.ID, user.Email, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to issue token")
		return
	}

	// Reload so points and level reflect login awards.
	_ = a.db.First(&user, user.ID).Error

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout blacklists the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40014, "missing bearer token")
		return
	}
	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err == nil && claims.ExpiresAt != nil {
		utils.BlacklistToken(token, claims.ExpiresAt.Time)
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user with leveling information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, gin.H{
		"user":                   user,
		"points_for_next_level":  services.PointsRequiredForLevel(user.Level),
		"progress_to_next_level": services.ProgressToNextLevel(&user),
		"search_radius_km":       services.SearchRadiusForLevel(user.Level),
	})
}

// UpdateProfile edits profile fields. Setting an avatar fires the
// upload_avatar mission; a fully filled profile fires complete_profile.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		FullName    *string `json:"full_name"`
		Phone       *string `json:"phone"`
		Hometown    *string `json:"hometown"`
		DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD
		Gender      *string `json:"gender"`
		Bio         *string `json:"bio"`
		Status      *string `json:"status"`
		Interests   *string `json:"interests"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	avatarChanged := false
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !phonePattern.MatchString(phone) {
			utils.Error(ctx, http.StatusBadRequest, 40016, "invalid phone number format")
			return
		}
		user.Phone = phone
	}
	if req.Hometown != nil {
		user.Hometown = strings.TrimSpace(*req.Hometown)
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				utils.Error(ctx, http.StatusBadRequest, 40017, "invalid date of birth, expected YYYY-MM-DD")
				return
			}
			user.DateOfBirth = &dob
		}
	}
	if req.Gender != nil {
		switch *req.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther, models.GenderNotSpecified:
			user.Gender = *req.Gender
		default:
			utils.Error(ctx, http.StatusBadRequest, 40018, "invalid gender")
			return
		}
	}
	if req.Bio != nil {
		user.Bio = utils.Sanitize(*req.Bio)
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusOnline, models.StatusOffline, models.StatusBusy, models.StatusAway, models.StatusAvailable:
			user.Status = *req.Status
		default:
			utils.Error(ctx, http.StatusBadRequest, 40019, "invalid status")
			return
		}
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}
	if req.AvatarURL != nil && *req.AvatarURL != "" && *req.AvatarURL != user.AvatarURL {
		user.AvatarURL = *req.AvatarURL
		avatarChanged = true
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to update profile")
		return
	}

	if avatarChanged {
		_ = a.gamification.TrackAvatarUploaded(user.ID)
	}
	_ = a.gamification.TrackProfileCompleted(user.ID)

	utils.InvalidateByPrefix("cache:user:public:" + itoa(user.ID))
	utils.Success(ctx, gin.H{"user": user})
}

// GetUserPublic returns public profile info by ID.
func (a *AuthController) GetUserPublic(ctx *gin.Context) {
	idStr := strings.TrimSpace(ctx.Param("id"))
	if idStr == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing user id")
		return
	}
	if b, ok := utils.CacheGetBytes("cache:user:public:" + idStr); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var user models.User
	if err := a.db.First(&user, idStr).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to get user")
		return
	}

	payload := publicUserPayload(user)
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:user:public:"+idStr, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// publicUserPayload strips private fields from the user for public endpoints.
func publicUserPayload(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"full_name":  user.FullName,
		"hometown":   user.Hometown,
		"bio":        user.Bio,
		"status":     user.Status,
		"avatar_url": user.AvatarURL,
		"points":     user.Points,
		"level":      user.Level,
		"created_at": user.CreatedAt,
	}
}

func emailFromContext(ctx *gin.Context) string {
	v, exists := ctx.Get(middleware.ContextEmailKey)
	if !exists {
		return ""
	}
	email, _ := v.(string)
	return email
}
