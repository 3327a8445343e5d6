package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vietcom/vietcom-backend/config"
	"github.com/vietcom/vietcom-backend/controllers"
	"github.com/vietcom/vietcom-backend/middleware"
	"github.com/vietcom/vietcom-backend/services"
	"github.com/vietcom/vietcom-backend/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	gamification := services.NewGamificationService(db)
	geo := services.NewGeoService(db)

	authController := controllers.NewAuthController(db, gamification)
	userController := controllers.NewUserController(db, geo)
	postController := controllers.NewPostController(db, gamification)
	friendController := controllers.NewFriendController(db, gamification)
	messageController := controllers.NewMessageController(db, gamification)
	eventController := controllers.NewEventController(db, gamification)
	missionController := controllers.NewMissionController(db, gamification)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public read endpoints
	api.GET("/stats", statsController.GetStats)
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/users/:id/posts", postController.ListUserPosts)
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/events", eventController.ListEvents)
	api.GET("/events/:id", eventController.GetEvent)
	api.GET("/leaderboard", userController.Leaderboard)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/users", userController.ListUsers)
	protected.GET("/users/nearby", userController.NearbyUsers)
	protected.PUT("/users/me/location", userController.UpdateLocation)
	protected.PUT("/users/me/search-radius", userController.UpdateSearchRadius)

	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/like", postController.LikePost)
	protected.DELETE("/posts/:id/like", postController.UnlikePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.DELETE("/comments/:commentId", postController.DeleteComment)

	protected.POST("/friends/requests", friendController.SendRequest)
	protected.GET("/friends/requests", friendController.ListRequests)
	protected.POST("/friends/requests/:id/accept", friendController.AcceptRequest)
	protected.POST("/friends/requests/:id/reject", friendController.RejectRequest)
	protected.DELETE("/friends/requests/:id", friendController.CancelRequest)
	protected.GET("/friends", friendController.ListFriends)
	protected.DELETE("/friends/:id", friendController.Unfriend)

	protected.POST("/messages", messageController.SendMessage)
	protected.GET("/messages/with/:id", messageController.ListConversation)
	protected.POST("/groups", messageController.CreateGroup)
	protected.GET("/groups/:id/messages", messageController.ListGroupMessages)

	protected.POST("/events", eventController.CreateEvent)
	protected.POST("/events/:id/join", eventController.JoinEvent)
	protected.DELETE("/events/:id/join", eventController.LeaveEvent)

	protected.GET("/missions", missionController.ListMissions)
	protected.POST("/missions/:id/claim", missionController.ClaimReward)
	protected.GET("/missions/progress", missionController.UserProgress)
	protected.GET("/points/history", missionController.PointsHistory)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
