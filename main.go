package main

import (
	"github.com/vietcom/vietcom-backend/config"
	"github.com/vietcom/vietcom-backend/models"
	"github.com/vietcom/vietcom-backend/routes"
	"github.com/vietcom/vietcom-backend/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Message{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Event{},
		&models.EventParticipation{},
		&models.Mission{},
		&models.UserMission{},
		&models.PointsEntry{},
		&models.Badge{},
		&models.UserBadge{},
	)

	if err := config.SeedGamification(db); err != nil {
		utils.Sugar.Fatalf("failed to seed missions and badges: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
