package main

import (
	"blogmetrics/config"
	"blogmetrics/jobs"
	"blogmetrics/models"
	"blogmetrics/routes"
	"blogmetrics/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Country{},
		&models.User{},
		&models.Blog{},
		&models.View{},
		&models.AnalyticsSnapshot{},
		&models.QueryOptimization{},
	)

	r := routes.SetupRouter(db)

	if cfg.SnapshotEnabled {
		snapshots := jobs.NewSnapshotManager(db, utils.Sugar)
		if err := snapshots.Start(); err != nil {
			utils.Sugar.Fatalf("snapshot scheduler failed to start: %v", err)
		}
		defer snapshots.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
