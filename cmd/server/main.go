package main

import (
	"log"

	"github.com/meetfair/meetpoint-backend-go/internal/api"
	"github.com/meetfair/meetpoint-backend-go/internal/config"
	"github.com/meetfair/meetpoint-backend-go/internal/database"
	"github.com/meetfair/meetpoint-backend-go/internal/pipeline"
	"github.com/meetfair/meetpoint-backend-go/internal/repository"
	"github.com/meetfair/meetpoint-backend-go/internal/service"
	"github.com/meetfair/meetpoint-backend-go/internal/travel"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ors := travel.NewORSClient(cfg.MatrixAPIBaseURL, cfg.MatrixAPIKey)
	pipe := pipeline.New(ors.Matrix)
	runs := repository.NewRunRepository(database.GetDB())
	svc := service.NewOptimizationService(pipe, runs, ors, ors, cfg)

	router := api.SetupRouter(cfg, svc)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
