package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetfair/meetpoint-backend-go/internal/config"
	"github.com/meetfair/meetpoint-backend-go/internal/handler"
	"github.com/meetfair/meetpoint-backend-go/internal/middleware"
	"github.com/meetfair/meetpoint-backend-go/internal/service"
)

// SetupRouter wires middleware, handlers and routes
func SetupRouter(cfg *config.Config, svc *service.OptimizationService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Meetpoint API is running",
		})
	})

	optHandler := handler.NewOptimizationHandler(svc)
	runHandler := handler.NewRunHandler(svc)

	api := r.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		api.POST("/optimize", optHandler.Optimize)
		api.POST("/hypotheses", optHandler.GenerateHypotheses)
		api.POST("/rescore", optHandler.Rescore)
		api.POST("/reachability", optHandler.Reachability)
		api.POST("/geocode", optHandler.Geocode)

		runs := api.Group("/runs")
		{
			runs.GET("", runHandler.ListRuns)
			runs.GET("/:id", runHandler.GetRun)
		}
	}

	return r
}
