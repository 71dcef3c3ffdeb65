package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"blogmetrics/config"
	"blogmetrics/controllers"
	"blogmetrics/middleware"
	"blogmetrics/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
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
	r.Use(utils.RequestLogger(utils.Logger))
	r.Use(utils.Recovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	store := utils.NewRedisStore(utils.GetRedis())
	analyticsController := controllers.NewAnalyticsController(db)

	// Rate limiting first, then telemetry, then the cache: throttled
	// requests are never logged or cached, cache hits are logged.
	group := r.Group("/analytics")
	group.Use(middleware.RateLimit(store,
		int64(cfg.RateLimitPerWindow),
		time.Duration(cfg.RateLimitWindowSec)*time.Second))
	group.Use(middleware.Monitor(db, utils.Logger))
	group.Use(middleware.ResponseCache(store,
		time.Duration(cfg.CacheTTLSeconds)*time.Second))

	group.GET("/blog-views", analyticsController.BlogViews)
	group.GET("/top", analyticsController.Top)
	group.GET("/performance", analyticsController.Performance)

	r.NoRoute(func(ctx *gin.Context) {
		utils.ClientError(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
