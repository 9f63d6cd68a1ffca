package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"forum-service/internal/cache"
	"forum-service/internal/handler"
	"forum-service/internal/metrics"
	"forum-service/internal/middleware"
	"forum-service/internal/repository"
	"forum-service/internal/service"
)

// Config holds the dependencies for the router
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	Metrics        *metrics.Metrics
	Redis          *redis.Client // nil disables the thread list cache
	ThreadListTTL  time.Duration
	AllowedOrigins []string
}

// Setup sets up the router with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewWithLogger(cfg.Logger)
	}

	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Initialize repositories
	threadRepo := repository.NewThreadRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	tagRepo := repository.NewTagRepository(cfg.DB)

	threadCache := cache.NewThreadListCache(cfg.Redis, cfg.ThreadListTTL, cfg.Logger, cfg.Metrics)

	// Initialize services
	threadService := service.NewThreadService(threadRepo, tagRepo, threadCache, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, threadRepo, threadCache, cfg.Metrics, cfg.Logger)
	tagService := service.NewTagService(tagRepo, cfg.Metrics, cfg.Logger)

	// Initialize handlers
	threadHandler := handler.NewThreadHandler(threadService, cfg.Logger)
	commentHandler := handler.NewCommentHandler(commentService, cfg.Logger)
	tagHandler := handler.NewTagHandler(tagService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// Operational endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		if cfg.BasePath != "" {
			api.GET("/metrics", gin.WrapH(promhttp.Handler()))
		}

		// Public reads
		api.GET("/threads", threadHandler.ListThreads)
		api.GET("/threads/:slug", threadHandler.GetThread)
		api.GET("/threads/:slug/comments", commentHandler.ListComments)
		api.GET("/tags", tagHandler.ListTags)

		// Writes require a token
		auth := api.Group("")
		auth.Use(middleware.Auth(cfg.JWTSecret))
		{
			auth.POST("/threads", threadHandler.CreateThread)
			auth.PATCH("/threads/:slug", threadHandler.UpdateThread)
			auth.POST("/threads/:slug/upvote", threadHandler.ToggleVote)

			auth.POST("/comments", commentHandler.CreateComment)
			auth.PATCH("/comments/:commentId", commentHandler.UpdateComment)
			auth.POST("/comments/:commentId/upvote", commentHandler.ToggleVote)

			auth.POST("/tags", tagHandler.CreateTag)
		}
	}

	return r
}
