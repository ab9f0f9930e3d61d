package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weihsuanlee/guidemap/adapters/event"
	httpAdapter "github.com/weihsuanlee/guidemap/adapters/http"
	"github.com/weihsuanlee/guidemap/adapters/identity"
	"github.com/weihsuanlee/guidemap/adapters/media_storage"
	"github.com/weihsuanlee/guidemap/adapters/persistence"
	tagUC "github.com/weihsuanlee/guidemap/internal/application/usecase/tag"
	"github.com/weihsuanlee/guidemap/internal/config"
	"github.com/weihsuanlee/guidemap/pkg/auth"
	"github.com/weihsuanlee/guidemap/pkg/logger"
	"github.com/weihsuanlee/guidemap/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start Guidemap API Server...")

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "guidemap-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	tagRepo := persistence.NewPostgresTagRepo(dbPool, appLogger)
	statusRepo := persistence.NewPostgresStatusRepo(dbPool, appLogger)
	voteRepo := persistence.NewPostgresVoteRepo(dbPool, cfg.Vote.MaxAttempts, appLogger)
	activityRepo := persistence.NewPostgresActivityRepo(dbPool, appLogger)
	statusCache := persistence.NewRedisStatusCache(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret)
	verifier := identity.NewJWTVerifier(jwtSvc)
	allocator, err := media_storage.NewCloudinaryAdapter(cfg)
	if err != nil {
		appLogger.Fatal("failed to initialize upload URL allocator", err)
	}

	// Use Cases
	createTagUseCase := tagUC.NewCreateTagUseCase(tagRepo, activityRepo, kafkaClient, allocator, appLogger)
	updateTagUseCase := tagUC.NewUpdateTagUseCase(tagRepo, activityRepo, kafkaClient, appLogger)
	deleteTagUseCase := tagUC.NewDeleteTagUseCase(tagRepo, statusCache, activityRepo, appLogger)
	getTagUseCase := tagUC.NewGetTagUseCase(tagRepo)
	listTagsUseCase := tagUC.NewListTagsUseCase(tagRepo)
	listUserTagsUseCase := tagUC.NewListUserTagsUseCase(tagRepo)
	updateStatusUseCase := tagUC.NewUpdateStatusUseCase(tagRepo, statusRepo, statusCache, activityRepo, kafkaClient, appLogger)
	getLatestStatusUseCase := tagUC.NewGetLatestStatusUseCase(statusRepo, voteRepo, statusCache, appLogger)
	getStatusHistoryUseCase := tagUC.NewGetStatusHistoryUseCase(statusRepo)
	applyVoteUseCase := tagUC.NewApplyVoteUseCase(voteRepo, statusCache, activityRepo, kafkaClient, appLogger)

	// HTTP Handlers
	tagHandler := httpAdapter.NewTagHandler(
		createTagUseCase,
		updateTagUseCase,
		deleteTagUseCase,
		getTagUseCase,
		listTagsUseCase,
		listUserTagsUseCase,
		updateStatusUseCase,
		getLatestStatusUseCase,
		getStatusHistoryUseCase,
		applyVoteUseCase,
	)

	// Middleware
	userInfoMiddleware := httpAdapter.UserInfoMiddleware(verifier)

	// Setup Gin router
	router := gin.Default()

	api := router.Group("/api")
	api.Use(userInfoMiddleware)
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.GET("/:id", tagHandler.GetTag)
			tags.PUT("/:id", tagHandler.UpdateTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)

			tags.GET("/:id/status", tagHandler.GetLatestStatus)
			tags.POST("/:id/status", tagHandler.UpdateStatus)
			tags.GET("/:id/status/history", tagHandler.GetStatusHistory)
			tags.POST("/:id/upvote", tagHandler.ApplyVote)
		}

		api.GET("/users/me/tags", tagHandler.ListMyTags)
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
