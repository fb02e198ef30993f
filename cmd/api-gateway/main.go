package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/mockmate-api/api/swagger"
	"github.com/noah-isme/mockmate-api/internal/handler"
	"github.com/noah-isme/mockmate-api/internal/middleware"
	"github.com/noah-isme/mockmate-api/internal/repository"
	"github.com/noah-isme/mockmate-api/internal/service"
	"github.com/noah-isme/mockmate-api/pkg/cache"
	"github.com/noah-isme/mockmate-api/pkg/config"
	"github.com/noah-isme/mockmate-api/pkg/database"
	"github.com/noah-isme/mockmate-api/pkg/export"
	"github.com/noah-isme/mockmate-api/pkg/genai"
	"github.com/noah-isme/mockmate-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mockmate-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mockmate-api/pkg/middleware/requestid"
)

// @title MockMate API
// @version 1.0.0
// @description AI-assisted mock interview booking platform
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cacheEnabled {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close()
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cacheEnabled)

	interviewRepo := repository.NewInterviewRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	userRepo := repository.NewUserRepository(db)

	aiClient := genai.NewClient(cfg.AI, logr)
	pdfExporter := export.NewPDFExporter()

	authSvc := service.NewAuthService(userRepo, cfg.JWT, nil, logr)
	statsSvc := service.NewStatsService(interviewRepo, cacheSvc, cfg.Stats.CacheTTL, logr)
	availabilitySvc := service.NewAvailabilityService(interviewRepo, cfg.Booking.SlotCatalog, nil, logr)
	bookingSvc := service.NewBookingService(interviewRepo, mentorRepo, statsSvc, metrics, nil, logr)
	lifecycleSvc := service.NewLifecycleService(interviewRepo, statsSvc, nil, logr)
	feedbackSvc := service.NewFeedbackService(interviewRepo, aiClient, pdfExporter, statsSvc, metrics, nil, logr)
	questionSvc := service.NewQuestionService(interviewRepo, aiClient, statsSvc, nil, logr)
	interviewSvc := service.NewInterviewService(interviewRepo, logr)
	mentorSvc := service.NewMentorService(mentorRepo, interviewRepo, cacheSvc, nil, logr)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Mentors:   handler.NewMentorHandler(mentorSvc),
		Interview: handler.NewInterviewHandler(interviewSvc, bookingSvc, lifecycleSvc, statsSvc, questionSvc, availabilitySvc),
		Feedback:  handler.NewFeedbackHandler(feedbackSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
