package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/campusops/timetable-api/internal/handler"
	internalmiddleware "github.com/campusops/timetable-api/internal/middleware"
	"github.com/campusops/timetable-api/internal/repository"
	"github.com/campusops/timetable-api/internal/service"
	"github.com/campusops/timetable-api/pkg/cache"
	"github.com/campusops/timetable-api/pkg/config"
	"github.com/campusops/timetable-api/pkg/database"
	"github.com/campusops/timetable-api/pkg/logger"
	corsmiddleware "github.com/campusops/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/timetable-api/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional: a connection failure degrades to uncached reads.
	cacheEnabled := true
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheEnabled = false
	}
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metricsSvc,
		cfg.Scheduler.CacheTTL,
		logr,
		cacheEnabled,
	)

	timetableSvc := service.NewTimetableService(
		repository.NewCourseRepository(db),
		repository.NewClassroomRepository(db),
		repository.NewTimetableRepository(db),
		repository.NewSettingsRepository(db),
		db,
		cacheSvc,
		metricsSvc,
		nil,
		logr,
		service.TimetableConfig{
			RunTimeout: cfg.Scheduler.RunTimeout,
			CacheTTL:   cfg.Scheduler.CacheTTL,
		},
	)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetable/generate", timetableHandler.Generate)
		api.GET("/timetable", timetableHandler.List)
		api.GET("/timetable/export", timetableHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
