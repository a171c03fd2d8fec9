package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edi2410/algebra-radegast/api/swagger"
	"github.com/edi2410/algebra-radegast/internal/handler"
	"github.com/edi2410/algebra-radegast/internal/middleware"
	"github.com/edi2410/algebra-radegast/internal/repository"
	"github.com/edi2410/algebra-radegast/internal/service"
	"github.com/edi2410/algebra-radegast/pkg/cache"
	"github.com/edi2410/algebra-radegast/pkg/config"
	"github.com/edi2410/algebra-radegast/pkg/database"
	"github.com/edi2410/algebra-radegast/pkg/logger"
	corsmiddleware "github.com/edi2410/algebra-radegast/pkg/middleware/cors"
	reqidmiddleware "github.com/edi2410/algebra-radegast/pkg/middleware/requestid"
)

// @title Algebra Radegast API
// @version 1.0.0
// @description Course management API with JWT authentication and RBAC
// @BasePath /api/v1
// @schemes http

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer redisClient.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	courseTeacherRepo := repository.NewCourseTeacherRepository(db)

	userSvc := service.NewUserService(userRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, userSvc, validate, logr, metricsSvc, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, cfg.Cache.TTL, validate, logr, metricsSvc)
	courseTeacherSvc := service.NewCourseTeacherService(courseRepo, userRepo, courseTeacherRepo, validate, logr, metricsSvc)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userSvc.EnsureAdmin(seedCtx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		logr.Sugar().Fatalw("failed to seed admin user", "error", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	courseTeacherHandler := handler.NewCourseTeacherHandler(courseTeacherSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authn := middleware.JWT(authSvc)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/token", authHandler.Login)
			auth.POST("/token/register", authHandler.Register)
			auth.GET("/me", authn, authHandler.Me)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:id", courseHandler.Get)
			courses.POST("", authn, middleware.RequireNotGuest(), courseHandler.Create)
			courses.PATCH("/:id", authn, middleware.RequireNotGuest(), courseHandler.Update)
			courses.DELETE("/:id", authn, middleware.RequireNotGuest(), courseHandler.Delete)

			teachers := courses.Group("/:id/teachers")
			{
				teachers.GET("", courseTeacherHandler.List)
				teachers.POST("", authn, middleware.RequireAdmin(), courseTeacherHandler.Assign)
				teachers.GET("/export", authn, middleware.RequireAdmin(), courseTeacherHandler.Export)
				teachers.PATCH("/:teacherId", authn, middleware.RequireAdmin(), courseTeacherHandler.UpdateRole)
				teachers.DELETE("/:teacherId", authn, middleware.RequireAdmin(), courseTeacherHandler.Remove)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
