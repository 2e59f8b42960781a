package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	_ "taskboard/docs" // swagger docs

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

// @title Taskboard API
// @version 1.0
// @description Multi-tenant task tracking API with cookie-session authentication. Every task operation is scoped to its owner.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	cacheClient := cache.New(redisClient)
	sessionStore := auth.NewRedisSessionStore(redisClient)
	loginLimiter := ratelimit.NewLimiter(redisClient, "login:")

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionStore, cacheClient, cfg.SessionTTL)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, handler.SessionCookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.SecureCookies,
	})
	taskHandler := handler.NewTaskHandler(taskService)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, authService, loginLimiter, authHandler, taskHandler)

	addr := ":" + cfg.ServerPort
	log.Info("starting server", "addr", addr, "frontend_origin", cfg.FrontendOrigin)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Error("server start", "error", err)
		os.Exit(1)
	}
}
