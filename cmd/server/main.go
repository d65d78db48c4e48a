// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/config"
	"github.com/nmiguel/devpanel/internal/database"
	"github.com/nmiguel/devpanel/internal/handler"
	"github.com/nmiguel/devpanel/internal/middleware"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/internal/selection"
	"github.com/nmiguel/devpanel/internal/service"
	"github.com/nmiguel/devpanel/pkg/auth"
	"github.com/nmiguel/devpanel/pkg/notify"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Connecting to PostgreSQL...")
	db, err := database.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("✅ Connected to PostgreSQL")

	if os.Getenv("AUTO_MIGRATE") == "true" {
		log.Info("🔄 Running auto migration...")
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to run auto migration: %v", err)
		}
		log.Info("✅ Auto migration completed")
	}

	// Optional Redis mirror for cache snapshots
	var backing *cache.Backing
	if cfg.Cache.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		backing = cache.NewBacking(rc, "devpanel:", cfg.Cache.TTL)
		log.WithField("addr", cfg.Cache.RedisAddr).Info("Snapshot mirror enabled")
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectUserRepo := repository.NewProjectUserRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Caches, selection and notifications
	caches := service.NewCachesWith(projectRepo, taskRepo, projectUserRepo, log, backing, cfg.Cache.TTL)
	sel := selection.NewManager(caches.Projects)
	center := notify.NewCenter(log, 50)

	// Auth
	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	passwordManager := auth.NewPasswordManager()

	// Services
	authService := service.NewAuthService(userRepo, tokenManager, passwordManager)
	projectService := service.NewProjectService(projectRepo, caches, sel, center)
	taskService := service.NewTaskService(taskRepo, caches, center)
	projectUserService := service.NewProjectUserService(projectUserRepo, caches, center)

	// HTTP server
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	h := handler.New(log, authService, projectService, taskService, projectUserService, sel, center, tokenManager)
	h.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infof("🚀 DevPanel server listening on port %s", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("📴 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
	log.Info("✅ Server shutdown complete")
}
