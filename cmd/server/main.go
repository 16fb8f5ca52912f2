package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"message_board/internal/api"
	"message_board/internal/app/service"
	"message_board/internal/domain/repository"
	"message_board/internal/platform/cache"
	"message_board/internal/platform/config"
	"message_board/internal/platform/database"
	"message_board/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Logging
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("Could not initialize logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	// 3. Initialize Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("cannot run migrations", zap.Error(err))
	}
	log.Info("database connected and migrated")

	// 4. Initialize Feed Cache
	var feedCache *cache.FeedCache
	if cfg.FeedCacheTTL > 0 {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("cannot connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		feedCache = cache.NewFeedCache(rdb, cfg.FeedCacheTTL, log)
		log.Info("feed cache enabled", zap.Duration("ttl", cfg.FeedCacheTTL))
	} else {
		log.Info("feed cache disabled")
	}

	if cfg.SuperUser == "" {
		log.Warn("SUPERUSER not configured, purge endpoint is disabled")
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	messageRepo := repository.NewPgMessageRepository(db)

	// 6. Initialize Services
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, feedCache)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(userService, messageService, cfg.SuperUser, log)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}
