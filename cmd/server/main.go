package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/ai"
	"github.com/xaenox/plant-pal/internal/expert"
	"github.com/xaenox/plant-pal/internal/notifier"
	"github.com/xaenox/plant-pal/internal/reminder"
	"github.com/xaenox/plant-pal/internal/server"
	"github.com/xaenox/plant-pal/internal/storage"
	"github.com/xaenox/plant-pal/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the AI gateway
	gateway := ai.NewGateway(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
		logger,
	)

	expertSvc := expert.NewService(store, gateway, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the reminder scheduler
	if cfg.Scheduler.Enabled {
		var push reminder.Notifier
		if cfg.Telegram.Token != "" {
			tg, err := notifier.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
			if err != nil {
				logger.Fatal("Failed to create telegram notifier", zap.Error(err))
			}
			push = tg
			logger.Info("Telegram reminder push enabled")
		}

		sched := reminder.NewScheduler(
			store,
			gateway,
			push,
			time.Duration(cfg.Scheduler.IntervalHours)*time.Hour,
			logger,
		)
		go sched.Start(ctx)
	}

	// Start the HTTP server
	srv := server.New(store, gateway, expertSvc, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}
}
