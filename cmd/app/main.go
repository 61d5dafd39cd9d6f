package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/TenureBot_Go/internal/config"
	"github.com/osse101/TenureBot_Go/internal/database"
	"github.com/osse101/TenureBot_Go/internal/database/postgres"
	"github.com/osse101/TenureBot_Go/internal/discord"
	"github.com/osse101/TenureBot_Go/internal/logger"
	"github.com/osse101/TenureBot_Go/internal/scheduler"
	"github.com/osse101/TenureBot_Go/internal/server"
	"github.com/osse101/TenureBot_Go/internal/subscription"
	"github.com/osse101/TenureBot_Go/internal/worker"
)

const (
	workerCount     = 2
	workerQueueSize = 16
	shutdownTimeout = 15 * time.Second

	dbConnMaxIdleTime = 5 * time.Minute
	dbConnMaxLifetime = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, logger.DefaultServiceName, cfg.Version, cfg.Environment, false))

	// Database
	ctx := context.Background()
	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, dbConnMaxIdleTime, dbConnMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	subscriptionRepo := postgres.NewSubscriptionRepository(dbPool)

	// Discord
	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	notifier := discord.NewNotifier(bot.Session, cfg.NotificationChannelID)
	roleManager := discord.NewRoleManager(bot.Session, cfg.DiscordGuildID)

	subscriptionService := subscription.NewService(subscriptionRepo, nil, notifier, roleManager, subscription.Config{
		DefaultRoleID:   cfg.DefaultRoleID,
		StatusCacheTTL:  cfg.StatusCacheTTL,
		StatusCacheSize: cfg.StatusCacheSize,
	})

	cmd, handler := discord.TenureCommand(subscriptionService)
	bot.Registry.Register(cmd, handler)

	if err := bot.Start(); err != nil {
		slog.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}

	if err := bot.RegisterCommands(); err != nil {
		slog.Error("Failed to register commands", "error", err)
		// Don't exit - bot can still run if commands are already registered
	}

	// Background sweeps
	expiryJob := worker.NewExpirySweepJob(subscriptionService)
	warningJob := worker.NewWarningSweepJob(subscriptionService)

	workerPool := worker.NewPool(workerCount, workerQueueSize)
	workerPool.Start()

	// Catch up immediately on anything that expired or became warnable
	// while the process was down, then settle into the tick cycle.
	workerPool.Enqueue(expiryJob)
	workerPool.Enqueue(warningJob)

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.ExpirySweepInterval, expiryJob)
	sched.Schedule(cfg.WarningSweepInterval, warningJob)

	// HTTP server
	srv := server.NewServer(cfg.Port, cfg.APIKey, dbPool, subscriptionService)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Application started", "port", cfg.Port, "guild_id", cfg.DiscordGuildID)

	// Wait for interrupt
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")

	sched.Stop()
	workerPool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	bot.Stop()

	slog.Info("Shutdown complete")
}
