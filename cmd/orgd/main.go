package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/orgd/internal/auth"
	"github.com/gosuda/orgd/internal/config"
	"github.com/gosuda/orgd/internal/notify"
	"github.com/gosuda/orgd/internal/org"
	"github.com/gosuda/orgd/internal/server"
	"github.com/gosuda/orgd/internal/store/postgres"
	redisstore "github.com/gosuda/orgd/internal/store/redis"
	"github.com/gosuda/orgd/internal/tenant"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("ORGD_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("ORGD_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	for _, db := range []config.DatabaseConfig{cfg.MasterDB, cfg.TenantDB} {
		if db.MaxConns < 0 || db.MaxConns > math.MaxInt32 {
			return fmt.Errorf("database max_conns %d out of int32 range", db.MaxConns)
		}
	}

	// Connect to the master metadata database.
	store, err := postgres.New(ctx, cfg.MasterDB.DSN(), int32(cfg.MasterDB.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if err = store.Migrate(ctx); err != nil {
		return err
	}

	// Connect to the tenant collection database.
	collections, err := tenant.New(ctx, cfg.TenantDB.DSN(), int32(cfg.TenantDB.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer collections.Close()

	// Connect to Redis for the per-name lifecycle lock.
	locker, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.LockTTL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := locker.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("redis close")
		}
	}()

	// Optional Slack lifecycle notifications.
	var notifier *notify.Notifier
	if cfg.Slack.BotToken != "" {
		notifier = notify.New(notify.NewSlackMessenger(slacklib.New(cfg.Slack.BotToken)), cfg.Slack.Channel)
		log.Info().Str("channel", cfg.Slack.Channel).Msg("lifecycle notifications enabled")
	}

	// Create services.
	authSvc := auth.NewService(store.Admins(), cfg.JWT.Secret, cfg.JWT.AccessTTL)
	orgSvc := org.NewService(store.Organizations(), store.Admins(), collections, locker, authSvc, notifier)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(cfg, orgSvc, authSvc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
