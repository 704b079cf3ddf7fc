package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kamirim/pricewatch/internal/config"
	"github.com/kamirim/pricewatch/internal/fetcher"
	"github.com/kamirim/pricewatch/internal/notifier"
	"github.com/kamirim/pricewatch/internal/repository/sqlite"
	"github.com/kamirim/pricewatch/internal/scheduler"
	"github.com/kamirim/pricewatch/internal/server"
	"github.com/kamirim/pricewatch/internal/services/reconciler"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Create a context that will be canceled when an interrupt signal is
	// received. This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load() // load .env if present; not fatal if missing

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init repository: %v", err)
	}

	fetch := fetcher.New(logger, cfg.Check.PriceSelector, cfg.Check.OfferSelector, cfg.Check.FetchTimeout)

	var channels []notifier.Notifier
	if cfg.Email.Enabled() {
		channels = append(channels, notifier.NewEmail(logger, cfg.Email))
	}
	if cfg.Tg.Enabled() {
		tg, err := notifier.NewTelegram(logger, cfg.Tg.Token, cfg.Tg.ChatID, cfg.Tg.Timeout)
		if err != nil {
			log.Fatalf("Failed to init Telegram notifier: %v", err)
		}
		channels = append(channels, tg)
	}
	if len(channels) == 0 {
		logger.Warn("No notification channel configured, price alerts will only be logged")
	}

	engine := reconciler.New(logger, fetch, repo, notifier.NewMulti(logger, channels...))

	if cfg.Env == envProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(logger, repo, engine)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx, logger, engine, cfg.Check.Interval)
	}()

	go func() {
		logger.InfoContext(ctx, "HTTP server started", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server ListenAndServe: %v", err)
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}

	// Wait for the scheduler to observe the cancellation.
	wg.Wait()

	if err := repo.Close(); err != nil {
		logger.Error("Failed to close repository", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
