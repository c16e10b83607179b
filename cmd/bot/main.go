// Molfa quiz funnel bot server.
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/molfartaro/molfa-bot/internal/config"
	"github.com/molfartaro/molfa-bot/internal/funnel"
	"github.com/molfartaro/molfa-bot/internal/mirror"
	"github.com/molfartaro/molfa-bot/internal/store"
	"github.com/molfartaro/molfa-bot/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting bot", "port", cfg.Port, "webhook", cfg.WebhookURL != "", "sheets", cfg.Sheets.Enabled)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// The mirror is best-effort everywhere: a misconfigured spreadsheet
	// downgrades to the no-op mirror instead of stopping the bot.
	var mir mirror.Mirror = mirror.Noop{}
	if cfg.Sheets.Enabled {
		sheetsMirror, err := mirror.NewSheets(context.Background(),
			cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile, cfg.Sheets.CredentialsJSON)
		if err != nil {
			slog.Warn("Google Sheets mirror disabled", "error", err)
		} else {
			mir = sheetsMirror
			slog.Info("Google Sheets mirror connected", "spreadsheet_id", cfg.Sheets.SpreadsheetID)
		}
	}

	if err := mir.EnsureHeaders(context.Background()); err != nil {
		slog.Warn("Sheet header check failed", "error", err)
	}

	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		slog.Error("Failed to authorize Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Telegram bot authorized", "username", bot.Username())

	handler := funnel.NewHandler(repo, mir, bot, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.WebhookURL != "" {
		if err := bot.SetWebhook(cfg.WebhookURL); err != nil {
			slog.Error("Failed to register webhook", "error", err)
			os.Exit(1)
		}
		r.Post("/telegram/webhook", bot.WebhookHandler(ctx, handler))
		slog.Info("Webhook mode enabled", "url", cfg.WebhookURL)
	} else {
		go bot.Poll(ctx, handler)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
