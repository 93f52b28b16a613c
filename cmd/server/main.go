package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/teampulse/teampulse/internal/api"
	"github.com/teampulse/teampulse/internal/config"
	"github.com/teampulse/teampulse/internal/database"
	"github.com/teampulse/teampulse/internal/feedback"
	"github.com/teampulse/teampulse/internal/feeling"
	"github.com/teampulse/teampulse/internal/seed"
	"github.com/teampulse/teampulse/internal/sprint"
	"github.com/teampulse/teampulse/internal/team"
	"github.com/teampulse/teampulse/internal/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	teamRepo := team.NewRepository(db.Pool())
	userRepo := user.NewRepository(db.Pool())
	sprintRepo := sprint.NewRepository(db.Pool())
	feelingRepo := feeling.NewRepository(db.Pool())
	feedbackRepo := feedback.NewRepository(db.Pool())

	if cfg.SeedPath != "" {
		if err := applySeed(cfg, feelingRepo, teamRepo, userRepo); err != nil {
			slog.Error("failed to apply seed", "error", err, "path", cfg.SeedPath)
			os.Exit(1)
		}
	}

	sprintService := sprint.NewService(sprintRepo, cfg.SprintOverlapCheck)
	feedbackService := feedback.NewService(
		userRepo,
		sprintService,
		feedback.NewValidator(feelingRepo),
		feedbackRepo,
		feedback.NewSlogSink(slog.Default()),
	)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		Teams:         teamRepo,
		Users:         userRepo,
		Feelings:      feelingRepo,
		SprintService: sprintService,
		Feedback:      feedbackService,
		BcryptCost:    cfg.BcryptCost,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting TeamPulse server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func applySeed(cfg *config.Config, feelings feeling.Repository, teams team.Repository, users user.Repository) error {
	f, err := seed.Parse(cfg.SeedPath)
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(feelings, teams, users, cfg.BcryptCost)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return seeder.Apply(ctx, f)
}
