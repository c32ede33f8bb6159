package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/run-tracker/internal/config"
	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/handler"
	"github.com/msomdec/run-tracker/internal/photostore"
	"github.com/msomdec/run-tracker/internal/repository/memory"
	"github.com/msomdec/run-tracker/internal/repository/sqlite"
	"github.com/msomdec/run-tracker/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Logging.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.close()
	users, runs := store.users, store.runs

	photoStore, err := openPhotoStore(ctx, cfg, store.db)
	if err != nil {
		slog.Error("failed to open photo store", "backend", cfg.Photos.Backend, "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(users, cfg.Auth.JWTSecret, service.AuthOptions{
		Issuer:     cfg.Auth.Issuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	photoService := service.NewPhotoService(photoStore, cfg.Photos.MaxSize)
	runService := service.NewRunService(runs, photoService)
	statsService := service.NewStatsService(runs)

	loginLimiter := service.NewTokenBucket(cfg.Auth.LoginRate, float64(cfg.Auth.LoginBurst))
	defer loginLimiter.Close()

	// Seed the demo account (idempotent).
	if cfg.Seed.Enabled {
		if err := service.Seed(ctx, authService, users, runs, service.SeedOptions{
			Email:    cfg.Seed.Email,
			Password: cfg.Seed.Password,
			DemoRuns: cfg.Seed.DemoRuns,
		}); err != nil {
			slog.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		slog.Info("demo account seeded", "email", cfg.Seed.Email)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, runService, statsService, photoService, loginLimiter)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.Wrap(mux, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage.Driver, "photos", cfg.Photos.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// store bundles the repositories of the configured driver. db is nil for
// the in-memory driver.
type store struct {
	users domain.UserRepository
	runs  domain.RunRepository
	db    *sqlite.DB
}

func (s *store) close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		slog.Error("close database", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig) (*store, error) {
	if cfg.Driver != "sqlite" {
		return &store{users: memory.NewUserRepository(), runs: memory.NewRunRepository()}, nil
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database migrations applied", "path", cfg.DatabasePath)

	return &store{users: db.Users(), runs: db.Runs(), db: db}, nil
}

func openPhotoStore(ctx context.Context, cfg *config.Config, db *sqlite.DB) (domain.PhotoStore, error) {
	switch cfg.Photos.Backend {
	case "sqlite":
		return db.Photos(), nil
	case "disk":
		return photostore.NewDisk(cfg.Photos.Dir)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return photostore.NewS3(initCtx, photostore.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Prefix:    cfg.S3.Prefix,
	})
}
