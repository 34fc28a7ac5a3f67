package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	appideas "github.com/bryanwahyu/idea-coach/internal/application/ideas"
	"github.com/bryanwahyu/idea-coach/internal/config"
	"github.com/bryanwahyu/idea-coach/internal/infra/ai"
	mysqlp "github.com/bryanwahyu/idea-coach/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/idea-coach/internal/infra/db/postgres"
	"github.com/bryanwahyu/idea-coach/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/idea-coach/internal/infra/storage"
	"github.com/bryanwahyu/idea-coach/internal/logger"
	"github.com/bryanwahyu/idea-coach/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config; a missing credential is fatal
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logg := logger.Init(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *slog.Logger) error {
	gen, err := ai.New(ctx, ai.Settings{
		Provider: ai.Provider(cfg.AI.Provider),
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("init generator: %w", err)
	}

	svc := appideas.NewService(gen)
	svc.Logger = logg
	checkers := map[string]middleware.HealthChecker{}

	// optional history
	if cfg.HistoryEnabled() {
		db, err := openDatabase(ctx, cfg, svc)
		if err != nil {
			return err
		}
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// optional report archive
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		svc.Reports = store
		checkers["storage"] = middleware.HealthCheckFunc(store.Check)
	}

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: httpserver.NewRouter(svc, httpserver.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			APIKeys:        cfg.Server.APIKeys,
			MaxIdeaBytes:   cfg.Server.MaxIdeaBytes,
			RateLimiter:    limiter,
			HealthCheckers: checkers,
			Logger:         logg,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info("server listening", "addr", addr, "provider", gen.Provider(), "model", gen.Model(),
			"history", cfg.HistoryEnabled(), "archive", cfg.ArchiveEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		limiter.Run(time.Minute, gctx.Done())
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openDatabase connects the configured driver, migrates it and wires the repositories.
func openDatabase(ctx context.Context, cfg *config.Config, svc *appideas.Service) (*sql.DB, error) {
	dsn := cfg.DatabaseDSN()
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pgp.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := pgp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		svc.Repo = pgp.NewAnalysisRepository(db)
		svc.Failures = pgp.NewFailureRepository(db)
		return db, nil
	default:
		db, err := mysqlp.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("mysql migrate: %w", err)
		}
		svc.Repo = mysqlp.NewAnalysisRepository(db)
		svc.Failures = mysqlp.NewFailureRepository(db)
		return db, nil
	}
}
