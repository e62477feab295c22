package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/arcade/internal/catalog"
	"github.com/playperu/arcade/internal/config"
	"github.com/playperu/arcade/internal/database"
	"github.com/playperu/arcade/internal/handler/health"
	"github.com/playperu/arcade/internal/ledger"
	"github.com/playperu/arcade/internal/metrics"
	"github.com/playperu/arcade/internal/migrations"
	"github.com/playperu/arcade/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	checks := map[string]health.Checker{"sqlite": health.SQL(db)}
	m := metrics.New()

	// --- Redis (optional leaderboard) ---
	var board ledger.Board
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		board = ledger.NewRedisBoard(rdb)
		checks["redis"] = health.Redis(rdb)
		logger.Info("connected to redis")
	}

	points := ledger.NewService(ledger.NewSQLiteLedger(db), board, m, logger)
	if err := points.SyncBoard(ctx); err != nil {
		return fmt.Errorf("syncing leaderboard: %w", err)
	}

	games := catalog.NewStore(db)
	admin := server.NewAdminStore(db)
	if err := server.Seed(ctx, logger, admin, games, cfg.AdminEmail, cfg.AdminPassword, cfg.SeedDemo); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := server.NewRegistry(server.RegistryOptions{
		Ledger:        points,
		RewardTimeout: cfg.RewardTimeout,
		IdleTimeout:   cfg.SessionIdleTimeout,
		Metrics:       m,
	}, broker, logger)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:    games,
		Points:   points,
		Admin:    admin,
		Sessions: sessions,
		Broker:   broker,
		Metrics:  m,
		Checks:   checks,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
