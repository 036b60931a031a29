package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/calcserver"
	"github.com/udisondev/statcalc/internal/config"
	"github.com/udisondev/statcalc/internal/db"
	"github.com/udisondev/statcalc/internal/logger"
	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

const ConfigPath = "config/statserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("STATCALC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logCloser, err := logger.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("statcalc server starting", "config", cfgPath, "addr", cfg.Addr(), "store", cfg.Store)

	reg := stats.Default()
	catalog := monogram.DefaultCatalog()
	if err := catalog.Validate(reg); err != nil {
		return fmt.Errorf("validating monogram catalog: %w", err)
	}
	slog.Info("registry loaded", "stats", reg.Len(), "monograms", catalog.Len())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := build.NewService(stats.NewEngine(reg), catalog, store)
	srv := calcserver.New(cfg, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("stat server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Server) (build.Store, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		return db.NewBuildRepository(database.Pool()), database.Close, nil

	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunSQLiteMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("running sqlite migrations: %w", err)
		}
		slog.Info("sqlite opened", "path", cfg.SQLitePath)
		return db.NewSQLiteBuildRepository(sqlDB), func() { sqlDB.Close() }, nil

	default:
		return build.NewMemoryStore(), func() {}, nil
	}
}
