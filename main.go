package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/midasbot/midas/midas"
	"github.com/midasbot/midas/midas/config"
	"github.com/midasbot/midas/midas/database"
	"github.com/midasbot/midas/midas/logger"
	"github.com/midasbot/midas/midas/metrics"
	"github.com/midasbot/midas/midas/migration"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	path := flag.String("config", "config.toml", "path to config")
	shouldMigrate := flag.Bool("migrate", false, "import the legacy MongoDB data, then exit")
	shouldReset := flag.Bool("reset", false, "drop and recreate all simulation tables on startup")
	flag.Parse()

	cfg, err := midas.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandlerWithLevel(cfg.Log.Level)))

	slog.Info("Starting Midas economy engine",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("config", cfg.String()))

	// Schema work on a cold database can take a while.
	ctx, cancel := context.WithTimeout(context.Background(), config.SchemaInitTimeout)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if *shouldReset {
		slog.Warn("Resetting all simulation tables")
		if err := db.ResetAppTables(ctx); err != nil {
			slog.Error("Failed to reset tables", slog.String("error", err.Error()))
			os.Exit(-1)
		}
	}

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	if *shouldMigrate {
		if err := runMigration(ctx, db, cfg.Migration); err != nil {
			slog.Error("Legacy import failed", slog.String("error", err.Error()))
			os.Exit(-1)
		}
		slog.Info("Legacy import finished, exiting")
		return
	}

	app := midas.New(*cfg, version, commit)
	app.DB = db
	if err := app.SetupServices(); err != nil {
		slog.Error("Failed to set up services", slog.String("error", err.Error()))
		os.Exit(-1)
	}
	if err := app.Bootstrap(ctx); err != nil {
		slog.Error("Failed to bootstrap configured guilds", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			slog.Info("Metrics endpoint listening", slog.String("address", cfg.Metrics.Address))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", slog.String("error", err.Error()))
			}
		}()
	}

	app.Scheduler.Start()

	slog.Info("Midas is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server did not stop cleanly", slog.Any("error", err))
		}
		shutdownCancel()
	}
	app.Shutdown(30 * time.Second)
}

// runMigration performs the one-time import from the previous bot's
// MongoDB. The schema must already be initialized.
func runMigration(ctx context.Context, db *database.DB, cfg midas.MigrationConfig) error {
	m := migration.New(db.BunDB(), db.GetPool())
	m.SetBatchSize(cfg.BatchSize)

	if err := m.Connect(ctx, cfg.MongoURI, cfg.Database); err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := m.Close(closeCtx); err != nil {
			slog.Warn("Failed to disconnect from legacy mongo", slog.Any("error", err))
		}
	}()

	return m.Run(ctx)
}
