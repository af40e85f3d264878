// Command cleanup removes the progress of learners who have not updated
// anything within the configured retention period (storage.retention_days).
// It is intended to be invoked by an external cron job, not as an
// in-process goroutine. Only the postgres and sqlite drivers keep data
// worth pruning.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres"
	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres/progress"
	"github.com/heartmarshall/lingua-cards/internal/adapter/sqlite"
	"github.com/heartmarshall/lingua-cards/internal/app"
	"github.com/heartmarshall/lingua-cards/internal/config"
)

type pruner interface {
	DeleteInactive(ctx context.Context, before time.Time) (int64, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var repo pruner
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		repo = progress.New(pool)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, false, logger)
		if err != nil {
			logger.Error("open sqlite", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		repo = sqlite.NewProgressRepo(db)
	default:
		logger.Info("nothing to clean up", slog.String("driver", cfg.Storage.Driver))
		return
	}

	threshold := time.Now().UTC().AddDate(0, 0, -cfg.Storage.RetentionDays)

	deleted, err := repo.DeleteInactive(ctx, threshold)
	if err != nil {
		logger.Error("cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
