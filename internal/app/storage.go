package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/internal/adapter/memory"
	"github.com/heartmarshall/lingua-cards/internal/adapter/postgres"
	pgprogress "github.com/heartmarshall/lingua-cards/internal/adapter/postgres/progress"
	"github.com/heartmarshall/lingua-cards/internal/adapter/sqlite"
	"github.com/heartmarshall/lingua-cards/internal/config"
	"github.com/heartmarshall/lingua-cards/internal/domain"
)

type progressStore interface {
	Upsert(ctx context.Context, p domain.Progress) error
	ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error)
	CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error)
	DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error)
	Ping(ctx context.Context) error
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage is the progress backend selected by config.
type storage struct {
	driver string
	repo   progressStore
	tx     txRunner
	close  func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	log := logger.With("adapter", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storage{
			driver: cfg.Storage.Driver,
			repo:   pgprogress.New(pool),
			tx:     postgres.NewTxManager(pool),
			close:  pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, cfg.Storage.MigrateOnStart, log)
		if err != nil {
			return nil, err
		}
		log.Info("opened sqlite database", slog.String("path", cfg.SQLite.Path))
		return &storage{
			driver: cfg.Storage.Driver,
			repo:   sqlite.NewProgressRepo(db),
			tx:     sqlite.NewTxManager(db),
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn("close sqlite", slog.Any("error", err))
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn("progress is kept in memory and lost on restart")
		return &storage{
			driver: cfg.Storage.Driver,
			repo:   memory.NewProgressRepo(),
			tx:     memory.TxManager{},
			close:  func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
