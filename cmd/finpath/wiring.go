package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/finpath/internal/config"
	"github.com/aliskhannn/finpath/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/finpath/internal/infra/postgres/repository"
	"github.com/aliskhannn/finpath/internal/repository"
	"github.com/aliskhannn/finpath/internal/service"
	"github.com/aliskhannn/finpath/internal/storage"
	"github.com/aliskhannn/finpath/web"
)

// loadContent reads the dataset once from the configured source.
func loadContent(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*repository.ContentRepository, error) {
	var (
		repo *repository.ContentRepository
		err  error
	)

	switch cfg.Content.Source {
	case config.ContentSourceFile:
		repo, err = repository.NewContentRepositoryFromFile(cfg.Content.Path)

	case config.ContentSourcePostgres:
		repo, err = loadPostgresContent(ctx, cfg.DB)

	default:
		repo, err = repository.NewContentRepositoryFromYAML(web.DefaultContent)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s content: %w", cfg.Content.Source, err)
	}

	lg.Info("content loaded",
		zap.String("source", cfg.Content.Source),
		zap.Int("modules", len(repo.GetModules())),
		zap.Int("questions", repo.QuestionCount()),
	)
	return repo, nil
}

func loadPostgresContent(ctx context.Context, db config.DB) (*repository.ContentRepository, error) {
	dsn, err := db.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(db.MaxConnections),
		MaxConnLifetime: db.MaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	// Content is immutable after load, the pool is not needed afterwards.
	defer pool.Close()

	content, err := pgrepo.NewContentRepository(postgres.NewTransactor(pool)).Load(ctx)
	if err != nil {
		return nil, err
	}

	return repository.NewContentRepository(content)
}

// newQuizStore builds the configured session store and its cleanup func.
func newQuizStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.QuizStore, func(), error) {
	if cfg.Session.Store == config.SessionStoreRedis {
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("quiz sessions stored in redis", zap.String("addr", cfg.Redis.Addr))

		return storage.NewRedisQuizStorage(rdb, cfg.Session.TTL), func() {
			if err := rdb.Close(); err != nil {
				lg.Warn("redis close failed", zap.Error(err))
			}
		}, nil
	}

	store := storage.NewQuizStorage(cfg.Session.TTL)
	sweepCtx, cancel := context.WithCancel(ctx)
	go store.RunSweeper(sweepCtx, cfg.Session.SweepInterval, lg)
	lg.Info("quiz sessions stored in memory", zap.Duration("ttl", cfg.Session.TTL))

	return store, cancel, nil
}

// serve runs every surface until ctx is done or one of them fails.
// The first failure stops the others and is returned.
func serve(ctx context.Context, runners ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, run := range runners {
		g.Go(func() error {
			if err := run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
