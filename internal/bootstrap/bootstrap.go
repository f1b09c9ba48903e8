// Package bootstrap opens the storage the favorites store and sync worker run on.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/config"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/repository/memory"
	"github.com/bus-eta-service/internal/repository/postgres"
	redisRepo "github.com/bus-eta-service/internal/repository/redis"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/worker/favorite"
)

// Infra holds open connections. Redis is nil unless the redis backend or the
// sync worker needs it; DB is nil unless the postgres backend is selected.
type Infra struct {
	InstanceID uuid.UUID
	Redis      *goredis.Client
	DB         *postgres.DB
	Favorites  repository.FavoriteRepository
	Streams    repository.StreamRepository

	cfg    *config.Config
	logger *zap.Logger
}

func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	infra := &Infra{
		InstanceID: uuid.New(),
		cfg:        cfg,
		logger:     logger,
	}

	if cfg.Favorites.Backend == config.BackendRedis || cfg.Worker.SyncEnabled {
		client, err := redisRepo.Connect(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		infra.Redis = client
		infra.Streams = redisRepo.NewStreamRepository(client, cfg.Worker.StreamReadTimeout, logger)
	}

	switch cfg.Favorites.Backend {
	case config.BackendMemory:
		infra.Favorites = memory.NewFavoriteRepository()
	case config.BackendRedis:
		infra.Favorites = redisRepo.NewFavoriteRepository(infra.Redis, cfg.Favorites.Namespace, logger)
	case config.BackendPostgres:
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.DB = db
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			infra.Close()
			return nil, err
		}
		infra.Favorites = postgres.NewFavoriteRepository(db, cfg.Favorites.Namespace)
	default:
		infra.Close()
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.Favorites.Backend)
	}

	logger.Info("Favorites storage ready",
		zap.String("backend", cfg.Favorites.Backend),
		zap.String("namespace", cfg.Favorites.Namespace),
		zap.Bool("sync", infra.Streams != nil),
		zap.String("instance_id", infra.InstanceID.String()),
	)
	return infra, nil
}

// FavoriteStore builds the store; changes are published only when streams are available.
func (i *Infra) FavoriteStore(normalizer *identity.Normalizer) *usecase.FavoriteStore {
	var publisher usecase.ChangePublisher
	if i.Streams != nil && i.cfg.Worker.SyncEnabled {
		publisher = usecase.NewStreamChangePublisher(i.Streams, i.InstanceID, i.logger)
	}
	return usecase.NewFavoriteStore(i.Favorites, normalizer, publisher, i.logger)
}

// SyncWorker returns nil when cross-instance sync is disabled.
func (i *Infra) SyncWorker(store favorite.Notifier) *favorite.SyncWorker {
	if i.Streams == nil || !i.cfg.Worker.SyncEnabled {
		return nil
	}
	return favorite.NewSyncWorker(i.Streams, store, i.InstanceID, i.cfg.Worker.ConsumerGroup, i.logger)
}

func (i *Infra) Close() {
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			i.logger.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
}
