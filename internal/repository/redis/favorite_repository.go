package redis

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	snapshotKeySuffix = ":favorite_routes_json"
	legacyKeySuffix   = ":favorite_routes"
)

type favoriteRepository struct {
	client      *redis.Client
	snapshotKey string
	legacyKey   string
	logger      *zap.Logger
}

// NewFavoriteRepository хранит снимок избранного строкой {ns}:favorite_routes_json,
// старый формат - множество {ns}:favorite_routes
func NewFavoriteRepository(client *redis.Client, namespace string, logger *zap.Logger) repository.FavoriteRepository {
	return &favoriteRepository{
		client:      client,
		snapshotKey: namespace + snapshotKeySuffix,
		legacyKey:   namespace + legacyKeySuffix,
		logger:      logger,
	}
}

func (r *favoriteRepository) LoadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.snapshotKey).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load favorites snapshot",
			zap.String("key", r.snapshotKey),
			zap.Error(err))
		return nil, errors.ErrStorage.Wrap(err)
	}
	return data, nil
}

func (r *favoriteRepository) SaveSnapshot(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.snapshotKey, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save favorites snapshot",
			zap.String("key", r.snapshotKey),
			zap.Error(err))
		return errors.ErrStorage.Wrap(err)
	}
	r.logger.Debug("Favorites snapshot saved",
		zap.String("key", r.snapshotKey),
		zap.Int("bytes", len(data)))
	return nil
}

// LoadLegacy returns nil when the set does not exist; redis never stores empty sets.
func (r *favoriteRepository) LoadLegacy(ctx context.Context) ([]string, error) {
	keys, err := r.client.SMembers(ctx, r.legacyKey).Result()
	if err != nil {
		r.logger.Error("Failed to load legacy favorites",
			zap.String("key", r.legacyKey),
			zap.Error(err))
		return nil, errors.ErrStorage.Wrap(err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *favoriteRepository) DeleteLegacy(ctx context.Context) error {
	if err := r.client.Del(ctx, r.legacyKey).Err(); err != nil {
		r.logger.Error("Failed to delete legacy favorites",
			zap.String("key", r.legacyKey),
			zap.Error(err))
		return errors.ErrStorage.Wrap(err)
	}
	return nil
}
