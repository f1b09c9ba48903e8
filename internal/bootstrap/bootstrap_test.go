package bootstrap

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/config"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/repository/memory"
)

func testConfig(t *testing.T, backend string, sync bool) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Favorites: config.FavoritesConfig{Backend: backend, Namespace: "test_favorites"},
		Worker: config.WorkerConfig{
			PoolSize:          2,
			SyncEnabled:       sync,
			ConsumerGroup:     "favorite-sync",
			StreamReadTimeout: 50 * time.Millisecond,
		},
	}
	if backend == config.BackendRedis || sync {
		mr := miniredis.RunT(t)
		port, err := strconv.Atoi(mr.Port())
		require.NoError(t, err)
		cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: port}
	}
	return cfg
}

func TestOpen_Memory(t *testing.T) {
	infra, err := Open(context.Background(), testConfig(t, config.BackendMemory, false), zap.NewNop())
	require.NoError(t, err)
	defer infra.Close()

	assert.IsType(t, &memory.FavoriteRepository{}, infra.Favorites)
	assert.Nil(t, infra.Redis)
	assert.Nil(t, infra.SyncWorker(nil))
}

func TestOpen_RedisWithSync(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	infra, err := Open(ctx, testConfig(t, config.BackendRedis, true), logger)
	require.NoError(t, err)
	defer infra.Close()

	require.NotNil(t, infra.Streams)
	store := infra.FavoriteStore(identity.NewNormalizer(logger))
	changed, err := store.Add(ctx, "1A_outbound_1")
	require.NoError(t, err)
	assert.True(t, changed)

	raw, err := infra.Redis.Get(ctx, "test_favorites:favorite_routes_json").Result()
	require.NoError(t, err)
	assert.Contains(t, raw, "1A_outbound_1")

	w := infra.SyncWorker(store)
	require.NotNil(t, w)
	assert.Equal(t, "favorite-sync-"+infra.InstanceID.String(), w.ConsumerGroup())
}

func TestOpen_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory, false)
	cfg.Worker.SyncEnabled = true
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
