package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/repository/memory"
	"github.com/bus-eta-service/internal/usecase"
)

type change struct {
	key        string
	isFavorite bool
}

type recordingListener struct {
	mu      sync.Mutex
	name    string
	order   *[]string
	changes []change
}

func (l *recordingListener) OnFavoriteChanged(key string, isFavorite bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, change{key, isFavorite})
	if l.order != nil {
		*l.order = append(*l.order, l.name)
	}
}

type panickingListener struct{}

func (panickingListener) OnFavoriteChanged(string, bool) {
	panic("listener failed")
}

type recordingPublisher struct {
	changes []change
}

func (p *recordingPublisher) PublishFavoriteChanged(ctx context.Context, key string, isFavorite bool) {
	p.changes = append(p.changes, change{key, isFavorite})
}

func newTestStore(repo *memory.FavoriteRepository) *usecase.FavoriteStore {
	logger := zap.NewNop()
	return usecase.NewFavoriteStore(repo, identity.NewNormalizer(logger), nil, logger)
}

func TestFavoriteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(memory.NewFavoriteRepository())
	key := "74B_outbound_1"

	added, err := store.Add(ctx, key)
	require.NoError(t, err)
	assert.True(t, added)

	fav, err := store.IsFavorite(ctx, key)
	require.NoError(t, err)
	assert.True(t, fav)

	added, err = store.Add(ctx, key)
	require.NoError(t, err)
	assert.False(t, added, "second add is a no-op")

	removed, err := store.Remove(ctx, key)
	require.NoError(t, err)
	assert.True(t, removed)

	fav, _ = store.IsFavorite(ctx, key)
	assert.False(t, fav)

	removed, err = store.Remove(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFavoriteStore_ToggleTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	repo.SeedSnapshot(`{"1_outbound_1":true}`)
	store := newTestStore(repo)

	for _, key := range []string{"1_outbound_1", "2_inbound_1"} {
		before, err := store.IsFavorite(ctx, key)
		require.NoError(t, err)

		state, err := store.Toggle(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, !before, state)

		state, err = store.Toggle(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, before, state)

		after, _ := store.IsFavorite(ctx, key)
		assert.Equal(t, before, after)
	}
}

func TestFavoriteStore_PersistsWholeSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	store := newTestStore(repo)

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	_, err = store.Add(ctx, "2_inbound_1")
	require.NoError(t, err)

	data, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1_outbound_1":true,"2_inbound_1":true}`, string(data))

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_outbound_1", "2_inbound_1"}, keys)
}

func TestFavoriteStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	store := newTestStore(repo)
	other := newTestStore(repo)

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)

	// another store over the same storage sees the write
	fav, err := other.IsFavorite(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.True(t, fav)

	// an external overwrite is observed without Refresh
	repo.SeedSnapshot(`{"2_inbound_1":true}`)
	fav, _ = store.IsFavorite(ctx, "1_outbound_1")
	assert.False(t, fav)

	_, err = other.Add(ctx, "3_outbound_1")
	require.NoError(t, err)
	keys, _ := store.All(ctx)
	assert.Equal(t, []string{"2_inbound_1", "3_outbound_1"}, keys)
}

func TestFavoriteStore_ListenerIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(memory.NewFavoriteRepository())

	second := &recordingListener{}
	store.Subscribe(panickingListener{})
	store.Subscribe(second)

	state, err := store.Toggle(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.True(t, state)

	assert.Equal(t, []change{{"1_outbound_1", true}}, second.changes)
}

func TestFavoriteStore_ListenersInRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(memory.NewFavoriteRepository())

	var order []string
	a := &recordingListener{name: "a", order: &order}
	b := &recordingListener{name: "b", order: &order}
	c := &recordingListener{name: "c", order: &order}
	store.Subscribe(a)
	store.Subscribe(b)
	store.Subscribe(c)
	store.Subscribe(b) // duplicate registration is ignored

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	store.Unsubscribe(b)
	order = nil
	_, err = store.Remove(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, order)
	assert.Equal(t, []change{{"1_outbound_1", true}, {"1_outbound_1", false}}, a.changes)
	assert.Equal(t, []change{{"1_outbound_1", true}}, b.changes)
}

func TestFavoriteStore_UnsubscribeComparesIdentity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(memory.NewFavoriteRepository())

	first := &recordingListener{name: "same"}
	twin := &recordingListener{name: "same"}
	store.Subscribe(first)
	store.Unsubscribe(twin)

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.Len(t, first.changes, 1)
}

func TestFavoriteStore_NoOpDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	repo.SeedSnapshot(`{"1_outbound_1":true}`)
	store := newTestStore(repo)

	l := &recordingListener{}
	store.Subscribe(l)

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	_, err = store.Remove(ctx, "9_outbound_1")
	require.NoError(t, err)
	assert.Empty(t, l.changes)
}

func TestFavoriteStore_CorruptSnapshotResets(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	repo.SeedSnapshot(`{"1_outbound_1":tru`)
	store := newTestStore(repo)

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Add(ctx, "2_inbound_1")
	require.NoError(t, err)
	data, _ := repo.LoadSnapshot(ctx)
	assert.JSONEq(t, `{"2_inbound_1":true}`, string(data))
}

func TestFavoriteStore_LegacyMigration(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	repo.SeedLegacy("1_O_1", "e36a_inbound_1", "A_B_C_D")
	store := newTestStore(repo)

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_outbound_1", "A_B_C_D", "E36A_inbound_1"}, keys)

	legacy, _ := repo.LoadLegacy(ctx)
	assert.Nil(t, legacy, "legacy entry is deleted after migration")

	data, _ := repo.LoadSnapshot(ctx)
	assert.NotNil(t, data)
}

func TestFavoriteStore_LegacyIgnoredWhenSnapshotExists(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	repo.SeedSnapshot(`{"2_inbound_1":true}`)
	repo.SeedLegacy("1_outbound_1")
	store := newTestStore(repo)

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2_inbound_1"}, keys)
}

func TestFavoriteStore_LegacyCheckedOnce(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	repo.On("LoadSnapshot", mock.Anything).Return(nil, nil)
	repo.On("LoadLegacy", mock.Anything).Return(nil, nil).Once()
	store := usecase.NewFavoriteStore(repo, identity.NewNormalizer(zap.NewNop()), nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := store.IsFavorite(ctx, "1_outbound_1")
		require.NoError(t, err)
	}

	repo.AssertNumberOfCalls(t, "LoadLegacy", 1)
	repo.AssertNumberOfCalls(t, "LoadSnapshot", 3)
}

func TestFavoriteStore_SaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockFavoriteRepository{}
	repo.On("LoadSnapshot", mock.Anything).Return([]byte(`{}`), nil)
	repo.On("LoadLegacy", mock.Anything).Return(nil, nil)
	repo.On("SaveSnapshot", mock.Anything, mock.Anything).Return(errors.ErrStorage)
	publisher := &recordingPublisher{}
	store := usecase.NewFavoriteStore(repo, identity.NewNormalizer(zap.NewNop()), publisher, zap.NewNop())

	l := &recordingListener{}
	store.Subscribe(l)

	_, err := store.Toggle(ctx, "1_outbound_1")
	assert.ErrorIs(t, err, errors.ErrStorage)
	assert.Empty(t, l.changes)
	assert.Empty(t, publisher.changes)
}

func TestFavoriteStore_PublishesLocalChangesOnly(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	publisher := &recordingPublisher{}
	store := usecase.NewFavoriteStore(repo, identity.NewNormalizer(zap.NewNop()), publisher, zap.NewNop())

	l := &recordingListener{}
	store.Subscribe(l)

	_, err := store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.Equal(t, []change{{"1_outbound_1", true}}, publisher.changes)

	// another instance removed it and announced the change
	repo.SeedSnapshot(`{}`)
	require.NoError(t, store.NotifyExternal(ctx, "1_outbound_1"))

	assert.Len(t, publisher.changes, 1)
	assert.Equal(t, []change{{"1_outbound_1", true}, {"1_outbound_1", false}}, l.changes)
}

func TestFavoriteStore_Key(t *testing.T) {
	store := newTestStore(memory.NewFavoriteRepository())

	key, err := store.Key(" 1 ", "o", "")
	require.NoError(t, err)
	assert.Equal(t, "1_outbound_1", key)

	_, err = store.Key("", "o", "1")
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)
}

func TestFavoriteStore_KeysAreCanonicalized(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	store := newTestStore(repo)
	l := &recordingListener{}
	store.Subscribe(l)

	added, err := store.Add(ctx, " 1_O_1")
	require.NoError(t, err)
	assert.True(t, added)

	fav, err := store.IsFavorite(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.True(t, fav)

	added, err = store.Add(ctx, "1_outbound_1")
	require.NoError(t, err)
	assert.False(t, added, "same favorite under its canonical key")

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_outbound_1"}, keys)
	assert.Equal(t, []change{{"1_outbound_1", true}}, l.changes)
}

func TestFavoriteStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFavoriteRepository()
	store := newTestStore(repo)

	_, err := store.Add(ctx, "")
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)

	_, err = store.Toggle(ctx, "  ")
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)

	_, err = store.Add(ctx, " _outbound_1")
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)

	_, err = store.Remove(ctx, "1_outbound")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)

	_, err = store.IsFavorite(ctx, "")
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)

	keys, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	data, _ := repo.LoadSnapshot(ctx)
	assert.Nil(t, data, "nothing persisted")
}
