package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/repository/memory"
	"github.com/bus-eta-service/internal/usecase"
)

func TestStreamChangePublisher_PublishesLocalChanges(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	instanceID := uuid.New()

	streams := &MockStreamRepository{}
	var published []domain.FavoriteChangedEvent
	streams.On("PublishToStream", mock.Anything, domain.StreamFavoriteChanged, mock.AnythingOfType("domain.FavoriteChangedEvent")).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(2).(domain.FavoriteChangedEvent))
		}).
		Return(nil)

	publisher := usecase.NewStreamChangePublisher(streams, instanceID, logger)
	store := usecase.NewFavoriteStore(memory.NewFavoriteRepository(), identity.NewNormalizer(logger), publisher, logger)

	_, err := store.Add(ctx, "1A_outbound_1")
	require.NoError(t, err)
	_, err = store.Add(ctx, "1A_outbound_1")
	require.NoError(t, err)
	require.NoError(t, store.NotifyExternal(ctx, "1A_outbound_1"))

	require.Len(t, published, 1)
	assert.Equal(t, instanceID, published[0].InstanceID)
	assert.Equal(t, "1A_outbound_1", published[0].Key)
	assert.True(t, published[0].IsFavorite)
	assert.NotEqual(t, uuid.Nil, published[0].EventID)
}

func TestStreamChangePublisher_ErrorDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	streams := &MockStreamRepository{}
	streams.On("PublishToStream", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("redis down"))

	publisher := usecase.NewStreamChangePublisher(streams, uuid.New(), logger)
	store := usecase.NewFavoriteStore(memory.NewFavoriteRepository(), identity.NewNormalizer(logger), publisher, logger)

	changed, err := store.Add(ctx, "2_inbound_1")
	require.NoError(t, err)
	assert.True(t, changed)

	ok, err := store.IsFavorite(ctx, "2_inbound_1")
	require.NoError(t, err)
	assert.True(t, ok)
	streams.AssertNumberOfCalls(t, "PublishToStream", 1)
}
