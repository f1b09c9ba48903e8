package viewmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/viewmodel"
)

func stops() []domain.Stop {
	return []domain.Stop{
		{StopID: "S2", Sequence: 2, NameEN: "Second"},
		{StopID: "S1", Sequence: 1, NameEN: "First"},
		{StopID: "S3", Sequence: 3, NameEN: "Third"},
	}
}

func TestStopList_TracksRouteFavorite(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_, err := store.Add(ctx, "74B_outbound_1")
	require.NoError(t, err)

	vm, err := viewmodel.NewStopListViewModel(ctx, store, " 74b ", "O", "", zap.NewNop())
	require.NoError(t, err)
	defer vm.Close()

	assert.Equal(t, "74B_outbound_1", vm.Key())
	assert.True(t, vm.IsFavorite())

	_, err = store.Toggle(ctx, vm.Key())
	require.NoError(t, err)
	assert.False(t, vm.IsFavorite())

	_, err = store.Add(ctx, "74B_inbound_1")
	require.NoError(t, err)
	assert.False(t, vm.IsFavorite())
}

func TestStopList_RejectsBlankRoute(t *testing.T) {
	_, err := viewmodel.NewStopListViewModel(context.Background(), newStore(t), "  ", "outbound", "1", zap.NewNop())
	assert.ErrorIs(t, err, errors.ErrMissingRouteID)
}

func TestStopList_MergeRouteEta(t *testing.T) {
	ctx := context.Background()
	vm, err := viewmodel.NewStopListViewModel(ctx, newStore(t), "1", "outbound", "1", zap.NewNop())
	require.NoError(t, err)
	defer vm.Close()

	vm.SetStops(stops())
	vm.MergeRouteEta([]domain.EtaEntry{
		{Sequence: 1, Direction: domain.DirectionOutbound, ServiceType: "1", MinutesRemaining: 9},
		{Sequence: 1, Direction: domain.DirectionOutbound, ServiceType: "1", MinutesRemaining: 3},
		{Sequence: 2, Direction: domain.DirectionInbound, ServiceType: "1", MinutesRemaining: 1},
		{Sequence: 3, Direction: domain.DirectionOutbound, ServiceType: "1", MinutesRemaining: 0},
	})

	rows := vm.Rows(domain.LanguageEN)
	require.Len(t, rows, 3)
	assert.Equal(t, "S1", rows[0].Stop.StopID)
	require.Len(t, rows[0].Etas, 2)
	assert.Equal(t, 3, rows[0].Etas[0].MinutesRemaining)
	assert.Equal(t, "3 min", rows[0].EtaText)
	assert.Empty(t, rows[1].Etas)
	assert.Equal(t, "No data", rows[1].EtaText)
	assert.Equal(t, "Arriving", rows[2].EtaText)
}

func TestStopList_ApplyStopEtas(t *testing.T) {
	ctx := context.Background()
	vm, err := viewmodel.NewStopListViewModel(ctx, newStore(t), "1", "outbound", "1", zap.NewNop())
	require.NoError(t, err)
	defer vm.Close()

	vm.SetStops(stops())
	vm.ApplyStopEtas([]usecase.StopEta{
		{StopID: "S1", Entries: []domain.EtaEntry{{MinutesRemaining: domain.MinutesUnknown}, {MinutesRemaining: 5}}},
		{StopID: "S2", Err: errors.ErrUpstreamUnavailable},
	})

	rows := vm.Rows(domain.LanguageTC)
	assert.Equal(t, "5 分鐘", rows[0].EtaText)
	assert.Equal(t, "沒有資料", rows[1].EtaText)

	vm.SetStops(stops()[:1])
	assert.Len(t, vm.Rows(domain.LanguageTC), 1)
}

func TestStopList_ClosedIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	vm, err := viewmodel.NewStopListViewModel(ctx, store, "1", "outbound", "1", zap.NewNop())
	require.NoError(t, err)

	vm.Close()
	vm.SetStops(stops())
	_, err = store.Add(ctx, vm.Key())
	require.NoError(t, err)

	assert.False(t, vm.IsFavorite())
	assert.Empty(t, vm.Stops())
	assert.Equal(t, "沒有車站", vm.EmptyState(domain.LanguageTC))
}
