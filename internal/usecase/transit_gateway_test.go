package usecase_test

import (
	"context"
	stderrors "errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/eta"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/usecase"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("HKT", 8*3600))

func newTestGateway(repo *MockTransitRepository) *usecase.TransitGateway {
	logger := zap.NewNop()
	return usecase.NewTransitGateway(
		repo,
		identity.NewNormalizer(logger),
		eta.NewResolver(logger, func() time.Time { return testNow }),
		4,
		logger,
	)
}

func TestTransitGateway_FetchAllRoutes(t *testing.T) {
	t.Run("upstream routes are keyed", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetRoutes", mock.Anything).Return([]domain.Route{
			{RouteID: "1a", Direction: domain.DirectionOutbound, ServiceType: "1"},
			{RouteID: "2", Direction: domain.DirectionInbound, ServiceType: ""},
		}, nil)

		routes, source := newTestGateway(repo).FetchAllRoutes(context.Background())

		assert.Equal(t, usecase.SourceUpstream, source)
		require.Len(t, routes, 2)
		assert.Equal(t, "1A_outbound_1", routes[0].FavoriteKey)
		assert.Equal(t, "2_inbound_1", routes[1].FavoriteKey)
	})

	t.Run("upstream failure serves fallback", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetRoutes", mock.Anything).Return(nil, errors.ErrUpstreamUnavailable.Wrap(io.EOF))

		routes, source := newTestGateway(repo).FetchAllRoutes(context.Background())

		assert.Equal(t, usecase.SourceFallback, source)
		require.Len(t, routes, 3)
		assert.Equal(t, "1_outbound_1", routes[0].FavoriteKey)
		assert.Equal(t, "2_inbound_1", routes[1].FavoriteKey)
		assert.Equal(t, "E36A_outbound_1", routes[2].FavoriteKey)
	})
}

func TestTransitGateway_FetchStopsForRoute(t *testing.T) {
	t.Run("stops sorted by sequence and enriched", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetRouteStops", mock.Anything, "74B", domain.DirectionOutbound, "1").Return([]domain.Stop{
			{StopID: "S3", Sequence: 3},
			{StopID: "S1", Sequence: 1},
			{StopID: "S2", Sequence: 2},
		}, nil)
		repo.On("GetStop", mock.Anything, "S1").Return(&domain.Stop{NameTC: "九龍灣", NameEN: "KOWLOON BAY"}, nil)
		repo.On("GetStop", mock.Anything, "S2").Return(nil, errors.ErrUpstreamUnavailable)
		repo.On("GetStop", mock.Anything, "S3").Return(&domain.Stop{NameEN: "CHOI WAN", Location: &domain.Point{Lat: 22.3, Lon: 114.2}}, nil)

		stops, source, err := newTestGateway(repo).FetchStopsForRoute(context.Background(), " 74b ", "O", "")
		require.NoError(t, err)

		assert.Equal(t, usecase.SourceUpstream, source)
		require.Len(t, stops, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{stops[0].Sequence, stops[1].Sequence, stops[2].Sequence})
		assert.Equal(t, "KOWLOON BAY", stops[0].NameEN)
		// failed enrichment keeps the stop with empty names
		assert.Equal(t, "S2", stops[1].StopID)
		assert.Empty(t, stops[1].NameEN)
		require.NotNil(t, stops[2].Location)
		repo.AssertExpectations(t)
	})

	t.Run("upstream failure serves route fallback", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetRouteStops", mock.Anything, "E36A", domain.DirectionInbound, "1").
			Return(nil, errors.ErrMalformedRequest)

		stops, source, err := newTestGateway(repo).FetchStopsForRoute(context.Background(), "E36A", "inbound", "1")
		require.NoError(t, err)

		assert.Equal(t, usecase.SourceFallback, source)
		require.Len(t, stops, 7)
		assert.Equal(t, "MOCK_STOP_1", stops[0].StopID)
		assert.Equal(t, domain.DirectionInbound, stops[0].Direction)
		assert.Equal(t, "E36A", stops[0].RouteID)
		repo.AssertNotCalled(t, "GetStop", mock.Anything, mock.Anything)
	})

	t.Run("empty upstream list serves generic fallback", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetRouteStops", mock.Anything, "999", domain.DirectionOutbound, "1").Return([]domain.Stop{}, nil)

		stops, source, err := newTestGateway(repo).FetchStopsForRoute(context.Background(), "999", "", "")
		require.NoError(t, err)

		assert.Equal(t, usecase.SourceFallback, source)
		require.Len(t, stops, 6)
		assert.Equal(t, "FINAL DESTINATION", stops[5].NameEN)
	})

	t.Run("missing route id", func(t *testing.T) {
		_, _, err := newTestGateway(&MockTransitRepository{}).FetchStopsForRoute(context.Background(), "  ", "O", "1")
		assert.True(t, stderrors.Is(err, errors.ErrMissingRouteID))
	})
}

func TestTransitGateway_FetchEtaForStop(t *testing.T) {
	t.Run("entries resolved and sorted", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetStopRouteEta", mock.Anything, "S1", "1A", "1").Return([]domain.EtaEntry{
			{EtaTime: "", RemarkEN: "Final Bus"},
			{EtaTime: "2024-05-01T10:12:00+08:00"},
			{EtaTime: "2024-05-01T10:03:30+08:00"},
			{EtaTime: "not a time"},
		}, nil)

		entries, err := newTestGateway(repo).FetchEtaForStop(context.Background(), "S1", "1a", "")
		require.NoError(t, err)

		got := make([]int, len(entries))
		for i, e := range entries {
			got[i] = e.MinutesRemaining
		}
		assert.Equal(t, []int{3, 12, -1, -1}, got)
		assert.Equal(t, "Final Bus", entries[2].RemarkEN)
	})

	t.Run("malformed payload is an empty list", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetStopRouteEta", mock.Anything, "S1", "1", "1").Return(nil, errors.ErrMalformedPayload.Wrap(io.ErrUnexpectedEOF))

		entries, err := newTestGateway(repo).FetchEtaForStop(context.Background(), "S1", "1", "1")
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NotNil(t, entries)
	})

	t.Run("unavailable upstream surfaces without fallback", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetStopRouteEta", mock.Anything, "S1", "1", "1").Return(nil, errors.ErrUpstreamUnavailable)

		entries, err := newTestGateway(repo).FetchEtaForStop(context.Background(), "S1", "1", "1")
		assert.Nil(t, entries)
		assert.True(t, stderrors.Is(err, errors.ErrUpstreamUnavailable))
	})

	t.Run("422 surfaces as malformed request", func(t *testing.T) {
		repo := &MockTransitRepository{}
		repo.On("GetStopRouteEta", mock.Anything, "S1", "1", "1").Return(nil, errors.ErrMalformedRequest)

		_, err := newTestGateway(repo).FetchEtaForStop(context.Background(), "S1", "1", "1")
		assert.True(t, stderrors.Is(err, errors.ErrMalformedRequest))
	})

	t.Run("validation", func(t *testing.T) {
		g := newTestGateway(&MockTransitRepository{})

		_, err := g.FetchEtaForStop(context.Background(), "", "1", "1")
		assert.True(t, stderrors.Is(err, errors.ErrInvalidRequest))

		_, err = g.FetchEtaForStop(context.Background(), "S1", "", "1")
		assert.True(t, stderrors.Is(err, errors.ErrMissingRouteID))
	})
}

func TestTransitGateway_FetchEtaForRoute(t *testing.T) {
	repo := &MockTransitRepository{}
	repo.On("GetRouteEta", mock.Anything, "74B", "1").Return([]domain.EtaEntry{
		{StopID: "B", EtaTime: "2024-05-01T10:20:00+08:00"},
		{StopID: "A", EtaTime: "2024-05-01T10:05:00+08:00"},
	}, nil)

	entries, err := newTestGateway(repo).FetchEtaForRoute(context.Background(), "74b")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].StopID)
	assert.Equal(t, 5, entries[0].MinutesRemaining)
	repo.AssertExpectations(t)
}

func TestTransitGateway_FetchEtaForStopAllRoutes(t *testing.T) {
	repo := &MockTransitRepository{}
	repo.On("GetStopEta", mock.Anything, "S9").Return(nil, nil)

	entries, err := newTestGateway(repo).FetchEtaForStopAllRoutes(context.Background(), "S9")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
