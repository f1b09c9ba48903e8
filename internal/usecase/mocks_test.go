package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bus-eta-service/internal/domain"
)

// MockTransitRepository is a mock of TransitRepository
type MockTransitRepository struct {
	mock.Mock
}

func (m *MockTransitRepository) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockTransitRepository) GetRouteStops(ctx context.Context, routeID string, direction domain.Direction, serviceType string) ([]domain.Stop, error) {
	args := m.Called(ctx, routeID, direction, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Stop), args.Error(1)
}

func (m *MockTransitRepository) GetStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stop), args.Error(1)
}

func (m *MockTransitRepository) GetStopRouteEta(ctx context.Context, stopID, routeID, serviceType string) ([]domain.EtaEntry, error) {
	args := m.Called(ctx, stopID, routeID, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EtaEntry), args.Error(1)
}

func (m *MockTransitRepository) GetRouteEta(ctx context.Context, routeID, serviceType string) ([]domain.EtaEntry, error) {
	args := m.Called(ctx, routeID, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EtaEntry), args.Error(1)
}

func (m *MockTransitRepository) GetStopEta(ctx context.Context, stopID string) ([]domain.EtaEntry, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EtaEntry), args.Error(1)
}

// MockFavoriteRepository is a mock of FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) LoadSnapshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFavoriteRepository) SaveSnapshot(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockFavoriteRepository) LoadLegacy(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteRepository) DeleteLegacy(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) DeleteConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}
