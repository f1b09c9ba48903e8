package http_test

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
