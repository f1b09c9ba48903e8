package repository

import (
	"context"

	"github.com/bus-eta-service/internal/domain"
)

// TransitRepository определяет методы upstream API (KMB open data)
type TransitRepository interface {
	// GetRoutes возвращает все маршруты
	GetRoutes(ctx context.Context) ([]domain.Route, error)

	// GetRouteStops возвращает последовательность остановок маршрута без названий
	GetRouteStops(ctx context.Context, routeID string, direction domain.Direction, serviceType string) ([]domain.Stop, error)

	// GetStop возвращает детали остановки (названия, координаты)
	GetStop(ctx context.Context, stopID string) (*domain.Stop, error)

	// GetStopRouteEta возвращает ETA маршрута на конкретной остановке
	GetStopRouteEta(ctx context.Context, stopID, routeID, serviceType string) ([]domain.EtaEntry, error)

	// GetRouteEta возвращает ETA по всем остановкам маршрута
	GetRouteEta(ctx context.Context, routeID, serviceType string) ([]domain.EtaEntry, error)

	// GetStopEta возвращает ETA всех маршрутов на остановке
	GetStopEta(ctx context.Context, stopID string) ([]domain.EtaEntry, error)
}
