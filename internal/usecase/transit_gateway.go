package usecase

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/eta"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const routeEtaServiceType = "1"

// Source tells whether a list came from upstream or from the built-in dataset.
type Source string

const (
	SourceUpstream Source = "upstream"
	SourceFallback Source = "fallback"
)

// TransitGateway - получение маршрутов, остановок и ETA из upstream API.
//
// Списки маршрутов и остановок никогда не возвращают ошибку доступности:
// при сбое upstream отдаются встроенные данные (FallbackRoutes / FallbackStops).
// Для ETA запасных значений нет, ошибка возвращается вызывающему.
type TransitGateway struct {
	transitRepo       repository.TransitRepository
	normalizer        *identity.Normalizer
	resolver          *eta.Resolver
	enrichConcurrency int
	logger            *zap.Logger
}

func NewTransitGateway(
	transitRepo repository.TransitRepository,
	normalizer *identity.Normalizer,
	resolver *eta.Resolver,
	enrichConcurrency int,
	logger *zap.Logger,
) *TransitGateway {
	if enrichConcurrency < 1 {
		enrichConcurrency = 1
	}
	return &TransitGateway{
		transitRepo:       transitRepo,
		normalizer:        normalizer,
		resolver:          resolver,
		enrichConcurrency: enrichConcurrency,
		logger:            logger,
	}
}

// FetchAllRoutes returns every route with its favorite key set.
func (g *TransitGateway) FetchAllRoutes(ctx context.Context) ([]domain.Route, Source) {
	routes, err := g.transitRepo.GetRoutes(ctx)
	source := SourceUpstream
	if err != nil {
		g.logger.Warn("Upstream route list unavailable, serving fallback routes", zap.Error(err))
		routes = FallbackRoutes()
		source = SourceFallback
	}

	keyed := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		key, err := g.normalizer.RouteKey(r)
		if err != nil {
			continue
		}
		r.FavoriteKey = key
		keyed = append(keyed, r)
	}

	g.logger.Debug("Routes fetched",
		zap.Int("count", len(keyed)),
		zap.String("source", string(source)))
	return keyed, source
}

// FetchStopsForRoute returns the stops of one route ordered by sequence.
// The only error is a missing route id.
func (g *TransitGateway) FetchStopsForRoute(
	ctx context.Context,
	routeID, direction, serviceType string,
) ([]domain.Stop, Source, error) {
	id, err := identity.NormalizeRouteID(routeID)
	if err != nil {
		return nil, "", err
	}
	dir, ok := identity.NormalizeDirection(direction)
	if !ok {
		g.logger.Warn("Unrecognized direction, passing through",
			zap.String("route_id", id),
			zap.String("direction", direction))
	}
	st := identity.NormalizeServiceType(serviceType)

	stops, err := g.transitRepo.GetRouteStops(ctx, id, dir, st)
	switch {
	case err != nil:
		g.logger.Warn("Upstream stop list unavailable, serving fallback stops",
			zap.String("route_id", id),
			zap.String("direction", string(dir)),
			zap.Error(err))
		return FallbackStops(id, dir, st), SourceFallback, nil
	case len(stops) == 0:
		g.logger.Info("Upstream returned no stops, serving fallback stops",
			zap.String("route_id", id),
			zap.String("direction", string(dir)))
		return FallbackStops(id, dir, st), SourceFallback, nil
	}

	g.enrichStops(ctx, stops)
	domain.SortStopsBySequence(stops)

	return stops, SourceUpstream, nil
}

// enrichStops fills names and coordinates with one stop detail call per stop.
// A failed call leaves that stop's names empty.
func (g *TransitGateway) enrichStops(ctx context.Context, stops []domain.Stop) {
	p := pool.New().WithMaxGoroutines(g.enrichConcurrency)
	for i := range stops {
		p.Go(func() {
			detail, err := g.transitRepo.GetStop(ctx, stops[i].StopID)
			if err != nil {
				g.logger.Debug("Stop detail unavailable",
					zap.String("stop_id", stops[i].StopID),
					zap.Error(err))
				return
			}
			stops[i].NameTC = detail.NameTC
			stops[i].NameEN = detail.NameEN
			stops[i].Location = detail.Location
		})
	}
	p.Wait()
}

// FetchStop returns stop detail.
func (g *TransitGateway) FetchStop(ctx context.Context, stopID string) (*domain.Stop, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"field": "stop_id"})
	}
	return g.transitRepo.GetStop(ctx, stopID)
}

// FetchEtaForStop returns the arrivals of one route at one stop, soonest first.
func (g *TransitGateway) FetchEtaForStop(ctx context.Context, stopID, routeID, serviceType string) ([]domain.EtaEntry, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"field": "stop_id"})
	}
	id, err := identity.NormalizeRouteID(routeID)
	if err != nil {
		return nil, err
	}

	entries, err := g.transitRepo.GetStopRouteEta(ctx, stopID, id, identity.NormalizeServiceType(serviceType))
	return g.finishEta(entries, err, zap.String("stop_id", stopID), zap.String("route_id", id))
}

// FetchEtaForRoute returns the arrivals at every stop of the route (service type 1).
func (g *TransitGateway) FetchEtaForRoute(ctx context.Context, routeID string) ([]domain.EtaEntry, error) {
	id, err := identity.NormalizeRouteID(routeID)
	if err != nil {
		return nil, err
	}

	entries, err := g.transitRepo.GetRouteEta(ctx, id, routeEtaServiceType)
	return g.finishEta(entries, err, zap.String("route_id", id))
}

// FetchEtaForStopAllRoutes returns the arrivals of every route serving the stop.
func (g *TransitGateway) FetchEtaForStopAllRoutes(ctx context.Context, stopID string) ([]domain.EtaEntry, error) {
	stopID = strings.TrimSpace(stopID)
	if stopID == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"field": "stop_id"})
	}

	entries, err := g.transitRepo.GetStopEta(ctx, stopID)
	return g.finishEta(entries, err, zap.String("stop_id", stopID))
}

// finishEta resolves minutes remaining and sorts. A malformed payload is an empty list.
func (g *TransitGateway) finishEta(entries []domain.EtaEntry, err error, fields ...zap.Field) ([]domain.EtaEntry, error) {
	if err != nil {
		if stderrors.Is(err, errors.ErrMalformedPayload) {
			g.logger.Warn("Malformed ETA payload, returning empty list", append(fields, zap.Error(err))...)
			return []domain.EtaEntry{}, nil
		}
		g.logger.Error("Failed to fetch ETA", append(fields, zap.Error(err))...)
		return nil, err
	}
	if entries == nil {
		entries = []domain.EtaEntry{}
	}
	return g.resolver.Annotate(entries), nil
}
