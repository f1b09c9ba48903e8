package usecase

import (
	"context"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/worker"
	"go.uber.org/zap"
)

// Executor runs tasks in the background without blocking the caller.
type Executor interface {
	Submit(task func()) bool
}

// Dispatcher runs callbacks one at a time on the coordinating goroutine.
type Dispatcher interface {
	Post(fn func()) bool
}

// StopEta is the ETA outcome of one stop in a batch.
type StopEta struct {
	StopID  string
	Entries []domain.EtaEntry
	Err     error
}

// AsyncGateway - асинхронная обёртка над TransitGateway.
//
// Запросы выполняются в пуле (Executor), результаты доставляются через
// Dispatcher, то есть все колбэки выполняются на одном потоке.
// Если Dispatcher уже остановлен, результат молча отбрасывается.
type AsyncGateway struct {
	gateway  *TransitGateway
	executor Executor
	loop     Dispatcher
	logger   *zap.Logger
}

func NewAsyncGateway(gateway *TransitGateway, executor Executor, loop Dispatcher, logger *zap.Logger) *AsyncGateway {
	return &AsyncGateway{
		gateway:  gateway,
		executor: executor,
		loop:     loop,
		logger:   logger,
	}
}

func (a *AsyncGateway) FetchAllRoutes(ctx context.Context, callback func([]domain.Route, Source)) {
	a.dispatch(func() {
		routes, source := a.gateway.FetchAllRoutes(ctx)
		a.deliver(func() { callback(routes, source) })
	}, func() {
		callback(FallbackRoutes(), SourceFallback)
	})
}

func (a *AsyncGateway) FetchStopsForRoute(
	ctx context.Context,
	routeID, direction, serviceType string,
	callback func([]domain.Stop, Source, error),
) {
	a.dispatch(func() {
		stops, source, err := a.gateway.FetchStopsForRoute(ctx, routeID, direction, serviceType)
		a.deliver(func() { callback(stops, source, err) })
	}, func() {
		callback(nil, "", errors.ErrInternalServer)
	})
}

func (a *AsyncGateway) FetchEtaForStop(
	ctx context.Context,
	stopID, routeID, serviceType string,
	callback func([]domain.EtaEntry, error),
) {
	a.dispatch(func() {
		entries, err := a.gateway.FetchEtaForStop(ctx, stopID, routeID, serviceType)
		a.deliver(func() { callback(entries, err) })
	}, func() {
		callback(nil, errors.ErrInternalServer)
	})
}

func (a *AsyncGateway) FetchEtaForRoute(ctx context.Context, routeID string, callback func([]domain.EtaEntry, error)) {
	a.dispatch(func() {
		entries, err := a.gateway.FetchEtaForRoute(ctx, routeID)
		a.deliver(func() { callback(entries, err) })
	}, func() {
		callback(nil, errors.ErrInternalServer)
	})
}

func (a *AsyncGateway) FetchEtaForStopAllRoutes(ctx context.Context, stopID string, callback func([]domain.EtaEntry, error)) {
	a.dispatch(func() {
		entries, err := a.gateway.FetchEtaForStopAllRoutes(ctx, stopID)
		a.deliver(func() { callback(entries, err) })
	}, func() {
		callback(nil, errors.ErrInternalServer)
	})
}

// FetchEtaForStops fans out one ETA request per stop and calls callback once,
// on the dispatcher, after every request resolved. A failed stop carries its
// error in StopEta.Err and counts as resolved, a panicking one included.
// Results keep the order of stops.
func (a *AsyncGateway) FetchEtaForStops(
	ctx context.Context,
	stops []domain.Stop,
	routeID, serviceType string,
	callback func([]StopEta),
) {
	results := make([]StopEta, len(stops))
	barrier := worker.NewBarrier(len(stops), func() {
		a.deliver(func() { callback(results) })
	})

	for i, stop := range stops {
		results[i].StopID = stop.StopID
		a.dispatch(func() {
			defer barrier.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("Stop ETA task panicked",
						zap.String("stop_id", stop.StopID),
						zap.Any("panic", r))
					results[i].Entries = nil
					results[i].Err = errors.ErrInternalServer
				}
			}()

			entries, err := a.gateway.FetchEtaForStop(ctx, stop.StopID, routeID, serviceType)
			if err != nil {
				a.logger.Debug("Stop ETA failed",
					zap.String("stop_id", stop.StopID),
					zap.Error(err))
			}
			results[i].Entries = entries
			results[i].Err = err
		}, func() {
			results[i].Err = errors.ErrInternalServer
			barrier.Done()
		})
	}
}

// dispatch submits task; if the executor refuses it, rejected runs on the dispatcher.
func (a *AsyncGateway) dispatch(task func(), rejected func()) {
	if a.executor.Submit(task) {
		return
	}
	a.logger.Warn("Executor rejected task")
	a.deliver(rejected)
}

func (a *AsyncGateway) deliver(fn func()) {
	if !a.loop.Post(fn) {
		a.logger.Debug("Dispatcher stopped, discarding result")
	}
}
