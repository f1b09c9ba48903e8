package worker

import (
	"context"

	"go.uber.org/zap"
)

// Loop executes posted functions one at a time on a single goroutine.
// State touched only from posted functions needs no locking.
type Loop struct {
	*BaseWorker
	queue *taskQueue
}

var _ Worker = (*Loop)(nil)

func NewLoop(name string, logger *zap.Logger) *Loop {
	return &Loop{
		BaseWorker: NewBaseWorker(name, logger),
		queue:      newTaskQueue(),
	}
}

// Post enqueues fn without blocking. Returns false after Stop.
func (l *Loop) Post(fn func()) bool {
	return l.queue.push(fn)
}

// Pending возвращает число ожидающих функций
func (l *Loop) Pending() int {
	return l.queue.len()
}

// Start consumes posted functions until Stop or ctx cancellation.
func (l *Loop) Start(ctx context.Context) error {
	logger := l.Logger()
	logger.Debug("Starting loop", zap.String("name", l.Name()))

	go func() {
		select {
		case <-l.StopChan():
		case <-ctx.Done():
			_ = l.Stop()
		}
		l.queue.close()
	}()

	for {
		fn, ok := l.queue.pop()
		if !ok {
			logger.Debug("Loop stopped", zap.String("name", l.Name()))
			return nil
		}
		runSafely(logger, l.Name(), fn)
	}
}
