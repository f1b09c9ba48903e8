package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool runs submitted tasks on a fixed number of goroutines.
// Tasks accepted before Stop still run.
type Pool struct {
	*BaseWorker
	size  int
	queue *taskQueue
}

var _ Worker = (*Pool)(nil)

func NewPool(name string, size int, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		BaseWorker: NewBaseWorker(name, logger),
		size:       size,
		queue:      newTaskQueue(),
	}
}

// Submit enqueues task without blocking. Returns false after Stop.
func (p *Pool) Submit(task func()) bool {
	return p.queue.push(task)
}

// Size возвращает число горутин пула
func (p *Pool) Size() int {
	return p.size
}

// Start runs the pool until Stop or ctx cancellation, then waits for queued tasks.
func (p *Pool) Start(ctx context.Context) error {
	logger := p.Logger()
	logger.Info("Starting worker pool",
		zap.String("name", p.Name()),
		zap.Int("size", p.size))

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, ok := p.queue.pop()
				if !ok {
					return
				}
				runSafely(logger, p.Name(), task)
			}
		}()
	}

	select {
	case <-p.StopChan():
	case <-ctx.Done():
		_ = p.Stop()
	}

	p.queue.close()
	wg.Wait()

	logger.Info("Worker pool stopped", zap.String("name", p.Name()))
	return nil
}

func runSafely(logger *zap.Logger, name string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panicked",
				zap.String("name", name),
				zap.Any("panic", r))
		}
	}()
	task()
}
