package worker

import (
	"context"
)

// Worker - долгоживущий компонент под управлением WorkerManager.
// Start блокируется до Stop или отмены ctx; Stop можно вызывать повторно.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
