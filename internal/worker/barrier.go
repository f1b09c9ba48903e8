package worker

import "sync"

// Barrier counts down n completions and calls onDone exactly once when the
// count reaches zero. Done never blocks; extra calls are ignored.
type Barrier struct {
	mu        sync.Mutex
	remaining int
	onDone    func()
}

// NewBarrier with n <= 0 calls onDone immediately.
func NewBarrier(n int, onDone func()) *Barrier {
	b := &Barrier{remaining: n, onDone: onDone}
	if n <= 0 {
		b.remaining = 0
		onDone()
	}
	return b
}

func (b *Barrier) Done() {
	b.mu.Lock()
	if b.remaining == 0 {
		b.mu.Unlock()
		return
	}
	b.remaining--
	fire := b.remaining == 0
	b.mu.Unlock()

	if fire {
		b.onDone()
	}
}

// Remaining returns how many completions are still outstanding.
func (b *Barrier) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}
