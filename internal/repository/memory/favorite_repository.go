// Package memory keeps the favorites snapshot in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/bus-eta-service/internal/domain/repository"
)

// FavoriteRepository is safe for concurrent use. Seed helpers let tests
// simulate an external writer or a legacy installation.
type FavoriteRepository struct {
	mu       sync.RWMutex
	snapshot []byte
	legacy   []string
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{}
}

func (r *FavoriteRepository) LoadSnapshot(ctx context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return nil, nil
	}
	return append([]byte(nil), r.snapshot...), nil
}

func (r *FavoriteRepository) SaveSnapshot(ctx context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = append([]byte{}, data...)
	return nil
}

func (r *FavoriteRepository) LoadLegacy(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.legacy == nil {
		return nil, nil
	}
	return append([]string{}, r.legacy...), nil
}

func (r *FavoriteRepository) DeleteLegacy(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy = nil
	return nil
}

// SeedSnapshot overwrites the snapshot bypassing any store.
func (r *FavoriteRepository) SeedSnapshot(data string) {
	_ = r.SaveSnapshot(context.Background(), []byte(data))
}

// SeedLegacy installs a legacy flat key set.
func (r *FavoriteRepository) SeedLegacy(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy = append([]string{}, keys...)
}
