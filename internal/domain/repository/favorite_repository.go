package repository

import "context"

// FavoriteRepository stores the favorites snapshot as one opaque document.
type FavoriteRepository interface {
	// LoadSnapshot returns the persisted snapshot, nil if none was ever saved.
	LoadSnapshot(ctx context.Context) ([]byte, error)

	// SaveSnapshot overwrites the snapshot.
	SaveSnapshot(ctx context.Context, data []byte) error

	// LoadLegacy returns the keys of the legacy flat representation, nil if absent.
	LoadLegacy(ctx context.Context) ([]string, error)

	// DeleteLegacy removes the legacy representation.
	DeleteLegacy(ctx context.Context) error
}
