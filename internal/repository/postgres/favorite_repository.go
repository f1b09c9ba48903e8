package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const snapshotName = "favorite_routes_json"

// Schema creates the favorites tables; safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS favorite_snapshots (
	namespace  TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	payload    TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, name)
);

CREATE TABLE IF NOT EXISTS favorite_legacy_routes (
	namespace TEXT NOT NULL,
	route_key TEXT NOT NULL,
	PRIMARY KEY (namespace, route_key)
);
`

type favoriteRepository struct {
	db        *DB
	namespace string
}

// NewFavoriteRepository хранит снимок избранного строкой в favorite_snapshots
func NewFavoriteRepository(db *DB, namespace string) repository.FavoriteRepository {
	return &favoriteRepository{db: db, namespace: namespace}
}

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create favorites schema: %w", err)
	}
	return nil
}

func (r *favoriteRepository) LoadSnapshot(ctx context.Context) ([]byte, error) {
	query := `
		SELECT payload
		FROM favorite_snapshots
		WHERE namespace = $1 AND name = $2
	`

	var payload string
	err := r.db.GetContext(ctx, &payload, query, r.namespace, snapshotName)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.db.logger.Error("Failed to load favorites snapshot",
			zap.String("namespace", r.namespace),
			zap.Error(err))
		return nil, errors.ErrStorage.Wrap(err)
	}

	return []byte(payload), nil
}

// SaveSnapshot upserts the whole document in one statement.
func (r *favoriteRepository) SaveSnapshot(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO favorite_snapshots (namespace, name, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, name)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, r.namespace, snapshotName, string(data)); err != nil {
		r.db.logger.Error("Failed to save favorites snapshot",
			zap.String("namespace", r.namespace),
			zap.Error(err))
		return errors.ErrStorage.Wrap(err)
	}

	return nil
}

func (r *favoriteRepository) LoadLegacy(ctx context.Context) ([]string, error) {
	query := `
		SELECT route_key
		FROM favorite_legacy_routes
		WHERE namespace = $1
		ORDER BY route_key
	`

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, r.namespace); err != nil {
		r.db.logger.Error("Failed to load legacy favorites",
			zap.String("namespace", r.namespace),
			zap.Error(err))
		return nil, errors.ErrStorage.Wrap(err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	return keys, nil
}

func (r *favoriteRepository) DeleteLegacy(ctx context.Context) error {
	query := `DELETE FROM favorite_legacy_routes WHERE namespace = $1`

	if _, err := r.db.ExecContext(ctx, query, r.namespace); err != nil {
		r.db.logger.Error("Failed to delete legacy favorites",
			zap.String("namespace", r.namespace),
			zap.Error(err))
		return errors.ErrStorage.Wrap(err)
	}

	return nil
}
