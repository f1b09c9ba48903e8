package testhelpers

import (
	"context"

	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewFavoriteRepositoryForTest ensures the schema and builds the repository
func NewFavoriteRepositoryForTest(ctx context.Context, db *sqlx.DB, namespace string, logger *zap.Logger) (repository.FavoriteRepository, error) {
	pgDB := NewDBForTest(db, logger)
	if err := postgres.EnsureSchema(ctx, pgDB); err != nil {
		return nil, err
	}
	return postgres.NewFavoriteRepository(pgDB, namespace), nil
}
