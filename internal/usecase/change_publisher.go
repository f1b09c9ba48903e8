package usecase

import (
	"context"
	"time"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreamChangePublisher публикует изменения избранного в Redis Stream.
// Ошибки публикации только логируются: снимок уже сохранён.
type StreamChangePublisher struct {
	streamRepo repository.StreamRepository
	instanceID uuid.UUID
	logger     *zap.Logger
}

func NewStreamChangePublisher(streamRepo repository.StreamRepository, instanceID uuid.UUID, logger *zap.Logger) *StreamChangePublisher {
	return &StreamChangePublisher{
		streamRepo: streamRepo,
		instanceID: instanceID,
		logger:     logger,
	}
}

func (p *StreamChangePublisher) PublishFavoriteChanged(ctx context.Context, key string, isFavorite bool) {
	event := domain.FavoriteChangedEvent{
		EventID:    uuid.New(),
		InstanceID: p.instanceID,
		Key:        key,
		IsFavorite: isFavorite,
		OccurredAt: time.Now().UTC(),
	}

	if err := p.streamRepo.PublishToStream(ctx, domain.StreamFavoriteChanged, event); err != nil {
		p.logger.Warn("Failed to publish favorite change",
			zap.String("favorite_key", key),
			zap.Error(err))
	}
}
