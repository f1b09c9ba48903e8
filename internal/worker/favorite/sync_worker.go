package favorite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/domain/repository"
	"github.com/bus-eta-service/internal/worker"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is the part of the favorites store the worker drives.
type Notifier interface {
	NotifyExternal(ctx context.Context, key string) error
}

const groupCleanupTimeout = 5 * time.Second

// SyncWorker читает stream:favorite:changed и пересылает чужие изменения
// локальным слушателям. У каждого инстанса своя consumer group,
// поэтому каждое событие получают все инстансы.
// Группа живёт столько же, сколько процесс: при выходе из Start она удаляется.
type SyncWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	store         Notifier
	instanceID    uuid.UUID
	consumerGroup string
	consumerName  string
}

func NewSyncWorker(
	streamRepo repository.StreamRepository,
	store Notifier,
	instanceID uuid.UUID,
	groupPrefix string,
	logger *zap.Logger,
) *SyncWorker {
	return &SyncWorker{
		BaseWorker:    worker.NewBaseWorker("favorite-sync", logger),
		streamRepo:    streamRepo,
		store:         store,
		instanceID:    instanceID,
		consumerGroup: fmt.Sprintf("%s-%s", groupPrefix, instanceID),
		consumerName:  instanceID.String(),
	}
}

// ConsumerGroup возвращает имя consumer group этого инстанса
func (w *SyncWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Start запускает воркер
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting favorite sync worker",
		zap.String("consumer_group", w.consumerGroup),
		zap.String("instance_id", w.instanceID.String()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamFavoriteChanged, w.consumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	defer w.deleteConsumerGroup()

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgChan, err := w.streamRepo.ConsumeStream(consumeCtx, domain.StreamFavoriteChanged, w.consumerGroup, w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Favorite sync worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-msgChan:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if err := w.processMessage(ctx, msg); err != nil {
				// без ACK сообщение останется в pending
				logger.Error("Failed to process favorite event",
					zap.String("message_id", msg.ID),
					zap.Error(err))
				continue
			}

			if err := w.streamRepo.AckMessage(ctx, domain.StreamFavoriteChanged, w.consumerGroup, msg.ID); err != nil {
				logger.Error("Failed to acknowledge message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
			}
		}
	}
}

// processMessage returns nil for events that should be acknowledged and dropped.
func (w *SyncWorker) processMessage(ctx context.Context, msg domain.StreamMessage) error {
	logger := w.Logger()

	var event domain.FavoriteChangedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Skipping malformed favorite event",
			zap.String("message_id", msg.ID),
			zap.String("raw_data", msg.Data),
			zap.Error(err))
		return nil
	}

	if event.InstanceID == w.instanceID {
		return nil
	}
	if event.Key == "" {
		logger.Warn("Skipping favorite event without key", zap.String("message_id", msg.ID))
		return nil
	}

	logger.Debug("Applying external favorite change",
		zap.String("favorite_key", event.Key),
		zap.Bool("is_favorite", event.IsFavorite),
		zap.String("origin_instance", event.InstanceID.String()))

	return w.store.NotifyExternal(ctx, event.Key)
}

// deleteConsumerGroup runs with its own context: the one passed to Start is usually cancelled by now.
func (w *SyncWorker) deleteConsumerGroup() {
	ctx, cancel := context.WithTimeout(context.Background(), groupCleanupTimeout)
	defer cancel()

	if err := w.streamRepo.DeleteConsumerGroup(ctx, domain.StreamFavoriteChanged, w.consumerGroup); err != nil {
		w.Logger().Warn("Failed to delete consumer group",
			zap.String("consumer_group", w.consumerGroup),
			zap.Error(err))
	}
}
