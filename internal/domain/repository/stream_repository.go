package repository

import (
	"context"

	"github.com/bus-eta-service/internal/domain"
)

// StreamRepository - доставка событий между инстансами через Redis Streams.
// Доставка at-least-once: сообщение без AckMessage остаётся в pending группы.
type StreamRepository interface {
	// ConsumeStream отдаёт новые сообщения группы; канал закрывается при отмене ctx
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup идемпотентна: существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// DeleteConsumerGroup удаляет группу вместе с её pending; отсутствующая группа не ошибка
	DeleteConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream сериализует data в JSON и кладёт в поле "data"
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
