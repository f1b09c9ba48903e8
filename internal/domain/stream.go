package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamFavoriteChanged = "stream:favorite:changed"
)

// FavoriteChangedEvent - событие изменения избранного, публикуется в стрим
type FavoriteChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	InstanceID uuid.UUID `json:"instance_id"`
	Key        string    `json:"key"`
	IsFavorite bool      `json:"is_favorite"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
