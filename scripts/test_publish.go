//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stream = "stream:favorite:changed"

type FavoriteChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	InstanceID uuid.UUID `json:"instance_id"`
	Key        string    `json:"key"`
	IsFavorite bool      `json:"is_favorite"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Публикует изменение избранного от имени постороннего инстанса.
// API с WORKER_SYNC_ENABLED=true и LOG_LEVEL=debug логирует "Applying external favorite change";
// слушатели получают состояние из хранилища, а не из события.
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	key := flag.String("key", "1A_outbound_1", "canonical favorite key")
	remove := flag.Bool("remove", false, "publish an unfavorite")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := FavoriteChangedEvent{
		EventID:    uuid.New(),
		InstanceID: uuid.New(),
		Key:        *key,
		IsFavorite: !*remove,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", stream)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Key: %s (favorite=%v)\n", event.Key, event.IsFavorite)

	groups, err := client.XInfoGroups(ctx, stream).Result()
	if err != nil {
		fmt.Printf("   No consumer groups yet: %v\n", err)
		return
	}
	for _, g := range groups {
		fmt.Printf("   Group %s: consumers=%d pending=%d\n", g.Name, g.Consumers, g.Pending)
	}
}
