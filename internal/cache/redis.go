package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/consolecatch/server/internal/config"
)

// Rdb is the global Redis client. Connect it once at application startup.
// Rooms tolerate a nil client: action history is simply skipped.
var Rdb *redis.Client

// queueName is the Redis list the room engine appends action records to.
var queueName = "consolecatch_actions"

// RoomActionRecord is one room mutation, in the order it was applied.
// A downstream consumer can replay a room's game from its records.
type RoomActionRecord struct {
	RoomCode    string                 `json:"room_code"`
	ActionIndex int                    `json:"action_index"`
	ActorID     uuid.UUID              `json:"actor_id"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client from cfg and pings it.
// An empty RedisAddr leaves the client nil, disabling action history.
func ConnectRedis(cfg config.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}
	queueName = cfg.HistoryQueue

	Rdb = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	return nil
}

// PublishRoomAction serializes the record and pushes it onto the queue.
func PublishRoomAction(ctx context.Context, record RoomActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoomActionRecord: %w", err)
	}
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", queueName, err)
	}
	return nil
}
