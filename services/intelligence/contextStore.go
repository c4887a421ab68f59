// File: services/intelligence/contextStore.go
package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"concierge/models"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// maxStoredMessages keeps the stored context to the last 3 Q&A pairs.
const maxStoredMessages = 6

// RedisContextStore holds per-session conversation history so follow-up
// questions keep their context even when the frontend sends none.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) ([]models.Message, error) {
	key := chatContextPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []models.Message
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, history []models.Message) error {
	if len(history) > maxStoredMessages {
		history = history[len(history)-maxStoredMessages:]
	}
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chatContextPrefix+sessionID, b, s.ttl).Err()
}

// Append records a completed exchange against the session.
func (s *RedisContextStore) Append(ctx context.Context, sessionID, question, answer string) error {
	history, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history,
		models.Message{Role: "user", Content: question},
		models.Message{Role: "assistant", Content: answer},
	)
	return s.Set(ctx, sessionID, history)
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, chatContextPrefix+sessionID).Err()
}
