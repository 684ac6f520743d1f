package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a TTL per key, plus a per-user set
// of session ids so all of a user's sessions can be revoked at once.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, data *Data, ttl time.Duration) error {
	sessionJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), sessionJSON, ttl)
	pipe.SAdd(ctx, userSessionsKey(data.UserID), sessionID)
	pipe.Expire(ctx, userSessionsKey(data.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Data, error) {
	sessionJSON, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(sessionJSON, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &data, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	data, err := s.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	if data != nil {
		pipe.SRem(ctx, userSessionsKey(data.UserID), sessionID)
	}
	pipe.Del(ctx, sessionKey(sessionID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID uint) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}
