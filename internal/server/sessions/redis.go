package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

// RedisStore keeps session snapshots in Redis with a per-key TTL, so
// multiple service instances share one session space and expiry is handled
// by the cache itself.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Save(ctx context.Context, handle string, ident models.Identity, ttl time.Duration) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, handle, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, handle string) (models.Identity, error) {
	data, err := s.client.Get(ctx, handle).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Identity{}, common.ErrNotFound
		}
		return models.Identity{}, fmt.Errorf("redis get: %w", err)
	}

	var ident models.Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return models.Identity{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return ident, nil
}

func (s *RedisStore) Delete(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, handle).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
