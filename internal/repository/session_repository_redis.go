package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisSessionKeyPrefix namespaces session hashes.
const RedisSessionKeyPrefix = "session:"

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository stores each session as a hash. A zero ttl keeps sessions
// until they are cleared explicitly.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) domainRepo.SessionRepository {
	return &redisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return RedisSessionKeyPrefix + id
}

func (r *redisSessionRepository) Find(ctx context.Context, id string) (*entity.Session, error) {
	values, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sessionFromValues(id, values), nil
}

func (r *redisSessionRepository) Set(ctx context.Context, id, key, value string) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(id), key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, sessionKey(id), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

func (r *redisSessionRepository) Unset(ctx context.Context, id string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, sessionKey(id), keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session keys: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionFromValues(id string, values map[string]string) *entity.Session {
	return &entity.Session{
		ID:    id,
		Role:  entity.ParseRole(values[entity.SessionKeyRole]),
		Token: values[entity.SessionKeyToken],
		Flash: values[entity.SessionKeyFlash],
	}
}
