// README: Redis token store with a 30 day TTL per owner.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nomad/internal/types"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func RedisKey(owner types.ID) string {
	return fmt.Sprintf("nomad:%s:%s", owner, TokenKey)
}

func (s *RedisStore) Load(ctx context.Context, owner types.ID) (string, bool, error) {
	if owner == "" {
		return "", false, ErrEmptyOwner
	}
	token, err := s.rdb.Get(ctx, RedisKey(owner)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: redis get: %w", err)
	}
	return token, true, nil
}

// Save overwrites the token and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, owner types.ID, token string) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	if err := s.rdb.Set(ctx, RedisKey(owner), token, RedisTokenTTL).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}
