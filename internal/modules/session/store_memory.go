package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"nomad/internal/types"
)

// MemoryStore keeps tokens for the lifetime of the process.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Load(_ context.Context, owner types.ID) (string, bool, error) {
	if owner == "" {
		return "", false, ErrEmptyOwner
	}
	v, ok := s.cache.Get(memoryKey(owner))
	if !ok {
		return "", false, nil
	}
	token, ok := v.(string)
	return token, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, owner types.ID, token string) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	s.cache.Set(memoryKey(owner), token, cache.NoExpiration)
	return nil
}

func memoryKey(owner types.ID) string {
	return owner.String() + ":" + TokenKey
}
