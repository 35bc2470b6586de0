// README: Per-workspace session: the current conversation token, loaded once and written through.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"nomad/internal/types"
)

type Session struct {
	owner types.ID
	store TokenStore
	log   *zap.Logger

	mu    sync.RWMutex
	token *string
}

// Open reads the stored token once. A failing store degrades to "no token".
func Open(ctx context.Context, owner types.ID, store TokenStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{owner: owner, store: store, log: log}
	if store == nil {
		return s
	}
	token, ok, err := store.Load(ctx, owner)
	if err != nil {
		log.Warn("session: token load failed", zap.String("owner", owner.String()), zap.Error(err))
		return s
	}
	if ok && token != "" {
		s.token = &token
	}
	return s
}

// Token returns a copy of the current token, or nil when none is held.
func (s *Session) Token() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// Save replaces the held token. A nil or empty token clears it in memory and is not persisted.
func (s *Session) Save(ctx context.Context, token *string) error {
	s.mu.Lock()
	if token == nil || *token == "" {
		s.token = nil
		s.mu.Unlock()
		return nil
	}
	t := *token
	s.token = &t
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.owner, t)
}
