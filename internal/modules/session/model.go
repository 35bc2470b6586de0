// README: Session token persistence keyed by workspace owner.
package session

import (
	"context"
	"errors"
	"time"

	"nomad/internal/types"
)

// TokenKey is the storage key the backend conversation token lives under.
const TokenKey = "chatToken"

// RedisTokenTTL bounds how long an idle conversation token is kept in redis.
const RedisTokenTTL = 30 * 24 * time.Hour

var ErrEmptyOwner = errors.New("session: owner id is empty")

// TokenStore loads and saves the token for one owner. Load reports ok=false when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context, owner types.ID) (string, bool, error)
	Save(ctx context.Context, owner types.ID, token string) error
}
