// README: Postgres token store backed by the client_storage table.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nomad/internal/types"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	selectTokenSQL = `SELECT value FROM client_storage WHERE owner_id = $1 AND key = $2`
	upsertTokenSQL = `INSERT INTO client_storage (owner_id, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (owner_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
)

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, owner types.ID) (string, bool, error) {
	if owner == "" {
		return "", false, ErrEmptyOwner
	}
	var token string
	err := s.db.QueryRow(ctx, selectTokenSQL, owner.String(), TokenKey).Scan(&token)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: select token: %w", err)
	}
	return token, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, owner types.ID, token string) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	if _, err := s.db.Exec(ctx, upsertTokenSQL, owner.String(), TokenKey, token); err != nil {
		return fmt.Errorf("session: upsert token: %w", err)
	}
	return nil
}
