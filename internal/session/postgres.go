package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS client_sessions (
	profile    TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (profile, key)
)`

// PostgresRepository keeps session state in a shared database, keyed by profile.
// Used on shared library workstations where the session must follow the seat, not the disk.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	profile string
}

// NewPostgresRepository creates the repository and its table
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool, profile string) (*PostgresRepository, error) {
	if profile == "" {
		profile = "default"
	}
	if _, err := pool.Exec(ctx, sessionSchema); err != nil {
		return nil, fmt.Errorf("failed to create client_sessions table: %w", err)
	}
	return &PostgresRepository{pool: pool, profile: profile}, nil
}

// Get implements Repository
func (r *PostgresRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM client_sessions WHERE profile = $1 AND key = $2`,
		r.profile, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return value, nil
}

// Set implements Repository
func (r *PostgresRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO client_sessions (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		r.profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

// Delete implements Repository
func (r *PostgresRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM client_sessions WHERE profile = $1 AND key = ANY($2)`,
		r.profile, keys,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}
	return nil
}
