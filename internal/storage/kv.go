package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	coreerrors "github.com/lueurxax/chat-supervisor-bot/internal/core/errors"
)

// Get retrieves the value stored under key. Returns errors.ErrCacheNotFound
// when the key does not exist.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := db.Pool.QueryRow(ctx, "SELECT value FROM kv_store WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrCacheNotFound
		}

		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a
// no-op.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.Pool.Exec(ctx, "DELETE FROM kv_store WHERE key = $1", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}
