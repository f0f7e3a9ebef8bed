package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetSyncState returns the value stored under key, or "" when the key has
// never been written.
func (db *DB) GetSyncState(ctx context.Context, key string) (string, error) {
	var value string
	err := db.Pool.QueryRow(ctx,
		`SELECT value FROM sync_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying sync state %q: %w", key, err)
	}
	return value, nil
}

// SetSyncState writes key to value, replacing any previous value.
func (db *DB) SetSyncState(ctx context.Context, key, value string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sync_state (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing sync state %q: %w", key, err)
	}
	return nil
}
