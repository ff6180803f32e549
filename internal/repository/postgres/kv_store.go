package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"docbench/internal/port"
)

type kvStore struct {
	db *sqlx.DB
}

// NewKVStore creates a PostgreSQL-backed KVStore over the kv_store table.
func NewKVStore(db *sqlx.DB) port.KVStore {
	return &kvStore{db: db}
}

func (r *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value, "SELECT value FROM kv_store WHERE key = $1", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("kvStore.Get: %w", err)
	}
	return value, nil
}

func (r *kvStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("kvStore.Set: %w", err)
	}
	return nil
}
