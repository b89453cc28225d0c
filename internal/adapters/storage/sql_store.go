package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps items in the kv_store table created by the embedded migrations.
// It works unchanged on sqlite and postgres.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open, migrated connection. Close closes db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := s.db.Rebind(`SELECT item_value FROM kv_store WHERE item_key = ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item: %w", err)
	}

	return value, true, nil
}

func (s *SQLStore) SetItem(ctx context.Context, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (item_key, item_value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (item_key) DO UPDATE
		SET item_value = excluded.item_value, updated_at = CURRENT_TIMESTAMP`)

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set item: %w", err)
	}

	return nil
}

// CompareAndSwap writes value only if the row still holds old, or is still absent when oldFound is false
func (s *SQLStore) CompareAndSwap(ctx context.Context, key, old string, oldFound bool, value string) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if oldFound {
		query := s.db.Rebind(`
			UPDATE kv_store SET item_value = ?, updated_at = CURRENT_TIMESTAMP
			WHERE item_key = ? AND item_value = ?`)
		res, err = s.db.ExecContext(ctx, query, value, key, old)
	} else {
		query := s.db.Rebind(`
			INSERT INTO kv_store (item_key, item_value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (item_key) DO NOTHING`)
		res, err = s.db.ExecContext(ctx, query, key, value)
	}
	if err != nil {
		return false, fmt.Errorf("swap item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swap item: %w", err)
	}
	return n == 1, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the connection
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
