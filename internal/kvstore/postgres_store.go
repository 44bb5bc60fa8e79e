package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore はkv_entriesテーブルを使ったStoreの実装。
// 1論理キー=1行で保持し、UPSERTによる単一キーの原子的置換を提供する。
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore はPostgresStoreの新しいインスタンスを生成する。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get は指定キーの値を取得する。キーが存在しない場合はok=falseを返す。
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, true, nil
}

// Set は指定キーの値をUPSERTで原子的に置換する。
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}
