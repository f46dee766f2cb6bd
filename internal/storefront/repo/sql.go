package repo

import (
	"context"
	"database/sql"
	"errors"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// SQLStore keeps documents in the kv table created by pkg/sqlite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load key from sqlite")
		return nil, errx.WrapSQL(err)
	}
	return value, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write key to sqlite")
		return errx.WrapSQL(err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete key from sqlite")
		return errx.WrapSQL(err)
	}
	return nil
}

var _ model.KeyValueStore = (*SQLStore)(nil)
