package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path string `envconfig:"SQLITE_PATH" default:".storefront/storefront.db"`
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// New opens (creating if needed) the database file and ensures the key/value
// table exists.
func (c *Config) New(ctx context.Context) (*sql.DB, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if c.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The storefront has a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return db, nil
}
