package repo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	pkgredis "github.com/coldblooded-heartbeats/storefront/pkg/redis"
	pkgsqlite "github.com/coldblooded-heartbeats/storefront/pkg/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Open builds the KeyValueStore selected by driver. The returned closer releases
// the underlying connection.
func Open(ctx context.Context, driver string, redisCfg pkgredis.Config, sqliteCfg pkgsqlite.Config) (model.KeyValueStore, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		db, err := sqliteCfg.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(db), db, nil
	case DriverRedis:
		rdb, err := redisCfg.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(rdb), rdb, nil
	case DriverMemory:
		return NewMemoryStore(), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
