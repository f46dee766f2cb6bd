package model

import "context"

// KeyValueStore is the durable local storage the repositories are built on.
// Load returns (nil, nil) when the key does not exist.
type KeyValueStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
