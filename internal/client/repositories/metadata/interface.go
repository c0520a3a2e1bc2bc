// Package metadata is the key/value table backing the on-device session
// store. Values are opaque bytes; callers decide the encoding.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
}
