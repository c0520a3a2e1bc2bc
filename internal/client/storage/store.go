package storage

import (
	"context"
	"errors"
)

var (
	// ErrCorrupt marks a stored value that exists but cannot be decoded.
	ErrCorrupt = errors.New("stored value is corrupt")
	ErrClosed  = errors.New("store is closed")
)

// Store is a string key/value store that survives restarts.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// SetMany writes all entries or none of them.
	SetMany(ctx context.Context, entries map[string]string) error

	// RemoveMany removes all keys or none of them.
	RemoveMany(ctx context.Context, keys ...string) error
}
