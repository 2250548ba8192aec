// Package storage provides the durable key/value store that session state is
// written to. Values are opaque text; there is no atomicity across keys.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Store is a minimal text key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
