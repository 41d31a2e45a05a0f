// Package store is the persistence adapter for session state. The browser
// frontend this replaces kept everything in localStorage; here the same
// key-value surface is backed by memory, sqlite or redis.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
