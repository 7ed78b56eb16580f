package db

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

func isNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// UpdateFunc computes the next value of a key from its current one. exists is
// false when the key is not set yet (current is "" then). Returning an error
// aborts the update without writing.
type UpdateFunc func(current string, exists bool) (next string, err error)

// Store is the shared key-value store every persisted structure lives in. The
// interface is store-agnostic on purpose: repositories speak Store, the Redis
// implementation and the retry decorator are interchangeable behind it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// MGet returns one value per key, "" for keys that are not set.
	MGet(ctx context.Context, keys ...string) ([]string, error)
	Set(ctx context.Context, key, value string) error
	// SetNX writes the key only if it does not exist yet and reports whether
	// the write happened. The write itself is the reservation primitive for
	// booking codes.
	SetNX(ctx context.Context, key, value string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	RPush(ctx context.Context, key, value string) error
	LSet(ctx context.Context, key string, index int64, value string) error
	LLen(ctx context.Context, key string) (int64, error)
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// Keys returns all keys matching a glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Update atomically replaces the value of key with fn(current). Concurrent
	// writers never lose updates: implementations must detect a conflicting
	// write and re-run fn against the fresh value.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
