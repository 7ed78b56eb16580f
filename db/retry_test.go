package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first failures calls of every operation with err, then
// delegates to the wrapped MemoryStore.
type flakyStore struct {
	*MemoryStore
	failures int
	err      error

	calls int
}

func (s *flakyStore) fail() error {
	s.calls++
	if s.calls <= s.failures {
		return s.err
	}
	return nil
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if err := s.fail(); err != nil {
		return "", err
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if err := s.fail(); err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := s.fail(); err != nil {
		return err
	}
	return s.MemoryStore.Update(ctx, key, fn)
}

func TestRetryingStore_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{
		MemoryStore: NewMemoryStore(),
		failures:    2,
		err:         errors.New("dial tcp 127.0.0.1:6379: connection refused"),
	}
	store := NewRetryingStore(inner)

	require.NoError(t, inner.MemoryStore.Set(ctx, "greeting", "hello"))

	v, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingStore_TerminalFailuresPassThroughOnce(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{
		MemoryStore: NewMemoryStore(),
		failures:    1,
		err:         errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"),
	}
	store := NewRetryingStore(inner)

	err := store.Set(ctx, "greeting", "hello")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingStore_DomainErrorsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	store := NewRetryingStore(NewMemoryStore())

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRetryingStore_ExhaustedRetriesPropagate(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("read tcp: i/o timeout")
	inner := &flakyStore{
		MemoryStore: NewMemoryStore(),
		failures:    10,
		err:         transient,
	}
	store := NewRetryingStore(inner)

	err := store.Update(ctx, "counter", func(current string, exists bool) (string, error) {
		return "1", nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, retryAttempts, inner.calls)
}
