package db

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UpdateNeverLosesWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", func(current string, exists bool) (string, error) {
				v := 0
				if exists {
					parsed, err := strconv.Atoi(current)
					if err != nil {
						return "", err
					}
					v = parsed
				}
				return strconv.Itoa(v + 1), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := store.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(n), v)
}

func TestMemoryStore_MGetFillsMissingWithEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "c", "3"))

	values, err := store.MGet(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", "3"}, values)
}

func TestMemoryStore_Lists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.RPush(ctx, "log", "first"))
	require.NoError(t, store.RPush(ctx, "log", "second"))

	n, err := store.LLen(ctx, "log")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, store.LSet(ctx, "log", -1, "latest"))

	entries, err := store.LRange(ctx, "log", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "latest"}, entries)

	assert.Error(t, store.LSet(ctx, "log", 5, "nope"))
	assert.Error(t, store.LSet(ctx, "missing", 0, "nope"))
}

func TestMemoryStore_KeysMatchesPattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "destination_2026-07-14_harbor", "3"))
	require.NoError(t, store.Set(ctx, "destination_2026-07-14_castle", "1"))
	require.NoError(t, store.Set(ctx, "destination_2026-07-15_harbor", "2"))

	keys, err := store.Keys(ctx, "destination_2026-07-14_*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"destination_2026-07-14_castle",
		"destination_2026-07-14_harbor",
	}, keys)
}
