package db

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/bookingcode"
)

// These tests exercise the code generator against the real repositories on an
// in-process store, the same wiring the app uses minus Redis.

func TestMint_ConcurrentCodesAreDistinct(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	generator := bookingcode.NewGenerator(
		NewPrefixRepository(store),
		NewBookingRepository(store),
	)

	const n = 50
	codes := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := generator.Mint(ctx)
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := map[string]bool{}
	for code := range codes {
		prefix, sequence, err := bookingcode.Parse(code)
		require.NoError(t, err)
		assert.Equal(t, "AA", prefix)
		assert.GreaterOrEqual(t, sequence, bookingcode.SequenceMin)
		assert.LessOrEqual(t, sequence, bookingcode.SequenceMax)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestMint_RollsToNextPrefixWhenFull(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	generator := bookingcode.NewGenerator(
		NewPrefixRepository(store),
		NewBookingRepository(store),
	)

	require.NoError(t, store.Set(ctx, prefixCountKey("AA"), strconv.Itoa(bookingcode.PrefixCapacity)))

	code, err := generator.Mint(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "AB-"), "got %s", code)

	repo := NewPrefixRepository(store)
	active, err := repo.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AB", active)

	used, err := repo.UsedPrefixes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AA", "AB"}, used)
}
