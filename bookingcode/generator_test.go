package bookingcode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAllocator struct {
	mu     sync.Mutex
	active string
	minted map[string]int
	used   []string
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{
		active: "AA",
		minted: map[string]int{},
		used:   []string{"AA"},
	}
}

func (a *fakeAllocator) Active(context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active, nil
}

func (a *fakeAllocator) Advance(_ context.Context, from string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == from {
		a.active = NextPrefix(from)
		a.used = append(a.used, a.active)
	}
	return a.active, nil
}

func (a *fakeAllocator) MarkMinted(_ context.Context, prefix string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.minted[prefix]++
	return nil
}

func (a *fakeAllocator) IsFull(_ context.Context, prefix string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.minted[prefix] >= PrefixCapacity, nil
}

type fakeReserver struct {
	mu       sync.Mutex
	reserved map[string]bool
	// rejectAllocated makes every allocator-issued code collide; fallback
	// codes still reserve normally.
	rejectAllocated bool
}

func newFakeReserver() *fakeReserver {
	return &fakeReserver{reserved: map[string]bool{}}
}

func (r *fakeReserver) Reserve(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejectAllocated && !strings.HasPrefix(code, FallbackPrefix+"-") {
		return false, nil
	}
	if r.reserved[code] {
		return false, nil
	}
	r.reserved[code] = true
	return true, nil
}

func TestGenerator_Mint(t *testing.T) {
	ctx := context.Background()
	allocator := newFakeAllocator()
	reserver := newFakeReserver()
	generator := NewGenerator(allocator, reserver)

	code, err := generator.Mint(ctx)
	require.NoError(t, err)

	prefix, sequence, err := Parse(code)
	require.NoError(t, err)
	assert.Equal(t, "AA", prefix)
	assert.GreaterOrEqual(t, sequence, SequenceMin)
	assert.LessOrEqual(t, sequence, SequenceMax)

	taken, err := reserver.Reserve(ctx, code)
	require.NoError(t, err)
	assert.False(t, taken, "minted code must stay reserved")

	assert.Equal(t, 1, allocator.minted["AA"])
}

func TestGenerator_MintConcurrentCodesAreDistinct(t *testing.T) {
	ctx := context.Background()
	generator := NewGenerator(newFakeAllocator(), newFakeReserver())

	const n = 100
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
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestGenerator_MintAdvancesFullPrefix(t *testing.T) {
	ctx := context.Background()
	allocator := newFakeAllocator()
	allocator.minted["AA"] = PrefixCapacity
	generator := NewGenerator(allocator, newFakeReserver())

	code, err := generator.Mint(ctx)
	require.NoError(t, err)

	prefix, _, err := Parse(code)
	require.NoError(t, err)
	assert.Equal(t, "AB", prefix)
	assert.Equal(t, []string{"AA", "AB"}, allocator.used)
}

type failingReserver struct{ err error }

func (r failingReserver) Reserve(context.Context, string) (bool, error) {
	return false, r.err
}

func TestGenerator_MintPropagatesStoreErrors(t *testing.T) {
	reserveErr := errors.New("connection refused")
	generator := NewGenerator(newFakeAllocator(), failingReserver{err: reserveErr})

	_, err := generator.Mint(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, reserveErr)
}

func TestGenerator_MintFallsBackAfterExhaustedAttempts(t *testing.T) {
	ctx := context.Background()
	reserver := newFakeReserver()
	reserver.rejectAllocated = true
	generator := NewGenerator(newFakeAllocator(), reserver)
	generator.now = func() time.Time { return time.Unix(1717243942, 0) }

	code, err := generator.Mint(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, FallbackPrefix+"-"), "got %s", code)
	assert.Equal(t, Format(FallbackPrefix, 3942), code)
	assert.True(t, reserver.reserved[code], "fallback code must be reserved like any other")
}

func TestGenerator_FallbackCodesNeverCollide(t *testing.T) {
	ctx := context.Background()
	reserver := newFakeReserver()
	reserver.rejectAllocated = true
	generator := NewGenerator(newFakeAllocator(), reserver)
	generator.now = func() time.Time { return time.Unix(1717243942, 0) }

	// Two requests falling back within the same second must not mint the
	// same code and overwrite each other's booking.
	first, err := generator.Mint(ctx)
	require.NoError(t, err)
	second, err := generator.Mint(ctx)
	require.NoError(t, err)

	assert.Equal(t, Format(FallbackPrefix, 3942), first)
	assert.Equal(t, Format(FallbackPrefix, 3943), second)
	assert.NotEqual(t, first, second)
}

type saturatedReserver struct{}

func (saturatedReserver) Reserve(context.Context, string) (bool, error) {
	return false, nil
}

func TestGenerator_MintFailsWhenEveryCodeIsTaken(t *testing.T) {
	generator := NewGenerator(newFakeAllocator(), saturatedReserver{})

	_, err := generator.Mint(context.Background())
	require.Error(t, err)
}
