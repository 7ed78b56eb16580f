package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbook/entity"
)

const testDate = "2026-07-14"

func TestAvailabilityRepository_GetDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, remaining, len(entity.TimeSlots))
	for _, slot := range entity.TimeSlots {
		assert.Equal(t, entity.DefaultSlotCapacity, remaining[slot], slot)
	}
}

func TestAvailabilityRepository_CheckAndReserve(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	require.NoError(t, repo.CheckAndReserve(ctx, testDate, "10:00", 3))

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 47, remaining["10:00"])
	assert.Equal(t, entity.DefaultSlotCapacity, remaining["11:00"], "other slots untouched")

	// 48 more seats would oversell; nothing may be written.
	err = repo.CheckAndReserve(ctx, testDate, "10:00", 48)
	require.ErrorIs(t, err, entity.ErrInsufficientCapacity)

	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 47, remaining["10:00"])

	require.NoError(t, repo.CheckAndReserve(ctx, testDate, "10:00", 47))
	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining["10:00"])

	err = repo.CheckAndReserve(ctx, testDate, "10:00", 1)
	assert.ErrorIs(t, err, entity.ErrInsufficientCapacity)
}

func TestAvailabilityRepository_CheckAndReserveValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	err := repo.CheckAndReserve(ctx, testDate, "10:30", 1)
	assert.ErrorIs(t, err, entity.ErrInvalidTimeSlot)

	err = repo.CheckAndReserve(ctx, testDate, "10:00", 0)
	assert.ErrorIs(t, err, entity.ErrValidation)

	err = repo.CheckAndReserve(ctx, testDate, "10:00", -2)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestAvailabilityRepository_ConcurrentReservesNeverOversell(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	const workers = 30
	reserved := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.CheckAndReserve(ctx, testDate, "9:00", 2); err == nil {
				reserved <- 2
			}
		}()
	}
	wg.Wait()
	close(reserved)

	total := 0
	for n := range reserved {
		total += n
	}

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSlotCapacity-total, remaining["9:00"])
	assert.LessOrEqual(t, total, entity.DefaultSlotCapacity)
}

func TestAvailabilityRepository_ReleaseIsCapped(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	require.NoError(t, repo.CheckAndReserve(ctx, testDate, "12:00", 5))
	require.NoError(t, repo.Release(ctx, testDate, "12:00", 5))

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSlotCapacity, remaining["12:00"])

	// A duplicate release must not push a slot past its capacity.
	require.NoError(t, repo.Release(ctx, testDate, "12:00", 5))
	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSlotCapacity, remaining["12:00"])
}

func TestAvailabilityRepository_ReleaseRespectsOverriddenCapacity(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	require.NoError(t, repo.SetCapacities(ctx, testDate, map[string]int{"9:00": 100}))
	require.NoError(t, repo.CheckAndReserve(ctx, testDate, "9:00", 3))

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	require.Equal(t, 97, remaining["9:00"])

	// Cancelling on a widened slot must restore all its seats, not clamp the
	// slot back to the default.
	require.NoError(t, repo.Release(ctx, testDate, "9:00", 3))
	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 100, remaining["9:00"])

	require.NoError(t, repo.Release(ctx, testDate, "9:00", 3))
	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 100, remaining["9:00"], "duplicate release stays at the configured capacity")

	// A shrunken slot caps releases at its lower capacity too.
	require.NoError(t, repo.SetCapacities(ctx, testDate, map[string]int{"10:00": 10}))
	require.NoError(t, repo.Release(ctx, testDate, "10:00", 5))
	remaining, err = repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining["10:00"])
}

func TestAvailabilityRepository_SetCapacities(t *testing.T) {
	ctx := context.Background()
	repo := NewAvailabilityRepository(NewMemoryStore())

	require.NoError(t, repo.SetCapacities(ctx, testDate, map[string]int{
		"9:00":  10,
		"16:00": 0,
	}))

	remaining, err := repo.Get(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining["9:00"])
	assert.Equal(t, 0, remaining["16:00"])
	assert.Equal(t, entity.DefaultSlotCapacity, remaining["13:00"])

	err = repo.SetCapacities(ctx, testDate, map[string]int{"25:00": 1})
	assert.ErrorIs(t, err, entity.ErrInvalidTimeSlot)

	err = repo.SetCapacities(ctx, testDate, map[string]int{"9:00": -1})
	assert.ErrorIs(t, err, entity.ErrValidation)
}
