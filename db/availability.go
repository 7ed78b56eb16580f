package db

import (
	"context"
	"encoding/json"
	"fmt"

	"tourbook/entity"
)

func availabilityKey(date string) string {
	return "availability_" + date
}

func capacityKey(date string) string {
	return "availability_capacity_" + date
}

// AvailabilityRepository is the seat inventory: one JSON object per date
// mapping each of the fixed time slots to its remaining seats. Rows are
// created lazily with the default capacity; remaining seats never go below
// zero.
type AvailabilityRepository struct {
	store Store
}

func NewAvailabilityRepository(store Store) *AvailabilityRepository {
	return &AvailabilityRepository{store: store}
}

// Get returns remaining seats for every slot of a date, filling defaults for
// slots that have never been written.
func (r *AvailabilityRepository) Get(ctx context.Context, date string) (map[string]int, error) {
	remaining, err := r.load(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, slot := range entity.TimeSlots {
		if _, ok := remaining[slot]; !ok {
			remaining[slot] = entity.DefaultSlotCapacity
		}
	}
	return remaining, nil
}

// CheckAndReserve takes count seats from a slot, or fails with
// entity.ErrInsufficientCapacity without writing anything. The check and the
// decrement run inside one conditional store update, so concurrent requests
// cannot oversell the slot.
func (r *AvailabilityRepository) CheckAndReserve(ctx context.Context, date, slot string, count int) error {
	if !entity.ValidTimeSlot(slot) {
		return fmt.Errorf("%w: %q", entity.ErrInvalidTimeSlot, slot)
	}
	if count <= 0 {
		return fmt.Errorf("%w: seat count must be positive", entity.ErrValidation)
	}

	return r.store.Update(ctx, availabilityKey(date), func(current string, exists bool) (string, error) {
		remaining, err := decode(current, exists)
		if err != nil {
			return "", err
		}
		seats, ok := remaining[slot]
		if !ok {
			seats = entity.DefaultSlotCapacity
		}
		if seats < count {
			return "", fmt.Errorf("%w: %d requested, %d remaining for %s %s",
				entity.ErrInsufficientCapacity, count, seats, date, slot)
		}
		remaining[slot] = seats - count
		return encode(remaining)
	})
}

// Release gives seats back after a cancellation, capped at the slot's
// configured capacity so repeated releases cannot inflate it.
func (r *AvailabilityRepository) Release(ctx context.Context, date, slot string, count int) error {
	if !entity.ValidTimeSlot(slot) {
		return fmt.Errorf("%w: %q", entity.ErrInvalidTimeSlot, slot)
	}

	limit, err := r.slotCapacity(ctx, date, slot)
	if err != nil {
		return err
	}

	return r.store.Update(ctx, availabilityKey(date), func(current string, exists bool) (string, error) {
		remaining, err := decode(current, exists)
		if err != nil {
			return "", err
		}
		seats, ok := remaining[slot]
		if !ok {
			seats = limit
		}
		seats += count
		if seats > limit {
			seats = limit
		}
		remaining[slot] = seats
		return encode(remaining)
	})
}

// slotCapacity returns the admin-configured capacity of a slot, falling back
// to the default for slots that were never overridden.
func (r *AvailabilityRepository) slotCapacity(ctx context.Context, date, slot string) (int, error) {
	raw, err := r.store.Get(ctx, capacityKey(date))
	if err != nil {
		if isNotFound(err) {
			return entity.DefaultSlotCapacity, nil
		}
		return 0, err
	}
	overrides, err := decode(raw, true)
	if err != nil {
		return 0, err
	}
	if limit, ok := overrides[slot]; ok {
		return limit, nil
	}
	return entity.DefaultSlotCapacity, nil
}

// SetCapacities overrides the capacity and the remaining seats for the given
// slots of a date. Used by the admin availability endpoint. The recorded
// capacity is what a later Release caps the slot at.
func (r *AvailabilityRepository) SetCapacities(ctx context.Context, date string, capacities map[string]int) error {
	for slot, seats := range capacities {
		if !entity.ValidTimeSlot(slot) {
			return fmt.Errorf("%w: %q", entity.ErrInvalidTimeSlot, slot)
		}
		if seats < 0 {
			return fmt.Errorf("%w: seats for %s must not be negative", entity.ErrValidation, slot)
		}
	}

	err := r.store.Update(ctx, capacityKey(date), func(current string, exists bool) (string, error) {
		overrides, err := decode(current, exists)
		if err != nil {
			return "", err
		}
		for slot, seats := range capacities {
			overrides[slot] = seats
		}
		return encode(overrides)
	})
	if err != nil {
		return err
	}

	return r.store.Update(ctx, availabilityKey(date), func(current string, exists bool) (string, error) {
		remaining, err := decode(current, exists)
		if err != nil {
			return "", err
		}
		for slot, seats := range capacities {
			remaining[slot] = seats
		}
		return encode(remaining)
	})
}

func (r *AvailabilityRepository) load(ctx context.Context, date string) (map[string]int, error) {
	raw, err := r.store.Get(ctx, availabilityKey(date))
	if err != nil {
		if isNotFound(err) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return decode(raw, true)
}

func decode(raw string, exists bool) (map[string]int, error) {
	if !exists {
		return map[string]int{}, nil
	}
	var remaining map[string]int
	if err := json.Unmarshal([]byte(raw), &remaining); err != nil {
		return nil, fmt.Errorf("corrupt availability row: %w", err)
	}
	if remaining == nil {
		remaining = map[string]int{}
	}
	return remaining, nil
}

func encode(remaining map[string]int) (string, error) {
	out, err := json.Marshal(remaining)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
