package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"tourbook/bookingcode"
)

const (
	currentPrefixKey = "booking_current_prefix"
	usedPrefixesKey  = "booking_used_prefixes"

	initialPrefix = "AA"
)

func prefixCountKey(prefix string) string {
	return "booking_prefix_count_" + prefix
}

// PrefixRepository persists the rolling booking-code prefix: the active
// prefix, the set of prefixes ever used (never reused), and an atomic
// per-prefix counter of minted codes that stands in for probing the whole
// sequence range for a gap.
type PrefixRepository struct {
	store Store
}

func NewPrefixRepository(store Store) *PrefixRepository {
	return &PrefixRepository{store: store}
}

// Active returns the active prefix, lazily initializing it to "AA". The
// initialization is a SetNX so concurrent first requests agree on one value,
// and an initialized prefix is immediately part of the used set.
func (r *PrefixRepository) Active(ctx context.Context) (string, error) {
	created, err := r.store.SetNX(ctx, currentPrefixKey, initialPrefix)
	if err != nil {
		return "", fmt.Errorf("could not initialize active prefix: %w", err)
	}
	if created {
		if err := r.appendUsed(ctx, initialPrefix); err != nil {
			return "", err
		}
	}
	return r.store.Get(ctx, currentPrefixKey)
}

// Advance moves the active prefix past from. If another request advanced
// first the stored prefix no longer equals from and is returned as is, so
// concurrent advances consume exactly one prefix.
func (r *PrefixRepository) Advance(ctx context.Context, from string) (string, error) {
	var active string
	err := r.store.Update(ctx, currentPrefixKey, func(current string, exists bool) (string, error) {
		if exists && current != from {
			active = current
			return current, nil
		}
		active = bookingcode.NextPrefix(from)
		return active, nil
	})
	if err != nil {
		return "", fmt.Errorf("could not advance prefix from %s: %w", from, err)
	}
	if err := r.appendUsed(ctx, active); err != nil {
		return "", err
	}
	return active, nil
}

func (r *PrefixRepository) MarkMinted(ctx context.Context, prefix string) error {
	_, err := r.store.IncrBy(ctx, prefixCountKey(prefix), 1)
	return err
}

func (r *PrefixRepository) IsFull(ctx context.Context, prefix string) (bool, error) {
	raw, err := r.store.Get(ctx, prefixCountKey(prefix))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return false, fmt.Errorf("corrupt prefix counter for %s: %w", prefix, err)
	}
	return count >= bookingcode.PrefixCapacity, nil
}

// UsedPrefixes returns every prefix ever activated, oldest first.
func (r *PrefixRepository) UsedPrefixes(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, usedPrefixesKey)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var used []string
	if err := json.Unmarshal([]byte(raw), &used); err != nil {
		return nil, fmt.Errorf("corrupt used prefix set: %w", err)
	}
	return used, nil
}

func (r *PrefixRepository) appendUsed(ctx context.Context, prefix string) error {
	err := r.store.Update(ctx, usedPrefixesKey, func(current string, exists bool) (string, error) {
		var used []string
		if exists {
			if err := json.Unmarshal([]byte(current), &used); err != nil {
				return "", fmt.Errorf("corrupt used prefix set: %w", err)
			}
		}
		for _, u := range used {
			if u == prefix {
				return current, nil
			}
		}
		out, err := json.Marshal(append(used, prefix))
		return string(out), err
	})
	if err != nil {
		return fmt.Errorf("could not record used prefix %s: %w", prefix, err)
	}
	return nil
}
