package db

import (
	"context"
	"encoding/json"
	"fmt"

	"tourbook/entity"
)

const (
	bookingsIndexKey = "bookings_index"

	// reservedPlaceholder is the value a code key holds between reservation
	// and the booking write. Get treats it as not found.
	reservedPlaceholder = "reserved"
)

// BookingRepository persists bookings under their bare code key, plus an
// index list of codes so bookings can be enumerated (the key-value store has
// no native listing).
type BookingRepository struct {
	store Store
}

func NewBookingRepository(store Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Reserve claims a booking code. The key write is the reservation: once it
// succeeds no other mint can get the same code, and the later Store of the
// full booking overwrites the placeholder.
func (r *BookingRepository) Reserve(ctx context.Context, code string) (bool, error) {
	return r.store.SetNX(ctx, code, reservedPlaceholder)
}

func (r *BookingRepository) Store(ctx context.Context, booking entity.Booking) error {
	raw, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("could not marshal booking %s: %w", booking.ID, err)
	}
	if err := r.store.Set(ctx, booking.ID, string(raw)); err != nil {
		return fmt.Errorf("could not store booking %s: %w", booking.ID, err)
	}
	if err := r.store.RPush(ctx, bookingsIndexKey, booking.ID); err != nil {
		return fmt.Errorf("could not index booking %s: %w", booking.ID, err)
	}
	return nil
}

func (r *BookingRepository) Get(ctx context.Context, id string) (entity.Booking, error) {
	raw, err := r.store.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return entity.Booking{}, entity.ErrBookingNotFound
		}
		return entity.Booking{}, err
	}
	if raw == reservedPlaceholder {
		return entity.Booking{}, entity.ErrBookingNotFound
	}
	var booking entity.Booking
	if err := json.Unmarshal([]byte(raw), &booking); err != nil {
		return entity.Booking{}, fmt.Errorf("corrupt booking %s: %w", id, err)
	}
	return booking, nil
}

func (r *BookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	ids, err := r.store.LRange(ctx, bookingsIndexKey, 0, -1)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := r.store.MGet(ctx, ids...)
	if err != nil {
		return nil, err
	}

	bookings := make([]entity.Booking, 0, len(values))
	for i, raw := range values {
		if raw == "" || raw == reservedPlaceholder {
			continue
		}
		var booking entity.Booking
		if err := json.Unmarshal([]byte(raw), &booking); err != nil {
			return nil, fmt.Errorf("corrupt booking %s: %w", ids[i], err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// MarkCancelled flips the cancellation flag in place. The conditional update
// keeps it consistent with a concurrent AppendAddons.
func (r *BookingRepository) MarkCancelled(ctx context.Context, id string) error {
	return r.mutate(ctx, id, func(b *entity.Booking) {
		b.Cancelled = true
	})
}

// AppendAddons is the only post-creation mutation of a booking's contents:
// priced extras are appended and the total adjusted, nothing else changes.
func (r *BookingRepository) AppendAddons(ctx context.Context, id string, addons []entity.Addon) error {
	return r.mutate(ctx, id, func(b *entity.Booking) {
		for _, addon := range addons {
			b.Addons = append(b.Addons, addon)
			b.TotalPrice += addon.Price
		}
	})
}

func (r *BookingRepository) mutate(ctx context.Context, id string, apply func(*entity.Booking)) error {
	return r.store.Update(ctx, id, func(current string, exists bool) (string, error) {
		if !exists || current == reservedPlaceholder {
			return "", entity.ErrBookingNotFound
		}
		var booking entity.Booking
		if err := json.Unmarshal([]byte(current), &booking); err != nil {
			return "", fmt.Errorf("corrupt booking %s: %w", id, err)
		}
		apply(&booking)
		out, err := json.Marshal(booking)
		return string(out), err
	})
}
