// Package checkin tracks passenger ticket scans. Each (booking, passenger)
// pair has exactly one current record per tour date, updated in place on
// repeat scans, while the per-day destination tallies and the scan log only
// ever grow: the first answers "where is this passenger now", the second "how
// many scans named each destination today".
package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"tourbook/db"
	"tourbook/entity"
	"tourbook/metrics"
)

func currentKey(bookingID string, passengerIndex int, date string) string {
	return fmt.Sprintf("checkin_%s_%d_%s", bookingID, passengerIndex, date)
}

func historyKey(bookingID string, passengerIndex int) string {
	return fmt.Sprintf("checkins_%s_%d", bookingID, passengerIndex)
}

func tallyKey(date, destination string) string {
	return fmt.Sprintf("destination_%s_%s", date, destination)
}

func logKey(date string) string {
	return "destination_log_" + date
}

type BookingGetter interface {
	Get(ctx context.Context, id string) (entity.Booking, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Tracker struct {
	store    db.Store
	bookings BookingGetter
	eventBus EventPublisher

	now func() time.Time
}

func NewTracker(store db.Store, bookings BookingGetter, eventBus EventPublisher) *Tracker {
	return &Tracker{
		store:    store,
		bookings: bookings,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// RecordScan processes one QR scan of a passenger ticket.
//
// The first scan of a passenger creates the current record with an immutable
// timestamp and appends it to the passenger's history. A repeat scan keeps
// that timestamp, moves destination/location/updatedAt, and overwrites the
// last history entry in place. Either way the destination tally for the scan
// date is incremented and a log entry appended; a failure after the current
// record is written leaves the tally ahead by at most one scan, which the
// consumers of the tally tolerate.
func (t *Tracker) RecordScan(ctx context.Context, bookingID string, passengerIndex int, destination, location string) (entity.CheckInRecord, error) {
	booking, err := t.bookings.Get(ctx, bookingID)
	if err != nil {
		return entity.CheckInRecord{}, err
	}
	if passengerIndex < 0 || passengerIndex >= len(booking.Passengers) {
		return entity.CheckInRecord{}, fmt.Errorf("%w: passenger index %d out of range for booking %s",
			entity.ErrValidation, passengerIndex, bookingID)
	}
	if destination == "" {
		return entity.CheckInRecord{}, fmt.Errorf("%w: destination is required", entity.ErrValidation)
	}

	now := t.now().UTC()

	var (
		record  entity.CheckInRecord
		created bool
	)
	key := currentKey(bookingID, passengerIndex, booking.SelectedDate)
	err = t.store.Update(ctx, key, func(current string, exists bool) (string, error) {
		if !exists {
			created = true
			record = entity.CheckInRecord{
				BookingID:      bookingID,
				PassengerIndex: passengerIndex,
				Timestamp:      now,
				Location:       location,
				Destination:    destination,
				UpdatedAt:      now,
			}
		} else {
			created = false
			if err := json.Unmarshal([]byte(current), &record); err != nil {
				return "", fmt.Errorf("corrupt check-in record %s: %w", key, err)
			}
			record.Destination = destination
			record.Location = location
			record.UpdatedAt = now
		}
		out, err := json.Marshal(record)
		return string(out), err
	})
	if err != nil {
		return entity.CheckInRecord{}, err
	}

	if err := t.writeHistory(ctx, bookingID, passengerIndex, record, created); err != nil {
		return entity.CheckInRecord{}, err
	}

	scanDate := now.Format(entity.DateFormat)
	if _, err := t.store.IncrBy(ctx, tallyKey(scanDate, destination), 1); err != nil {
		return entity.CheckInRecord{}, fmt.Errorf("could not increment destination tally: %w", err)
	}

	logEntry, err := json.Marshal(entity.DestinationLogEntry{
		BookingID:      bookingID,
		PassengerIndex: passengerIndex,
		Destination:    destination,
		Location:       location,
		At:             now,
	})
	if err != nil {
		return entity.CheckInRecord{}, err
	}
	if err := t.store.RPush(ctx, logKey(scanDate), string(logEntry)); err != nil {
		return entity.CheckInRecord{}, fmt.Errorf("could not append scan log: %w", err)
	}

	metrics.CheckIns.WithLabelValues(fmt.Sprintf("%t", !created)).Inc()

	err = t.eventBus.Publish(ctx, entity.PassengerCheckedIn{
		Header:         entity.NewEventHeader(),
		BookingID:      bookingID,
		PassengerIndex: passengerIndex,
		Destination:    destination,
		Location:       location,
		SelectedDate:   booking.SelectedDate,
		Repeat:         !created,
	})
	if err != nil {
		// The scan is already durable; the ops manifest catches up from the
		// next event.
		log.FromContext(ctx).WithError(err).Error("could not publish check-in event")
	}

	return record, nil
}

func (t *Tracker) writeHistory(ctx context.Context, bookingID string, passengerIndex int, record entity.CheckInRecord, created bool) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := historyKey(bookingID, passengerIndex)
	if created {
		if err := t.store.RPush(ctx, key, string(raw)); err != nil {
			return fmt.Errorf("could not append check-in history: %w", err)
		}
		return nil
	}

	length, err := t.store.LLen(ctx, key)
	if err != nil {
		return err
	}
	if length == 0 {
		// Record predates the history list (or the list was lost); recreate
		// instead of failing the scan.
		if err := t.store.RPush(ctx, key, string(raw)); err != nil {
			return fmt.Errorf("could not append check-in history: %w", err)
		}
		return nil
	}
	if err := t.store.LSet(ctx, key, -1, string(raw)); err != nil {
		return fmt.Errorf("could not update check-in history: %w", err)
	}
	return nil
}

// Current returns the current check-in record of a passenger for the booked
// tour date.
func (t *Tracker) Current(ctx context.Context, bookingID string, passengerIndex int) (entity.CheckInRecord, error) {
	booking, err := t.bookings.Get(ctx, bookingID)
	if err != nil {
		return entity.CheckInRecord{}, err
	}
	raw, err := t.store.Get(ctx, currentKey(bookingID, passengerIndex, booking.SelectedDate))
	if err != nil {
		if isNotFound(err) {
			return entity.CheckInRecord{}, entity.ErrCheckInNotFound
		}
		return entity.CheckInRecord{}, err
	}
	var record entity.CheckInRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return entity.CheckInRecord{}, fmt.Errorf("corrupt check-in record: %w", err)
	}
	return record, nil
}

// CheckedInCount counts the passengers of a booking that have at least one
// scan. It feeds the derived booking status.
func (t *Tracker) CheckedInCount(ctx context.Context, booking entity.Booking) (int, error) {
	if len(booking.Passengers) == 0 {
		return 0, nil
	}
	keys := make([]string, len(booking.Passengers))
	for i := range booking.Passengers {
		keys[i] = currentKey(booking.ID, i, booking.SelectedDate)
	}
	values, err := t.store.MGet(ctx, keys...)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, v := range values {
		if v != "" {
			count++
		}
	}
	return count, nil
}

// DestinationStats returns the additive per-destination scan tallies for a
// date.
func (t *Tracker) DestinationStats(ctx context.Context, date string) (map[string]int, error) {
	prefix := fmt.Sprintf("destination_%s_", date)
	keys, err := t.store.Keys(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return stats, nil
	}
	values, err := t.store.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		if values[i] == "" {
			continue
		}
		count, err := strconv.Atoi(values[i])
		if err != nil {
			return nil, fmt.Errorf("corrupt destination tally %s: %w", key, err)
		}
		stats[strings.TrimPrefix(key, prefix)] = count
	}
	return stats, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrKeyNotFound)
}
