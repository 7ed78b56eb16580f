package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/samber/lo"

	"tourbook/db"
	"tourbook/entity"
	"tourbook/metrics"
)

// Ticket prices per passenger type. Priced add-ons come on top via
// AppendAddons.
const (
	AdultPrice = 35.0
	ChildPrice = 20.0
)

type Request struct {
	Passengers      []entity.Passenger
	SelectedDate    string
	TimeSlot        string
	Contact         entity.ContactInfo
	PaymentIntentID string
}

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, paymentIntentID string) (bool, error)
}

type CodeMinter interface {
	Mint(ctx context.Context) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Service struct {
	availability *db.AvailabilityRepository
	bookings     *db.BookingRepository
	minter       CodeMinter
	payments     PaymentVerifier
	eventBus     EventPublisher

	now func() time.Time
}

func NewService(
	availability *db.AvailabilityRepository,
	bookings *db.BookingRepository,
	minter CodeMinter,
	payments PaymentVerifier,
	eventBus EventPublisher,
) *Service {
	return &Service{
		availability: availability,
		bookings:     bookings,
		minter:       minter,
		payments:     payments,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

// CreateBooking runs the booking chain: validate, verify payment, reserve
// seats, mint a code, issue QR payloads, persist, publish. Every check that
// can reject the request happens before the first write, and a failure after
// the seat reservation releases the seats again.
func (s *Service) CreateBooking(ctx context.Context, req Request) (entity.Booking, error) {
	if err := validate(req); err != nil {
		metrics.BookingsRejected.WithLabelValues("validation").Inc()
		return entity.Booking{}, err
	}

	verified, err := s.payments.VerifyPayment(ctx, req.PaymentIntentID)
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not verify payment: %w", err)
	}
	if !verified {
		metrics.BookingsRejected.WithLabelValues("payment").Inc()
		return entity.Booking{}, entity.ErrPaymentNotVerified
	}

	count := len(req.Passengers)
	if err := s.availability.CheckAndReserve(ctx, req.SelectedDate, req.TimeSlot, count); err != nil {
		metrics.BookingsRejected.WithLabelValues("capacity").Inc()
		return entity.Booking{}, err
	}

	code, err := s.minter.Mint(ctx)
	if err != nil {
		s.releaseSeats(ctx, req.SelectedDate, req.TimeSlot, count)
		return entity.Booking{}, fmt.Errorf("could not mint booking code: %w", err)
	}

	booking := entity.Booking{
		ID:            code,
		Passengers:    req.Passengers,
		SelectedDate:  req.SelectedDate,
		TimeSlot:      req.TimeSlot,
		Contact:       req.Contact,
		TotalPrice:    totalPrice(req.Passengers),
		QRCodes:       entity.IssueTickets(code, count),
		PaymentStatus: entity.PaymentVerified,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.bookings.Store(ctx, booking); err != nil {
		s.releaseSeats(ctx, req.SelectedDate, req.TimeSlot, count)
		return entity.Booking{}, fmt.Errorf("could not store booking: %w", err)
	}

	err = s.eventBus.Publish(ctx, entity.BookingMade{
		Header:        entity.NewEventHeader(),
		BookingID:     booking.ID,
		Passengers:    count,
		SelectedDate:  booking.SelectedDate,
		TimeSlot:      booking.TimeSlot,
		CustomerEmail: booking.Contact.Email,
		TotalPrice:    booking.TotalPrice,
		QRCodes:       booking.QRCodes,
	})
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not publish booking event: %w", err)
	}

	metrics.BookingsCreated.Inc()
	log.FromContext(ctx).
		WithField("booking_id", booking.ID).
		WithField("date", booking.SelectedDate).
		WithField("time_slot", booking.TimeSlot).
		WithField("passengers", count).
		Info("Booking created")

	return booking, nil
}

// CancelBooking is the admin cancellation flow: only bookings nobody has
// checked in on can be cancelled, and cancelling gives the seats back.
func (s *Service) CancelBooking(ctx context.Context, id string, checkedIn int) error {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status(checkedIn) {
	case entity.StatusCreated, entity.StatusConfirmed:
	default:
		return fmt.Errorf("%w: booking %s is %s", entity.ErrBookingNotCancelable, id, booking.Status(checkedIn))
	}

	if err := s.bookings.MarkCancelled(ctx, id); err != nil {
		return err
	}
	if err := s.availability.Release(ctx, booking.SelectedDate, booking.TimeSlot, len(booking.Passengers)); err != nil {
		return fmt.Errorf("could not release seats: %w", err)
	}

	err = s.eventBus.Publish(ctx, entity.BookingCancelled{
		Header:       entity.NewEventHeader(),
		BookingID:    id,
		SelectedDate: booking.SelectedDate,
		TimeSlot:     booking.TimeSlot,
		Passengers:   len(booking.Passengers),
	})
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("could not publish cancellation event")
	}
	return nil
}

func (s *Service) releaseSeats(ctx context.Context, date, slot string, count int) {
	if err := s.availability.Release(ctx, date, slot, count); err != nil {
		log.FromContext(ctx).
			WithError(err).
			WithField("date", date).
			WithField("time_slot", slot).
			Error("could not release seats after failed booking")
	}
}

func validate(req Request) error {
	if len(req.Passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", entity.ErrValidation)
	}
	if _, err := time.Parse(entity.DateFormat, req.SelectedDate); err != nil {
		return fmt.Errorf("%w: selected_date must be YYYY-MM-DD", entity.ErrValidation)
	}
	if !entity.ValidTimeSlot(req.TimeSlot) {
		return fmt.Errorf("%w: %q", entity.ErrInvalidTimeSlot, req.TimeSlot)
	}
	if req.Contact.Email == "" {
		return fmt.Errorf("%w: contact email is required", entity.ErrValidation)
	}
	if req.PaymentIntentID == "" {
		return fmt.Errorf("%w: payment_intent_id is required", entity.ErrValidation)
	}
	return nil
}

func totalPrice(passengers []entity.Passenger) float64 {
	return lo.SumBy(passengers, func(p entity.Passenger) float64 {
		if p.Type == entity.PassengerChild {
			return ChildPrice
		}
		return AdultPrice
	})
}
