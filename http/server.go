package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"tourbook/booking"
	"tourbook/entity"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req booking.Request) (entity.Booking, error)
	CancelBooking(ctx context.Context, id string, checkedIn int) error
}

type BookingsRepository interface {
	Get(ctx context.Context, id string) (entity.Booking, error)
	FindAll(ctx context.Context) ([]entity.Booking, error)
}

type CheckInTracker interface {
	RecordScan(ctx context.Context, bookingID string, passengerIndex int, destination, location string) (entity.CheckInRecord, error)
	Current(ctx context.Context, bookingID string, passengerIndex int) (entity.CheckInRecord, error)
	CheckedInCount(ctx context.Context, booking entity.Booking) (int, error)
	DestinationStats(ctx context.Context, date string) (map[string]int, error)
}

type AvailabilityRepository interface {
	Get(ctx context.Context, date string) (map[string]int, error)
	SetCapacities(ctx context.Context, date string, capacities map[string]int) error
}

type Server struct {
	addr         string
	e            *echo.Echo
	bookingSvc   BookingService
	bookingsRepo BookingsRepository
	tracker      CheckInTracker
	availability AvailabilityRepository
}

func NewServer(
	addr string,
	bookingSvc BookingService,
	bookingsRepo BookingsRepository,
	tracker CheckInTracker,
	availability AvailabilityRepository,
) *Server {
	e := echoHTTP.NewEcho()
	e.Use(otelecho.Middleware("tourbook"))
	e.Use(correlationIDMiddleware)

	server := &Server{
		addr:         addr,
		e:            e,
		bookingSvc:   bookingSvc,
		bookingsRepo: bookingsRepo,
		tracker:      tracker,
		availability: availability,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/bookings", server.PostBooking)
	e.GET("/bookings", server.GetBookings)
	e.GET("/bookings/:id", server.GetBooking)
	e.POST("/bookings/:id/cancel", server.CancelBooking)

	e.POST("/checkin", server.PostCheckIn)
	e.GET("/checkins/:bookingId/:passengerIndex", server.GetCheckIn)

	e.GET("/availability/:date", server.GetAvailability)
	e.POST("/availability/:date", server.PostAvailability)

	e.GET("/destinations/stats", server.GetDestinationStats)

	return server
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()

	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func correlationIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		correlationID := c.Request().Header.Get("Correlation-ID")
		if correlationID == "" {
			correlationID = shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(c.Request().Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{"correlation_id": correlationID}))
		c.SetRequest(c.Request().WithContext(ctx))

		c.Response().Header().Set("Correlation-ID", correlationID)
		return next(c)
	}
}

// httpError maps domain errors onto HTTP statuses; anything unmapped bubbles
// up as a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInsufficientCapacity),
		errors.Is(err, entity.ErrPaymentNotVerified),
		errors.Is(err, entity.ErrInvalidTimeSlot),
		errors.Is(err, entity.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrCheckInNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrBookingNotCancelable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}
