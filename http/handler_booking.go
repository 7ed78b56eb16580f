package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"tourbook/booking"
	"tourbook/entity"
)

type postBookingRequest struct {
	Passengers      []entity.Passenger `json:"passengers"`
	SelectedDate    string             `json:"selected_date"`
	TimeSlot        string             `json:"time_slot"`
	Contact         entity.ContactInfo `json:"contact"`
	PaymentIntentID string             `json:"payment_intent_id"`
}

type bookingResponse struct {
	entity.Booking
	Status entity.BookingStatus `json:"status"`
}

func (s *Server) PostBooking(c echo.Context) error {
	var request postBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	created, err := s.bookingSvc.CreateBooking(c.Request().Context(), booking.Request{
		Passengers:      request.Passengers,
		SelectedDate:    request.SelectedDate,
		TimeSlot:        request.TimeSlot,
		Contact:         request.Contact,
		PaymentIntentID: request.PaymentIntentID,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, bookingResponse{
		Booking: created,
		Status:  created.Status(0),
	})
}

func (s *Server) GetBookings(c echo.Context) error {
	bookings, err := s.bookingsRepo.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("could not list bookings: %w", err)
	}

	response := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		checkedIn, err := s.tracker.CheckedInCount(c.Request().Context(), b)
		if err != nil {
			return fmt.Errorf("could not count check-ins for %s: %w", b.ID, err)
		}
		response = append(response, bookingResponse{
			Booking: b,
			Status:  b.Status(checkedIn),
		})
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Server) GetBooking(c echo.Context) error {
	b, err := s.bookingsRepo.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	checkedIn, err := s.tracker.CheckedInCount(c.Request().Context(), b)
	if err != nil {
		return fmt.Errorf("could not count check-ins for %s: %w", b.ID, err)
	}

	return c.JSON(http.StatusOK, bookingResponse{
		Booking: b,
		Status:  b.Status(checkedIn),
	})
}

func (s *Server) CancelBooking(c echo.Context) error {
	id := c.Param("id")

	b, err := s.bookingsRepo.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	checkedIn, err := s.tracker.CheckedInCount(c.Request().Context(), b)
	if err != nil {
		return fmt.Errorf("could not count check-ins for %s: %w", id, err)
	}

	if err := s.bookingSvc.CancelBooking(c.Request().Context(), id, checkedIn); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
