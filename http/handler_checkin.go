package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type postCheckInRequest struct {
	BookingID      string `json:"booking_id"`
	PassengerIndex int    `json:"passenger_index"`
	Location       string `json:"location"`
	Destination    string `json:"destination"`
}

func (s *Server) PostCheckIn(c echo.Context) error {
	var request postCheckInRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	record, err := s.tracker.RecordScan(
		c.Request().Context(),
		request.BookingID,
		request.PassengerIndex,
		request.Destination,
		request.Location,
	)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, record)
}

func (s *Server) GetCheckIn(c echo.Context) error {
	passengerIndex, err := strconv.Atoi(c.Param("passengerIndex"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "passenger index must be a number")
	}

	record, err := s.tracker.Current(c.Request().Context(), c.Param("bookingId"), passengerIndex)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, record)
}
