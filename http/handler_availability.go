package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tourbook/entity"
)

func (s *Server) GetAvailability(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(entity.DateFormat, date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	remaining, err := s.availability.Get(c.Request().Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, remaining)
}

func (s *Server) PostAvailability(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(entity.DateFormat, date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	var capacities map[string]int
	if err := c.Bind(&capacities); err != nil {
		return err
	}

	if err := s.availability.SetCapacities(c.Request().Context(), date, capacities); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
