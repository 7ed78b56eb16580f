package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tourbook/entity"
)

// GetDestinationStats returns the additive per-destination scan tallies for a
// day, defaulting to today.
func (s *Server) GetDestinationStats(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format(entity.DateFormat)
	} else if _, err := time.Parse(entity.DateFormat, date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	stats, err := s.tracker.DestinationStats(c.Request().Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":         date,
		"destinations": stats,
	})
}
