package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Counter reports how many visits are live.
type Counter interface {
	Len() int
}

// Health is the health-check endpoint used by load balancers and
// monitoring.  It returns 200 with the number of live visits.
func Health(visits Counter) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "visits": visits.Len()})
	}
}
