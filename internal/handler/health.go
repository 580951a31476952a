package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds with a plain "ok" so load balancers and uptime probes
// can verify the service is alive without touching the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
