package handler

// Shared helpers for the HTTP handlers.  Handlers read the authenticated
// user's identity from the echo context keys set by the JWT middleware
// and parse path/query values into the types the repositories expect.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's id from the echo context.
// The JWT middleware stores the value under "user_id"; depending on how
// the claim was decoded it may arrive as a float64, int64, uint64 or
// string, so all four are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch id := v.(type) {
	case float64:
		return uint64(id), nil
	case int64:
		return uint64(id), nil
	case uint64:
		return id, nil
	case string:
		parsed, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid user id in token: %w", err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("user id missing from context")
	}
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// dateLayout is the wire format for all calendar dates.
const dateLayout = "2006-01-02"

// bookingURL builds the public URL a student opens for a link.
func bookingURL(base, publicID string) string {
	return strings.TrimRight(base, "/") + "/booking/" + publicID
}

// parseDate parses a "YYYY-MM-DD" value into a UTC day-precision time.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
