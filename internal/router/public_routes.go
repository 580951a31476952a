package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/recruitops/interview-booking/internal/config"
	"github.com/recruitops/interview-booking/internal/handler"
	"github.com/recruitops/interview-booking/internal/middleware"
)

// RegisterPublic registers the unauthenticated student booking surface
// under /v1/public.  These routes carry no JWT; the token-bucket rate
// limiter is the only gate, throttling allowlist probing and slot
// hammering per client IP.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1/public",
		middleware.NewTokenBucket(rlCfg, rdb),
	)

	g.POST("/links/:publicId/verify-email", p.VerifyEmail)
	g.GET("/links/:publicId/slots", p.ListSlots)
	g.POST("/links/:publicId/book", p.Book)
}
