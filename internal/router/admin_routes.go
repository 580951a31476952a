package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/handler"
	"github.com/recruitops/interview-booking/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, r *handler.AdminRequestHandler, p *handler.AdminPoolHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Booking requests ----
	g.POST("/requests", r.CreateRequest)
	g.GET("/requests", r.ListRequests)
	g.POST("/requests/:id/close", r.CloseRequest)
	g.POST("/requests/:id/reopen", r.ReopenRequest)
	g.POST("/requests/:id/submissions/:interviewerId/reset", r.ResetSubmission)

	// ---- Slot pool ----
	g.GET("/submitted-slots", p.ListSubmittedSlots)

	// ---- Booking links ----
	g.POST("/links", p.CreateLink)
	g.GET("/links", p.ListLinks)
	g.GET("/links/:id", p.GetLink)
	g.POST("/links/:id/students", p.AuthorizeStudents)
	g.POST("/links/:id/reminders", p.SendReminders)
	g.POST("/links/:id/manual-book", p.ManualBook)
}
