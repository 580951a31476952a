package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/handler"
	"github.com/recruitops/interview-booking/internal/middleware"
)

// RegisterInterviewer registers INTERVIEWER-scoped endpoints under
// /v1/interviewer.  All routes require a valid JWT and the INTERVIEWER
// role; each handler additionally scopes its reads and writes to the
// authenticated interviewer's own submissions.
func RegisterInterviewer(e *echo.Echo, i *handler.InterviewerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/interviewer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("INTERVIEWER"),
	)

	g.GET("/requests", i.ListRequests)
	g.GET("/requests/:id", i.GetSubmission)
	g.POST("/requests/:id/slots", i.SubmitSlots)
	g.POST("/requests/:id/decline", i.Decline)
}
