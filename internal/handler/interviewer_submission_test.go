package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/dbtest"
	"github.com/recruitops/interview-booking/internal/repository"
)

// A decline reason made of whitespace only is no reason at all; the
// handler must reject it before loading the request.
func TestDecline_WhitespaceOnlyReason(t *testing.T) {
	db, state, cleanup := dbtest.New(t, nil)
	defer cleanup()

	h := NewInterviewerHandler(
		repository.NewBookingRequestRepo(db),
		repository.NewSubmissionRepo(db),
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.Decline(c); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("statements were issued for a rejected decline: %v", err)
	}
}
