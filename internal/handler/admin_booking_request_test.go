package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/dbtest"
	"github.com/recruitops/interview-booking/internal/repository"
)

// An interviewer_ids list whose entries are all zero survives the
// non-empty check but is fully discarded by dedupe.  The request must be
// rejected before any row is written; otherwise an open request with no
// submissions appears.
func TestCreateRequest_AllZeroInterviewerIDs(t *testing.T) {
	db, state, cleanup := dbtest.New(t, nil)
	defer cleanup()

	h := NewAdminRequestHandler(
		repository.NewBookingRequestRepo(db),
		repository.NewSubmissionRepo(db),
		repository.NewUserRepo(db),
	)

	date := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
	body := fmt.Sprintf(`{"date":%q,"interviewer_ids":[0,0]}`, date)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	if err := h.CreateRequest(c); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("statements were issued for a rejected request: %v", err)
	}
}
