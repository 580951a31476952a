package handler

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/dbtest"
	"github.com/recruitops/interview-booking/internal/repository"
)

// verifyEmailSteps scripts the read-only statement sequence one
// VerifyEmail call issues for an already-booked student: resolve the
// link, load the invitation, load the existing booking and resolve the
// interviewer's name.  Every step is a query; any write would fail the
// script.
func verifyEmailSteps() []*dbtest.Step {
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	interviewDate := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	return []*dbtest.Step{
		{
			Kind:    dbtest.KindQuery,
			Pattern: regexp.MustCompile(`SELECT id, public_id, created_by, created_at FROM booking_links WHERE public_id = \?`),
			Args:    []driver.Value{"pl_7f3k"},
			Columns: []string{"id", "public_id", "created_by", "created_at"},
			Rows:    [][]driver.Value{{int64(5), "pl_7f3k", int64(1), created}},
		},
		{
			Kind:    dbtest.KindQuery,
			Pattern: regexp.MustCompile(`FROM invitations WHERE booking_link_id = \? AND email = \?`),
			Args:    []driver.Value{int64(5), "jane@x.com"},
			Columns: []string{"id", "booking_link_id", "email", "full_name", "domain", "hiring_name", "external_id", "mobile", "resume_link", "interview_ref", "booking_status", "created_at"},
			Rows: [][]driver.Value{{
				int64(42), int64(5), "jane@x.com", "Jane Roe", "Backend", "Campus 2026",
				"APP-9", "+15550100", "", "iv-abc", "BOOKED", created,
			}},
		},
		{
			Kind:    dbtest.KindQuery,
			Pattern: regexp.MustCompile(`FROM student_bookings WHERE booking_link_id = \? AND student_email = \?`),
			Args:    []driver.Value{int64(5), "jane@x.com"},
			Columns: []string{"id", "booking_link_id", "pool_entry_id", "student_email", "student_name", "student_phone", "interviewer_id", "interview_date", "start_time", "end_time", "created_at"},
			Rows: [][]driver.Value{{
				int64(77), int64(5), int64(9), "jane@x.com", "Jane Roe", "+15550100",
				int64(11), interviewDate, "10:00", "10:30", created,
			}},
		},
		{
			Kind:    dbtest.KindQuery,
			Pattern: regexp.MustCompile(`FROM users WHERE id=\? LIMIT 1`),
			Args:    []driver.Value{int64(11)},
			Columns: []string{"id", "email", "full_name", "password_hash", "role", "is_active", "created_at", "updated_at"},
			Rows:    [][]driver.Value{{int64(11), "ivan@corp.com", "Ivan Petrov", "x", "INTERVIEWER", int64(1), created, created}},
		},
	}
}

// callVerifyEmail runs the handler against a fresh echo context and
// decodes the JSON response.
func callVerifyEmail(t *testing.T, h *PublicHandler, publicID, body string) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("publicId")
	c.SetParamValues(publicID)
	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec.Code, resp
}

// Verifying an already-booked email twice must return the same booking
// both times and never touch the invitation or booking tables with a
// write.  The script below contains only reads; a second booking insert
// or a status flip would surface as an unexpected statement.
func TestVerifyEmail_AlreadyBookedIsRepeatable(t *testing.T) {
	steps := append(verifyEmailSteps(), verifyEmailSteps()...)
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	h := NewPublicHandler(
		repository.NewBookingLinkRepo(db),
		repository.NewInvitationRepo(db),
		repository.NewStudentBookingRepo(db),
		repository.NewUserRepo(db),
	)

	// Mixed case and padding in the body must normalize to the stored
	// email; the scripted args assert the lowered form reaches the DB.
	body := `{"email":"  Jane@X.com  "}`

	code1, resp1 := callVerifyEmail(t, h, "pl_7f3k", body)
	if code1 != http.StatusOK {
		t.Fatalf("first call status: got %d, want %d", code1, http.StatusOK)
	}
	if resp1["already_booked"] != true {
		t.Fatalf("first call already_booked: got %v, want true", resp1["already_booked"])
	}
	if resp1["full_name"] != "Jane Roe" {
		t.Fatalf("first call full_name: got %v, want Jane Roe", resp1["full_name"])
	}

	code2, resp2 := callVerifyEmail(t, h, "pl_7f3k", body)
	if code2 != http.StatusOK {
		t.Fatalf("second call status: got %d, want %d", code2, http.StatusOK)
	}
	if resp2["already_booked"] != true {
		t.Fatalf("second call already_booked: got %v, want true", resp2["already_booked"])
	}
	if !reflect.DeepEqual(resp1["booking"], resp2["booking"]) {
		t.Fatalf("bookings differ across calls:\nfirst:  %v\nsecond: %v", resp1["booking"], resp2["booking"])
	}

	booking, ok := resp1["booking"].(map[string]interface{})
	if !ok {
		t.Fatalf("booking shape: got %T", resp1["booking"])
	}
	if booking["interviewer"] != "Ivan Petrov" {
		t.Fatalf("interviewer: got %v, want Ivan Petrov", booking["interviewer"])
	}
	if booking["interview_date"] != "2026-09-04" {
		t.Fatalf("interview_date: got %v, want 2026-09-04", booking["interview_date"])
	}

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}
