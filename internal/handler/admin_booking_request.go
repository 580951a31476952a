package handler

// HTTP handlers for admins to manage booking requests: create a request
// for one calendar date (which fans out a PENDING submission to each
// target interviewer), list requests with per-status response counts,
// toggle OPEN/CLOSED and reset an individual interviewer's submission.

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/model"
	"github.com/recruitops/interview-booking/internal/queue"
	"github.com/recruitops/interview-booking/internal/repository"
	queue_publisher "github.com/recruitops/interview-booking/internal/service"
)

// AdminRequestHandler groups the repositories used by the booking
// request endpoints.  The BookingRequestRepo's DB handle is used for
// starting transactions.
type AdminRequestHandler struct {
	Requests    *repository.BookingRequestRepo // request rows and summaries
	Submissions *repository.SubmissionRepo     // fan-out and reset of submissions
	Users       *repository.UserRepo           // interviewer validation and emails
}

// NewAdminRequestHandler constructs an AdminRequestHandler.  All
// dependencies must be non-nil.
func NewAdminRequestHandler(requests *repository.BookingRequestRepo, submissions *repository.SubmissionRepo, users *repository.UserRepo) *AdminRequestHandler {
	if requests == nil || submissions == nil || users == nil {
		panic("nil repository passed to NewAdminRequestHandler")
	}
	return &AdminRequestHandler{Requests: requests, Submissions: submissions, Users: users}
}

// createRequestReq is the JSON body for POST /v1/admin/requests.
type createRequestReq struct {
	Date           string   `json:"date"` // "2006-01-02"
	InterviewerIDs []uint64 `json:"interviewer_ids"`
}

// CreateRequest handles POST /v1/admin/requests.  It creates an OPEN
// booking request for the given date and spawns one PENDING submission
// per target interviewer in the same transaction.  Past dates are
// rejected (today is allowed) and at least one interviewer id is
// required; ids that are not active interviewers yield HTTP 400.  After
// the commit an availability event is published per interviewer so each
// one receives an email ask.
func (h *AdminRequestHandler) CreateRequest(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must not be in the past"})
	}
	if len(req.InterviewerIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one interviewer is required"})
	}

	// Dedupe the id list and verify each id is an active interviewer.
	seen := make(map[uint64]bool, len(req.InterviewerIDs))
	ids := make([]uint64, 0, len(req.InterviewerIDs))
	for _, id := range req.InterviewerIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one interviewer is required"})
	}
	ctx := c.Request().Context()
	interviewers := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := h.Users.GetByID(ctx, id)
		if err != nil || u.Role != model.RoleInterviewer || !u.IsActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown interviewer id"})
		}
		interviewers = append(interviewers, u)
	}

	booking := model.BookingRequest{
		RequestDate: date,
		Status:      model.RequestOpen,
		CreatedBy:   adminID,
	}
	tx, err := h.Requests.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Requests.CreateTx(ctx, tx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create request"})
	}
	if err := h.Submissions.CreateBulkPendingTx(ctx, tx, booking.ID, ids); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create submissions"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit request"})
	}
	committed = true

	// Notify interviewers asynchronously.  Publish failures are logged
	// inside the publisher and do not fail the request.
	go func(interviewers []model.User, booking model.BookingRequest) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, u := range interviewers {
			ev := queue.AvailabilityRequestedEvent{
				RequestID:   booking.ID,
				RequestDate: booking.RequestDate.Format(dateLayout),
				Email:       u.Email,
				FullName:    u.FullName,
				RequestedAt: time.Now().UTC().Format(time.RFC3339),
			}
			if err := queue_publisher.PublishAvailabilityRequested(ctx, ev); err != nil {
				log.Printf("availability event for %s not published: %v", u.Email, err)
			}
		}
	}(interviewers, booking)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":           booking.ID,
		"request_date": booking.RequestDate.Format(dateLayout),
		"status":       booking.Status,
		"interviewers": len(ids),
	})
}

// ListRequests handles GET /v1/admin/requests.  It returns all booking
// requests, newest first, each with counts of pending, submitted and
// declined submissions.
func (h *AdminRequestHandler) ListRequests(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Requests.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// CloseRequest handles POST /v1/admin/requests/:id/close.  Closing
// freezes interviewer edits without touching existing submissions.
// Closing an already closed request is a no-op success.
func (h *AdminRequestHandler) CloseRequest(c echo.Context) error {
	return h.setStatus(c, model.RequestClosed)
}

// ReopenRequest handles POST /v1/admin/requests/:id/reopen.  Reopening
// restores interviewer edits, still subject to the edit window.
func (h *AdminRequestHandler) ReopenRequest(c echo.Context) error {
	return h.setStatus(c, model.RequestOpen)
}

func (h *AdminRequestHandler) setStatus(c echo.Context, status string) error {
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	ctx := c.Request().Context()
	if err := h.Requests.SetStatus(ctx, requestID, status); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": requestID, "status": status})
}

// ResetSubmission handles POST
// /v1/admin/requests/:id/submissions/:interviewerId/reset.  It moves an
// interviewer's submission back to PENDING, discarding slots, remarks
// and any decline reason, so the interviewer can respond again.  This is
// the only way out of NOT_AVAILABLE.
func (h *AdminRequestHandler) ResetSubmission(c echo.Context) error {
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	interviewerID, err := pathID(c, "interviewerId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid interviewer id"})
	}
	ctx := c.Request().Context()

	sub, err := h.Submissions.GetByRequestAndInterviewer(ctx, requestID, interviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load submission"})
	}

	tx, err := h.Submissions.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Submissions.ResetTx(ctx, tx, sub.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset submission"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit reset"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"booking_request_id": requestID,
		"interviewer_id":     interviewerID,
		"status":             model.SubmissionPending,
	})
}
