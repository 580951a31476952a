package handler

// HTTP handlers for the interviewer side of the pipeline.  Interviewers
// see an inbox of booking requests targeted at them and respond to each
// one by submitting free slots or declining with a reason.  Responses
// are accepted only while the request is OPEN and its date is within the
// edit window (yesterday or later); resubmitting replaces the previous
// slot list wholesale.

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/model"
	"github.com/recruitops/interview-booking/internal/repository"
)

// InterviewerHandler groups the repositories used by the interviewer
// endpoints.  The SubmissionRepo's DB handle is used for starting
// transactions.
type InterviewerHandler struct {
	Requests    *repository.BookingRequestRepo // request lookups for status and date checks
	Submissions *repository.SubmissionRepo     // the interviewer's own submissions
}

// NewInterviewerHandler constructs an InterviewerHandler.  All
// dependencies must be non-nil.
func NewInterviewerHandler(requests *repository.BookingRequestRepo, submissions *repository.SubmissionRepo) *InterviewerHandler {
	if requests == nil || submissions == nil {
		panic("nil repository passed to NewInterviewerHandler")
	}
	return &InterviewerHandler{Requests: requests, Submissions: submissions}
}

// ListRequests handles GET /v1/interviewer/requests.  It returns every
// booking request that has a submission row for the authenticated
// interviewer, newest first, each annotated with whether it can still be
// edited right now.
func (h *InterviewerHandler) ListRequests(c echo.Context) error {
	interviewerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	rows, err := h.Submissions.ListForInterviewer(ctx, interviewerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load requests"})
	}

	now := time.Now().UTC()
	items := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		items = append(items, echo.Map{
			"booking_request_id": r.BookingRequestID,
			"request_date":       r.RequestDate.Format(dateLayout),
			"request_status":     r.RequestStatus,
			"submission_status":  r.SubmissionStatus,
			"submitted_at":       r.SubmittedAt,
			"editable":           r.RequestStatus == model.RequestOpen && model.EditableOn(r.RequestDate, now),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetSubmission handles GET /v1/interviewer/requests/:id.  It returns
// the interviewer's own submission for the request, including previously
// submitted slots so the client can prefill an edit form.
func (h *InterviewerHandler) GetSubmission(c echo.Context) error {
	interviewerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	ctx := c.Request().Context()

	req, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load request"})
	}
	sub, err := h.Submissions.GetByRequestAndInterviewer(ctx, requestID, interviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no submission for this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load submission"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking_request_id": req.ID,
		"request_date":       req.RequestDate.Format(dateLayout),
		"request_status":     req.Status,
		"status":             sub.Status,
		"slots":              sub.Slots,
		"remarks":            sub.Remarks,
		"decline_reason":     sub.DeclineReason,
		"submitted_at":       sub.SubmittedAt,
		"editable":           req.Status == model.RequestOpen && model.EditableOn(req.RequestDate, time.Now().UTC()),
	})
}

// submitReq is the JSON body for POST /v1/interviewer/requests/:id/slots.
type submitReq struct {
	Slots   []model.TimeSlot `json:"slots"`
	Remarks string           `json:"remarks"`
}

// SubmitSlots handles POST /v1/interviewer/requests/:id/slots.  It
// records (or replaces) the interviewer's free slots for the request.
// It returns 409 when the request is CLOSED or its edit window has
// expired, 400 when any slot is malformed and 404 when no submission row
// exists for the caller.  The whole replace runs in one transaction so a
// failed resubmit never leaves a half-updated slot list behind.
func (h *InterviewerHandler) SubmitSlots(c echo.Context) error {
	interviewerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one slot is required"})
	}
	for _, s := range req.Slots {
		if err := s.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	ctx := c.Request().Context()

	booking, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load request"})
	}
	if booking.Status != model.RequestOpen {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking request is closed"})
	}
	if !model.EditableOn(booking.RequestDate, time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "edit window has expired for this date"})
	}

	sub, err := h.Submissions.GetByRequestAndInterviewer(ctx, requestID, interviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no submission for this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load submission"})
	}

	// Replace status, remarks and the slot list atomically.
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
	if err := h.Submissions.SubmitTx(ctx, tx, sub.ID, req.Slots, req.Remarks); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save submission"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit submission"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"booking_request_id": requestID,
		"status":             model.SubmissionSubmitted,
		"slots":              req.Slots,
	})
}

// declineReq is the JSON body for POST /v1/interviewer/requests/:id/decline.
type declineReq struct {
	Reason string `json:"reason"`
}

// Decline handles POST /v1/interviewer/requests/:id/decline.  It marks
// the interviewer as not available for the request date.  A non-empty
// reason is mandatory.  The same OPEN and edit-window gates apply as for
// submitting; once declined, only an admin reset can reopen the
// submission.
func (h *InterviewerHandler) Decline(c echo.Context) error {
	interviewerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req declineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a reason is required to decline"})
	}
	ctx := c.Request().Context()

	booking, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load request"})
	}
	if booking.Status != model.RequestOpen {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking request is closed"})
	}
	if !model.EditableOn(booking.RequestDate, time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "edit window has expired for this date"})
	}

	sub, err := h.Submissions.GetByRequestAndInterviewer(ctx, requestID, interviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no submission for this request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load submission"})
	}
	if err := h.Submissions.Decline(ctx, sub.ID, reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to decline"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"booking_request_id": requestID,
		"status":             model.SubmissionNotAvailable,
		"reason":             reason,
	})
}
