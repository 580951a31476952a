package handler

// HTTP handlers for the unauthenticated student surface.  Students reach
// a booking link through its opaque public id, verify their email
// against the allowlist, browse the remaining slots and claim exactly
// one.  No session is established: every call re-sends the email, and
// the rate limiter in front of these routes throttles probing.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/model"
	"github.com/recruitops/interview-booking/internal/repository"
)

// PublicHandler groups the repositories used by the public booking
// endpoints.
type PublicHandler struct {
	Links       *repository.BookingLinkRepo    // link resolution and pool reads
	Invitations *repository.InvitationRepo     // allowlist checks
	Bookings    *repository.StudentBookingRepo // booking creation and lookups
	Users       *repository.UserRepo           // interviewer names for responses
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must be
// non-nil.
func NewPublicHandler(links *repository.BookingLinkRepo, invitations *repository.InvitationRepo,
	bookings *repository.StudentBookingRepo, users *repository.UserRepo) *PublicHandler {
	if links == nil || invitations == nil || bookings == nil || users == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Links: links, Invitations: invitations, Bookings: bookings, Users: users}
}

// verifyReq is the JSON body for POST /v1/public/links/:publicId/verify-email.
type verifyReq struct {
	Email string `json:"email"`
}

// VerifyEmail handles POST /v1/public/links/:publicId/verify-email.  It checks
// the email against the link's allowlist.  Unknown links yield 404 and
// unlisted emails 403, without revealing which.  For an invited student
// who already booked, the existing booking is returned so a page reload
// lands on the confirmation instead of the slot picker; otherwise the
// remaining open slots are returned.
func (h *PublicHandler) VerifyEmail(c echo.Context) error {
	publicID := c.Param("publicId")
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	ctx := c.Request().Context()

	link, err := h.Links.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	inv, err := h.Invitations.GetByLinkAndEmail(ctx, link.ID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotAuthorized) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "this email is not authorized for this link"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify email"})
	}

	if inv.BookingStatus == model.InvitationBooked {
		booking, err := h.Bookings.GetByLinkAndEmail(ctx, link.ID, email)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"already_booked": true,
			"full_name":      inv.FullName,
			"booking":        h.bookingView(ctx, booking),
		})
	}

	entries, err := h.Links.ListEntries(ctx, link.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"already_booked": false,
		"full_name":      inv.FullName,
		"slots":          h.entryViews(ctx, entries),
	})
}

// ListSlots handles GET /v1/public/links/:publicId/slots.  It returns
// the still-open slots of a link.  The read is intentionally uncached:
// during a booking rush the remaining set changes second to second and a
// stale answer would funnel students into 409s.
func (h *PublicHandler) ListSlots(c echo.Context) error {
	ctx := c.Request().Context()
	link, err := h.Links.GetByPublicID(ctx, c.Param("publicId"))
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	entries, err := h.Links.ListEntries(ctx, link.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	items := h.entryViews(ctx, entries)
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// bookReq is the JSON body for POST /v1/public/links/:publicId/book.
type bookReq struct {
	Email         string `json:"email"`
	StudentName   string `json:"student_name"`
	StudentPhone  string `json:"student_phone"`
	InterviewerID uint64 `json:"interviewer_id"`
	Date          string `json:"date"` // "2006-01-02"
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// Book handles POST /v1/public/links/:publicId/book.  It claims one slot
// for an invited student.  The claim is transactional: when two students
// race for the last remaining copy of a slot exactly one wins and the
// other receives 409 with the slot marked unavailable, and a student who
// already holds a booking on the link receives 409 regardless of which
// slot they target.  On success the confirmation email is queued and the
// booking returned.
func (h *PublicHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if req.InterviewerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "interviewer_id is required"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	slot := model.TimeSlot{StartTime: req.StartTime, EndTime: req.EndTime}
	if err := slot.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()

	link, err := h.Links.GetByPublicID(ctx, c.Param("publicId"))
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	inv, err := h.Invitations.GetByLinkAndEmail(ctx, link.ID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotAuthorized) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "this email is not authorized for this link"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify email"})
	}
	if inv.BookingStatus == model.InvitationBooked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a booking on this link"})
	}

	name := strings.TrimSpace(req.StudentName)
	if name == "" {
		name = inv.FullName
	}
	phone := strings.TrimSpace(req.StudentPhone)
	if phone == "" {
		phone = inv.Mobile
	}
	booking := model.StudentBooking{
		BookingLinkID: link.ID,
		StudentEmail:  email,
		StudentName:   name,
		StudentPhone:  phone,
		InterviewerID: req.InterviewerID,
		InterviewDate: date,
		Slot:          slot,
	}
	if err := claimSlot(ctx, h.Links.DB(), h.Links, h.Bookings, h.Invitations, inv.ID, &booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrPoolEntryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found on this link"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is no longer available, please pick another"})
		case errors.Is(err, repository.ErrAlreadyBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a booking on this link"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book slot"})
		}
	}
	publishBookingConfirmed(h.Users, link, booking)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking": h.bookingView(ctx, booking),
	})
}

// bookingView shapes one booking for a student-facing response,
// resolving the interviewer's display name.
func (h *PublicHandler) bookingView(ctx context.Context, b model.StudentBooking) echo.Map {
	interviewer := ""
	if u, err := h.Users.GetByID(ctx, b.InterviewerID); err == nil {
		interviewer = u.FullName
	}
	return echo.Map{
		"interviewer":    interviewer,
		"interview_date": b.InterviewDate.Format(dateLayout),
		"slot":           b.Slot,
		"booked_at":      b.CreatedAt,
	}
}

// entryViews shapes open pool entries for student-facing responses,
// resolving interviewer display names once per interviewer.
func (h *PublicHandler) entryViews(ctx context.Context, entries []model.PoolEntry) []echo.Map {
	names := make(map[uint64]string)
	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.InterviewerID]
		if !ok {
			if u, err := h.Users.GetByID(ctx, e.InterviewerID); err == nil {
				name = u.FullName
			}
			names[e.InterviewerID] = name
		}
		out = append(out, echo.Map{
			"interviewer_id": e.InterviewerID,
			"interviewer":    name,
			"interview_date": e.InterviewDate.Format(dateLayout),
			"slot":           e.Slot,
		})
	}
	return out
}
