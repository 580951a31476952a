package handler

// HTTP handlers for admins to turn submitted availability into public
// booking links: aggregate submitted slots across requests, freeze a
// selection into a new link, authorize students against it from a pasted
// or uploaded roster, nudge pending students and book a slot on a
// student's behalf.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/config"
	"github.com/recruitops/interview-booking/internal/model"
	"github.com/recruitops/interview-booking/internal/queue"
	"github.com/recruitops/interview-booking/internal/repository"
	"github.com/recruitops/interview-booking/internal/roster"
	queue_publisher "github.com/recruitops/interview-booking/internal/service"
	"github.com/recruitops/interview-booking/internal/utils"
)

// AdminPoolHandler groups the dependencies of the slot pool and booking
// link endpoints.  The BookingLinkRepo's DB handle is used for starting
// transactions.
type AdminPoolHandler struct {
	Cfg         *config.Config                 // public base URL for booking links
	Submissions *repository.SubmissionRepo     // the submitted-slot aggregation view
	Links       *repository.BookingLinkRepo    // links and their pool entries
	Invitations *repository.InvitationRepo     // per-link student allowlists
	Bookings    *repository.StudentBookingRepo // confirmed bookings
	Users       *repository.UserRepo           // interviewer names for responses and events
}

// NewAdminPoolHandler constructs an AdminPoolHandler.  All dependencies
// must be non-nil.
func NewAdminPoolHandler(cfg *config.Config, submissions *repository.SubmissionRepo, links *repository.BookingLinkRepo,
	invitations *repository.InvitationRepo, bookings *repository.StudentBookingRepo, users *repository.UserRepo) *AdminPoolHandler {
	if cfg == nil || submissions == nil || links == nil || invitations == nil || bookings == nil || users == nil {
		panic("nil dependency passed to NewAdminPoolHandler")
	}
	return &AdminPoolHandler{
		Cfg:         cfg,
		Submissions: submissions,
		Links:       links,
		Invitations: invitations,
		Bookings:    bookings,
		Users:       users,
	}
}

// ListSubmittedSlots handles GET /v1/admin/submitted-slots.  It returns
// every SUBMITTED submission across all requests with interviewer and
// declared slots, optionally filtered by ?search= (case-insensitive
// match on interviewer name or email) and ?date= (request date,
// YYYY-MM-DD).  This is the read-only view an admin selects from before
// issuing a link.
func (h *AdminPoolHandler) ListSubmittedSlots(c echo.Context) error {
	var datePtr *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		datePtr = &d
	}
	ctx := c.Request().Context()
	items, err := h.Submissions.ListSubmitted(ctx, c.QueryParam("search"), datePtr)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load submitted slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// linkSlotReq is one selected slot in the create-link body.
type linkSlotReq struct {
	InterviewerID uint64 `json:"interviewer_id"`
	Date          string `json:"date"` // "2006-01-02"
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// createLinkReq is the JSON body for POST /v1/admin/links.
type createLinkReq struct {
	Slots []linkSlotReq `json:"slots"`
}

// CreateLink handles POST /v1/admin/links.  It freezes the selected
// (interviewer, date, slot) tuples into a new booking link with an
// opaque public id.  The selection must be non-empty and every slot well
// formed; duplicates inside the selection are collapsed.  The snapshot
// is immutable once created: later edits to the underlying submissions
// never change an issued link.
func (h *AdminPoolHandler) CreateLink(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one slot must be selected"})
	}

	seen := make(map[string]bool, len(req.Slots))
	entries := make([]model.PoolEntry, 0, len(req.Slots))
	for _, s := range req.Slots {
		if s.InterviewerID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "interviewer_id is required for every slot"})
		}
		date, err := parseDate(s.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		slot := model.TimeSlot{StartTime: s.StartTime, EndTime: s.EndTime}
		if err := slot.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		key := fmt.Sprintf("%d|%s|%s", s.InterviewerID, s.Date, slot.Label())
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, model.PoolEntry{
			InterviewerID: s.InterviewerID,
			InterviewDate: date,
			Slot:          slot,
		})
	}

	link := model.BookingLink{
		PublicID:  utils.NewPublicID(),
		CreatedBy: adminID,
	}
	ctx := c.Request().Context()
	tx, err := h.Links.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Links.CreateTx(ctx, tx, &link); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create link"})
	}
	if err := h.Links.CreateEntriesBulkTx(ctx, tx, link.ID, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create pool entries"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit link"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          link.ID,
		"public_id":   link.PublicID,
		"booking_url": bookingURL(h.Cfg.PublicBase, link.PublicID),
		"total_slots": len(entries),
	})
}

// ListLinks handles GET /v1/admin/links.  It returns all issued links
// newest first with pool and invitation counts.
func (h *AdminPoolHandler) ListLinks(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Links.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load links"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetLink handles GET /v1/admin/links/:id.  It returns the link with its
// full pool, allowlist and booking history.
func (h *AdminPoolHandler) GetLink(c echo.Context) error {
	linkID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid link id"})
	}
	ctx := c.Request().Context()
	link, err := h.Links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	entries, err := h.Links.ListEntries(ctx, linkID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pool entries"})
	}
	invitations, err := h.Invitations.ListByLink(ctx, linkID, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invitations"})
	}
	bookings, err := h.Bookings.ListByLink(ctx, linkID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          link.ID,
		"public_id":   link.PublicID,
		"booking_url": bookingURL(h.Cfg.PublicBase, link.PublicID),
		"created_at":  link.CreatedAt,
		"slots":       poolEntryViews(entries),
		"invitations": invitationViews(invitations),
		"bookings":    bookingViews(bookings),
	})
}

// authorizeReq is the JSON body variant of the authorize endpoint: raw
// roster text pasted from a spreadsheet.
type authorizeReq struct {
	Text string `json:"text"`
}

// AuthorizeStudents handles POST /v1/admin/links/:id/students.  It
// accepts a roster either as a multipart CSV upload under the "file"
// field or as pasted spreadsheet text in a JSON body.  Rows are
// normalized, de-duplicated by email and validated; valid rows become
// PENDING invitations with a pre-created interview reference, rows whose
// email is already on the link are skipped, and invalid rows are
// returned with their line numbers and reasons.  An invitation event is
// published for each newly added student.
func (h *AdminPoolHandler) AuthorizeStudents(c echo.Context) error {
	linkID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid link id"})
	}
	ctx := c.Request().Context()
	link, err := h.Links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}

	var rows []roster.Row
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
		}
		defer src.Close()
		rows, err = roster.ParseCSV(src)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to parse CSV"})
		}
	} else {
		var req authorizeReq
		if err := c.Bind(&req); err != nil || req.Text == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "roster text or file is required"})
		}
		rows = roster.Parse(req.Text)
	}
	valid := roster.Valid(rows)
	if len(valid) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "no valid rows in roster",
			"rows":  rows,
		})
	}

	// Emails already on the allowlist are skipped, not re-invited.
	existing, err := h.Invitations.ListByLink(ctx, linkID, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invitations"})
	}
	known := make(map[string]bool, len(existing))
	for _, inv := range existing {
		known[inv.Email] = true
	}

	newInvs := make([]model.Invitation, 0, len(valid))
	skipped := 0
	for _, row := range valid {
		if known[row.Email] {
			skipped++
			continue
		}
		newInvs = append(newInvs, model.Invitation{
			BookingLinkID: linkID,
			Email:         row.Email,
			FullName:      row.FullName,
			Domain:        row.Domain,
			HiringName:    row.HiringName,
			ExternalID:    row.ExternalID,
			Mobile:        row.Mobile,
			ResumeLink:    row.ResumeLink,
			InterviewRef:  utils.NewInterviewRef(),
		})
	}

	if len(newInvs) > 0 {
		tx, err := h.Links.DB().BeginTx(ctx, &sql.TxOptions{})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()
		if _, err := h.Invitations.CreateBulkTx(ctx, tx, linkID, newInvs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invitations"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit invitations"})
		}
		committed = true

		// Send invitation emails asynchronously.
		url := bookingURL(h.Cfg.PublicBase, link.PublicID)
		go func(invs []model.Invitation, publicID, url string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			for _, inv := range invs {
				ev := queue.InvitationCreatedEvent{
					PublicID:     publicID,
					Email:        inv.Email,
					FullName:     inv.FullName,
					InterviewRef: inv.InterviewRef,
					BookingURL:   url,
					CreatedAt:    time.Now().UTC().Format(time.RFC3339),
				}
				if err := queue_publisher.PublishInvitationCreated(ctx, ev); err != nil {
					log.Printf("invitation event for %s not published: %v", inv.Email, err)
				}
			}
		}(newInvs, link.PublicID, url)
	}

	invalid := make([]roster.Row, 0)
	for _, row := range rows {
		if row.Invalid {
			invalid = append(invalid, row)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"authorized":       len(newInvs),
		"skipped_existing": skipped,
		"invalid":          invalid,
	})
}

// SendReminders handles POST /v1/admin/links/:id/reminders.  It queues a
// reminder email for every invited student who has not booked yet and
// reports how many were queued.
func (h *AdminPoolHandler) SendReminders(c echo.Context) error {
	linkID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid link id"})
	}
	ctx := c.Request().Context()
	link, err := h.Links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	pending, err := h.Invitations.ListByLink(ctx, linkID, model.InvitationPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invitations"})
	}

	url := bookingURL(h.Cfg.PublicBase, link.PublicID)
	go func(invs []model.Invitation, publicID, url string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, inv := range invs {
			ev := queue.BookingReminderEvent{
				PublicID:   publicID,
				Email:      inv.Email,
				FullName:   inv.FullName,
				BookingURL: url,
				QueuedAt:   time.Now().UTC().Format(time.RFC3339),
			}
			if err := queue_publisher.PublishBookingReminder(ctx, ev); err != nil {
				log.Printf("reminder event for %s not published: %v", inv.Email, err)
			}
		}
	}(pending, link.PublicID, url)

	return c.JSON(http.StatusOK, echo.Map{"queued": len(pending)})
}

// manualBookReq is the JSON body for POST /v1/admin/links/:id/manual-book.
type manualBookReq struct {
	StudentEmail  string `json:"student_email"`
	InterviewerID uint64 `json:"interviewer_id"`
	Date          string `json:"date"` // "2006-01-02"
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// ManualBook handles POST /v1/admin/links/:id/manual-book.  It books a
// slot on behalf of an invited student who has not booked yet, for
// example after a phone call.  The same transactional claim as the
// public flow applies, so a manual booking can still lose a race against
// the student booking themselves and reports 409 in that case.
func (h *AdminPoolHandler) ManualBook(c echo.Context) error {
	linkID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid link id"})
	}
	var req manualBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.StudentEmail == "" || req.InterviewerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_email and interviewer_id are required"})
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

	link, err := h.Links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load link"})
	}
	inv, err := h.Invitations.GetByLinkAndEmail(ctx, linkID, req.StudentEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotAuthorized) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student is not invited to this link"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invitation"})
	}
	if inv.BookingStatus == model.InvitationBooked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "student already has a booking on this link"})
	}

	booking := model.StudentBooking{
		BookingLinkID: linkID,
		StudentEmail:  inv.Email,
		StudentName:   inv.FullName,
		StudentPhone:  inv.Mobile,
		InterviewerID: req.InterviewerID,
		InterviewDate: date,
		Slot:          slot,
	}
	if err := claimSlot(ctx, h.Links.DB(), h.Links, h.Bookings, h.Invitations, inv.ID, &booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrPoolEntryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found on this link"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is no longer available"})
		case errors.Is(err, repository.ErrAlreadyBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already has a booking on this link"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book slot"})
		}
	}
	publishBookingConfirmed(h.Users, link, booking)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":     booking.ID,
		"student_email":  booking.StudentEmail,
		"interviewer_id": booking.InterviewerID,
		"interview_date": booking.InterviewDate.Format(dateLayout),
		"slot":           booking.Slot,
		"interview_ref":  inv.InterviewRef,
	})
}

// poolEntryViews shapes pool entries for JSON responses.
func poolEntryViews(entries []model.PoolEntry) []echo.Map {
	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, echo.Map{
			"id":             e.ID,
			"interviewer_id": e.InterviewerID,
			"interview_date": e.InterviewDate.Format(dateLayout),
			"slot":           e.Slot,
			"booked":         e.Booked,
		})
	}
	return out
}

// invitationViews shapes invitations for JSON responses.
func invitationViews(invs []model.Invitation) []echo.Map {
	out := make([]echo.Map, 0, len(invs))
	for _, inv := range invs {
		out = append(out, echo.Map{
			"email":          inv.Email,
			"full_name":      inv.FullName,
			"domain":         inv.Domain,
			"hiring_name":    inv.HiringName,
			"external_id":    inv.ExternalID,
			"mobile":         inv.Mobile,
			"resume_link":    inv.ResumeLink,
			"interview_ref":  inv.InterviewRef,
			"booking_status": inv.BookingStatus,
		})
	}
	return out
}

// bookingViews shapes bookings for JSON responses.
func bookingViews(bookings []model.StudentBooking) []echo.Map {
	out := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, echo.Map{
			"id":             b.ID,
			"student_email":  b.StudentEmail,
			"student_name":   b.StudentName,
			"interviewer_id": b.InterviewerID,
			"interview_date": b.InterviewDate.Format(dateLayout),
			"slot":           b.Slot,
			"created_at":     b.CreatedAt,
		})
	}
	return out
}
