package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/recruitops/interview-booking/internal/model"
)

// BookingLinkRepo manages persistence for booking_links and their
// pool_entries.  A link and its entries are created together in one
// transaction and the entry set never changes afterwards; the only
// mutation a pool entry ever sees is the conditional booked flip
// performed by ClaimEntryTx.
type BookingLinkRepo struct {
	db *sql.DB
}

// NewBookingLinkRepo returns a BookingLinkRepo bound to the given database.
func NewBookingLinkRepo(db *sql.DB) *BookingLinkRepo { return &BookingLinkRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transactions
// spanning multiple repositories.
func (r *BookingLinkRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking link within the provided transaction and
// populates the generated ID and timestamps on the given struct.
func (r *BookingLinkRepo) CreateTx(ctx context.Context, tx *sql.Tx, link *model.BookingLink) error {
	const q = `INSERT INTO booking_links (public_id, created_by) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, link.PublicID, link.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	link.ID = uint64(id)
	const sel = `SELECT id, public_id, created_by, created_at FROM booking_links WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, link.ID).Scan(&link.ID, &link.PublicID, &link.CreatedBy, &link.CreatedAt)
}

// CreateEntriesBulkTx inserts the frozen pool entries of a link in a
// single statement within the provided transaction.  Passing an empty
// slice has no effect and returns nil.
func (r *BookingLinkRepo) CreateEntriesBulkTx(ctx context.Context, tx *sql.Tx, linkID uint64, entries []model.PoolEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO pool_entries (booking_link_id, interviewer_id, interview_date, start_time, end_time, booked) VALUES `
	args := make([]interface{}, 0, len(entries)*6)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, 0)"
		args = append(args, linkID, e.InterviewerID, e.InterviewDate.UTC().Format("2006-01-02"), e.Slot.StartTime, e.Slot.EndTime)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByPublicID resolves the opaque public id students receive.
// ErrLinkNotFound is returned when the id does not resolve.
func (r *BookingLinkRepo) GetByPublicID(ctx context.Context, publicID string) (model.BookingLink, error) {
	const q = `SELECT id, public_id, created_by, created_at FROM booking_links WHERE public_id = ?`
	var link model.BookingLink
	err := r.db.QueryRowContext(ctx, q, publicID).Scan(&link.ID, &link.PublicID, &link.CreatedBy, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return link, ErrLinkNotFound
	}
	return link, err
}

// GetByID loads a link by primary key.  ErrLinkNotFound is returned when
// the id does not exist.
func (r *BookingLinkRepo) GetByID(ctx context.Context, id uint64) (model.BookingLink, error) {
	const q = `SELECT id, public_id, created_by, created_at FROM booking_links WHERE id = ?`
	var link model.BookingLink
	err := r.db.QueryRowContext(ctx, q, id).Scan(&link.ID, &link.PublicID, &link.CreatedBy, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return link, ErrLinkNotFound
	}
	return link, err
}

// LinkSummary is one row of the admin link listing: the link plus counts
// of its pool entries and invitations.
type LinkSummary struct {
	ID           uint64    `json:"id"`
	PublicID     string    `json:"public_id"`
	CreatedAt    time.Time `json:"created_at"`
	TotalSlots   int       `json:"total_slots"`
	BookedSlots  int       `json:"booked_slots"`
	Invited      int       `json:"invited"`
	BookedGuests int       `json:"booked_guests"`
}

// List returns all links newest first with entry and invitation counts.
func (r *BookingLinkRepo) List(ctx context.Context) ([]LinkSummary, error) {
	const q = `SELECT bl.id, bl.public_id, bl.created_at,
	                  (SELECT COUNT(*) FROM pool_entries pe WHERE pe.booking_link_id = bl.id),
	                  (SELECT COUNT(*) FROM pool_entries pe WHERE pe.booking_link_id = bl.id AND pe.booked = 1),
	                  (SELECT COUNT(*) FROM invitations i WHERE i.booking_link_id = bl.id),
	                  (SELECT COUNT(*) FROM invitations i WHERE i.booking_link_id = bl.id AND i.booking_status = 'BOOKED')
	           FROM booking_links bl
	           ORDER BY bl.created_at DESC, bl.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LinkSummary, 0)
	for rows.Next() {
		var ls LinkSummary
		if err := rows.Scan(&ls.ID, &ls.PublicID, &ls.CreatedAt,
			&ls.TotalSlots, &ls.BookedSlots, &ls.Invited, &ls.BookedGuests); err != nil {
			return nil, err
		}
		out = append(out, ls)
	}
	return out, rows.Err()
}

// ListEntries returns the pool entries of a link, optionally restricted
// to the still-unbooked ones.  Entries are ordered by date, start time
// and interviewer for deterministic output.
func (r *BookingLinkRepo) ListEntries(ctx context.Context, linkID uint64, onlyUnbooked bool) ([]model.PoolEntry, error) {
	q := `SELECT id, booking_link_id, interviewer_id, interview_date, start_time, end_time, booked, created_at
	      FROM pool_entries WHERE booking_link_id = ?`
	if onlyUnbooked {
		q += ` AND booked = 0`
	}
	q += ` ORDER BY interview_date, start_time, interviewer_id`
	rows, err := r.db.QueryContext(ctx, q, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PoolEntry, 0)
	for rows.Next() {
		var e model.PoolEntry
		if err := rows.Scan(&e.ID, &e.BookingLinkID, &e.InterviewerID, &e.InterviewDate,
			&e.Slot.StartTime, &e.Slot.EndTime, &e.Booked, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindEntryTx resolves the pool entry a booking attempt targets within
// the provided transaction.  ErrPoolEntryNotFound is returned when the
// (interviewer, date, slot) tuple was never published into the link.
func (r *BookingLinkRepo) FindEntryTx(ctx context.Context, tx *sql.Tx, linkID, interviewerID uint64, date time.Time, slot model.TimeSlot) (model.PoolEntry, error) {
	const q = `SELECT id, booking_link_id, interviewer_id, interview_date, start_time, end_time, booked, created_at
	           FROM pool_entries
	           WHERE booking_link_id = ? AND interviewer_id = ? AND interview_date = ? AND start_time = ? AND end_time = ?`
	var e model.PoolEntry
	err := tx.QueryRowContext(ctx, q, linkID, interviewerID, date.UTC().Format("2006-01-02"), slot.StartTime, slot.EndTime).Scan(
		&e.ID, &e.BookingLinkID, &e.InterviewerID, &e.InterviewDate,
		&e.Slot.StartTime, &e.Slot.EndTime, &e.Booked, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrPoolEntryNotFound
	}
	return e, err
}

// ClaimEntryTx performs the atomic check-and-set at the heart of the
// booking contract: the entry is marked booked only if it is still
// unbooked, in one conditional UPDATE.  When the update matches no row
// the entry was claimed by a concurrent booking and ErrSlotUnavailable is
// returned; the caller must roll back the surrounding transaction.
func (r *BookingLinkRepo) ClaimEntryTx(ctx context.Context, tx *sql.Tx, entryID uint64) error {
	res, err := tx.ExecContext(ctx, `UPDATE pool_entries SET booked = 1 WHERE id = ? AND booked = 0`, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotUnavailable
	}
	return nil
}
