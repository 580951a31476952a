package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/recruitops/interview-booking/internal/model"
)

// StudentBookingRepo manages persistence for confirmed bookings.  A
// unique key on (booking_link_id, student_email) backs the one-booking-
// per-student-per-link rule at the storage level.
type StudentBookingRepo struct {
	db *sql.DB
}

// NewStudentBookingRepo returns a StudentBookingRepo bound to the given
// database.
func NewStudentBookingRepo(db *sql.DB) *StudentBookingRepo {
	return &StudentBookingRepo{db: db}
}

// CreateTx inserts a booking within the provided transaction and
// populates the generated ID and timestamp on the given struct.  A
// duplicate key violation means the student already booked on this link
// and is translated into ErrAlreadyBooked so the caller can roll back.
func (r *StudentBookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.StudentBooking) error {
	const q = `INSERT INTO student_bookings
	           (booking_link_id, pool_entry_id, student_email, student_name, student_phone, interviewer_id, interview_date, start_time, end_time)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.BookingLinkID, b.PoolEntryID, strings.ToLower(b.StudentEmail), b.StudentName, b.StudentPhone,
		b.InterviewerID, b.InterviewDate.UTC().Format("2006-01-02"), b.Slot.StartTime, b.Slot.EndTime)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyBooked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, booking_link_id, pool_entry_id, student_email, student_name, student_phone, interviewer_id, interview_date, start_time, end_time, created_at
	             FROM student_bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.BookingLinkID, &b.PoolEntryID, &b.StudentEmail, &b.StudentName, &b.StudentPhone,
		&b.InterviewerID, &b.InterviewDate, &b.Slot.StartTime, &b.Slot.EndTime, &b.CreatedAt,
	)
}

// GetByLinkAndEmail loads the booking one email holds on one link.  It
// returns sql.ErrNoRows untranslated when no booking exists; callers use
// that to distinguish "not booked yet" from real failures.
func (r *StudentBookingRepo) GetByLinkAndEmail(ctx context.Context, linkID uint64, email string) (model.StudentBooking, error) {
	const q = `SELECT id, booking_link_id, pool_entry_id, student_email, student_name, student_phone, interviewer_id, interview_date, start_time, end_time, created_at
	           FROM student_bookings WHERE booking_link_id = ? AND student_email = ?`
	var b model.StudentBooking
	err := r.db.QueryRowContext(ctx, q, linkID, strings.ToLower(strings.TrimSpace(email))).Scan(
		&b.ID, &b.BookingLinkID, &b.PoolEntryID, &b.StudentEmail, &b.StudentName, &b.StudentPhone,
		&b.InterviewerID, &b.InterviewDate, &b.Slot.StartTime, &b.Slot.EndTime, &b.CreatedAt,
	)
	return b, err
}

// ListByLink returns all bookings made through a link, newest first.
func (r *StudentBookingRepo) ListByLink(ctx context.Context, linkID uint64) ([]model.StudentBooking, error) {
	const q = `SELECT id, booking_link_id, pool_entry_id, student_email, student_name, student_phone, interviewer_id, interview_date, start_time, end_time, created_at
	           FROM student_bookings WHERE booking_link_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StudentBooking, 0)
	for rows.Next() {
		var b model.StudentBooking
		if err := rows.Scan(&b.ID, &b.BookingLinkID, &b.PoolEntryID, &b.StudentEmail, &b.StudentName,
			&b.StudentPhone, &b.InterviewerID, &b.InterviewDate, &b.Slot.StartTime, &b.Slot.EndTime, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
