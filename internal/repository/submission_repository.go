package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/recruitops/interview-booking/internal/model"
)

// SubmissionRepo manages persistence for submissions and their slots.
// Exactly one submission exists per (booking_request_id, interviewer_id)
// pair; slots live in the submission_slots child table and are replaced
// wholesale on every resubmission.
type SubmissionRepo struct {
	db *sql.DB
}

// NewSubmissionRepo returns a SubmissionRepo bound to the given database.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transactions
// spanning multiple repositories.
func (r *SubmissionRepo) DB() *sql.DB { return r.db }

// CreateBulkPendingTx spawns one PENDING submission per interviewer for a
// freshly created booking request.  It runs within the caller's
// transaction so request creation and submission spawning commit
// together.  Passing an empty slice has no effect and returns nil.
func (r *SubmissionRepo) CreateBulkPendingTx(ctx context.Context, tx *sql.Tx, requestID uint64, interviewerIDs []uint64) error {
	if len(interviewerIDs) == 0 {
		return nil
	}
	query := `INSERT INTO submissions (booking_request_id, interviewer_id, status) VALUES `
	args := make([]interface{}, 0, len(interviewerIDs)*3)
	for i, id := range interviewerIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, requestID, id, model.SubmissionPending)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByRequestAndInterviewer loads one submission including its slots.
// ErrSubmissionNotFound is returned when no row exists for the pair.
func (r *SubmissionRepo) GetByRequestAndInterviewer(ctx context.Context, requestID, interviewerID uint64) (model.Submission, error) {
	const q = `SELECT id, booking_request_id, interviewer_id, status, remarks, decline_reason, submitted_at, created_at, updated_at
	           FROM submissions WHERE booking_request_id = ? AND interviewer_id = ?`
	var s model.Submission
	var remarks, reason sql.NullString
	var submittedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, requestID, interviewerID).Scan(
		&s.ID, &s.BookingRequestID, &s.InterviewerID, &s.Status,
		&remarks, &reason, &submittedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrSubmissionNotFound
	}
	if err != nil {
		return s, err
	}
	if remarks.Valid {
		v := remarks.String
		s.Remarks = &v
	}
	if reason.Valid {
		v := reason.String
		s.DeclineReason = &v
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		s.SubmittedAt = &t
	}
	s.Slots, err = r.slotsFor(ctx, s.ID)
	return s, err
}

// slotsFor loads the ordered slot list of one submission.
func (r *SubmissionRepo) slotsFor(ctx context.Context, submissionID uint64) ([]model.TimeSlot, error) {
	const q = `SELECT start_time, end_time FROM submission_slots WHERE submission_id = ? ORDER BY start_time, end_time`
	rows, err := r.db.QueryContext(ctx, q, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// SubmitTx records an interviewer's availability within the provided
// transaction: the status moves to SUBMITTED, remarks and submitted_at
// are updated and the previous slot list is replaced wholesale.  The last
// write wins; there is no version token guarding a concurrent reset.
func (r *SubmissionRepo) SubmitTx(ctx context.Context, tx *sql.Tx, submissionID uint64, slots []model.TimeSlot, remarks string) error {
	const up = `UPDATE submissions
	            SET status = ?, remarks = ?, decline_reason = NULL, submitted_at = UTC_TIMESTAMP()
	            WHERE id = ?`
	var remarksVal interface{}
	if strings.TrimSpace(remarks) != "" {
		remarksVal = remarks
	}
	if _, err := tx.ExecContext(ctx, up, model.SubmissionSubmitted, remarksVal, submissionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM submission_slots WHERE submission_id = ?`, submissionID); err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO submission_slots (submission_id, start_time, end_time) VALUES `
	args := make([]interface{}, 0, len(slots)*3)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, submissionID, s.StartTime, s.EndTime)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Decline marks the submission NOT_AVAILABLE with the given reason.  The
// move is irreversible for the interviewer; only an admin reset brings
// the row back to PENDING.
func (r *SubmissionRepo) Decline(ctx context.Context, submissionID uint64, reason string) error {
	const q = `UPDATE submissions
	           SET status = ?, decline_reason = ?, remarks = NULL, submitted_at = NULL
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, model.SubmissionNotAvailable, reason, submissionID)
	return err
}

// ResetTx moves a submission back to PENDING within the provided
// transaction, discarding slots, remarks and any decline reason.
func (r *SubmissionRepo) ResetTx(ctx context.Context, tx *sql.Tx, submissionID uint64) error {
	const q = `UPDATE submissions
	           SET status = ?, remarks = NULL, decline_reason = NULL, submitted_at = NULL
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, model.SubmissionPending, submissionID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM submission_slots WHERE submission_id = ?`, submissionID)
	return err
}

// InboxRow is one row of an interviewer's request inbox: the submission
// joined with its request's date and status.
type InboxRow struct {
	BookingRequestID uint64     `json:"booking_request_id"`
	RequestDate      time.Time  `json:"request_date"`
	RequestStatus    string     `json:"request_status"`
	SubmissionStatus string     `json:"submission_status"`
	Remarks          *string    `json:"remarks,omitempty"`
	DeclineReason    *string    `json:"decline_reason,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
}

// ListForInterviewer returns all requests targeting an interviewer,
// newest request date first.
func (r *SubmissionRepo) ListForInterviewer(ctx context.Context, interviewerID uint64) ([]InboxRow, error) {
	const q = `SELECT s.booking_request_id, br.request_date, br.status, s.status, s.remarks, s.decline_reason, s.submitted_at
	           FROM submissions s
	           JOIN booking_requests br ON br.id = s.booking_request_id
	           WHERE s.interviewer_id = ?
	           ORDER BY br.request_date DESC, br.id DESC`
	rows, err := r.db.QueryContext(ctx, q, interviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]InboxRow, 0)
	for rows.Next() {
		var row InboxRow
		var remarks, reason sql.NullString
		var submittedAt sql.NullTime
		if err := rows.Scan(&row.BookingRequestID, &row.RequestDate, &row.RequestStatus,
			&row.SubmissionStatus, &remarks, &reason, &submittedAt); err != nil {
			return nil, err
		}
		if remarks.Valid {
			v := remarks.String
			row.Remarks = &v
		}
		if reason.Valid {
			v := reason.String
			row.DeclineReason = &v
		}
		if submittedAt.Valid {
			t := submittedAt.Time
			row.SubmittedAt = &t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SubmittedRow is one row of the admin aggregation view: a SUBMITTED
// submission with its interviewer, request date and declared slots.
type SubmittedRow struct {
	SubmissionID     uint64           `json:"submission_id"`
	BookingRequestID uint64           `json:"booking_request_id"`
	InterviewerID    uint64           `json:"interviewer_id"`
	InterviewerName  string           `json:"interviewer_name"`
	InterviewerEmail string           `json:"interviewer_email"`
	RequestDate      time.Time        `json:"request_date"`
	Remarks          *string          `json:"remarks,omitempty"`
	SubmittedAt      *time.Time       `json:"submitted_at,omitempty"`
	Slots            []model.TimeSlot `json:"slots"`
}

// ListSubmitted returns every SUBMITTED submission across all requests,
// optionally filtered by a case-insensitive interviewer search and/or a
// request date ("2006-01-02").  This is the read the admin selects slots
// from before issuing a booking link; it never mutates anything.
func (r *SubmissionRepo) ListSubmitted(ctx context.Context, search string, date *time.Time) ([]SubmittedRow, error) {
	q := `SELECT s.id, s.booking_request_id, s.interviewer_id, u.full_name, u.email,
	             br.request_date, s.remarks, s.submitted_at
	      FROM submissions s
	      JOIN booking_requests br ON br.id = s.booking_request_id
	      JOIN users u ON u.id = s.interviewer_id
	      WHERE s.status = ?`
	args := []interface{}{model.SubmissionSubmitted}
	if search = strings.TrimSpace(search); search != "" {
		q += ` AND (LOWER(u.full_name) LIKE ? OR LOWER(u.email) LIKE ?)`
		pat := "%" + strings.ToLower(search) + "%"
		args = append(args, pat, pat)
	}
	if date != nil {
		q += ` AND br.request_date = ?`
		args = append(args, date.UTC().Format("2006-01-02"))
	}
	q += ` ORDER BY br.request_date DESC, u.full_name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SubmittedRow, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var row SubmittedRow
		var remarks sql.NullString
		var submittedAt sql.NullTime
		if err := rows.Scan(&row.SubmissionID, &row.BookingRequestID, &row.InterviewerID,
			&row.InterviewerName, &row.InterviewerEmail, &row.RequestDate, &remarks, &submittedAt); err != nil {
			return nil, err
		}
		if remarks.Valid {
			v := remarks.String
			row.Remarks = &v
		}
		if submittedAt.Valid {
			t := submittedAt.Time
			row.SubmittedAt = &t
		}
		row.Slots = []model.TimeSlot{}
		index[row.SubmissionID] = len(out)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	// Populate slots for all rows in a single query.
	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, row := range out {
		ids = append(ids, row.SubmissionID)
		placeholders = append(placeholders, "?")
	}
	slotQ := `SELECT submission_id, start_time, end_time
	          FROM submission_slots
	          WHERE submission_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY submission_id, start_time, end_time`
	srows, err := r.db.QueryContext(ctx, slotQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var sid uint64
		var slot model.TimeSlot
		if err := srows.Scan(&sid, &slot.StartTime, &slot.EndTime); err != nil {
			return nil, err
		}
		if idx, ok := index[sid]; ok {
			out[idx].Slots = append(out[idx].Slots, slot)
		}
	}
	return out, srows.Err()
}
