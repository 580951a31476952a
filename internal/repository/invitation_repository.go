package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/recruitops/interview-booking/internal/model"
)

// InvitationRepo manages persistence for the per-link student allowlist.
// Emails are stored lower-cased and a unique key on
// (booking_link_id, email) makes the allowlist case-insensitive.
type InvitationRepo struct {
	db *sql.DB
}

// NewInvitationRepo returns an InvitationRepo bound to the given database.
func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{db: db} }

// CreateBulkTx inserts validated invitations for a link within the
// provided transaction.  Rows whose email already exists on the link are
// skipped rather than erroring, so re-authorizing a roster is idempotent.
// It returns the number of rows actually inserted.
func (r *InvitationRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, linkID uint64, invs []model.Invitation) (int, error) {
	if len(invs) == 0 {
		return 0, nil
	}
	query := `INSERT IGNORE INTO invitations
	          (booking_link_id, email, full_name, domain, hiring_name, external_id, mobile, resume_link, interview_ref, booking_status) VALUES `
	args := make([]interface{}, 0, len(invs)*10)
	for i, inv := range invs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, linkID, strings.ToLower(inv.Email), inv.FullName, inv.Domain,
			inv.HiringName, inv.ExternalID, inv.Mobile, inv.ResumeLink, inv.InterviewRef, model.InvitationPending)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetByLinkAndEmail loads the invitation for one email on one link.  The
// lookup is case-insensitive; ErrNotAuthorized is returned when the email
// is not on the allowlist.
func (r *InvitationRepo) GetByLinkAndEmail(ctx context.Context, linkID uint64, email string) (model.Invitation, error) {
	const q = `SELECT id, booking_link_id, email, full_name, domain, hiring_name, external_id, mobile, resume_link, interview_ref, booking_status, created_at
	           FROM invitations WHERE booking_link_id = ? AND email = ?`
	var inv model.Invitation
	err := r.db.QueryRowContext(ctx, q, linkID, strings.ToLower(strings.TrimSpace(email))).Scan(
		&inv.ID, &inv.BookingLinkID, &inv.Email, &inv.FullName, &inv.Domain, &inv.HiringName,
		&inv.ExternalID, &inv.Mobile, &inv.ResumeLink, &inv.InterviewRef, &inv.BookingStatus, &inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotAuthorized
	}
	return inv, err
}

// MarkBookedTx flips an invitation PENDING -> BOOKED within the provided
// transaction.  The update is conditional on the current status so a
// concurrent booking cannot flip the same invitation twice;
// ErrAlreadyBooked is returned when the invitation was no longer pending.
func (r *InvitationRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, invitationID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE invitations SET booking_status = ? WHERE id = ? AND booking_status = ?`,
		model.InvitationBooked, invitationID, model.InvitationPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyBooked
	}
	return nil
}

// ListByLink returns all invitations of a link, optionally restricted to
// a booking status (pass "" for all).  Ordered by email for deterministic
// output.
func (r *InvitationRepo) ListByLink(ctx context.Context, linkID uint64, status string) ([]model.Invitation, error) {
	q := `SELECT id, booking_link_id, email, full_name, domain, hiring_name, external_id, mobile, resume_link, interview_ref, booking_status, created_at
	      FROM invitations WHERE booking_link_id = ?`
	args := []interface{}{linkID}
	if status != "" {
		q += ` AND booking_status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY email`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Invitation, 0)
	for rows.Next() {
		var inv model.Invitation
		if err := rows.Scan(&inv.ID, &inv.BookingLinkID, &inv.Email, &inv.FullName, &inv.Domain,
			&inv.HiringName, &inv.ExternalID, &inv.Mobile, &inv.ResumeLink, &inv.InterviewRef,
			&inv.BookingStatus, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
