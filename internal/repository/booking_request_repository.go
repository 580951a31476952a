// Package repository contains data access logic for the booking pipeline.
// This file covers booking requests: the admin-initiated asks for
// interviewer availability on a specific date.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/recruitops/interview-booking/internal/model"
)

// BookingRequestRepo manages persistence for booking_requests.
type BookingRequestRepo struct {
	db *sql.DB
}

// NewBookingRequestRepo returns a BookingRequestRepo bound to the given
// database.
func NewBookingRequestRepo(db *sql.DB) *BookingRequestRepo {
	return &BookingRequestRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *BookingRequestRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking request within the provided transaction
// and populates the generated ID and DB-default fields on the given
// struct.  The caller must commit or roll back the transaction.
func (r *BookingRequestRepo) CreateTx(ctx context.Context, tx *sql.Tx, req *model.BookingRequest) error {
	const q = `INSERT INTO booking_requests (request_date, status, created_by) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, req.RequestDate.UTC().Format("2006-01-02"), model.RequestOpen, req.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	const sel = `SELECT id, request_date, status, created_by, created_at, updated_at FROM booking_requests WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, req.ID).Scan(
		&req.ID, &req.RequestDate, &req.Status, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	)
}

// GetByID loads a single booking request.  ErrRequestNotFound is returned
// when the id does not exist.
func (r *BookingRequestRepo) GetByID(ctx context.Context, id uint64) (model.BookingRequest, error) {
	const q = `SELECT id, request_date, status, created_by, created_at, updated_at FROM booking_requests WHERE id = ?`
	var req model.BookingRequest
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&req.ID, &req.RequestDate, &req.Status, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return req, ErrRequestNotFound
	}
	return req, err
}

// RequestSummary is one row of the admin request listing: the request
// itself plus per-status submission counts.
type RequestSummary struct {
	ID           uint64    `json:"id"`
	RequestDate  time.Time `json:"request_date"`
	Status       string    `json:"status"`
	Interviewers int       `json:"interviewers"`
	Submitted    int       `json:"submitted"`
	Declined     int       `json:"declined"`
	Pending      int       `json:"pending"`
	CreatedAt    time.Time `json:"created_at"`
}

// List returns all booking requests newest first, each with counts of its
// submissions by status.
func (r *BookingRequestRepo) List(ctx context.Context) ([]RequestSummary, error) {
	const q = `SELECT br.id, br.request_date, br.status, br.created_at,
	                  COUNT(s.id),
	                  COALESCE(SUM(s.status = 'SUBMITTED'), 0),
	                  COALESCE(SUM(s.status = 'NOT_AVAILABLE'), 0),
	                  COALESCE(SUM(s.status = 'PENDING'), 0)
	           FROM booking_requests br
	           LEFT JOIN submissions s ON s.booking_request_id = br.id
	           GROUP BY br.id, br.request_date, br.status, br.created_at
	           ORDER BY br.request_date DESC, br.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RequestSummary, 0)
	for rows.Next() {
		var rs RequestSummary
		if err := rows.Scan(&rs.ID, &rs.RequestDate, &rs.Status, &rs.CreatedAt,
			&rs.Interviewers, &rs.Submitted, &rs.Declined, &rs.Pending); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// SetStatus toggles a request between OPEN and CLOSED.  Existing
// submissions are left untouched.  ErrRequestNotFound is returned when
// the id does not exist.  Setting the status a request already has is a
// no-op, not an error.
func (r *BookingRequestRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE booking_requests SET status = ? WHERE id = ?`, status, id)
	return err
}
