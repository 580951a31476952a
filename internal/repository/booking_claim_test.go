package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/recruitops/interview-booking/internal/dbtest"
	"github.com/recruitops/interview-booking/internal/model"
)

// Two sequential claims on the same pool entry: the first conditional
// update matches a row, the second matches none because the entry is
// already booked.  The loser must surface ErrSlotUnavailable so its
// surrounding transaction rolls back.
func TestClaimEntry_SecondClaimLoses(t *testing.T) {
	steps := []*dbtest.Step{
		{
			Kind:    dbtest.KindExec,
			Pattern: regexp.MustCompile(`UPDATE pool_entries SET booked = 1 WHERE id = \? AND booked = 0`),
			Args:    []driver.Value{int64(7)},
			Result:  dbtest.Result{Affected: 1},
		},
		{
			Kind:    dbtest.KindExec,
			Pattern: regexp.MustCompile(`UPDATE pool_entries SET booked = 1 WHERE id = \? AND booked = 0`),
			Args:    []driver.Value{int64(7)},
			Result:  dbtest.Result{Affected: 0},
		},
	}
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	repo := NewBookingLinkRepo(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := repo.ClaimEntryTx(ctx, tx, 7); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx, err = db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = repo.ClaimEntryTx(ctx, tx, 7)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("second claim: got %v, want ErrSlotUnavailable", err)
	}
	_ = tx.Rollback()

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

// A duplicate key violation on (booking_link_id, student_email) must be
// translated into ErrAlreadyBooked instead of leaking the raw MySQL
// error.
func TestCreateBooking_DuplicateEmail(t *testing.T) {
	steps := []*dbtest.Step{
		{
			Kind:    dbtest.KindExec,
			Pattern: regexp.MustCompile(`INSERT INTO student_bookings`),
			Err:     errors.New("Error 1062 (23000): Duplicate entry 'jane@x.com' for key 'uq_link_email'"),
		},
	}
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	repo := NewStudentBookingRepo(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	booking := model.StudentBooking{
		BookingLinkID: 3,
		PoolEntryID:   7,
		StudentEmail:  "jane@x.com",
		StudentName:   "Jane Roe",
		InterviewerID: 11,
		Slot:          model.TimeSlot{StartTime: "10:00", EndTime: "10:30"},
	}
	err = repo.CreateTx(ctx, tx, &booking)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("got %v, want ErrAlreadyBooked", err)
	}
	_ = tx.Rollback()

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

// The invitation flip is conditional on PENDING; flipping an invitation
// a concurrent booking already moved to BOOKED matches no rows and must
// report ErrAlreadyBooked.
func TestMarkBooked_AlreadyFlipped(t *testing.T) {
	steps := []*dbtest.Step{
		{
			Kind:    dbtest.KindExec,
			Pattern: regexp.MustCompile(`UPDATE invitations SET booking_status = \? WHERE id = \? AND booking_status = \?`),
			Args:    []driver.Value{model.InvitationBooked, int64(42), model.InvitationPending},
			Result:  dbtest.Result{Affected: 0},
		},
	}
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	repo := NewInvitationRepo(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = repo.MarkBookedTx(ctx, tx, 42)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("got %v, want ErrAlreadyBooked", err)
	}
	_ = tx.Rollback()

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

// An unknown public id resolves to ErrLinkNotFound rather than a raw
// sql.ErrNoRows.
func TestGetLinkByPublicID_NotFound(t *testing.T) {
	steps := []*dbtest.Step{
		{
			Kind:    dbtest.KindQuery,
			Pattern: regexp.MustCompile(`SELECT id, public_id, created_by, created_at FROM booking_links WHERE public_id = \?`),
			Args:    []driver.Value{"nope"},
			Columns: []string{"id", "public_id", "created_by", "created_at"},
			Rows:    [][]driver.Value{},
		},
	}
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	repo := NewBookingLinkRepo(db)
	_, err := repo.GetByPublicID(context.Background(), "nope")
	if !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("got %v, want ErrLinkNotFound", err)
	}

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

// Re-authorizing a roster uses INSERT IGNORE, so the reported count is
// the number of rows actually inserted, not the number offered.
func TestCreateBulkInvitations_ReportsInserted(t *testing.T) {
	steps := []*dbtest.Step{
		{
			Kind:    dbtest.KindExec,
			Pattern: regexp.MustCompile(`INSERT IGNORE INTO invitations`),
			Result:  dbtest.Result{Affected: 2},
		},
	}
	db, state, cleanup := dbtest.New(t, steps)
	defer cleanup()

	repo := NewInvitationRepo(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	invs := []model.Invitation{
		{Email: "a@x.com", FullName: "A", InterviewRef: "iv-1"},
		{Email: "b@x.com", FullName: "B", InterviewRef: "iv-2"},
		{Email: "c@x.com", FullName: "C", InterviewRef: "iv-3"},
	}
	n, err := repo.CreateBulkTx(ctx, tx, 3, invs)
	if err != nil {
		t.Fatalf("create bulk: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted count: got %d, want 2", n)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := state.VerifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}
