package handler

// The booking transaction shared by the public booking endpoint and the
// admin manual-booking bridge.  Claiming a slot touches three tables and
// must be all-or-nothing: insert the booking row, flip the pool entry to
// booked and move the invitation to BOOKED.  The pool entry flip is a
// conditional UPDATE and the booking insert is guarded by a unique key,
// so two racing claims on the same entry or the same student commit at
// most once; the loser rolls back untouched.

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/recruitops/interview-booking/internal/model"
	"github.com/recruitops/interview-booking/internal/queue"
	"github.com/recruitops/interview-booking/internal/repository"
	queue_publisher "github.com/recruitops/interview-booking/internal/service"
)

// claimSlot runs the full booking transaction for one student against
// one link.  The booking struct must carry the link id, the targeted
// (interviewer, date, slot) tuple and the student's identity; on success
// its ID, PoolEntryID and CreatedAt are populated.  It returns
// repository.ErrPoolEntryNotFound when the tuple was never published
// into the link, repository.ErrSlotUnavailable when a concurrent booking
// claimed the entry first and repository.ErrAlreadyBooked when the
// student already holds a booking on the link.
func claimSlot(ctx context.Context, db *sql.DB,
	links *repository.BookingLinkRepo,
	bookings *repository.StudentBookingRepo,
	invitations *repository.InvitationRepo,
	invitationID uint64, b *model.StudentBooking) error {

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry, err := links.FindEntryTx(ctx, tx, b.BookingLinkID, b.InterviewerID, b.InterviewDate, b.Slot)
	if err != nil {
		return err
	}
	if err := links.ClaimEntryTx(ctx, tx, entry.ID); err != nil {
		return err
	}
	b.PoolEntryID = entry.ID
	if err := bookings.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	if err := invitations.MarkBookedTx(ctx, tx, invitationID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// publishBookingConfirmed emits the confirmation event for a committed
// booking in the background.  The booking already succeeded, so a broker
// or lookup failure is only logged.
func publishBookingConfirmed(users *repository.UserRepo, link model.BookingLink, b model.StudentBooking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		interviewerName := ""
		if u, err := users.GetByID(ctx, b.InterviewerID); err == nil {
			interviewerName = u.FullName
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:       b.ID,
			PublicID:        link.PublicID,
			StudentEmail:    b.StudentEmail,
			StudentName:     b.StudentName,
			InterviewerID:   b.InterviewerID,
			InterviewerName: interviewerName,
			InterviewDate:   b.InterviewDate.Format(dateLayout),
			SlotLabel:       b.Slot.Label(),
			ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("confirmation event for booking %d not published: %v", b.ID, err)
		}
	}()
}
