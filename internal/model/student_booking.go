package model

import "time"

// StudentBooking is the confirmed, atomic consumption of one PoolEntry by
// one student.  Creating a booking, flipping the pool entry to booked and
// moving the invitation to BOOKED happen in a single transaction; a unique
// key on (booking_link_id, student_email) guarantees at most one booking
// per student per link.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingLinkID – link the booking was made through.
//	PoolEntryID   – pool entry this booking consumed.
//	StudentEmail  – lower-cased email of the booking student.
//	StudentName   – name supplied at booking time.
//	StudentPhone  – phone supplied at booking time.
//	InterviewerID – interviewer of the claimed slot.
//	InterviewDate – date of the claimed slot.
//	Slot          – the claimed interval.
//	CreatedAt     – creation timestamp.
type StudentBooking struct {
	ID            uint64    // student_bookings.id
	BookingLinkID uint64    // student_bookings.booking_link_id
	PoolEntryID   uint64    // student_bookings.pool_entry_id
	StudentEmail  string    // student_bookings.student_email
	StudentName   string    // student_bookings.student_name
	StudentPhone  string    // student_bookings.student_phone
	InterviewerID uint64    // student_bookings.interviewer_id
	InterviewDate time.Time // student_bookings.interview_date
	Slot          TimeSlot  // student_bookings.start_time / end_time
	CreatedAt     time.Time // student_bookings.created_at
}
