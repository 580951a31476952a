package model

import "time"

// BookingLink is a published, shareable snapshot of selected interview
// slots plus an allowlist of invited students.  The snapshot is immutable
// once issued: pool entries are never added to or removed from a link,
// only consumed by bookings.  The public id is the opaque, URL-safe token
// students use to reach the link without authentication.
//
// Fields:
//
//	ID        – primary key identifier.
//	PublicID  – opaque URL-safe identifier exposed to students.
//	CreatedBy – admin user who issued the link.
//	CreatedAt – creation timestamp.
type BookingLink struct {
	ID        uint64    // booking_links.id
	PublicID  string    // booking_links.public_id
	CreatedBy uint64    // booking_links.created_by
	CreatedAt time.Time // booking_links.created_at
}

// PoolEntry is a single reservable (interviewer, date, slot) tuple frozen
// into a BookingLink at issue time.  Each entry belongs to exactly one
// link and its Booked flag flips false->true exactly once, under a
// conditional update so that two racing bookings cannot both claim it.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingLinkID – owning link.
//	InterviewerID – interviewer offering the slot.
//	InterviewDate – date of the interview (UTC, day precision).
//	Slot          – the reservable interval.
//	Booked        – whether the entry has been consumed.
//	CreatedAt     – creation timestamp.
type PoolEntry struct {
	ID            uint64    // pool_entries.id
	BookingLinkID uint64    // pool_entries.booking_link_id
	InterviewerID uint64    // pool_entries.interviewer_id
	InterviewDate time.Time // pool_entries.interview_date
	Slot          TimeSlot  // pool_entries.start_time / end_time
	Booked        bool      // pool_entries.booked
	CreatedAt     time.Time // pool_entries.created_at
}
