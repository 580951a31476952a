package model

import "time"

// BookingRequest status values as stored in booking_requests.status.
const (
	RequestOpen   = "OPEN"
	RequestClosed = "CLOSED"
)

// BookingRequest represents an admin's ask for interviewer availability on
// one calendar date.  Creating a request spawns one Submission per target
// interviewer.  Only admins may toggle the status, and the only transitions
// are OPEN->CLOSED and CLOSED->OPEN; closing a request freezes further
// interviewer edits without touching existing submissions.
//
// Fields:
//
//	ID          – primary key identifier.
//	RequestDate – the date availability is requested for (UTC, day precision).
//	Status      – OPEN or CLOSED.
//	CreatedBy   – admin user who created the request.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – timestamp of last update.
type BookingRequest struct {
	ID          uint64    // booking_requests.id
	RequestDate time.Time // booking_requests.request_date
	Status      string    // booking_requests.status
	CreatedBy   uint64    // booking_requests.created_by
	CreatedAt   time.Time // booking_requests.created_at
	UpdatedAt   time.Time // booking_requests.updated_at
}

// EditableOn reports whether a request dated requestDate may still be
// edited at the moment now.  A request is editable while its date is
// yesterday, today or any later day; once the date is two or more days in
// the past the edit window has expired.  Comparison happens in UTC at day
// granularity so the rule flips at midnight, not on a rolling 24h clock.
func EditableOn(requestDate, now time.Time) bool {
	day := func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	cutoff := day(now).AddDate(0, 0, -1)
	return !day(requestDate).Before(cutoff)
}
