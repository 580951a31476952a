// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios: policy violations
// (a closed request, an expired edit window), conflicts arising from the
// booking race, and plain missing rows.  Handlers translate them into
// the appropriate HTTP status codes.
package repository

import "errors"

// ErrRequestNotFound is returned when a booking request id does not exist.
var ErrRequestNotFound = errors.New("booking request not found")

// ErrSubmissionNotFound is returned when no submission exists for the
// given (booking request, interviewer) pair.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrLinkNotFound is returned when a booking link id or public id does
// not resolve to a link.
var ErrLinkNotFound = errors.New("booking link not found")

// ErrRequestClosed is returned when an interviewer attempts to edit a
// submission whose booking request has been closed by an admin.
var ErrRequestClosed = errors.New("booking request is closed")

// ErrEditWindowExpired is returned when the request date has fallen out
// of the edit window (older than yesterday).
var ErrEditWindowExpired = errors.New("edit window has expired")

// ErrPoolEntryNotFound is returned when the targeted (interviewer, date,
// slot) tuple was never published into the link.
var ErrPoolEntryNotFound = errors.New("pool entry not found")

// ErrSlotUnavailable is returned when the targeted pool entry was already
// booked.  This is the losing outcome of the booking race and must be
// surfaced distinctly so clients can prompt for another slot.
var ErrSlotUnavailable = errors.New("slot no longer available")

// ErrAlreadyBooked is returned when the student already holds a booking
// on the link.
var ErrAlreadyBooked = errors.New("student already booked on this link")

// ErrNotAuthorized is returned when an email is not on the allowlist of a
// booking link.
var ErrNotAuthorized = errors.New("email not authorized for this link")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed due to
// conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
