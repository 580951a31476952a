package model

import "time"

// Submission status values as stored in submissions.status.
const (
	SubmissionPending      = "PENDING"
	SubmissionSubmitted    = "SUBMITTED"
	SubmissionNotAvailable = "NOT_AVAILABLE"
)

// Submission is one interviewer's response to a BookingRequest.  Exactly
// one row exists per (booking_request_id, interviewer_id) pair, enforced
// by a unique key.  Slots are present only while the status is SUBMITTED;
// resubmitting replaces the slot list wholesale, and an admin reset moves
// the row back to PENDING and discards slots and remarks.
//
// Fields:
//
//	ID               – primary key identifier.
//	BookingRequestID – request this submission answers.
//	InterviewerID    – interviewer who owns the submission.
//	Status           – PENDING, SUBMITTED or NOT_AVAILABLE.
//	Slots            – declared free intervals (SUBMITTED only).
//	Remarks          – optional free text attached on submit.
//	DeclineReason    – reason given when declining (NOT_AVAILABLE only).
//	SubmittedAt      – when the interviewer last submitted (nullable).
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – timestamp of last update.
type Submission struct {
	ID               uint64     // submissions.id
	BookingRequestID uint64     // submissions.booking_request_id
	InterviewerID    uint64     // submissions.interviewer_id
	Status           string     // submissions.status
	Slots            []TimeSlot // submission_slots rows
	Remarks          *string    // submissions.remarks (nullable)
	DeclineReason    *string    // submissions.decline_reason (nullable)
	SubmittedAt      *time.Time // submissions.submitted_at (nullable)
	CreatedAt        time.Time  // submissions.created_at
	UpdatedAt        time.Time  // submissions.updated_at
}
