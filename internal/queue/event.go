// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  All three are durable; the consumer declares them
// idempotently before consuming.
const (
	AvailabilityQueueName = "availability.requested"
	InvitationQueueName   = "invitation.created"
	BookingQueueName      = "booking.confirmed"
	ReminderQueueName     = "booking.reminder"
)

// AvailabilityRequestedEvent is published for each interviewer targeted
// by a new booking request.  The consumer turns it into the email asking
// the interviewer to submit their free slots for the date.
type AvailabilityRequestedEvent struct {
	RequestID   uint64 `json:"request_id"`
	RequestDate string `json:"request_date"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	RequestedAt string `json:"requested_at"`
}

// InvitationCreatedEvent is published for every student newly authorized
// against a booking link.  The consumer turns it into the invitation
// email; the payload carries everything needed so the consumer never
// queries the primary database.
type InvitationCreatedEvent struct {
	PublicID     string `json:"public_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	InterviewRef string `json:"interview_ref"`
	BookingURL   string `json:"booking_url"`
	CreatedAt    string `json:"created_at"`
}

// BookingConfirmedEvent is published when a slot booking commits.  It
// drives the confirmation email and gives downstream consumers enough to
// log or trigger analytics.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	PublicID        string `json:"public_id"`
	StudentEmail    string `json:"student_email"`
	StudentName     string `json:"student_name"`
	InterviewerID   uint64 `json:"interviewer_id"`
	InterviewerName string `json:"interviewer_name"`
	InterviewDate   string `json:"interview_date"`
	SlotLabel       string `json:"slot"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// BookingReminderEvent is published for each still-pending invitation
// when an admin triggers reminders on a link.
type BookingReminderEvent struct {
	PublicID   string `json:"public_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	BookingURL string `json:"booking_url"`
	QueuedAt   string `json:"queued_at"`
}
