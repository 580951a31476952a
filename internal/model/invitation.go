package model

import "time"

// Invitation booking_status values as stored in invitations.booking_status.
const (
	InvitationPending = "PENDING"
	InvitationBooked  = "BOOKED"
)

// Invitation authorizes one student to book against one BookingLink.
// Rows are created only from roster rows that passed validation; the
// email is stored lower-cased and is unique per link.  Authorizing a
// student also pre-creates an interview reference so downstream tracking
// systems can correlate the eventual booking.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingLinkID – link the student may book against.
//	Email         – lower-cased email, unique per link.
//	FullName      – student's full name.
//	Domain        – hiring domain or track.
//	HiringName    – requisition or campaign name.
//	ExternalID    – the student's id in the upstream applicant system.
//	Mobile        – contact number (optional).
//	ResumeLink    – URL to the student's resume (optional).
//	InterviewRef  – pre-created tracking reference for this invitation.
//	BookingStatus – PENDING until a booking consumes a pool entry, then BOOKED.
//	CreatedAt     – creation timestamp.
type Invitation struct {
	ID            uint64    // invitations.id
	BookingLinkID uint64    // invitations.booking_link_id
	Email         string    // invitations.email
	FullName      string    // invitations.full_name
	Domain        string    // invitations.domain
	HiringName    string    // invitations.hiring_name
	ExternalID    string    // invitations.external_id
	Mobile        string    // invitations.mobile
	ResumeLink    string    // invitations.resume_link
	InterviewRef  string    // invitations.interview_ref
	BookingStatus string    // invitations.booking_status
	CreatedAt     time.Time // invitations.created_at
}
