// Package mailer sends the transactional emails of the booking pipeline:
// the availability ask an interviewer receives for a new request, the
// invitation a student receives when authorized against a link, the
// confirmation after a successful booking and the reminder nudging
// students who have not booked yet.  Delivery happens from the queue
// consumer, never inline in a request handler, so a slow SMTP server
// cannot stall a booking.
package mailer

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

var (
	smtpHost = os.Getenv("SMTP_HOST")
	smtpPort = func() int {
		p, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if p == 0 {
			p = 587
		}
		return p
	}()
	smtpUser      = os.Getenv("SMTP_USER")
	smtpPass      = os.Getenv("SMTP_PASS")
	smtpFrom      = os.Getenv("SMTP_FROM") // e.g. "Recruiting <no-reply@example.org>"
	skipTLSVerify = os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1"
)

// Send delivers one HTML email over STARTTLS.  It returns an error when
// SMTP is not configured; callers treat that as a delivery failure and
// leave the triggering event unacknowledged.
func Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if smtpHost == "" || smtpFrom == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtpFrom)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: skipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}

// AvailabilityBody renders the email asking an interviewer to submit
// their free slots for a booking request date.
func AvailabilityBody(fullName, date string) (subject, html string) {
	subject = fmt.Sprintf("Availability requested for %s", date)
	html = fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Please submit your interview availability for <b>%s</b> in the booking portal, or decline with a reason if you are not available.</p>`,
		fullName, date)
	return subject, html
}

// InvitationBody renders the email sent when a student is authorized
// against a booking link.  bookingURL is the public link the student
// opens to verify their email and pick a slot.
func InvitationBody(fullName, bookingURL string) (subject, html string) {
	subject = "Interview slot booking invitation"
	html = fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have been invited to book an interview slot. Open the link below, verify your email and pick a slot that works for you:</p>
<p><a href="%s">%s</a></p>
<p>Slots are first come, first served.</p>`,
		fullName, bookingURL, bookingURL)
	return subject, html
}

// ConfirmationBody renders the email sent after a booking succeeds.
func ConfirmationBody(fullName, interviewer, date, slot string) (subject, html string) {
	subject = "Interview slot confirmed"
	html = fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your interview is confirmed:</p>
<ul><li>Interviewer: %s</li><li>Date: %s</li><li>Time: %s</li></ul>
<p>The meeting link will be shared with you separately before the interview.</p>`,
		fullName, interviewer, date, slot)
	return subject, html
}

// ReminderBody renders the nudge sent to invited students who have not
// booked yet.
func ReminderBody(fullName, bookingURL string) (subject, html string) {
	subject = "Reminder: book your interview slot"
	html = fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have not booked your interview slot yet. Remaining slots are limited:</p>
<p><a href="%s">%s</a></p>`,
		fullName, bookingURL, bookingURL)
	return subject, html
}
