package notification

import (
	"context"
	"fmt"

	"concierge/models"

	"gopkg.in/gomail.v2"
)

// SMTPSink is the production Sink, delivering HTML mail over SMTP.
type SMTPSink struct {
	dialer        *gomail.Dialer
	from          string
	operatorName  string
	operatorEmail string
}

func NewSMTPSink(host string, port int, username, password, operatorName, operatorEmail string) *SMTPSink {
	return &SMTPSink{
		dialer:        gomail.NewDialer(host, port, username, password),
		from:          operatorEmail,
		operatorName:  operatorName,
		operatorEmail: operatorEmail,
	}
}

func (s *SMTPSink) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSink) SendBookingConfirmation(ctx context.Context, booking *models.Booking, formattedStart string) error {
	body := fmt.Sprintf(`
	<html><body>
		<h2>Meeting Confirmed with %s</h2>
		<p>Hi %s,</p>
		<p>Your 30-minute meeting has been scheduled!</p>
		<div style="background: #f5f5f5; padding: 15px; margin: 20px 0;">
			<strong>%s</strong><br>
			Duration: 30 minutes<br>
			With: %s (%s)
		</div>
		<p>%s will send you a Google Meet link before the meeting.</p>
		<p>Looking forward to our conversation!<br>- %s</p>
	</body></html>
	`, s.operatorName, booking.AttendeeName, formattedStart,
		s.operatorName, s.operatorEmail, s.operatorName, s.operatorName)

	return s.send(booking.AttendeeEmail, "Meeting Confirmed with "+s.operatorName, body)
}

func (s *SMTPSink) SendOperatorAlert(ctx context.Context, booking *models.Booking, formattedStart string) error {
	body := fmt.Sprintf(`
	<html><body>
		<h2>New Meeting Booked</h2>
		<div style="background: #e8f5e9; padding: 15px;">
			<strong>%s</strong><br>
			With: %s (%s)<br>
			Duration: 30 minutes
		</div>
		<p>Send the Google Meet link to %s before the meeting.</p>
	</body></html>
	`, formattedStart, booking.AttendeeName, booking.AttendeeEmail, booking.AttendeeEmail)

	return s.send(s.operatorEmail, "New Meeting: "+booking.AttendeeName, body)
}

func (s *SMTPSink) SendReminder(ctx context.Context, email, name, formattedStart string) error {
	body := fmt.Sprintf(`
	<html><body>
		<h2>Meeting Reminder</h2>
		<p>Hi %s,</p>
		<p>A reminder that your 30-minute meeting with %s is coming up:</p>
		<div style="background: #f5f5f5; padding: 15px; margin: 20px 0;">
			<strong>%s</strong>
		</div>
		<p>See you soon!<br>- %s</p>
	</body></html>
	`, name, s.operatorName, formattedStart, s.operatorName)

	return s.send(email, "Meeting Reminder: "+formattedStart, body)
}
