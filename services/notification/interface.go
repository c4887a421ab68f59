package notification

import (
	"context"

	"concierge/models"
)

// Sink delivers booking-related messages. Delivery is best-effort from the
// booking service's point of view: a failed send never unwinds a booking.
type Sink interface {
	// SendBookingConfirmation mails the attendee their meeting details.
	SendBookingConfirmation(ctx context.Context, booking *models.Booking, formattedStart string) error
	// SendOperatorAlert mails the operator about the new booking.
	SendOperatorAlert(ctx context.Context, booking *models.Booking, formattedStart string) error
	// SendReminder mails the attendee ahead of the meeting start.
	SendReminder(ctx context.Context, email, name, formattedStart string) error
}
