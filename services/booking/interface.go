package booking

import (
	"context"

	"concierge/models"
)

// Service is the externally callable booking surface. It backs both the
// REST endpoints and the tools exposed to the assistant.
type Service interface {
	// ListSlots returns the formatted menu of up to 10 upcoming slots,
	// each carrying a 1-based ordinal.
	ListSlots(ctx context.Context) string
	// Book validates the attendee, resolves the 1-based slot ordinal
	// against a fresh slot listing, persists the booking, and fires the
	// confirmation notifications. Rejections come back as a structured
	// result, never as an error.
	Book(ctx context.Context, email string, slotIndex int, name string) models.BookingResult
	// Cancel transitions a confirmed booking to cancelled.
	Cancel(ctx context.Context, bookingID string) error
}

// ReminderScheduler schedules a meeting reminder for a confirmed booking.
// Scheduling is best-effort; failures never affect the booking outcome.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking, formattedStart string) error
}
