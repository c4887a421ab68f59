package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "concierge/database/repository/booking"
	"concierge/models"
	"concierge/services/notification"
	"concierge/services/scheduling"
	"concierge/utils"

	"go.uber.org/zap"
)

// DefaultBookingService orchestrates slot lookup, validation, persistence,
// and confirmation side effects.
type DefaultBookingService struct {
	Repo          bookingRepo.Repository
	Slots         *scheduling.Calculator
	Notifier      notification.Sink
	Reminders     ReminderScheduler // optional
	OperatorName  string
	OperatorEmail string

	// Now is the clock used for slot derivation; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// availableSlots re-derives the slot list fresh. Slot ordinals are only
// meaningful against the listing produced by the same call.
func (s *DefaultBookingService) availableSlots(ctx context.Context) []models.Slot {
	booked, err := s.Repo.BookedKeys(ctx)
	if err != nil {
		utils.GetLogger().Warn("failed to load booked slots", zap.Error(err))
		booked = map[string]struct{}{}
	}
	return s.Slots.ListAvailable(s.now(), booked)
}

// ListSlots returns the numbered text menu of upcoming slots.
func (s *DefaultBookingService) ListSlots(ctx context.Context) string {
	slots := s.availableSlots(ctx)
	if len(slots) == 0 {
		return fmt.Sprintf("No available slots in the next 14 days. Contact %s directly at %s.",
			s.OperatorName, s.OperatorEmail)
	}

	var sb strings.Builder
	sb.WriteString("Available 30-minute meeting slots:\n\n")
	for i, slot := range slots {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, scheduling.FormatSlotTime(slot.Start))
	}
	sb.WriteString("\nTo book: provide your name, email and slot number (e.g., 'Book slot 3, my email is you@example.com').")
	return sb.String()
}

// Book runs the validation pipeline, reserves the selected slot, and sends
// the confirmation notifications. Validation failures reject before any
// mutation; notification failures are logged and never fail the booking.
func (s *DefaultBookingService) Book(ctx context.Context, email string, slotIndex int, name string) models.BookingResult {
	logger := utils.GetLogger()

	if reason := validateAttendee(email, name); reason != "" {
		return models.BookingResult{Success: false, Reason: reason}
	}

	slots := s.availableSlots(ctx)
	if len(slots) == 0 {
		return models.BookingResult{Success: false, Reason: "No available slots found."}
	}
	if slotIndex < 1 || slotIndex > len(slots) {
		return models.BookingResult{
			Success: false,
			Reason:  fmt.Sprintf("Invalid slot number. Choose 1-%d.", len(slots)),
		}
	}

	slot := slots[slotIndex-1]
	booking := &models.Booking{
		ID:            fmt.Sprintf("booking-%d", slot.Start.Unix()),
		SlotKey:       slot.Key,
		AttendeeEmail: email,
		AttendeeName:  strings.TrimSpace(name),
		Start:         slot.Start,
		End:           slot.Start.Add(models.SlotDuration),
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Reserve(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return models.BookingResult{
				Success: false,
				Reason:  "That slot was just taken. Please list the slots again and pick another one.",
			}
		}
		logger.Error("failed to persist booking", zap.String("slot_key", slot.Key), zap.Error(err))
		return models.BookingResult{
			Success: false,
			Reason:  fmt.Sprintf("Couldn't book meeting: %v", err),
		}
	}

	formattedStart := scheduling.FormatSlotTime(slot.Start)

	// Side effects past this point are best-effort; the booking stands.
	if err := s.Notifier.SendBookingConfirmation(ctx, booking, formattedStart); err != nil {
		logger.Warn("attendee confirmation failed", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	if err := s.Notifier.SendOperatorAlert(ctx, booking, formattedStart); err != nil {
		logger.Warn("operator notification failed", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, booking, formattedStart); err != nil {
			logger.Warn("reminder scheduling failed", zap.String("booking_id", booking.ID), zap.Error(err))
		}
	}

	logger.Info("booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("slot_key", booking.SlotKey),
		zap.String("attendee_email", booking.AttendeeEmail),
	)

	return models.BookingResult{
		Success:        true,
		BookingID:      booking.ID,
		FormattedStart: formattedStart,
		AttendeeEmail:  email,
	}
}

// Cancel transitions a confirmed booking to cancelled, freeing its slot.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string) error {
	if err := s.Repo.Cancel(ctx, bookingID); err != nil {
		return err
	}
	utils.GetLogger().Info("booking cancelled", zap.String("booking_id", bookingID))
	return nil
}
