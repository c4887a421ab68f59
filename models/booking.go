package models

import "time"

// Booking status values. A booking never leaves "confirmed" except through
// an explicit cancellation.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// SlotDuration is the fixed length of every meeting slot.
const SlotDuration = 30 * time.Minute

// AvailabilityWindow is one recurring block of the weekly schedule.
// Times are "HH:MM" in the calendar timezone.
type AvailabilityWindow struct {
	Weekday time.Weekday `json:"weekday"`
	Start   string       `json:"start"`
	End     string       `json:"end"`
}

// Slot is a bookable 30-minute interval derived from the weekly schedule.
// Slots are never stored; only a confirmed booking persists one. Two slots
// are the same slot iff their keys are equal.
type Slot struct {
	Start time.Time `json:"start"`
	Key   string    `json:"key"` // RFC 3339 of Start in the calendar timezone
}

// Booking represents a confirmed meeting record.
type Booking struct {
	ID            string    `bson:"id" json:"id"`                         // "booking-<start epoch seconds>"
	SlotKey       string    `bson:"slot_key" json:"slot_key"`             // canonical slot key, unique
	AttendeeEmail string    `bson:"attendee_email" json:"attendee_email"` //
	AttendeeName  string    `bson:"attendee_name" json:"attendee_name"`   //
	Start         time.Time `bson:"start" json:"start"`                   //
	End           time.Time `bson:"end" json:"end"`                       // Start + 30 minutes
	Status        string    `bson:"status" json:"status"`                 // "confirmed" or "cancelled"
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`         //
}

// BookingResult is the structured outcome of a booking attempt. Reason is
// user-facing and only set when Success is false.
type BookingResult struct {
	Success        bool   `json:"success"`
	BookingID      string `json:"booking_id,omitempty"`
	FormattedStart string `json:"start_time,omitempty"`
	AttendeeEmail  string `json:"attendee_email,omitempty"`
	Reason         string `json:"reason,omitempty"`
}
