package bookingRepo

import (
	"context"
	"errors"

	"concierge/models"
)

// ErrSlotTaken is returned by Reserve when a confirmed booking already holds
// the slot key. Reserve must never overwrite an existing record.
var ErrSlotTaken = errors.New("slot already booked")

// ErrNotFound is returned when no booking matches the given identifier, or
// when a cancellation targets a booking that is not confirmed.
var ErrNotFound = errors.New("booking not found")

// Repository is the source of truth for confirmed bookings and the sole
// owner of booking records.
type Repository interface {
	// BookedKeys returns the slot keys of all confirmed bookings. It fails
	// soft: a store that has never been initialized yields an empty set.
	BookedKeys(ctx context.Context) (map[string]struct{}, error)
	// Reserve inserts a new confirmed booking. The insert is conditional on
	// the slot key being absent; a collision returns ErrSlotTaken.
	Reserve(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its identifier.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Cancel transitions a confirmed booking to cancelled. Cancelling a
	// missing or already-cancelled booking returns ErrNotFound.
	Cancel(ctx context.Context, id string) error
}
