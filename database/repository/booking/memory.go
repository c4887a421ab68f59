package bookingRepo

import (
	"context"
	"sync"

	"concierge/models"
)

// InMemoryBookingRepo is a mutex-guarded Repository for tests and
// single-process runs. It keeps the same conditional-insert semantics as
// the Mongo implementation.
type InMemoryBookingRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.Booking
	bySlot map[string]string // slot key -> booking id, confirmed only
}

func NewInMemoryBookingRepo() *InMemoryBookingRepo {
	return &InMemoryBookingRepo{
		byID:   make(map[string]*models.Booking),
		bySlot: make(map[string]string),
	}
}

func (r *InMemoryBookingRepo) BookedKeys(ctx context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make(map[string]struct{}, len(r.bySlot))
	for key := range r.bySlot {
		keys[key] = struct{}{}
	}
	return keys, nil
}

func (r *InMemoryBookingRepo) Reserve(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlot[booking.SlotKey]; taken {
		return ErrSlotTaken
	}
	// A cancelled record does not hold the ID: rebooking a freed slot
	// derives the same booking-<epoch> ID and must succeed.
	if existing, exists := r.byID[booking.ID]; exists && existing.Status == models.BookingStatusConfirmed {
		return ErrSlotTaken
	}
	stored := *booking
	r.byID[booking.ID] = &stored
	r.bySlot[booking.SlotKey] = booking.ID
	return nil
}

func (r *InMemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *InMemoryBookingRepo) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.byID[id]
	if !ok || booking.Status != models.BookingStatusConfirmed {
		return ErrNotFound
	}
	booking.Status = models.BookingStatusCancelled
	delete(r.bySlot, booking.SlotKey)
	return nil
}

// Count reports the number of stored bookings, cancelled included.
func (r *InMemoryBookingRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
