package booking

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	bookingRepo "concierge/database/repository/booking"
	"concierge/models"
	"concierge/services/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) SendBookingConfirmation(ctx context.Context, booking *models.Booking, formattedStart string) error {
	args := m.Called(ctx, booking, formattedStart)
	return args.Error(0)
}

func (m *MockSink) SendOperatorAlert(ctx context.Context, booking *models.Booking, formattedStart string) error {
	args := m.Called(ctx, booking, formattedStart)
	return args.Error(0)
}

func (m *MockSink) SendReminder(ctx context.Context, email, name, formattedStart string) error {
	args := m.Called(ctx, email, name, formattedStart)
	return args.Error(0)
}

type MockReminderScheduler struct {
	mock.Mock
}

func (m *MockReminderScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking, formattedStart string) error {
	args := m.Called(ctx, booking, formattedStart)
	return args.Error(0)
}

func testClock(t *testing.T) func() time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	// 2025-06-02 is a Monday; the test window opens at 14:00 that day.
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, loc)
	return func() time.Time { return now }
}

func testCalculator(t *testing.T) *scheduling.Calculator {
	t.Helper()
	calc, err := scheduling.NewCalculator([]models.AvailabilityWindow{
		{Weekday: time.Monday, Start: "14:00", End: "17:00"},
	}, "Asia/Singapore", 1)
	require.NoError(t, err)
	return calc
}

func newTestService(t *testing.T, repo bookingRepo.Repository, sink *MockSink) *DefaultBookingService {
	t.Helper()
	return &DefaultBookingService{
		Repo:          repo,
		Slots:         testCalculator(t),
		Notifier:      sink,
		OperatorName:  "Sahil",
		OperatorEmail: "owner@example.com",
		Now:           testClock(t),
	}
}

func TestBook_RejectsInvalidEmail(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	sink := new(MockSink)
	svc := newTestService(t, repo, sink)

	result := svc.Book(context.Background(), "not-an-email", 1, "Jordan Martinez")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "valid email address")
	assert.Zero(t, repo.Count(), "rejected booking must not write to the store")
	sink.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_RejectsDisposableEmail(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	svc := newTestService(t, repo, new(MockSink))

	result := svc.Book(context.Background(), "someone@mailinator.com", 1, "Jordan Martinez")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "Disposable email")
	assert.Zero(t, repo.Count())
}

func TestBook_RejectsShortName(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	svc := newTestService(t, repo, new(MockSink))

	result := svc.Book(context.Background(), "jordan@example.com", 1, "Jo")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "full name")
	assert.Zero(t, repo.Count())
}

func TestBook_RejectsPlaceholderName(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	svc := newTestService(t, repo, new(MockSink))

	// Every blocklisted placeholder is also under the length floor, so the
	// rejection reads as a name problem either way.
	result := svc.Book(context.Background(), "jordan@example.com", 1, "test")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "name")
	assert.Zero(t, repo.Count())
}

func TestBook_RejectsOutOfRangeSlotIndex(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	svc := newTestService(t, repo, new(MockSink))

	for _, index := range []int{0, -1, 7, 100} {
		result := svc.Book(context.Background(), "jordan@example.com", index, "Jordan Martinez")
		assert.False(t, result.Success, "index %d", index)
		assert.Contains(t, result.Reason, "Invalid slot number. Choose 1-6.")
	}
	assert.Zero(t, repo.Count())
}

func TestBook_Success(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	sink := new(MockSink)
	sink.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sink.On("SendOperatorAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reminders := new(MockReminderScheduler)
	reminders.On("ScheduleReminder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, repo, sink)
	svc.Reminders = reminders

	result := svc.Book(context.Background(), "jordan@example.com", 1, "Jordan Martinez")

	require.True(t, result.Success, "reason: %s", result.Reason)
	loc, _ := time.LoadLocation("Asia/Singapore")
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, loc)
	assert.Equal(t, "booking-"+strconv.FormatInt(start.Unix(), 10), result.BookingID)
	assert.Equal(t, "Monday, June 02 at 02:00 PM SGT", result.FormattedStart)
	assert.Equal(t, "jordan@example.com", result.AttendeeEmail)
	assert.Equal(t, 1, repo.Count())

	stored, err := repo.GetByID(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, scheduling.SlotKey(start), stored.SlotKey)
	assert.True(t, stored.End.Equal(start.Add(models.SlotDuration)))

	sink.AssertExpectations(t)
	reminders.AssertExpectations(t)
}

func TestBook_SecondBookingGetsNextSlot(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	sink := new(MockSink)
	sink.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sink.On("SendOperatorAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(t, repo, sink)

	first := svc.Book(context.Background(), "jordan@example.com", 1, "Jordan Martinez")
	require.True(t, first.Success)

	// The listing re-derives, so slot 1 is now 14:30.
	second := svc.Book(context.Background(), "casey@example.com", 1, "Casey Nakamura")
	require.True(t, second.Success)
	assert.Equal(t, "Monday, June 02 at 02:30 PM SGT", second.FormattedStart)
	assert.NotEqual(t, first.BookingID, second.BookingID)
}

// staleViewRepo hides existing bookings from slot derivation so two callers
// can race for the same slot. Reserve keeps its conditional semantics.
type staleViewRepo struct {
	*bookingRepo.InMemoryBookingRepo
}

func (r *staleViewRepo) BookedKeys(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func TestBook_ConcurrentSameSlotOneWinner(t *testing.T) {
	inner := bookingRepo.NewInMemoryBookingRepo()
	repo := &staleViewRepo{InMemoryBookingRepo: inner}

	sink := new(MockSink)
	sink.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sink.On("SendOperatorAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(t, repo, sink)

	results := make([]models.BookingResult, 2)
	var wg sync.WaitGroup
	for i, email := range []string{"jordan@example.com", "casey@example.com"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			results[i] = svc.Book(context.Background(), email, 1, "Attendee Number "+email)
		}(i, email)
	}
	wg.Wait()

	successes := 0
	for _, result := range results {
		if result.Success {
			successes++
		} else {
			assert.Contains(t, result.Reason, "just taken")
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, inner.Count())
}

type brokenRepo struct {
	*bookingRepo.InMemoryBookingRepo
}

func (r *brokenRepo) Reserve(ctx context.Context, booking *models.Booking) error {
	return errors.New("connection reset by peer")
}

func TestBook_StoreFailureSurfacesReason(t *testing.T) {
	repo := &brokenRepo{InMemoryBookingRepo: bookingRepo.NewInMemoryBookingRepo()}
	svc := newTestService(t, repo, new(MockSink))

	result := svc.Book(context.Background(), "jordan@example.com", 1, "Jordan Martinez")

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "Couldn't book meeting")
}

func TestBook_NotificationFailureDoesNotFailBooking(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	sink := new(MockSink)
	sink.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	sink.On("SendOperatorAlert", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	svc := newTestService(t, repo, sink)

	result := svc.Book(context.Background(), "jordan@example.com", 1, "Jordan Martinez")

	assert.True(t, result.Success)
	assert.Equal(t, 1, repo.Count())
}

func TestListSlots_NumberedMenu(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	svc := newTestService(t, repo, new(MockSink))

	text := svc.ListSlots(context.Background())

	assert.Contains(t, text, "Available 30-minute meeting slots:")
	assert.Contains(t, text, "1. Monday, June 02 at 02:00 PM SGT")
	assert.Contains(t, text, "6. Monday, June 02 at 04:30 PM SGT")
	assert.NotContains(t, text, "7.")
	assert.Contains(t, text, "To book:")
}

func TestListSlots_EmptyMentionsOperator(t *testing.T) {
	svc := newTestService(t, bookingRepo.NewInMemoryBookingRepo(), new(MockSink))
	// No Monday fits in a one-day horizon starting Sunday.
	loc, _ := time.LoadLocation("Asia/Singapore")
	svc.Now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, loc) }

	text := svc.ListSlots(context.Background())

	assert.Contains(t, text, "No available slots")
	assert.Contains(t, text, "Sahil")
	assert.Contains(t, text, "owner@example.com")
}

func TestCancel_FreesTheSlot(t *testing.T) {
	repo := bookingRepo.NewInMemoryBookingRepo()
	sink := new(MockSink)
	sink.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sink.On("SendOperatorAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(t, repo, sink)

	booked := svc.Book(context.Background(), "jordan@example.com", 1, "Jordan Martinez")
	require.True(t, booked.Success)

	require.NoError(t, svc.Cancel(context.Background(), booked.BookingID))

	// The 14:00 slot is offered again.
	rebooked := svc.Book(context.Background(), "casey@example.com", 1, "Casey Nakamura")
	require.True(t, rebooked.Success)
	assert.Equal(t, "Monday, June 02 at 02:00 PM SGT", rebooked.FormattedStart)
}

func TestCancel_UnknownBooking(t *testing.T) {
	svc := newTestService(t, bookingRepo.NewInMemoryBookingRepo(), new(MockSink))
	err := svc.Cancel(context.Background(), "booking-0")
	assert.ErrorIs(t, err, bookingRepo.ErrNotFound)
}

func TestValidateAttendee_Order(t *testing.T) {
	// Email problems win over name problems.
	reason := validateAttendee("nope", "x")
	assert.Contains(t, reason, "valid email address")

	reason = validateAttendee("x@tempmail.org", "x")
	assert.Contains(t, reason, "Disposable email")

	assert.Empty(t, validateAttendee("jordan@example.com", "  Jordan Martinez  "))
}

