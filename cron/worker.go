package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"concierge/config"
	bookingRepo "concierge/database/repository/booking"
	"concierge/models"
	"concierge/services/notification"
	"concierge/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReminderSend = "reminder:send"

// reminderLead is how far before the meeting start the reminder goes out.
const reminderLead = time.Hour

// ReminderPayload is the task body for a scheduled meeting reminder.
type ReminderPayload struct {
	BookingID      string `json:"booking_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	FormattedStart string `json:"formatted_start"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}
}

// AsynqReminderScheduler enqueues reminder tasks for confirmed bookings.
type AsynqReminderScheduler struct {
	client *asynq.Client

	// Now is the clock used for the lead-time check; nil means time.Now.
	Now func() time.Time
}

func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{client: asynq.NewClient(redisOpts())}
}

func (s *AsynqReminderScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ScheduleReminder queues a reminder for one hour before the meeting.
// Meetings starting sooner than that get no reminder.
func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking, formattedStart string) error {
	remindAt := booking.Start.Add(-reminderLead)
	if !remindAt.After(s.now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		BookingID:      booking.ID,
		Email:          booking.AttendeeEmail,
		Name:           booking.AttendeeName,
		FormattedStart: formattedStart,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(remindAt)); err != nil {
		return fmt.Errorf("enqueue reminder for %s: %w", booking.ID, err)
	}
	return nil
}

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(repo bookingRepo.Repository, sink notification.Sink) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, sink))

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("reminder worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// handleReminderTask sends the reminder unless the booking was cancelled in
// the meantime.
func handleReminderTask(repo bookingRepo.Repository, sink notification.Sink) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		logger := utils.GetLogger()

		var p ReminderPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("unmarshal reminder payload: %w", err)
		}

		booking, err := repo.GetByID(ctx, p.BookingID)
		if err != nil {
			logger.Warn("reminder skipped, booking not found", zap.String("booking_id", p.BookingID))
			return nil
		}
		if booking.Status != models.BookingStatusConfirmed {
			logger.Info("reminder skipped, booking no longer confirmed",
				zap.String("booking_id", p.BookingID), zap.String("status", booking.Status))
			return nil
		}

		if err := sink.SendReminder(ctx, p.Email, p.Name, p.FormattedStart); err != nil {
			return fmt.Errorf("send reminder for %s: %w", p.BookingID, err)
		}
		logger.Info("reminder sent", zap.String("booking_id", p.BookingID))
		return nil
	}
}
