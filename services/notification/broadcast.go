package notification

import (
	"context"
	"fmt"
	"time"

	"gharseva/models"
	"gharseva/services/tasks"
	"gharseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EnqueueBroadcast records the broadcast and hands the fan-out to the
// async worker. The API call returns as soon as the task is queued.
func (s *DefaultNotificationService) EnqueueBroadcast(req models.BroadcastRequest, sentBy string) (*models.Broadcast, error) {
	broadcast := &models.Broadcast{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: req.TargetAudience,
		SentBy:         sentBy,
		CreatedAt:      time.Now(),
	}
	if err := s.Repo.CreateBroadcast(broadcast); err != nil {
		return nil, err
	}

	if s.Queue == nil {
		return nil, fmt.Errorf("broadcast queue is not configured")
	}

	task, err := tasks.NewBroadcastTask(tasks.BroadcastPayload{
		BroadcastID:    broadcast.ID,
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: req.TargetAudience,
		UserIDs:        req.UserIDs,
		SentBy:         sentBy,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.Queue.Enqueue(task); err != nil {
		utils.GetLogger().Error("EnqueueBroadcast: failed to enqueue fan-out",
			zap.String("broadcastId", broadcast.ID), zap.Error(err))
		return nil, err
	}

	utils.GetLogger().Info("Queued broadcast",
		zap.String("broadcastId", broadcast.ID), zap.String("audience", req.TargetAudience))
	return broadcast, nil
}

// DeliverBroadcast resolves the audience, inserts the per-user rows in one
// batch and pushes best-effort. Returns the recipient count.
func (s *DefaultNotificationService) DeliverBroadcast(ctx context.Context, broadcastID, title, message, audience string, userIDs []string) (int64, error) {
	recipients := userIDs
	if audience != "explicit" {
		role := ""
		if audience == models.RoleResident || audience == models.RoleSevak {
			role = audience
		}
		ids, err := s.UserRepo.ListIDsByRole(role)
		if err != nil {
			return 0, err
		}
		recipients = ids
	}

	now := time.Now()
	rows := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, models.Notification{
			ID:        uuid.New().String(),
			UserID:    userID,
			Type:      models.NotificationBroadcast,
			Title:     title,
			Body:      message,
			Data:      map[string]string{"broadcastId": broadcastID},
			IsRead:    false,
			CreatedAt: now,
		})
	}
	if err := s.Repo.BulkCreate(rows); err != nil {
		return 0, err
	}

	for _, userID := range recipients {
		if err := s.SendPush(ctx, userID, title, message, map[string]string{"broadcastId": broadcastID}); err != nil {
			utils.GetLogger().Warn("DeliverBroadcast: push failed",
				zap.String("userId", userID), zap.Error(err))
		}
	}

	count := int64(len(recipients))
	if err := s.Repo.SetBroadcastRecipientCount(broadcastID, count); err != nil {
		utils.GetLogger().Warn("DeliverBroadcast: failed to record recipient count",
			zap.String("broadcastId", broadcastID), zap.Error(err))
	}

	utils.GetLogger().Info("Delivered broadcast",
		zap.String("broadcastId", broadcastID), zap.Int64("recipients", count))
	return count, nil
}

// ListBroadcasts pages through past broadcasts.
func (s *DefaultNotificationService) ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error) {
	return s.Repo.ListBroadcasts(page, limit)
}

// ScheduleReminder queues a reminder one hour before the booking's slot.
// Slots already less than an hour away get no reminder.
func (s *DefaultNotificationService) ScheduleReminder(booking *models.Booking) error {
	if s.Queue == nil {
		return nil
	}

	slot, err := time.ParseInLocation("2006-01-02 15:04", booking.ScheduledDate+" "+booking.ScheduledTime, time.Local)
	if err != nil {
		return fmt.Errorf("unparseable booking slot %q %q: %w", booking.ScheduledDate, booking.ScheduledTime, err)
	}
	fireAt := slot.Add(-time.Hour)
	if !fireAt.After(time.Now()) {
		return nil
	}

	sevakID := ""
	if booking.SevakID != nil {
		sevakID = *booking.SevakID
	}
	task, opts, err := tasks.NewReminderTask(tasks.ReminderPayload{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		ResidentID:    booking.ResidentID,
		SevakID:       sevakID,
		ScheduledDate: booking.ScheduledDate,
		ScheduledTime: booking.ScheduledTime,
	}, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		return err
	}
	return nil
}

// SendReminder notifies both parties of an upcoming booking. Reminders for
// bookings that were cancelled after scheduling are suppressed by the
// worker before this call.
func (s *DefaultNotificationService) SendReminder(ctx context.Context, bookingID, bookingNumber, residentID, sevakID, date, timeLabel string) error {
	body := fmt.Sprintf("Booking %s is scheduled for %s at %s.", bookingNumber, date, timeLabel)
	data := map[string]string{"bookingId": bookingID}

	s.Notify(residentID, models.NotificationBookingReminder, "Upcoming booking", body, data)
	if sevakID != "" {
		s.Notify(sevakID, models.NotificationBookingReminder, "Upcoming job", body, data)
	}
	return nil
}
