package notification

import (
	"context"

	"gharseva/models"

	notificationRepo "gharseva/database/repository/notification"
	userRepo "gharseva/database/repository/user"

	"github.com/hibiken/asynq"
)

// NotificationService delivers in-app notifications, push messages, admin
// broadcasts and scheduled booking reminders.
type NotificationService interface {
	// Notify writes an in-app notification and pushes it best-effort. A
	// delivery failure never fails the triggering operation.
	Notify(userID, notifType, title, body string, data map[string]string)

	ListForUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(notificationID, userID string) error
	MarkAllRead(userID string) (int64, error)

	// EnqueueBroadcast records the broadcast and queues its fan-out.
	EnqueueBroadcast(req models.BroadcastRequest, sentBy string) (*models.Broadcast, error)
	// DeliverBroadcast performs the fan-out; invoked by the async worker.
	DeliverBroadcast(ctx context.Context, broadcastID, title, message, audience string, userIDs []string) (int64, error)
	ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error)

	// ScheduleReminder queues a reminder an hour before the booking slot.
	ScheduleReminder(booking *models.Booking) error
	// SendReminder delivers a due reminder; invoked by the async worker.
	SendReminder(ctx context.Context, bookingID, bookingNumber, residentID, sevakID, date, timeLabel string) error

	SendPush(ctx context.Context, userID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation of
// NotificationService.
type DefaultNotificationService struct {
	Repo     notificationRepo.NotificationRepository
	UserRepo userRepo.UserRepository
	Queue    *asynq.Client
}

// NewNotificationService wires a NotificationService. The queue client may
// be nil in tests; enqueue operations then fail loudly.
func NewNotificationService(repo notificationRepo.NotificationRepository, users userRepo.UserRepository, queue *asynq.Client) NotificationService {
	return &DefaultNotificationService{Repo: repo, UserRepo: users, Queue: queue}
}
