package notification

import (
	"context"
	"time"

	"gharseva/models"
	"gharseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"

	fcm "firebase.google.com/go/v4/messaging"
)

// Notify writes the in-app row and fires a best-effort push. Failures are
// logged and swallowed so booking flows never break on notification
// trouble.
func (s *DefaultNotificationService) Notify(userID, notifType, title, body string, data map[string]string) {
	row := models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(&row); err != nil {
		utils.GetLogger().Error("Notify: failed to persist notification",
			zap.String("userId", userID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.SendPush(ctx, userID, title, body, data); err != nil {
		utils.GetLogger().Warn("Notify: push delivery failed",
			zap.String("userId", userID), zap.Error(err))
	}
}

// ListForUser pages through a user's notifications.
func (s *DefaultNotificationService) ListForUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	return s.Repo.ListByUser(userID, unreadOnly, page, limit)
}

// CountUnread returns the unread badge count.
func (s *DefaultNotificationService) CountUnread(userID string) (int64, error) {
	return s.Repo.CountUnread(userID)
}

// MarkRead marks one of the caller's notifications read.
func (s *DefaultNotificationService) MarkRead(notificationID, userID string) error {
	if err := s.Repo.MarkRead(notificationID, userID); err != nil {
		return utils.NewNotFound("notification")
	}
	return nil
}

// MarkAllRead flips all of a user's unread notifications.
func (s *DefaultNotificationService) MarkAllRead(userID string) (int64, error) {
	return s.Repo.MarkAllRead(userID)
}

// SendPush delivers a single FCM message to the user's registered device.
// Users without a push token are skipped silently.
func (s *DefaultNotificationService) SendPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	client := utils.FCMClient
	if client == nil {
		return nil
	}

	account, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if account == nil || account.FCMToken == "" {
		return nil
	}

	msg := &fcm.Message{
		Token: account.FCMToken,
		Notification: &fcm.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := client.Send(ctx, msg); err != nil {
		return err
	}
	return nil
}
