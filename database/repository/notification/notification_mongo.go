package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"gharseva/database"
	"gharseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository persists in-app notifications and admin broadcasts.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	BulkCreate(notifications []models.Notification) error
	ListByUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(notificationID, userID string) error
	MarkAllRead(userID string) (int64, error)
	CreateBroadcast(broadcast *models.Broadcast) error
	SetBroadcastRecipientCount(broadcastID string, count int64) error
	ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error)
}

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll          *mongo.Collection
	broadcastColl *mongo.Collection
}

// NewMongoNotificationRepo creates a new NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	repo := &MongoNotificationRepo{
		coll:          database.Collection("notifications"),
		broadcastColl: database.Collection("broadcasts"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoNotificationRepo) ensureIndexes() {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create notification indexes: %v\n", err)
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a single notification.
func (r *MongoNotificationRepo) Create(notification *models.Notification) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// BulkCreate inserts a batch of notifications in one round trip. Used by
// broadcast fan-out; an empty batch is a no-op.
func (r *MongoNotificationRepo) BulkCreate(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ctx, cancel := newContext(15 * time.Second)
	defer cancel()

	docs := make([]interface{}, len(notifications))
	for i := range notifications {
		docs[i] = notifications[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to bulk create notifications: %w", err)
	}
	return nil
}

// ListByUser lists a user's notifications, newest first.
func (r *MongoNotificationRepo) ListByUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, total, nil
}

// CountUnread returns the user's unread badge count.
func (r *MongoNotificationRepo) CountUnread(userID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a single notification read. The user filter keeps one user
// from flipping another's notification.
func (r *MongoNotificationRepo) MarkRead(notificationID, userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": notificationID, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read and returns
// how many were flipped.
func (r *MongoNotificationRepo) MarkAllRead(userID string) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	now := time.Now()
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// CreateBroadcast records an admin broadcast for the audit trail.
func (r *MongoNotificationRepo) CreateBroadcast(broadcast *models.Broadcast) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.broadcastColl.InsertOne(ctx, broadcast); err != nil {
		return fmt.Errorf("failed to create broadcast: %w", err)
	}
	return nil
}

// SetBroadcastRecipientCount records how many users a delivered broadcast
// reached.
func (r *MongoNotificationRepo) SetBroadcastRecipientCount(broadcastID string, count int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.broadcastColl.UpdateOne(ctx,
		bson.M{"id": broadcastID},
		bson.M{"$set": bson.M{"recipient_count": count}},
	)
	if err != nil {
		return fmt.Errorf("failed to update broadcast recipient count: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListBroadcasts lists past broadcasts, newest first.
func (r *MongoNotificationRepo) ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	total, err := r.broadcastColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count broadcasts: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.broadcastColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve broadcasts: %w", err)
	}
	defer cursor.Close(ctx)

	var broadcasts []models.Broadcast
	if err := cursor.All(ctx, &broadcasts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode broadcasts: %w", err)
	}
	return broadcasts, total, nil
}
