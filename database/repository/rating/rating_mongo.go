package ratingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gharseva/database"
	"gharseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateRating is returned when a booking already has a rating. The
// unique booking_id index enforces one rating per booking even under
// concurrent submits.
var ErrDuplicateRating = errors.New("booking already rated")

// ServiceRatingAggregate is the recomputed average for one service.
type ServiceRatingAggregate struct {
	ServiceID string  `bson:"_id"`
	Average   float64 `bson:"average"`
	Count     int64   `bson:"count"`
}

// RatingRepository persists service ratings.
type RatingRepository interface {
	Create(rating *models.Rating) error
	GetByBooking(bookingID string) (*models.Rating, error)
	ListByService(serviceID string, page, limit int) ([]models.Rating, int64, error)
	ListBySevak(sevakID string, page, limit int) ([]models.Rating, int64, error)
	AggregateByService() ([]ServiceRatingAggregate, error)
}

// MongoRatingRepo implements RatingRepository using MongoDB.
type MongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a new RatingRepository backed by MongoDB.
func NewMongoRatingRepo() RatingRepository {
	repo := &MongoRatingRepo{coll: database.Collection("ratings")}
	repo.ensureIndexes()
	return repo
}

func (r *MongoRatingRepo) ensureIndexes() {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "sevak_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create rating indexes: %v\n", err)
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a rating. Returns ErrDuplicateRating when the booking is
// already rated.
func (r *MongoRatingRepo) Create(rating *models.Rating) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rating); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRating
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// GetByBooking retrieves the rating for a booking. Returns nil when absent.
func (r *MongoRatingRepo) GetByBooking(bookingID string) (*models.Rating, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rating models.Rating
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating for booking %s: %w", bookingID, err)
	}
	return &rating, nil
}

// ListByService lists a service's ratings, newest first.
func (r *MongoRatingRepo) ListByService(serviceID string, page, limit int) ([]models.Rating, int64, error) {
	return r.list(bson.M{"service_id": serviceID}, page, limit)
}

// ListBySevak lists the ratings received by a sevak, newest first.
func (r *MongoRatingRepo) ListBySevak(sevakID string, page, limit int) ([]models.Rating, int64, error) {
	return r.list(bson.M{"sevak_id": sevakID}, page, limit)
}

func (r *MongoRatingRepo) list(filter bson.M, page, limit int) ([]models.Rating, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
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
		return nil, 0, fmt.Errorf("failed to retrieve ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, total, nil
}

// AggregateByService recomputes per-service averages from the raw rows.
// The nightly job reconciles the incremental averages on the catalog with
// this ground truth.
func (r *MongoRatingRepo) AggregateByService() ([]ServiceRatingAggregate, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":     "$service_id",
			"average": bson.M{"$avg": "$stars"},
			"count":   bson.M{"$sum": 1},
		}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var aggregates []ServiceRatingAggregate
	if err := cursor.All(ctx, &aggregates); err != nil {
		return nil, fmt.Errorf("failed to decode rating aggregates: %w", err)
	}
	return aggregates, nil
}
