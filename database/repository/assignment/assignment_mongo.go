package assignmentRepo

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

// AssignmentRepository records the immutable assignment log. Rows are
// created and never mutated or deleted.
type AssignmentRepository interface {
	Create(history *models.AssignmentHistory) error
	ListByBooking(bookingID string) ([]models.AssignmentHistory, error)
}

// MongoAssignmentRepo implements AssignmentRepository using MongoDB.
type MongoAssignmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAssignmentRepo creates a new AssignmentRepository backed by MongoDB.
func NewMongoAssignmentRepo() AssignmentRepository {
	repo := &MongoAssignmentRepo{coll: database.Collection("assignment_history")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create assignment indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAssignmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts an assignment history row.
func (r *MongoAssignmentRepo) Create(history *models.AssignmentHistory) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	history.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, history); err != nil {
		return fmt.Errorf("error creating assignment history: %w", err)
	}
	return nil
}

// ListByBooking retrieves the assignment log for a booking, oldest first.
func (r *MongoAssignmentRepo) ListByBooking(bookingID string) ([]models.AssignmentHistory, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve assignment history: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.AssignmentHistory
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode assignment history: %w", err)
	}
	return rows, nil
}
