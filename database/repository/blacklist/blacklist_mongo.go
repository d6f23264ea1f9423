package blacklistRepo

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

// BlacklistRepository persists the blacklist audit trail. The enforcement
// flag lives on the user document; these records are history.
type BlacklistRepository interface {
	Create(record *models.BlacklistRecord) error
	GetActiveForSevak(sevakID string) (*models.BlacklistRecord, error)
	DeactivateForSevak(sevakID, reinstatedBy string) (int64, error)
	ListActiveExpired(now time.Time) ([]models.BlacklistRecord, error)
	ListBySevak(sevakID string) ([]models.BlacklistRecord, error)
	ListActive(page, limit int) ([]models.BlacklistRecord, int64, error)
}

// MongoBlacklistRepo implements BlacklistRepository using MongoDB.
type MongoBlacklistRepo struct {
	coll *mongo.Collection
}

// NewMongoBlacklistRepo creates a new BlacklistRepository backed by MongoDB.
func NewMongoBlacklistRepo() BlacklistRepository {
	repo := &MongoBlacklistRepo{coll: database.Collection("blacklist_records")}
	repo.ensureIndexes()
	return repo
}

func (r *MongoBlacklistRepo) ensureIndexes() {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sevak_id", Value: 1}, {Key: "is_active", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "end_date", Value: 1}},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create blacklist indexes: %v\n", err)
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a blacklist record.
func (r *MongoBlacklistRepo) Create(record *models.BlacklistRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create blacklist record: %w", err)
	}
	return nil
}

// GetActiveForSevak returns the sevak's current active record, or nil.
func (r *MongoBlacklistRepo) GetActiveForSevak(sevakID string) (*models.BlacklistRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var record models.BlacklistRecord
	err := r.coll.FindOne(ctx, bson.M{"sevak_id": sevakID, "is_active": true}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active blacklist record: %w", err)
	}
	return &record, nil
}

// DeactivateForSevak closes every active record for a sevak, recording who
// reinstated them. Returns the number of records closed.
func (r *MongoBlacklistRepo) DeactivateForSevak(sevakID, reinstatedBy string) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	now := time.Now()
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"sevak_id": sevakID, "is_active": true},
		bson.M{"$set": bson.M{
			"is_active":     false,
			"reinstated_by": reinstatedBy,
			"reinstated_at": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate blacklist records: %w", err)
	}
	return res.ModifiedCount, nil
}

// ListActiveExpired returns active temporary records whose end date has
// passed. The hourly sweep reinstates these sevaks.
func (r *MongoBlacklistRepo) ListActiveExpired(now time.Time) ([]models.BlacklistRecord, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	filter := bson.M{
		"is_active": true,
		"type":      models.BlacklistTypeTemporary,
		"end_date":  bson.M{"$lte": now},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expired blacklist records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BlacklistRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode expired blacklist records: %w", err)
	}
	return records, nil
}

// ListBySevak lists a sevak's full blacklist history, newest first.
func (r *MongoBlacklistRepo) ListBySevak(sevakID string) ([]models.BlacklistRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"sevak_id": sevakID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve blacklist history: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BlacklistRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode blacklist history: %w", err)
	}
	return records, nil
}

// ListActive pages through all currently active records for the admin view.
func (r *MongoBlacklistRepo) ListActive(page, limit int) ([]models.BlacklistRecord, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"is_active": true}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count active blacklist records: %w", err)
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
		return nil, 0, fmt.Errorf("failed to retrieve active blacklist records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BlacklistRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode active blacklist records: %w", err)
	}
	return records, total, nil
}
