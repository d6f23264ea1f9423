package earningsRepo

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

// EarningsRepository reads the commission ledger. Rows are inserted by the
// booking completion transaction; only a payout process mutates them.
type EarningsRepository interface {
	GetByBooking(bookingID string) (*models.Earning, error)
	ListBySevak(sevakID string, page, limit int) ([]models.Earning, int64, error)
	SummaryForSevak(sevakID string) (*models.EarningsSummary, error)
	Leaderboard(limit int) ([]models.EarningsSummary, error)
}

// MongoEarningsRepo implements EarningsRepository using MongoDB.
type MongoEarningsRepo struct {
	coll *mongo.Collection
}

// NewMongoEarningsRepo creates a new EarningsRepository backed by MongoDB.
// Indexes on the earnings collection are owned by the booking repository,
// which writes the rows.
func NewMongoEarningsRepo() EarningsRepository {
	return &MongoEarningsRepo{coll: database.Collection("earnings")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetByBooking retrieves the earning row for a booking. Returns nil when absent.
func (r *MongoEarningsRepo) GetByBooking(bookingID string) (*models.Earning, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var earning models.Earning
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&earning); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch earning for booking %s: %w", bookingID, err)
	}
	return &earning, nil
}

// ListBySevak lists a sevak's ledger entries, newest first.
func (r *MongoEarningsRepo) ListBySevak(sevakID string, page, limit int) ([]models.Earning, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"sevak_id": sevakID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count earnings: %w", err)
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
		return nil, 0, fmt.Errorf("failed to retrieve earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var earnings []models.Earning
	if err := cursor.All(ctx, &earnings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode earnings: %w", err)
	}
	return earnings, total, nil
}

// SummaryForSevak aggregates one sevak's ledger by status.
func (r *MongoEarningsRepo) SummaryForSevak(sevakID string) (*models.EarningsSummary, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"sevak_id": sevakID}},
		{"$group": summaryGroup()},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings summary: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.EarningsSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode earnings summary: %w", err)
	}
	if len(summaries) == 0 {
		return &models.EarningsSummary{SevakID: sevakID}, nil
	}
	return &summaries[0], nil
}

// Leaderboard ranks sevaks by net earnings.
func (r *MongoEarningsRepo) Leaderboard(limit int) ([]models.EarningsSummary, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": summaryGroup()},
		{"$sort": bson.M{"total_net": -1}},
		{"$limit": limit},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.EarningsSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return summaries, nil
}

func summaryGroup() bson.M {
	return bson.M{
		"_id":              "$sevak_id",
		"total_amount":     bson.M{"$sum": "$amount"},
		"total_net":        bson.M{"$sum": "$net_amount"},
		"total_commission": bson.M{"$sum": "$commission"},
		"pending_net": bson.M{"$sum": bson.M{
			"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.EarningStatusPending}}, "$net_amount", 0},
		}},
		"paid_net": bson.M{"$sum": bson.M{
			"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.EarningStatusPaid}}, "$net_amount", 0},
		}},
		"job_count": bson.M{"$sum": 1},
	}
}
