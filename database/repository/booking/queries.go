package bookingRepo

import (
	"fmt"
	"time"

	"gharseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) list(filter bson.M, page, limit int) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	total, err := r.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
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

	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// ListByResident lists a resident's bookings, optionally by status.
func (r *MongoBookingRepo) ListByResident(residentID, status string, page, limit int) ([]models.Booking, int64, error) {
	filter := bson.M{"resident_id": residentID}
	if status != "" {
		filter["status"] = status
	}
	return r.list(filter, page, limit)
}

// ListBySevak lists a sevak's bookings, optionally by status.
func (r *MongoBookingRepo) ListBySevak(sevakID, status string, page, limit int) ([]models.Booking, int64, error) {
	filter := bson.M{"sevak_id": sevakID}
	if status != "" {
		filter["status"] = status
	}
	return r.list(filter, page, limit)
}

// ListOpenJobs lists pending unassigned bookings scheduled on or after the
// given date.
func (r *MongoBookingRepo) ListOpenJobs(fromDate string, page, limit int) ([]models.Booking, int64, error) {
	filter := bson.M{
		"status":         models.BookingStatusPending,
		"sevak_id":       bson.M{"$in": bson.A{nil, ""}},
		"scheduled_date": bson.M{"$gte": fromDate},
	}
	return r.list(filter, page, limit)
}

// BookedTimesFor returns the scheduled_time labels of non-cancelled,
// non-refunded bookings for a service on a date.
func (r *MongoBookingRepo) BookedTimesFor(serviceID, date string) ([]string, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"service_id":     serviceID,
		"scheduled_date": date,
		"status":         bson.M{"$nin": bson.A{models.BookingStatusCancelled, models.BookingStatusRefunded}},
	}
	opts := options.Find().SetProjection(bson.M{"scheduled_time": 1})

	cursor, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var times []string
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		times = append(times, b.ScheduledTime)
	}
	return times, nil
}

// CountsByStatus groups all bookings by status.
func (r *MongoBookingRepo) CountsByStatus() ([]StatusCount, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
	cursor, err := r.bookingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}
	return counts, nil
}

// CompletedRevenue sums the total amount of completed bookings.
func (r *MongoBookingRepo) CompletedRevenue() (float64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"status": models.BookingStatusCompleted}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	cursor, err := r.bookingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// DailyCounts groups booking volume by scheduled date over a range.
func (r *MongoBookingRepo) DailyCounts(fromDate, toDate string) ([]DailyCount, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"scheduled_date": bson.M{"$gte": fromDate, "$lte": toDate}}},
		{"$group": bson.M{"_id": "$scheduled_date", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	}
	cursor, err := r.bookingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []DailyCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode daily counts: %w", err)
	}
	return counts, nil
}
