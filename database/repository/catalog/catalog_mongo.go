package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	categoryColl *mongo.Collection
	serviceColl  *mongo.Collection
}

// NewMongoCatalogRepo creates a new CatalogRepository backed by MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	repo := &MongoCatalogRepo{
		categoryColl: database.Collection("categories"),
		serviceColl:  database.Collection("services"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create catalog indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.categoryColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "booking_count", Value: -1}}},
	}
	if _, err := r.serviceColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}

// CreateCategory inserts a new category document.
func (r *MongoCatalogRepo) CreateCategory(category *models.Category) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.categoryColl.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories retrieves all active categories.
func (r *MongoCatalogRepo) ListCategories() ([]models.Category, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.categoryColl.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// CreateService inserts a new service document.
func (r *MongoCatalogRepo) CreateService(service *models.Service) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	if _, err := r.serviceColl.InsertOne(ctx, service); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// UpdateService modifies an existing service document.
func (r *MongoCatalogRepo) UpdateService(service *models.Service) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	service.UpdatedAt = time.Now()
	result, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": service.ID}, bson.M{"$set": service})
	if err != nil {
		return fmt.Errorf("failed to update service %s: %w", service.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service with id %s not found", service.ID)
	}
	return nil
}

// GetServiceByID retrieves a service by its unique ID.
func (r *MongoCatalogRepo) GetServiceByID(id string) (*models.Service, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var service models.Service
	if err := r.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &service, nil
}

// ListServices retrieves active services, optionally by category, paginated.
func (r *MongoCatalogRepo) ListServices(categoryID string, page, limit int) ([]models.Service, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"is_active": true}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}

	total, err := r.serviceColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.serviceColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, 0, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, total, nil
}

// ListServicesByIDs retrieves services matching the given IDs.
func (r *MongoCatalogRepo) ListServicesByIDs(ids []string) ([]models.Service, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.serviceColl.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// IncrementBookingCount bumps the booking counter with an atomic $inc.
func (r *MongoCatalogRepo) IncrementBookingCount(serviceID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": serviceID}, bson.M{
		"$inc": bson.M{"booking_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to increment booking count for %s: %w", serviceID, err)
	}
	return nil
}

// ApplyRatingContribution folds one new star rating into the running
// average in a single pipeline update, so concurrent ratings never clobber
// each other:
//
//	newAvg = (oldAvg*oldCount + stars) / (oldCount + 1)
func (r *MongoCatalogRepo) ApplyRatingContribution(serviceID string, stars int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "average_rating", Value: bson.D{
				{Key: "$divide", Value: bson.A{
					bson.D{{Key: "$add", Value: bson.A{
						bson.D{{Key: "$multiply", Value: bson.A{"$average_rating", "$total_ratings"}}},
						stars,
					}}},
					bson.D{{Key: "$add", Value: bson.A{"$total_ratings", 1}}},
				}},
			}},
			{Key: "total_ratings", Value: bson.D{{Key: "$add", Value: bson.A{"$total_ratings", 1}}}},
			{Key: "updated_at", Value: time.Now()},
		}}},
	}

	result, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": serviceID}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply rating to service %s: %w", serviceID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service with id %s not found", serviceID)
	}
	return nil
}

// SetRatingAggregates overwrites the aggregates from a recompute.
func (r *MongoCatalogRepo) SetRatingAggregates(serviceID string, average float64, total int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": serviceID}, bson.M{
		"$set": bson.M{
			"average_rating": average,
			"total_ratings":  total,
			"updated_at":     time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set rating aggregates for %s: %w", serviceID, err)
	}
	return nil
}

// TopServicesByBookings returns the most-booked services.
func (r *MongoCatalogRepo) TopServicesByBookings(limit int) ([]models.Service, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "booking_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.serviceColl.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve top services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
