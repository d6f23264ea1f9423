package catalogRepo

import "gharseva/models"

// CatalogRepository defines data access for categories and services.
type CatalogRepository interface {
	// Categories.
	CreateCategory(category *models.Category) error
	ListCategories() ([]models.Category, error)

	// Services.
	CreateService(service *models.Service) error
	UpdateService(service *models.Service) error
	// GetServiceByID returns nil when absent.
	GetServiceByID(id string) (*models.Service, error)
	ListServices(categoryID string, page, limit int) ([]models.Service, int64, error)
	ListServicesByIDs(ids []string) ([]models.Service, error)

	// IncrementBookingCount bumps the booking counter with an atomic $inc.
	IncrementBookingCount(serviceID string) error
	// ApplyRatingContribution folds one new star rating into the service's
	// running average in a single atomic document update.
	ApplyRatingContribution(serviceID string, stars int) error
	// SetRatingAggregates overwrites the aggregates, used by the nightly
	// recompute from source rating rows.
	SetRatingAggregates(serviceID string, average float64, total int64) error
	// TopServicesByBookings returns the most-booked services.
	TopServicesByBookings(limit int) ([]models.Service, error)
}
