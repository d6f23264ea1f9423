package rating

import (
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"
	catalogRepo "gharseva/database/repository/catalog"
	ratingRepo "gharseva/database/repository/rating"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RatingService records resident ratings and keeps the catalog's running
// averages current.
type RatingService interface {
	// Rate records a 1-5 star rating for a completed booking the caller
	// owns. A booking can be rated once.
	Rate(residentID string, req models.CreateRatingRequest) (*models.Rating, error)
	ForBooking(bookingID string) (*models.Rating, error)
	ListForService(serviceID string, page, limit int) ([]models.Rating, int64, error)
	ListForSevak(sevakID string, page, limit int) ([]models.Rating, int64, error)
}

// DefaultRatingService is the production implementation of RatingService.
type DefaultRatingService struct {
	Repo        ratingRepo.RatingRepository
	BookingRepo bookingRepo.BookingRepository
	CatalogRepo catalogRepo.CatalogRepository
}

// NewRatingService wires a RatingService over its repositories.
func NewRatingService(repo ratingRepo.RatingRepository, bookings bookingRepo.BookingRepository, catalog catalogRepo.CatalogRepository) RatingService {
	return &DefaultRatingService{Repo: repo, BookingRepo: bookings, CatalogRepo: catalog}
}

// Rate validates ownership and state, inserts the rating and folds the
// stars into the service's running average. Duplicate submits lose to the
// unique index and surface as a conflict.
func (s *DefaultRatingService) Rate(residentID string, req models.CreateRatingRequest) (*models.Rating, error) {
	booking, err := s.BookingRepo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if booking.ResidentID != residentID {
		return nil, utils.NewForbidden("booking belongs to another resident")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, utils.NewValidation("only completed bookings can be rated")
	}

	ratedTo := ""
	if booking.SevakID != nil {
		ratedTo = *booking.SevakID
	}
	rating := &models.Rating{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		ServiceID: booking.ServiceID,
		RatedBy:   residentID,
		RatedTo:   ratedTo,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(rating); err != nil {
		if err == ratingRepo.ErrDuplicateRating {
			return nil, utils.NewConflict("booking has already been rated")
		}
		return nil, err
	}

	if err := s.CatalogRepo.ApplyRatingContribution(booking.ServiceID, req.Stars); err != nil {
		// The nightly recompute reconciles the aggregate from source rows.
		utils.GetLogger().Error("Rate: failed to fold rating into service average",
			zap.String("serviceId", booking.ServiceID), zap.Error(err))
	}
	return rating, nil
}

// ForBooking returns a booking's rating.
func (s *DefaultRatingService) ForBooking(bookingID string) (*models.Rating, error) {
	rating, err := s.Repo.GetByBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, utils.NewNotFound("rating")
	}
	return rating, nil
}

// ListForService pages a service's ratings.
func (s *DefaultRatingService) ListForService(serviceID string, page, limit int) ([]models.Rating, int64, error) {
	return s.Repo.ListByService(serviceID, page, limit)
}

// ListForSevak pages the ratings a sevak has received.
func (s *DefaultRatingService) ListForSevak(sevakID string, page, limit int) ([]models.Rating, int64, error) {
	return s.Repo.ListBySevak(sevakID, page, limit)
}
