package rating

import (
	"context"
	"sync"
	"testing"
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"
	ratingRepo "gharseva/database/repository/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRatingStore enforces the one-rating-per-booking rule of the real
// repository's unique index.
type memRatingStore struct {
	mu      sync.Mutex
	ratings map[string]*models.Rating // keyed by booking ID
}

func (r *memRatingStore) Create(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ratings[rating.BookingID]; exists {
		return ratingRepo.ErrDuplicateRating
	}
	clone := *rating
	r.ratings[rating.BookingID] = &clone
	return nil
}

func (r *memRatingStore) GetByBooking(bookingID string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[bookingID]
	if !ok {
		return nil, nil
	}
	clone := *rating
	return &clone, nil
}

func (r *memRatingStore) ListByService(serviceID string, page, limit int) ([]models.Rating, int64, error) {
	return r.list(func(rt *models.Rating) bool { return rt.ServiceID == serviceID })
}

func (r *memRatingStore) ListBySevak(sevakID string, page, limit int) ([]models.Rating, int64, error) {
	return r.list(func(rt *models.Rating) bool { return rt.RatedTo == sevakID })
}

func (r *memRatingStore) list(match func(*models.Rating) bool) ([]models.Rating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Rating
	for _, rt := range r.ratings {
		if match(rt) {
			out = append(out, *rt)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRatingStore) AggregateByService() ([]ratingRepo.ServiceRatingAggregate, error) {
	return nil, nil
}

// stubBookings serves fixed bookings by ID.
type stubBookings struct {
	bookings map[string]*models.Booking
}

func (s *stubBookings) GetByID(id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (s *stubBookings) Create(*models.Booking) error { return nil }
func (s *stubBookings) ListByResident(string, string, int, int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *stubBookings) ListBySevak(string, string, int, int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *stubBookings) ListOpenJobs(string, int, int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *stubBookings) BookedTimesFor(string, string) ([]string, error) { return nil, nil }
func (s *stubBookings) Reschedule(string, string, string, models.TimelineEntry) error {
	return nil
}
func (s *stubBookings) Cancel(string, string, string, float64, models.TimelineEntry) error {
	return nil
}
func (s *stubBookings) MarkRefunded(string, models.TimelineEntry) error { return nil }
func (s *stubBookings) SetPaymentStatus(string, string) error           { return nil }
func (s *stubBookings) AssignIfPending(string, string, models.TimelineEntry) (*models.Booking, error) {
	return nil, nil
}
func (s *stubBookings) Assign(string, string, models.TimelineEntry) error { return nil }
func (s *stubBookings) CheckIn(string, string, time.Time, *models.Location, models.TimelineEntry) error {
	return nil
}
func (s *stubBookings) IncrementOTPAttempts(string) error { return nil }
func (s *stubBookings) CheckOut(string, string, time.Time, *models.Location, models.TimelineEntry) error {
	return nil
}
func (s *stubBookings) Complete(context.Context, string, string, string, []string, []string, models.TimelineEntry, *models.Earning) error {
	return nil
}
func (s *stubBookings) CreateIssue(*models.Issue) error { return nil }
func (s *stubBookings) CountsByStatus() ([]bookingRepo.StatusCount, error) {
	return nil, nil
}
func (s *stubBookings) CompletedRevenue() (float64, error) { return 0, nil }
func (s *stubBookings) DailyCounts(string, string) ([]bookingRepo.DailyCount, error) {
	return nil, nil
}

// stubCatalog tracks rating contributions applied to services.
type stubCatalog struct {
	mu            sync.Mutex
	contributions map[string][]int
}

func (s *stubCatalog) ApplyRatingContribution(serviceID string, stars int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contributions == nil {
		s.contributions = make(map[string][]int)
	}
	s.contributions[serviceID] = append(s.contributions[serviceID], stars)
	return nil
}

func (s *stubCatalog) CreateCategory(*models.Category) error        { return nil }
func (s *stubCatalog) ListCategories() ([]models.Category, error)   { return nil, nil }
func (s *stubCatalog) CreateService(*models.Service) error          { return nil }
func (s *stubCatalog) UpdateService(*models.Service) error          { return nil }
func (s *stubCatalog) GetServiceByID(string) (*models.Service, error) {
	return nil, nil
}
func (s *stubCatalog) ListServices(string, int, int) ([]models.Service, int64, error) {
	return nil, 0, nil
}
func (s *stubCatalog) ListServicesByIDs([]string) ([]models.Service, error) { return nil, nil }
func (s *stubCatalog) IncrementBookingCount(string) error                   { return nil }
func (s *stubCatalog) SetRatingAggregates(string, float64, int64) error     { return nil }
func (s *stubCatalog) TopServicesByBookings(int) ([]models.Service, error)  { return nil, nil }

func bookingServiceDeps(status string) (*memRatingStore, *stubBookings, *stubCatalog) {
	sevak := "sevak-1"
	store := &memRatingStore{ratings: make(map[string]*models.Rating)}
	bookings := &stubBookings{bookings: map[string]*models.Booking{
		"bk-1": {
			ID:         "bk-1",
			ResidentID: "resident-1",
			ServiceID:  "service-1",
			SevakID:    &sevak,
			Status:     status,
		},
	}}
	return store, bookings, &stubCatalog{}
}

func TestRateCompletedBooking(t *testing.T) {
	store, bookings, catalog := bookingServiceDeps(models.BookingStatusCompleted)
	svc := NewRatingService(store, bookings, catalog)

	rating, err := svc.Rate("resident-1", models.CreateRatingRequest{
		BookingID: "bk-1",
		Stars:     4,
		Comment:   "thorough work",
	})
	require.NoError(t, err)
	assert.Equal(t, "service-1", rating.ServiceID)
	assert.Equal(t, "sevak-1", rating.RatedTo)
	assert.Equal(t, 4, rating.Stars)

	assert.Equal(t, []int{4}, catalog.contributions["service-1"])
}

func TestRateTwiceIsConflict(t *testing.T) {
	store, bookings, catalog := bookingServiceDeps(models.BookingStatusCompleted)
	svc := NewRatingService(store, bookings, catalog)

	_, err := svc.Rate("resident-1", models.CreateRatingRequest{BookingID: "bk-1", Stars: 4})
	require.NoError(t, err)

	_, err = svc.Rate("resident-1", models.CreateRatingRequest{BookingID: "bk-1", Stars: 5})
	var conflict *utils.ConflictError
	require.ErrorAs(t, err, &conflict)

	// The losing submit must not touch the aggregate.
	assert.Len(t, catalog.contributions["service-1"], 1)
}

func TestRateNonCompletedBooking(t *testing.T) {
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusAssigned,
		models.BookingStatusInProgress,
		models.BookingStatusCancelled,
	} {
		store, bookings, catalog := bookingServiceDeps(status)
		svc := NewRatingService(store, bookings, catalog)

		_, err := svc.Rate("resident-1", models.CreateRatingRequest{BookingID: "bk-1", Stars: 5})
		var validation *utils.ValidationError
		assert.ErrorAs(t, err, &validation, "status %s", status)
	}
}

func TestRateForeignBookingForbidden(t *testing.T) {
	store, bookings, catalog := bookingServiceDeps(models.BookingStatusCompleted)
	svc := NewRatingService(store, bookings, catalog)

	_, err := svc.Rate("resident-2", models.CreateRatingRequest{BookingID: "bk-1", Stars: 5})
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestRateMissingBooking(t *testing.T) {
	store, bookings, catalog := bookingServiceDeps(models.BookingStatusCompleted)
	svc := NewRatingService(store, bookings, catalog)

	_, err := svc.Rate("resident-1", models.CreateRatingRequest{BookingID: "no-such", Stars: 5})
	var notFound *utils.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestForBooking(t *testing.T) {
	store, bookings, catalog := bookingServiceDeps(models.BookingStatusCompleted)
	svc := NewRatingService(store, bookings, catalog)

	_, err := svc.ForBooking("bk-1")
	var notFound *utils.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = svc.Rate("resident-1", models.CreateRatingRequest{BookingID: "bk-1", Stars: 3})
	require.NoError(t, err)

	rating, err := svc.ForBooking("bk-1")
	require.NoError(t, err)
	assert.Equal(t, 3, rating.Stars)
}
