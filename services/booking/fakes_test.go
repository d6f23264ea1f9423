package booking

import (
	"context"
	"sync"
	"time"

	"gharseva/models"

	bookingRepo "gharseva/database/repository/booking"
)

// memBookingRepo is an in-memory BookingRepository mirroring the conditional
// update semantics of the Mongo implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	numbers  map[string]bool
	earnings []*models.Earning
	issues   []*models.Issue
	// failCreateWith forces the next N Create calls to fail with this error.
	failCreateWith error
	failCreateN    int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		bookings: make(map[string]*models.Booking),
		numbers:  make(map[string]bool),
	}
}

func (r *memBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateN > 0 {
		r.failCreateN--
		return r.failCreateWith
	}
	if r.numbers[b.BookingNumber] {
		return bookingRepo.ErrDuplicateBookingNumber
	}
	clone := *b
	r.bookings[b.ID] = &clone
	r.numbers[b.BookingNumber] = true
	return nil
}

func (r *memBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) ListByResident(residentID, status string, page, limit int) ([]models.Booking, int64, error) {
	return r.list(func(b *models.Booking) bool {
		return b.ResidentID == residentID && (status == "" || b.Status == status)
	})
}

func (r *memBookingRepo) ListBySevak(sevakID, status string, page, limit int) ([]models.Booking, int64, error) {
	return r.list(func(b *models.Booking) bool {
		return b.SevakID != nil && *b.SevakID == sevakID && (status == "" || b.Status == status)
	})
}

func (r *memBookingRepo) ListOpenJobs(fromDate string, page, limit int) ([]models.Booking, int64, error) {
	return r.list(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusPending &&
			(b.SevakID == nil || *b.SevakID == "") &&
			b.ScheduledDate >= fromDate
	})
}

func (r *memBookingRepo) list(match func(*models.Booking) bool) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) BookedTimesFor(serviceID, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var times []string
	for _, b := range r.bookings {
		if b.ServiceID == serviceID && b.ScheduledDate == date &&
			b.Status != models.BookingStatusCancelled && b.Status != models.BookingStatusRefunded {
			times = append(times, b.ScheduledTime)
		}
	}
	return times, nil
}

func (r *memBookingRepo) Reschedule(id, newDate, newTime string, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if models.IsTerminalStatus(b.Status) {
			return false
		}
		b.ScheduledDate, b.ScheduledTime = newDate, newTime
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) Cancel(id, cancelledBy, reason string, refundAmount float64, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if models.IsTerminalStatus(b.Status) {
			return false
		}
		now := time.Now()
		b.Status = models.BookingStatusCancelled
		b.CancelledBy, b.CancellationReason = cancelledBy, reason
		b.CancelledAt, b.RefundAmount = &now, refundAmount
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) MarkRefunded(id string, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingStatusCancelled || b.PaymentStatus != models.PaymentStatusPaid {
			return false
		}
		b.Status = models.BookingStatusRefunded
		b.PaymentStatus = models.PaymentStatusRefunded
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) SetPaymentStatus(id, paymentStatus string) error {
	return r.update(id, func(b *models.Booking) bool {
		b.PaymentStatus = paymentStatus
		return true
	})
}

func (r *memBookingRepo) AssignIfPending(id, sevakID string, entry models.TimelineEntry) (*models.Booking, error) {
	var won *models.Booking
	today := time.Now().Format("2006-01-02")
	err := r.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingStatusPending || (b.SevakID != nil && *b.SevakID != "") {
			return false
		}
		if b.ScheduledDate < today {
			return false
		}
		b.SevakID = &sevakID
		b.Status = models.BookingStatusAssigned
		b.Timeline = append(b.Timeline, entry)
		clone := *b
		won = &clone
		return true
	})
	if err != nil {
		return nil, err
	}
	return won, nil
}

func (r *memBookingRepo) Assign(id, sevakID string, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if models.IsTerminalStatus(b.Status) {
			return false
		}
		b.SevakID = &sevakID
		b.Status = models.BookingStatusAssigned
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) CheckIn(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingStatusAssigned || b.SevakID == nil || *b.SevakID != sevakID {
			return false
		}
		b.Status = models.BookingStatusInProgress
		b.CheckInOTP = ""
		b.CheckInOTPAttempts = 0
		b.CheckInTime, b.CheckInLocation = &at, loc
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) IncrementOTPAttempts(id string) error {
	return r.update(id, func(b *models.Booking) bool {
		b.CheckInOTPAttempts++
		return true
	})
}

func (r *memBookingRepo) CheckOut(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error {
	return r.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingStatusInProgress || b.SevakID == nil || *b.SevakID != sevakID {
			return false
		}
		b.CheckOutTime, b.CheckOutLocation = &at, loc
		b.Timeline = append(b.Timeline, entry)
		return true
	})
}

func (r *memBookingRepo) Complete(ctx context.Context, id, sevakID, notes string, beforeImages, afterImages []string, entry models.TimelineEntry, earning *models.Earning) error {
	err := r.update(id, func(b *models.Booking) bool {
		if b.Status != models.BookingStatusInProgress || b.SevakID == nil || *b.SevakID != sevakID {
			return false
		}
		b.Status = models.BookingStatusCompleted
		b.CompletionNotes = notes
		b.BeforeImages, b.AfterImages = beforeImages, afterImages
		b.Timeline = append(b.Timeline, entry)
		return true
	})
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.earnings = append(r.earnings, earning)
	r.mu.Unlock()
	return nil
}

func (r *memBookingRepo) CreateIssue(issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues = append(r.issues, issue)
	if b, ok := r.bookings[issue.BookingID]; ok {
		b.ReportedIssues = append(b.ReportedIssues, issue.ID)
	}
	return nil
}

func (r *memBookingRepo) CountsByStatus() ([]bookingRepo.StatusCount, error) { return nil, nil }
func (r *memBookingRepo) CompletedRevenue() (float64, error)                 { return 0, nil }
func (r *memBookingRepo) DailyCounts(fromDate, toDate string) ([]bookingRepo.DailyCount, error) {
	return nil, nil
}

func (r *memBookingRepo) update(id string, apply func(*models.Booking) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !apply(b) {
		return bookingRepo.ErrNoMatch
	}
	b.UpdatedAt = time.Now()
	return nil
}

// memCatalogRepo is an in-memory CatalogRepository.
type memCatalogRepo struct {
	mu         sync.Mutex
	services   map[string]*models.Service
	categories []models.Category
	increments map[string]int
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		services:   make(map[string]*models.Service),
		increments: make(map[string]int),
	}
}

func (r *memCatalogRepo) CreateCategory(c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, *c)
	return nil
}

func (r *memCatalogRepo) ListCategories() ([]models.Category, error) {
	return r.categories, nil
}

func (r *memCatalogRepo) CreateService(s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.services[s.ID] = &clone
	return nil
}

func (r *memCatalogRepo) UpdateService(s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.services[s.ID] = &clone
	return nil
}

func (r *memCatalogRepo) GetServiceByID(id string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *memCatalogRepo) ListServices(categoryID string, page, limit int) ([]models.Service, int64, error) {
	var out []models.Service
	for _, s := range r.services {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *memCatalogRepo) ListServicesByIDs(ids []string) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memCatalogRepo) IncrementBookingCount(serviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.increments[serviceID]++
	if s, ok := r.services[serviceID]; ok {
		s.BookingCount++
	}
	return nil
}

func (r *memCatalogRepo) ApplyRatingContribution(serviceID string, stars int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok {
		return nil
	}
	n := float64(s.TotalRatings)
	s.AverageRating = (s.AverageRating*n + float64(stars)) / (n + 1)
	s.TotalRatings++
	return nil
}

func (r *memCatalogRepo) SetRatingAggregates(serviceID string, average float64, total int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[serviceID]; ok {
		s.AverageRating, s.TotalRatings = average, total
	}
	return nil
}

func (r *memCatalogRepo) TopServicesByBookings(limit int) ([]models.Service, error) {
	return nil, nil
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByPhone(phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(u *models.User) error {
	return r.Create(u)
}

func (r *memUserRepo) ListByRole(role string, page, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) ListIDsByRole(role string) ([]string, error) {
	var ids []string
	for _, u := range r.users {
		if role == "" || u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *memUserRepo) MarkVerified(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsVerified = true
	}
	return nil
}

func (r *memUserRepo) SetBlacklisted(id string, blacklisted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsBlacklisted = blacklisted
	}
	return nil
}

func (r *memUserRepo) AddFavorite(userID, serviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Favorites = append(u.Favorites, serviceID)
	}
	return nil
}

func (r *memUserRepo) RemoveFavorite(userID, serviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		var kept []string
		for _, f := range u.Favorites {
			if f != serviceID {
				kept = append(kept, f)
			}
		}
		u.Favorites = kept
	}
	return nil
}

// stubNotifier records notifications instead of delivering them.
type stubNotifier struct {
	mu    sync.Mutex
	sent  []string
	types []string
}

func (n *stubNotifier) Notify(userID, notifType, title, body string, data map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, userID)
	n.types = append(n.types, notifType)
}

func (n *stubNotifier) ListForUser(userID string, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (n *stubNotifier) CountUnread(userID string) (int64, error)       { return 0, nil }
func (n *stubNotifier) MarkRead(notificationID, userID string) error   { return nil }
func (n *stubNotifier) MarkAllRead(userID string) (int64, error)       { return 0, nil }
func (n *stubNotifier) ListBroadcasts(page, limit int) ([]models.Broadcast, int64, error) {
	return nil, 0, nil
}
func (n *stubNotifier) EnqueueBroadcast(req models.BroadcastRequest, sentBy string) (*models.Broadcast, error) {
	return nil, nil
}
func (n *stubNotifier) DeliverBroadcast(ctx context.Context, broadcastID, title, message, audience string, userIDs []string) (int64, error) {
	return 0, nil
}
func (n *stubNotifier) ScheduleReminder(booking *models.Booking) error { return nil }
func (n *stubNotifier) SendReminder(ctx context.Context, bookingID, bookingNumber, residentID, sevakID, date, timeLabel string) error {
	return nil
}
func (n *stubNotifier) SendPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	return nil
}
