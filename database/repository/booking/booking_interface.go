package bookingRepo

import (
	"context"
	"errors"
	"time"

	"gharseva/models"
)

// ErrDuplicateBookingNumber is returned when an insert collides with the
// unique index on booking_number; callers retry with a fresh number.
var ErrDuplicateBookingNumber = errors.New("duplicate booking number")

// ErrNoMatch is returned by conditional updates when the document either
// does not exist or no longer satisfies the transition's precondition.
// Callers distinguish the two cases with a follow-up read.
var ErrNoMatch = errors.New("no matching booking for conditional update")

// StatusCount is one bucket of the by-status analytics aggregation.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// DailyCount is one day's booking volume.
type DailyCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

// BookingRepository defines data access for bookings, issues, and the
// earnings row written at completion. Every lifecycle transition is a
// single conditional update filtered on the expected current state, so a
// lost race surfaces as ErrNoMatch instead of a silent overwrite.
type BookingRepository interface {
	// Create inserts a new booking; ErrDuplicateBookingNumber on collision.
	Create(booking *models.Booking) error
	// GetByID returns nil when absent.
	GetByID(id string) (*models.Booking, error)

	ListByResident(residentID, status string, page, limit int) ([]models.Booking, int64, error)
	ListBySevak(sevakID, status string, page, limit int) ([]models.Booking, int64, error)
	// ListOpenJobs lists pending unassigned bookings scheduled on or after
	// the given date, for the sevak job feed.
	ListOpenJobs(fromDate string, page, limit int) ([]models.Booking, int64, error)
	// BookedTimesFor returns the scheduled_time labels of all non-cancelled,
	// non-refunded bookings for a service on a date.
	BookedTimesFor(serviceID, date string) ([]string, error)

	// Reschedule updates date/time iff the booking is non-terminal.
	Reschedule(id, newDate, newTime string, entry models.TimelineEntry) error
	// Cancel moves a non-terminal booking to cancelled and records the
	// cancellation fields in the same write.
	Cancel(id, cancelledBy, reason string, refundAmount float64, entry models.TimelineEntry) error
	// MarkRefunded flips a cancelled, paid booking to refunded.
	MarkRefunded(id string, entry models.TimelineEntry) error
	// SetPaymentStatus updates the payment flag on a booking.
	SetPaymentStatus(id, paymentStatus string) error

	// AssignIfPending binds a sevak iff the booking is still pending,
	// unassigned and scheduled for today or later — the compare-and-swap
	// guarding the self-accept race.
	AssignIfPending(id, sevakID string, entry models.TimelineEntry) (*models.Booking, error)
	// Assign binds (or rebinds) a sevak on any non-terminal booking; used
	// by admin assignment.
	Assign(id, sevakID string, entry models.TimelineEntry) error

	// CheckIn consumes the OTP: transitions assigned → in-progress, clears
	// the stored OTP and records the check-in time, all in one update.
	CheckIn(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error
	// IncrementOTPAttempts bumps the failed-attempt counter.
	IncrementOTPAttempts(id string) error
	// CheckOut stamps the check-out time on an in-progress booking without
	// changing status.
	CheckOut(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error
	// Complete transitions in-progress → completed and inserts the earnings
	// row inside one Mongo transaction.
	Complete(ctx context.Context, id, sevakID, notes string, beforeImages, afterImages []string, entry models.TimelineEntry, earning *models.Earning) error

	// Issues.
	CreateIssue(issue *models.Issue) error

	// Analytics aggregations.
	CountsByStatus() ([]StatusCount, error)
	CompletedRevenue() (float64, error)
	DailyCounts(fromDate, toDate string) ([]DailyCount, error)
}
