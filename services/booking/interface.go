package booking

import (
	"gharseva/models"

	bookingRepo "gharseva/database/repository/booking"
	catalogRepo "gharseva/database/repository/catalog"
	userRepo "gharseva/database/repository/user"

	"gharseva/services/notification"
)

// BookingService drives the booking lifecycle from creation through
// completion or cancellation.
type BookingService interface {
	Create(residentID string, req models.CreateBookingRequest) (*models.Booking, error)
	// Get enforces visibility: residents see their own bookings, sevaks
	// the ones assigned to them, admins everything.
	Get(bookingID, callerID, callerRole string) (*models.Booking, error)

	ListForResident(residentID, status string, page, limit int) ([]models.Booking, int64, error)
	ListForSevak(sevakID, status string, page, limit int) ([]models.Booking, int64, error)
	ListOpenJobs(page, limit int) ([]models.Booking, int64, error)

	Reschedule(bookingID, callerID, callerRole string, req models.RescheduleRequest) (*models.Booking, error)
	Cancel(bookingID, callerID, callerRole, reason string) (*models.Booking, error)

	// CheckIn consumes the resident's OTP and moves the job to in-progress.
	CheckIn(sevakID string, req models.CheckInRequest) (*models.Booking, error)
	// CheckOut stamps the end of on-site work; status stays in-progress
	// until the sevak submits the completion report.
	CheckOut(sevakID string, req models.CheckOutRequest) (*models.Booking, error)
	// Complete finalizes the job and writes the earnings split atomically.
	Complete(bookingID, sevakID, notes string, beforeImages, afterImages []string) (*models.Booking, error)

	ReportIssue(bookingID, reporterID, reporterRole string, req models.ReportIssueRequest) (*models.Issue, error)

	// AvailableSlots lists the free hourly slots for a service on a date.
	AvailableSlots(serviceID, date string) ([]string, error)

	// RevealCheckInOTP returns the booking's OTP to its resident so they
	// can hand it to the sevak at the door.
	RevealCheckInOTP(bookingID, residentID string) (string, error)
}

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	CatalogRepo catalogRepo.CatalogRepository
	UserRepo    userRepo.UserRepository
	Notifier    notification.NotificationService
}

// NewBookingService wires a BookingService over its repositories.
func NewBookingService(
	repo bookingRepo.BookingRepository,
	catalog catalogRepo.CatalogRepository,
	users userRepo.UserRepository,
	notifier notification.NotificationService,
) BookingService {
	return &DefaultBookingService{Repo: repo, CatalogRepo: catalog, UserRepo: users, Notifier: notifier}
}
