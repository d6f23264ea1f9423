package booking

import (
	"fmt"
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// How many fresh booking numbers to try before giving up on the unique
// index race.
const maxBookingNumberAttempts = 5

// Create books a service slot for a resident. The booking number is
// generated and retried on collision; the unique index is the arbiter.
func (s *DefaultBookingService) Create(residentID string, req models.CreateBookingRequest) (*models.Booking, error) {
	service, err := s.CatalogRepo.GetServiceByID(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.IsActive {
		return nil, utils.NewNotFound("service")
	}

	if err := validateSlot(req.ScheduledDate, req.ScheduledTime); err != nil {
		return nil, err
	}

	available, err := s.AvailableSlots(req.ServiceID, req.ScheduledDate)
	if err != nil {
		return nil, err
	}
	if !containsSlot(available, req.ScheduledTime) {
		return nil, utils.NewConflict("the requested slot is not available")
	}

	otp, err := utils.GenerateNumericOTP(6)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &models.Booking{
		ID:                  uuid.New().String(),
		ResidentID:          residentID,
		ServiceID:           service.ID,
		ScheduledDate:       req.ScheduledDate,
		ScheduledTime:       req.ScheduledTime,
		EstimatedDuration:   service.DurationMinutes,
		Status:              models.BookingStatusPending,
		BasePrice:           service.BasePrice,
		TotalAmount:         service.BasePrice,
		PaymentStatus:       models.PaymentStatusUnpaid,
		Address:             req.Address,
		SpecialInstructions: req.SpecialInstructions,
		CheckInOTP:          otp,
		Timeline: []models.TimelineEntry{{
			Status:    models.BookingStatusPending,
			Timestamp: now,
			Notes:     "booking created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; ; attempt++ {
		booking.BookingNumber = newBookingNumber(now)
		err = s.Repo.Create(booking)
		if err == nil {
			break
		}
		if err != bookingRepo.ErrDuplicateBookingNumber || attempt+1 >= maxBookingNumberAttempts {
			return nil, err
		}
	}

	if err := s.CatalogRepo.IncrementBookingCount(service.ID); err != nil {
		utils.GetLogger().Warn("Create: failed to bump booking count",
			zap.String("serviceId", service.ID), zap.Error(err))
	}

	s.Notifier.Notify(residentID, models.NotificationBookingCreated,
		"Booking confirmed",
		fmt.Sprintf("Your booking %s for %s on %s at %s has been created.",
			booking.BookingNumber, service.Name, booking.ScheduledDate, booking.ScheduledTime),
		map[string]string{"bookingId": booking.ID})

	if err := s.Notifier.ScheduleReminder(booking); err != nil {
		utils.GetLogger().Warn("Create: failed to schedule reminder",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	utils.GetLogger().Info("Created booking",
		zap.String("bookingId", booking.ID), zap.String("bookingNumber", booking.BookingNumber))
	return booking, nil
}

// newBookingNumber builds a GS-YYYYMMDD-XXXX candidate. The random suffix
// keeps numbers unguessable; uniqueness comes from the index.
func newBookingNumber(at time.Time) string {
	suffix, err := utils.GenerateNumericOTP(4)
	if err != nil {
		suffix = fmt.Sprintf("%04d", at.UnixNano()%10000)
	}
	return fmt.Sprintf("GS-%s-%s", at.Format("20060102"), suffix)
}

// Get fetches a booking with visibility enforcement.
func (s *DefaultBookingService) Get(bookingID, callerID, callerRole string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}

	switch callerRole {
	case models.RoleAdmin:
	case models.RoleResident:
		if booking.ResidentID != callerID {
			return nil, utils.NewForbidden("booking belongs to another resident")
		}
	case models.RoleSevak:
		if booking.SevakID == nil || *booking.SevakID != callerID {
			return nil, utils.NewForbidden("booking is not assigned to you")
		}
	default:
		return nil, utils.NewForbidden("unknown role")
	}
	return booking, nil
}

// ListForResident pages the resident's booking history.
func (s *DefaultBookingService) ListForResident(residentID, status string, page, limit int) ([]models.Booking, int64, error) {
	return s.Repo.ListByResident(residentID, status, page, limit)
}

// ListForSevak pages the sevak's assigned jobs.
func (s *DefaultBookingService) ListForSevak(sevakID, status string, page, limit int) ([]models.Booking, int64, error) {
	return s.Repo.ListBySevak(sevakID, status, page, limit)
}

// ListOpenJobs lists unassigned pending bookings from today onwards, for
// the sevak self-accept feed.
func (s *DefaultBookingService) ListOpenJobs(page, limit int) ([]models.Booking, int64, error) {
	today := time.Now().Format("2006-01-02")
	return s.Repo.ListOpenJobs(today, page, limit)
}

// RevealCheckInOTP returns the OTP to the booking's resident. Sevaks never
// see the code through the API; it travels resident → sevak in person.
func (s *DefaultBookingService) RevealCheckInOTP(bookingID, residentID string) (string, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return "", err
	}
	if booking == nil {
		return "", utils.NewNotFound("booking")
	}
	if booking.ResidentID != residentID {
		return "", utils.NewForbidden("booking belongs to another resident")
	}
	if booking.CheckInOTP == "" {
		return "", utils.NewValidation("booking has no active check-in code")
	}
	return booking.CheckInOTP, nil
}
