package booking

import (
	"fmt"
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"

	"go.uber.org/zap"
)

// Reschedule moves a booking to a new slot. Allowed while the job has not
// started; the conditional update loses cleanly if the status moved on
// between the read and the write.
func (s *DefaultBookingService) Reschedule(bookingID, callerID, callerRole string, req models.RescheduleRequest) (*models.Booking, error) {
	booking, err := s.Get(bookingID, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusInProgress {
		return nil, utils.NewValidation("cannot reschedule a job that is in progress")
	}
	if models.IsTerminalStatus(booking.Status) {
		return nil, utils.NewValidation("cannot reschedule a " + booking.Status + " booking")
	}
	if err := validateSlot(req.NewDate, req.NewTime); err != nil {
		return nil, err
	}

	available, err := s.AvailableSlots(booking.ServiceID, req.NewDate)
	if err != nil {
		return nil, err
	}
	if !containsSlot(available, req.NewTime) {
		return nil, utils.NewConflict("the requested slot is not available")
	}

	entry := models.TimelineEntry{
		Status:    booking.Status,
		Timestamp: time.Now(),
		Notes:     fmt.Sprintf("rescheduled to %s %s", req.NewDate, req.NewTime),
	}
	if err := s.Repo.Reschedule(bookingID, req.NewDate, req.NewTime, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}

	s.notifyParties(booking, models.NotificationBookingRescheduled, "Booking rescheduled",
		fmt.Sprintf("Booking %s moved to %s at %s.", booking.BookingNumber, req.NewDate, req.NewTime))

	return s.Repo.GetByID(bookingID)
}

// Cancel moves a booking to cancelled. A paid booking is refunded in full;
// an unpaid one carries a zero refund. Sevaks cannot cancel.
func (s *DefaultBookingService) Cancel(bookingID, callerID, callerRole, reason string) (*models.Booking, error) {
	if callerRole == models.RoleSevak {
		return nil, utils.NewForbidden("sevaks cannot cancel bookings")
	}

	booking, err := s.Get(bookingID, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(booking.Status, models.BookingStatusCancelled) {
		return nil, utils.NewValidation("cannot cancel a " + booking.Status + " booking")
	}

	refund := 0.0
	if booking.PaymentStatus == models.PaymentStatusPaid {
		refund = booking.TotalAmount
	}

	entry := models.TimelineEntry{
		Status:    models.BookingStatusCancelled,
		Timestamp: time.Now(),
		Notes:     reason,
	}
	if err := s.Repo.Cancel(bookingID, callerID, reason, refund, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}

	s.notifyParties(booking, models.NotificationBookingCancelled, "Booking cancelled",
		fmt.Sprintf("Booking %s has been cancelled.", booking.BookingNumber))

	utils.GetLogger().Info("Cancelled booking",
		zap.String("bookingId", bookingID), zap.Float64("refund", refund))
	return s.Repo.GetByID(bookingID)
}

// notifyParties informs the resident and, when assigned, the sevak.
func (s *DefaultBookingService) notifyParties(booking *models.Booking, notifType, title, body string) {
	data := map[string]string{"bookingId": booking.ID}
	s.Notifier.Notify(booking.ResidentID, notifType, title, body, data)
	if booking.SevakID != nil && *booking.SevakID != "" {
		s.Notifier.Notify(*booking.SevakID, notifType, title, body, data)
	}
}
