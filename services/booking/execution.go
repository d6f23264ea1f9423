package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	"gharseva/config"
	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Platform commission rate applied at completion.
const commissionRate = 0.10

// CheckIn verifies the resident's OTP and moves the job to in-progress.
// The code is single-use and attempt-limited; the repository clears it in
// the same write that flips the status.
func (s *DefaultBookingService) CheckIn(sevakID string, req models.CheckInRequest) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if booking.SevakID == nil || *booking.SevakID != sevakID {
		return nil, utils.NewForbidden("booking is not assigned to you")
	}
	if !models.CanTransition(booking.Status, models.BookingStatusInProgress) {
		return nil, utils.NewValidation("check-in requires an assigned booking")
	}

	maxAttempts := config.AppConfig.CheckInOTPAttempts
	if booking.CheckInOTPAttempts >= maxAttempts {
		return nil, utils.NewForbidden("check-in code locked after too many failed attempts")
	}

	if booking.CheckInOTP == "" || !utils.SecureCompare(booking.CheckInOTP, req.OTP) {
		if err := s.Repo.IncrementOTPAttempts(booking.ID); err != nil {
			utils.GetLogger().Error("CheckIn: failed to record bad attempt",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
		return nil, utils.NewValidation("incorrect check-in code")
	}

	now := time.Now()
	entry := models.TimelineEntry{
		Status:    models.BookingStatusInProgress,
		Timestamp: now,
		Notes:     "sevak checked in",
	}
	if err := s.Repo.CheckIn(booking.ID, sevakID, now, req.Location, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}

	s.Notifier.Notify(booking.ResidentID, models.NotificationBookingInProgress,
		"Work started",
		fmt.Sprintf("Your sevak has checked in for booking %s.", booking.BookingNumber),
		map[string]string{"bookingId": booking.ID})

	return s.Repo.GetByID(booking.ID)
}

// CheckOut stamps the end of on-site work. The booking stays in-progress:
// completion is a separate step with the report attached.
func (s *DefaultBookingService) CheckOut(sevakID string, req models.CheckOutRequest) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if booking.SevakID == nil || *booking.SevakID != sevakID {
		return nil, utils.NewForbidden("booking is not assigned to you")
	}
	if booking.Status != models.BookingStatusInProgress {
		return nil, utils.NewValidation("check-out requires an in-progress booking")
	}

	now := time.Now()
	entry := models.TimelineEntry{
		Status:    models.BookingStatusInProgress,
		Timestamp: now,
		Notes:     "sevak checked out",
	}
	if err := s.Repo.CheckOut(booking.ID, sevakID, now, req.Location, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}
	return s.Repo.GetByID(booking.ID)
}

// Complete finalizes an in-progress job: the status flip and the earnings
// split land in one transaction, so a completed booking always has exactly
// one ledger row.
func (s *DefaultBookingService) Complete(bookingID, sevakID, notes string, beforeImages, afterImages []string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if booking.SevakID == nil || *booking.SevakID != sevakID {
		return nil, utils.NewForbidden("booking is not assigned to you")
	}
	if !models.CanTransition(booking.Status, models.BookingStatusCompleted) {
		return nil, utils.NewValidation("completion requires an in-progress booking")
	}
	if booking.CheckOutTime == nil {
		return nil, utils.NewValidation("check out before completing the job")
	}

	// Commission rounds to the nearest rupee; the sevak keeps the paise.
	commission := math.Round(booking.TotalAmount * commissionRate)
	now := time.Now()
	earning := &models.Earning{
		ID:         uuid.New().String(),
		SevakID:    sevakID,
		BookingID:  booking.ID,
		Amount:     booking.TotalAmount,
		Commission: commission,
		NetAmount:  booking.TotalAmount - commission,
		Status:     models.EarningStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	entry := models.TimelineEntry{
		Status:    models.BookingStatusCompleted,
		Timestamp: now,
		Notes:     "job completed",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.Repo.Complete(ctx, booking.ID, sevakID, notes, beforeImages, afterImages, entry, earning); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}

	s.Notifier.Notify(booking.ResidentID, models.NotificationBookingCompleted,
		"Job completed",
		fmt.Sprintf("Booking %s is complete. Please rate the service.", booking.BookingNumber),
		map[string]string{"bookingId": booking.ID})

	utils.GetLogger().Info("Completed booking",
		zap.String("bookingId", booking.ID), zap.Float64("netAmount", earning.NetAmount))
	return s.Repo.GetByID(booking.ID)
}

// ReportIssue attaches a problem report to a booking. Either party may
// report; admins may report on anyone's behalf.
func (s *DefaultBookingService) ReportIssue(bookingID, reporterID, reporterRole string, req models.ReportIssueRequest) (*models.Issue, error) {
	if _, err := s.Get(bookingID, reporterID, reporterRole); err != nil {
		return nil, err
	}

	issue := &models.Issue{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		ReportedBy:  reporterID,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.Repo.CreateIssue(issue); err != nil {
		return nil, err
	}
	return issue, nil
}
