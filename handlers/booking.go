package handlers

import (
	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler books a service slot for the resident.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.BookingSvc.Create(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Booking created", booking)
}

// GetBookingHandler fetches one booking with visibility enforcement.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	booking, err := hb.BookingSvc.Get(c.Param("id"), middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking", booking)
}

// MyBookingsHandler pages the resident's booking history, optionally by
// status.
func (hb *HandlerBundle) MyBookingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	bookings, total, err := hb.BookingSvc.ListForResident(middleware.CallerID(c), c.Query("status"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Bookings", bookings, utils.NewPagination(page, limit, total))
}

// RescheduleBookingHandler moves a booking to a new slot.
func (hb *HandlerBundle) RescheduleBookingHandler(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.BookingSvc.Reschedule(c.Param("id"), middleware.CallerID(c), middleware.CallerRole(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking rescheduled", booking)
}

// CancelBookingHandler cancels a booking.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.BookingSvc.Cancel(c.Param("id"), middleware.CallerID(c), middleware.CallerRole(c), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking cancelled", booking)
}

// BookingOTPHandler reveals the check-in code to the booking's resident.
func (hb *HandlerBundle) BookingOTPHandler(c *gin.Context) {
	otp, err := hb.BookingSvc.RevealCheckInOTP(c.Param("id"), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Check-in code", gin.H{"otp": otp})
}

// ReportIssueHandler attaches a problem report to a booking.
func (hb *HandlerBundle) ReportIssueHandler(c *gin.Context) {
	var req models.ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	issue, err := hb.BookingSvc.ReportIssue(c.Param("id"), middleware.CallerID(c), middleware.CallerRole(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Issue reported", issue)
}

// AvailabilityHandler lists free slots for a service on a date.
func (hb *HandlerBundle) AvailabilityHandler(c *gin.Context) {
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		utils.RespondError(c, utils.NewValidation("serviceId and date are required"))
		return
	}

	slots, err := hb.BookingSvc.AvailableSlots(serviceID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Available slots", gin.H{"date": date, "slots": slots})
}

// RatingForBookingHandler returns a booking's rating.
func (hb *HandlerBundle) RatingForBookingHandler(c *gin.Context) {
	rating, err := hb.RatingSvc.ForBooking(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Rating", rating)
}

// CreateRatingHandler records the resident's rating for a completed
// booking.
func (hb *HandlerBundle) CreateRatingHandler(c *gin.Context) {
	var req models.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	rating, err := hb.RatingSvc.Rate(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Rating recorded", rating)
}

// AssignmentHistoryHandler returns a booking's assignment log.
func (hb *HandlerBundle) AssignmentHistoryHandler(c *gin.Context) {
	history, err := hb.AssignmentSvc.History(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Assignment history", history)
}
