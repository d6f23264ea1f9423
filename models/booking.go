package models

import "time"

// Booking statuses. Cancelled and refunded are absorbing states reachable
// from any non-terminal status; completed is terminal.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusAssigned   = "assigned"
	BookingStatusInProgress = "in-progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusRefunded   = "refunded"
)

// Payment statuses.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// IsTerminalStatus reports whether a booking status admits no further
// transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether the status edge from → to exists in the
// booking state machine.
func CanTransition(from, to string) bool {
	// Refund is the one edge out of a terminal status: a cancelled, paid
	// booking becomes refunded once the gateway confirms.
	if from == BookingStatusCancelled && to == BookingStatusRefunded {
		return true
	}
	if IsTerminalStatus(from) {
		return false
	}
	switch to {
	case BookingStatusCancelled:
		return true
	case BookingStatusRefunded:
		return false
	case BookingStatusConfirmed:
		return from == BookingStatusPending
	case BookingStatusAssigned:
		return from == BookingStatusPending || from == BookingStatusConfirmed || from == BookingStatusAssigned
	case BookingStatusInProgress:
		return from == BookingStatusAssigned
	case BookingStatusCompleted:
		return from == BookingStatusInProgress
	}
	return false
}

// TimelineEntry is one row of a booking's append-only audit trail.
type TimelineEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Location is a latitude/longitude pair reported at check-in/out.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Booking is the central entity of the marketplace.
type Booking struct {
	ID            string `bson:"id" json:"id"`
	BookingNumber string `bson:"booking_number" json:"bookingNumber"`

	ResidentID string  `bson:"resident_id" json:"residentId"`
	SevakID    *string `bson:"sevak_id,omitempty" json:"sevakId,omitempty"`
	ServiceID  string  `bson:"service_id" json:"serviceId"`

	// Scheduling. Date is "YYYY-MM-DD"; time is a free-text slot label
	// such as "10:00".
	ScheduledDate     string `bson:"scheduled_date" json:"scheduledDate"`
	ScheduledTime     string `bson:"scheduled_time" json:"scheduledTime"`
	EstimatedDuration int    `bson:"estimated_duration" json:"estimatedDuration"`

	Status string `bson:"status" json:"status"`

	// Pricing, fixed at creation from the service's base price.
	BasePrice         float64 `bson:"base_price" json:"basePrice"`
	AdditionalCharges float64 `bson:"additional_charges" json:"additionalCharges"`
	Discount          float64 `bson:"discount" json:"discount"`
	TotalAmount       float64 `bson:"total_amount" json:"totalAmount"`
	PaymentStatus     string  `bson:"payment_status" json:"paymentStatus"`

	Address             string `bson:"address" json:"address"`
	SpecialInstructions string `bson:"special_instructions,omitempty" json:"specialInstructions,omitempty"`

	// Execution record. The check-in OTP is single-use and attempt-limited;
	// it is cleared once consumed.
	CheckInOTP         string     `bson:"check_in_otp,omitempty" json:"-"`
	CheckInOTPAttempts int        `bson:"check_in_otp_attempts" json:"-"`
	CheckInTime        *time.Time `bson:"check_in_time,omitempty" json:"checkInTime,omitempty"`
	CheckOutTime       *time.Time `bson:"check_out_time,omitempty" json:"checkOutTime,omitempty"`
	CheckInLocation    *Location  `bson:"check_in_location,omitempty" json:"checkInLocation,omitempty"`
	CheckOutLocation   *Location  `bson:"check_out_location,omitempty" json:"checkOutLocation,omitempty"`
	BeforeImages       []string   `bson:"before_images,omitempty" json:"beforeImages,omitempty"`
	AfterImages        []string   `bson:"after_images,omitempty" json:"afterImages,omitempty"`
	CompletionNotes    string     `bson:"completion_notes,omitempty" json:"completionNotes,omitempty"`
	ReportedIssues     []string   `bson:"reported_issues,omitempty" json:"reportedIssues,omitempty"`

	// Cancellation record.
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	RefundAmount       float64    `bson:"refund_amount" json:"refundAmount"`

	Timeline []TimelineEntry `bson:"timeline" json:"timeline"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CreateBookingRequest is the resident payload for creating a booking.
type CreateBookingRequest struct {
	ServiceID           string `json:"serviceId" binding:"required"`
	ScheduledDate       string `json:"scheduledDate" binding:"required,datetime=2006-01-02"`
	ScheduledTime       string `json:"scheduledTime" binding:"required"`
	Address             string `json:"address" binding:"required"`
	SpecialInstructions string `json:"specialInstructions"`
}

// RescheduleRequest moves a booking to a new date/time.
type RescheduleRequest struct {
	NewDate string `json:"newDate" binding:"required,datetime=2006-01-02"`
	NewTime string `json:"newTime" binding:"required"`
}

// CancelRequest cancels a booking.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CheckInRequest is the sevak payload for OTP-gated check-in.
type CheckInRequest struct {
	BookingID string    `json:"bookingId" binding:"required"`
	OTP       string    `json:"otp" binding:"required,len=6"`
	Location  *Location `json:"location"`
}

// CheckOutRequest records the end of on-site work.
type CheckOutRequest struct {
	BookingID string    `json:"bookingId" binding:"required"`
	Location  *Location `json:"location"`
}

// CompleteRequest finalizes a job. Images arrive as multipart files and are
// uploaded to the image store before the service call.
type CompleteRequest struct {
	CompletionNotes string   `form:"completionNotes" json:"completionNotes" binding:"required"`
	ChecklistItems  []string `form:"checklistItems" json:"checklistItems"`
}

// ReportIssueRequest attaches an issue to a booking.
type ReportIssueRequest struct {
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
}
